package catalog

import (
	"github.com/bilemo/api/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ImageRequest describes an image to create
type ImageRequest struct {
	URL string `json:"url"`
}

// ConfigurationRequest describes a configuration to create with its images
type ConfigurationRequest struct {
	Capacity string          `json:"capacity"`
	Color    string          `json:"color"`
	Price    decimal.Decimal `json:"price"`
	Images   []ImageRequest  `json:"images"`
}

// ConfigurationUpdateRequest changes one existing configuration of a product.
// Remove deletes the configuration with its images; the other fields are then ignored.
type ConfigurationUpdateRequest struct {
	ID             int64            `json:"id" binding:"required,gt=0"`
	Color          *string          `json:"color"`
	Capacity       *string          `json:"capacity"`
	Price          *decimal.Decimal `json:"price"`
	Images         []ImageRequest   `json:"images"`
	RemoveIDImages []int64          `json:"removeIdImages"`
	Remove         bool             `json:"remove"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	Manufacturer   string                 `json:"manufacturer"`
	ScreenSize     float64                `json:"screenSize"`
	Camera         bool                   `json:"camera"`
	Bluetooth      bool                   `json:"bluetooth"`
	Wifi           bool                   `json:"wifi"`
	Length         float64                `json:"length"`
	Width          float64                `json:"width"`
	Height         float64                `json:"height"`
	Weight         float64                `json:"weight"`
	DAS            float64                `json:"das"`
	Configurations []ConfigurationRequest `json:"configurations"`
}

// UpdateProductRequest represents a partial product update. Nil fields are left
// untouched, Configurations are added and DataConfigurations change existing ones.
type UpdateProductRequest struct {
	Name               *string                      `json:"name"`
	Description        *string                      `json:"description"`
	Manufacturer       *string                      `json:"manufacturer"`
	ScreenSize         *float64                     `json:"screenSize"`
	Camera             *bool                        `json:"camera"`
	Bluetooth          *bool                        `json:"bluetooth"`
	Wifi               *bool                        `json:"wifi"`
	Length             *float64                     `json:"length"`
	Width              *float64                     `json:"width"`
	Height             *float64                     `json:"height"`
	Weight             *float64                     `json:"weight"`
	DAS                *float64                     `json:"das"`
	Configurations     []ConfigurationRequest       `json:"configurations"`
	DataConfigurations []ConfigurationUpdateRequest `json:"dataConfigurations" binding:"omitempty,dive"`
}

func (r ConfigurationRequest) spec() catalog.ConfigurationSpec {
	return catalog.ConfigurationSpec{
		Capacity: r.Capacity,
		Color:    r.Color,
		Price:    r.Price,
		Images:   imageSpecs(r.Images),
	}
}

func (r ConfigurationUpdateRequest) patch() catalog.ConfigurationPatch {
	return catalog.ConfigurationPatch{
		Color:          r.Color,
		Capacity:       r.Capacity,
		Price:          r.Price,
		Images:         imageSpecs(r.Images),
		RemoveImageIDs: r.RemoveIDImages,
		Remove:         r.Remove,
	}
}

func (r UpdateProductRequest) patch() catalog.ProductPatch {
	return catalog.ProductPatch{
		Name:         r.Name,
		Description:  r.Description,
		Manufacturer: r.Manufacturer,
		ScreenSize:   r.ScreenSize,
		Camera:       r.Camera,
		Bluetooth:    r.Bluetooth,
		Wifi:         r.Wifi,
		Length:       r.Length,
		Width:        r.Width,
		Height:       r.Height,
		Weight:       r.Weight,
		DAS:          r.DAS,
	}
}

func (r CreateProductRequest) attributes() catalog.ProductAttributes {
	return catalog.ProductAttributes{
		Name:         r.Name,
		Description:  r.Description,
		Manufacturer: r.Manufacturer,
		ScreenSize:   r.ScreenSize,
		Camera:       r.Camera,
		Bluetooth:    r.Bluetooth,
		Wifi:         r.Wifi,
		Length:       r.Length,
		Width:        r.Width,
		Height:       r.Height,
		Weight:       r.Weight,
		DAS:          r.DAS,
	}
}

func imageSpecs(reqs []ImageRequest) []catalog.ImageSpec {
	specs := make([]catalog.ImageSpec, len(reqs))
	for i, r := range reqs {
		specs[i] = catalog.ImageSpec{URL: r.URL}
	}
	return specs
}
