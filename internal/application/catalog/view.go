package catalog

import (
	"time"

	"github.com/bilemo/api/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// Group selects the fields a view exposes. Groups combine as bit flags.
type Group uint8

const (
	ProductDetails Group = 1 << iota
	ConfigurationsFromProduct
	ConfigurationDetails
	ImagesFromConfiguration
	ImageDetails
)

// ProductGroups is the group set used by every product endpoint
const ProductGroups = ProductDetails | ConfigurationsFromProduct | ConfigurationDetails | ImagesFromConfiguration | ImageDetails

// Has reports whether every flag of g is set
func (groups Group) Has(g Group) bool {
	return groups&g == g
}

// ProductView is the JSON projection of a product
type ProductView struct {
	ID int64 `json:"id"`
	*ProductDetailsView
	Configurations *[]ConfigurationView `json:"configurations,omitempty"`
}

// ProductDetailsView holds the descriptive fields of a product
type ProductDetailsView struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Manufacturer string    `json:"manufacturer"`
	ScreenSize   float64   `json:"screenSize"`
	Camera       bool      `json:"camera"`
	Bluetooth    bool      `json:"bluetooth"`
	Wifi         bool      `json:"wifi"`
	Length       float64   `json:"length"`
	Width        float64   `json:"width"`
	Height       float64   `json:"height"`
	Weight       float64   `json:"weight"`
	DAS          float64   `json:"das"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ConfigurationView is the JSON projection of a configuration
type ConfigurationView struct {
	ID       int64            `json:"id"`
	Color    string           `json:"color,omitempty"`
	Capacity string           `json:"capacity,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Images   *[]ImageView     `json:"images,omitempty"`
}

// ImageView is the JSON projection of an image
type ImageView struct {
	ID  int64  `json:"id"`
	URL string `json:"url,omitempty"`
}

// NewProductView projects p with the fields selected by groups
func NewProductView(p *catalog.Product, groups Group) ProductView {
	view := ProductView{ID: p.ID}
	if groups.Has(ProductDetails) {
		view.ProductDetailsView = &ProductDetailsView{
			Name:         p.Name,
			Description:  p.Description,
			Manufacturer: p.Manufacturer,
			ScreenSize:   p.ScreenSize,
			Camera:       p.Camera,
			Bluetooth:    p.Bluetooth,
			Wifi:         p.Wifi,
			Length:       p.Length,
			Width:        p.Width,
			Height:       p.Height,
			Weight:       p.Weight,
			DAS:          p.DAS,
			CreatedAt:    p.CreatedAt,
		}
	}
	if groups.Has(ConfigurationsFromProduct) {
		configurations := make([]ConfigurationView, 0, len(p.Configurations()))
		for _, cfg := range p.Configurations() {
			configurations = append(configurations, NewConfigurationView(cfg, groups))
		}
		view.Configurations = &configurations
	}
	return view
}

// NewConfigurationView projects cfg with the fields selected by groups
func NewConfigurationView(cfg *catalog.Configuration, groups Group) ConfigurationView {
	view := ConfigurationView{ID: cfg.ID}
	if groups.Has(ConfigurationDetails) {
		price := cfg.Price
		view.Color = cfg.Color
		view.Capacity = cfg.Capacity
		view.Price = &price
	}
	if groups.Has(ImagesFromConfiguration) {
		images := make([]ImageView, 0, len(cfg.Images()))
		for _, img := range cfg.Images() {
			image := ImageView{ID: img.ID}
			if groups.Has(ImageDetails) {
				image.URL = img.URL
			}
			images = append(images, image)
		}
		view.Images = &images
	}
	return view
}
