package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bilemo/api/internal/domain/shared"
)

// Product is a phone model sold through the API. It owns its configurations:
// a configuration removed from the product is deleted with its images.
type Product struct {
	shared.BaseEntity
	Name         string
	Description  string
	Manufacturer string
	ScreenSize   float64
	Camera       bool
	Bluetooth    bool
	Wifi         bool
	Length       float64
	Width        float64
	Height       float64
	Weight       float64
	DAS          float64

	configurations []*Configuration
	orphans        Orphans
}

// Orphans lists persisted children detached from a product since it was loaded
type Orphans struct {
	ConfigurationIDs []int64
	ImageIDs         []int64
}

// Empty reports whether nothing is waiting for deletion
func (o Orphans) Empty() bool {
	return len(o.ConfigurationIDs) == 0 && len(o.ImageIDs) == 0
}

// ProductAttributes carries the descriptive fields of a product
type ProductAttributes struct {
	Name         string
	Description  string
	Manufacturer string
	ScreenSize   float64
	Camera       bool
	Bluetooth    bool
	Wifi         bool
	Length       float64
	Width        float64
	Height       float64
	Weight       float64
	DAS          float64
}

// NewProduct creates a product without configurations
func NewProduct(attrs ProductAttributes) *Product {
	return &Product{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         strings.TrimSpace(attrs.Name),
		Description:  attrs.Description,
		Manufacturer: strings.TrimSpace(attrs.Manufacturer),
		ScreenSize:   attrs.ScreenSize,
		Camera:       attrs.Camera,
		Bluetooth:    attrs.Bluetooth,
		Wifi:         attrs.Wifi,
		Length:       attrs.Length,
		Width:        attrs.Width,
		Height:       attrs.Height,
		Weight:       attrs.Weight,
		DAS:          attrs.DAS,
	}
}

// ProductPatch holds the fields of a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name         *string
	Description  *string
	Manufacturer *string
	ScreenSize   *float64
	Camera       *bool
	Bluetooth    *bool
	Wifi         *bool
	Length       *float64
	Width        *float64
	Height       *float64
	Weight       *float64
	DAS          *float64
}

// Apply copies every present field onto the product
func (patch ProductPatch) Apply(p *Product) {
	setIfPresent(&p.Name, patch.Name)
	setIfPresent(&p.Description, patch.Description)
	setIfPresent(&p.Manufacturer, patch.Manufacturer)
	setIfPresent(&p.ScreenSize, patch.ScreenSize)
	setIfPresent(&p.Camera, patch.Camera)
	setIfPresent(&p.Bluetooth, patch.Bluetooth)
	setIfPresent(&p.Wifi, patch.Wifi)
	setIfPresent(&p.Length, patch.Length)
	setIfPresent(&p.Width, patch.Width)
	setIfPresent(&p.Height, patch.Height)
	setIfPresent(&p.Weight, patch.Weight)
	setIfPresent(&p.DAS, patch.DAS)
}

func setIfPresent[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Configurations returns a snapshot of the product's configurations
func (p *Product) Configurations() []*Configuration {
	return slices.Clone(p.configurations)
}

// Configuration returns the configuration with the given ID
func (p *Product) Configuration(id int64) (*Configuration, bool) {
	for _, c := range p.configurations {
		if c.ID != 0 && c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Orphans returns the persisted children that must be deleted when the product is saved
func (p *Product) Orphans() Orphans {
	return Orphans{
		ConfigurationIDs: slices.Clone(p.orphans.ConfigurationIDs),
		ImageIDs:         slices.Clone(p.orphans.ImageIDs),
	}
}

// ClearOrphans forgets pending deletions once they were flushed
func (p *Product) ClearOrphans() {
	p.orphans = Orphans{}
}

// Validate checks the product and every nested configuration and image
func (p *Product) Validate() error {
	var v shared.Violations
	if !shared.NotBlank(p.Name) {
		v.Add("name", "Le nom est obligatoire.")
	} else if !shared.LengthBetween(p.Name, 3, 255) {
		v.Add("name", shared.LengthMessage("Le nom", 3, 255))
	}
	if !shared.NotBlank(p.Description) {
		v.Add("description", "La description est obligatoire.")
	} else if !shared.LengthBetween(p.Description, 2, 0) {
		v.Add("description", shared.LengthMessage("La description", 2, 0))
	}
	if !shared.NotBlank(p.Manufacturer) {
		v.Add("manufacturer", "Le fabricant est obligatoire.")
	} else if !shared.LengthBetween(p.Manufacturer, 1, 255) {
		v.Add("manufacturer", shared.LengthMessage("Le fabricant", 1, 255))
	}
	positive := []struct {
		field string
		value float64
	}{
		{"screenSize", p.ScreenSize},
		{"length", p.Length},
		{"width", p.Width},
		{"height", p.Height},
		{"weight", p.Weight},
		{"das", p.DAS},
	}
	for _, f := range positive {
		v.Check(f.value > 0, f.field, "Cette valeur doit être positive.")
	}
	for i, c := range p.configurations {
		v.Merge(fmt.Sprintf("configurations[%d]", i), c.Validate())
	}
	return v.Err()
}
