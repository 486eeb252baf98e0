package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bilemo/api/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Configuration is a purchasable variant of a product
type Configuration struct {
	ID       int64
	Color    string
	Capacity string
	Price    decimal.Decimal

	product *Product
	images  []*Image
}

// Image is a picture of one configuration
type Image struct {
	ID  int64
	URL string

	configuration *Configuration
}

// NewConfiguration creates a detached configuration
func NewConfiguration(color, capacity string, price decimal.Decimal) *Configuration {
	return &Configuration{
		Color:    strings.TrimSpace(color),
		Capacity: strings.TrimSpace(capacity),
		Price:    price,
	}
}

// NewImage creates a detached image
func NewImage(url string) *Image {
	return &Image{URL: strings.TrimSpace(url)}
}

// Product returns the owning product
func (c *Configuration) Product() *Product {
	return c.product
}

// ProductID returns the owning product's ID, zero when detached or unsaved
func (c *Configuration) ProductID() int64 {
	if c.product == nil {
		return 0
	}
	return c.product.ID
}

// Images returns a snapshot of the configuration's images
func (c *Configuration) Images() []*Image {
	return slices.Clone(c.images)
}

// AddImage attaches img to this configuration, moving it from any previous owner
func (c *Configuration) AddImage(img *Image) {
	if img.configuration == c {
		return
	}
	if img.configuration != nil {
		img.configuration.detachImage(img)
	}
	img.configuration = c
	c.images = append(c.images, img)
}

func (c *Configuration) detachImage(img *Image) bool {
	i := slices.Index(c.images, img)
	if i < 0 {
		return false
	}
	c.images = slices.Delete(c.images, i, i+1)
	img.configuration = nil
	return true
}

// Configuration returns the owning configuration
func (img *Image) Configuration() *Configuration {
	return img.configuration
}

// ConfigurationID returns the owning configuration's ID, zero when detached or unsaved
func (img *Image) ConfigurationID() int64 {
	if img.configuration == nil {
		return 0
	}
	return img.configuration.ID
}

// Validate checks the configuration and its images
func (c *Configuration) Validate() error {
	var v shared.Violations
	if !shared.NotBlank(c.Color) {
		v.Add("color", "La couleur est obligatoire.")
	} else if !shared.LengthBetween(c.Color, 3, 255) {
		v.Add("color", shared.LengthMessage("La couleur", 3, 255))
	}
	if !shared.NotBlank(c.Capacity) {
		v.Add("capacity", "La capacité de mémoire est obligatoire.")
	} else if !shared.LengthBetween(c.Capacity, 1, 255) {
		v.Add("capacity", shared.LengthMessage("La capacité de mémoire", 1, 255))
	}
	v.Check(c.Price.IsPositive(), "price", "Le prix doit obligatoire être positif.")
	for i, img := range c.images {
		v.Merge(fmt.Sprintf("images[%d]", i), img.Validate())
	}
	return v.Err()
}

// Validate checks the image URL
func (img *Image) Validate() error {
	var v shared.Violations
	switch {
	case !shared.NotBlank(img.URL):
		v.Add("url", "L'url est obligatoire.")
	case !shared.LengthBetween(img.URL, 0, 255) || !shared.IsURL(img.URL):
		v.Add("url", "Le lien doit être un url obligatoirement.")
	}
	return v.Err()
}
