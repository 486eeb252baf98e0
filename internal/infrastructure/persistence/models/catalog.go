package models

import (
	"time"

	"github.com/bilemo/api/internal/domain/catalog"
	"github.com/bilemo/api/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root
type ProductModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Description  string    `gorm:"type:text;not null"`
	ScreenSize   float64   `gorm:"column:screen_size;not null"`
	Camera       bool      `gorm:"not null"`
	Bluetooth    bool      `gorm:"not null"`
	Wifi         bool      `gorm:"not null"`
	Length       float64   `gorm:"not null"`
	Width        float64   `gorm:"not null"`
	Height       float64   `gorm:"not null"`
	Weight       float64   `gorm:"not null"`
	DAS          float64   `gorm:"column:das;not null"`
	Manufacturer string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"not null"`

	Configurations []ConfigurationModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "product"
}

// ConfigurationModel is the persistence model for a product configuration
type ConfigurationModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	ProductID int64           `gorm:"not null;index"`
	Color     string          `gorm:"type:varchar(255);not null"`
	Capacity  string          `gorm:"type:varchar(255);not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	Images []ImageModel `gorm:"foreignKey:ConfigurationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ConfigurationModel) TableName() string {
	return "configuration"
}

// ImageModel is the persistence model for a configuration image
type ImageModel struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	ConfigurationID int64  `gorm:"not null;index"`
	URL             string `gorm:"column:url;type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (ImageModel) TableName() string {
	return "image"
}

// ProductFromDomain builds the product row, without configurations
func ProductFromDomain(p *catalog.Product) *ProductModel {
	return &ProductModel{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		ScreenSize:   p.ScreenSize,
		Camera:       p.Camera,
		Bluetooth:    p.Bluetooth,
		Wifi:         p.Wifi,
		Length:       p.Length,
		Width:        p.Width,
		Height:       p.Height,
		Weight:       p.Weight,
		DAS:          p.DAS,
		Manufacturer: p.Manufacturer,
		CreatedAt:    p.CreatedAt,
	}
}

// ConfigurationFromDomain builds the configuration row, without images
func ConfigurationFromDomain(c *catalog.Configuration) *ConfigurationModel {
	return &ConfigurationModel{
		ID:        c.ID,
		ProductID: c.ProductID(),
		Color:     c.Color,
		Capacity:  c.Capacity,
		Price:     c.Price,
	}
}

// ImageFromDomain builds the image row
func ImageFromDomain(img *catalog.Image) *ImageModel {
	return &ImageModel{
		ID:              img.ID,
		ConfigurationID: img.ConfigurationID(),
		URL:             img.URL,
	}
}

// ToDomain rebuilds the product with its preloaded configurations and images
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseEntity:   shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt},
		Name:         m.Name,
		Description:  m.Description,
		Manufacturer: m.Manufacturer,
		ScreenSize:   m.ScreenSize,
		Camera:       m.Camera,
		Bluetooth:    m.Bluetooth,
		Wifi:         m.Wifi,
		Length:       m.Length,
		Width:        m.Width,
		Height:       m.Height,
		Weight:       m.Weight,
		DAS:          m.DAS,
	}
	for _, cm := range m.Configurations {
		cfg := catalog.NewConfiguration(cm.Color, cm.Capacity, cm.Price)
		cfg.ID = cm.ID
		for _, im := range cm.Images {
			img := catalog.NewImage(im.URL)
			img.ID = im.ID
			cfg.AddImage(img)
		}
		p.AttachConfiguration(cfg)
	}
	return p
}
