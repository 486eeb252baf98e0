package catalog

import (
	"slices"

	"github.com/bilemo/api/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ImageSpec describes an image to create
type ImageSpec struct {
	URL string
}

// ConfigurationSpec describes a configuration to create with its images
type ConfigurationSpec struct {
	Capacity string
	Color    string
	Price    decimal.Decimal
	Images   []ImageSpec
}

// ConfigurationPatch describes changes to an existing configuration.
// Nil fields are left untouched. Remove detaches the whole configuration.
type ConfigurationPatch struct {
	Color          *string
	Capacity       *string
	Price          *decimal.Decimal
	Images         []ImageSpec
	RemoveImageIDs []int64
	Remove         bool
}

// ErrConfigurationNotFound is returned when a patch targets a configuration the product does not own
var ErrConfigurationNotFound = shared.NewNotFoundError("configuration n'existe pas")

// AddConfiguration builds a configuration from spec, with its images, and attaches it to the product
func (p *Product) AddConfiguration(spec ConfigurationSpec) *Configuration {
	cfg := NewConfiguration(spec.Color, spec.Capacity, spec.Price)
	for _, img := range spec.Images {
		cfg.AddImage(NewImage(img.URL))
	}
	p.AttachConfiguration(cfg)
	return cfg
}

// AttachConfiguration makes the product the owner of cfg
func (p *Product) AttachConfiguration(cfg *Configuration) {
	if cfg.product == p {
		return
	}
	if cfg.product != nil {
		cfg.product.detachConfiguration(cfg)
	}
	cfg.product = p
	p.configurations = append(p.configurations, cfg)
}

// UpdateConfiguration applies patch to the configuration identified by id
func (p *Product) UpdateConfiguration(id int64, patch ConfigurationPatch) error {
	cfg, ok := p.Configuration(id)
	if !ok {
		return ErrConfigurationNotFound
	}
	if patch.Remove {
		p.RemoveConfiguration(cfg)
		return nil
	}

	setIfPresent(&cfg.Color, patch.Color)
	setIfPresent(&cfg.Capacity, patch.Capacity)
	setIfPresent(&cfg.Price, patch.Price)

	for _, imageID := range patch.RemoveImageIDs {
		p.removeImage(cfg, imageID)
	}
	for _, img := range patch.Images {
		cfg.AddImage(NewImage(img.URL))
	}
	return nil
}

// RemoveConfiguration detaches cfg. Persisted configurations and their images
// are scheduled for deletion.
func (p *Product) RemoveConfiguration(cfg *Configuration) {
	if !p.detachConfiguration(cfg) {
		return
	}
	if cfg.ID != 0 {
		p.orphans.ConfigurationIDs = append(p.orphans.ConfigurationIDs, cfg.ID)
	}
	for _, img := range cfg.images {
		if img.ID != 0 {
			p.orphans.ImageIDs = append(p.orphans.ImageIDs, img.ID)
		}
	}
}

func (p *Product) detachConfiguration(cfg *Configuration) bool {
	i := slices.Index(p.configurations, cfg)
	if i < 0 {
		return false
	}
	p.configurations = slices.Delete(p.configurations, i, i+1)
	cfg.product = nil
	return true
}

// removeImage detaches the image with imageID from cfg. Unknown IDs are ignored.
func (p *Product) removeImage(cfg *Configuration, imageID int64) {
	for _, img := range cfg.images {
		if img.ID != 0 && img.ID == imageID {
			cfg.detachImage(img)
			p.orphans.ImageIDs = append(p.orphans.ImageIDs, img.ID)
			return
		}
	}
}
