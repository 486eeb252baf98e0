package persistence

import (
	"context"

	"github.com/bilemo/api/internal/domain/catalog"
	"github.com/bilemo/api/internal/domain/shared"
	"github.com/bilemo/api/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func preloadComposition(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Configurations", func(db *gorm.DB) *gorm.DB { return db.Order("configuration.id ASC") }).
		Preload("Configurations.Images", func(db *gorm.DB) *gorm.DB { return db.Order("image.id ASC") })
}

// FindByID loads a product with its configurations and images
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	err := r.db.WithContext(ctx).
		Scopes(preloadComposition).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError("find product", err)
	}
	return model.ToDomain(), nil
}

// List returns one page of products with their composition, and the total count
func (r *GormProductRepository) List(ctx context.Context, page shared.PageRequest) ([]*catalog.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Count(&total).Error; err != nil {
		return nil, 0, translateError("count products", err)
	}

	var rows []models.ProductModel
	err := r.db.WithContext(ctx).
		Scopes(paginate("product.id", page), preloadComposition).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translateError("list products", err)
	}

	products := make([]*catalog.Product, len(rows))
	for i := range rows {
		products[i] = rows[i].ToDomain()
	}
	return products, total, nil
}

// Save writes the product, its configurations and images, then deletes the
// children that were detached from it. New rows get their IDs assigned back.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	db := r.db.WithContext(ctx)

	model := models.ProductFromDomain(product)
	if product.IsNew() {
		if err := db.Omit("Configurations").Create(model).Error; err != nil {
			return translateError("create product", err)
		}
		product.ID = model.ID
	} else {
		err := db.Model(model).
			Select("name", "description", "screen_size", "camera", "bluetooth", "wifi",
				"length", "width", "height", "weight", "das", "manufacturer").
			Updates(model).Error
		if err != nil {
			return translateError("update product", err)
		}
	}

	if err := r.deleteOrphans(db, product.Orphans()); err != nil {
		return err
	}
	product.ClearOrphans()

	for _, cfg := range product.Configurations() {
		if err := r.saveConfiguration(db, cfg); err != nil {
			return err
		}
	}
	return nil
}

func (r *GormProductRepository) saveConfiguration(db *gorm.DB, cfg *catalog.Configuration) error {
	row := models.ConfigurationFromDomain(cfg)
	if cfg.ID == 0 {
		if err := db.Omit("Images").Create(row).Error; err != nil {
			return translateError("create configuration", err)
		}
		cfg.ID = row.ID
	} else {
		if err := db.Model(row).Select("color", "capacity", "price").Updates(row).Error; err != nil {
			return translateError("update configuration", err)
		}
	}

	for _, img := range cfg.Images() {
		if img.ID != 0 {
			continue
		}
		imgRow := models.ImageFromDomain(img)
		if err := db.Create(imgRow).Error; err != nil {
			return translateError("create image", err)
		}
		img.ID = imgRow.ID
	}
	return nil
}

func (r *GormProductRepository) deleteOrphans(db *gorm.DB, orphans catalog.Orphans) error {
	if len(orphans.ImageIDs) > 0 {
		if err := db.Delete(&models.ImageModel{}, orphans.ImageIDs).Error; err != nil {
			return translateError("delete orphan images", err)
		}
	}
	if len(orphans.ConfigurationIDs) > 0 {
		err := db.Where("configuration_id IN ?", orphans.ConfigurationIDs).Delete(&models.ImageModel{}).Error
		if err != nil {
			return translateError("delete orphan configuration images", err)
		}
		if err := db.Delete(&models.ConfigurationModel{}, orphans.ConfigurationIDs).Error; err != nil {
			return translateError("delete orphan configurations", err)
		}
	}
	return nil
}

// Delete removes the product with its configurations and images
func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)

	configurations := db.Model(&models.ConfigurationModel{}).Select("id").Where("product_id = ?", id)
	if err := db.Where("configuration_id IN (?)", configurations).Delete(&models.ImageModel{}).Error; err != nil {
		return translateError("delete product images", err)
	}
	if err := db.Where("product_id = ?", id).Delete(&models.ConfigurationModel{}).Error; err != nil {
		return translateError("delete product configurations", err)
	}
	result := db.Delete(&models.ProductModel{}, id)
	if result.Error != nil {
		return translateError("delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
