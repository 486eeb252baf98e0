package persistence

import (
	"errors"
	"fmt"

	"github.com/bilemo/api/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors onto domain errors. Other errors are wrapped with op.
func translateError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// paginate applies the page window with the stable id ordering every list uses
func paginate(column string, page shared.PageRequest) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column + " ASC").Offset(page.Offset()).Limit(page.Limit)
	}
}
