// Package sqlitetest opens throwaway SQLite databases carrying the full schema,
// for tests that need real SQL behaviour without a PostgreSQL server.
package sqlitetest

import (
	"testing"

	"github.com/bilemo/api/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open returns an in-memory database with every table migrated. It is closed
// when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	// the join table goes first so the many2many fields reuse its definition
	err = db.AutoMigrate(
		&models.CustomerClientModel{},
		&models.ClientModel{},
		&models.CustomerModel{},
		&models.ProductModel{},
		&models.ConfigurationModel{},
		&models.ImageModel{},
	)
	require.NoError(t, err)

	return db
}
