package database

import (
	"strings"

	"bioatlas-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens a GORM DB from a DSN. Postgres URLs get PreferSimpleProtocol to
// avoid 42P05 ("prepared statement already exists") behind connection
// poolers (PgBouncer and managed equivalents); anything else is treated as a
// sqlite file path, which is what the loader writes locally.
func Open(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

// AutoMigrate creates the three reference tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Company{}, &models.Midpoint{}, &models.Endpoint{})
}
