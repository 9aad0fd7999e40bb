// Package gormdb implements the repository ports on top of GORM with the
// SQLite driver.
package gormdb

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/AthrunAshy/flasky/internal/core/domain"
)

// Open connects to the SQLite database at dsn, runs the schema migration,
// and returns the handle. TranslateError is enabled so unique-constraint
// violations surface as gorm.ErrDuplicatedKey instead of driver strings.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	if err := db.AutoMigrate(&domain.Role{}, &domain.User{}); err != nil {
		return nil, fmt.Errorf("gorm migrate: %w", err)
	}

	return db, nil
}
