// Package store implements persistence on postgres (GORM) and redis.
package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

// notFound maps gorm.ErrRecordNotFound to the given domain error.
func notFound(err, domain error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain
	}
	return err
}

func paginate(p models.Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(p.Size).Offset(p.Offset())
	}
}

// unscoped preloads relations even when they were soft-deleted.
func unscoped(db *gorm.DB) *gorm.DB { return db.Unscoped() }
