package database

import (
	"fmt"

	"github.com/alkmanistik/alkify-music-api/internal/models"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	entities := []any{
		&models.User{},
		&models.Artist{},
		&models.Album{},
		&models.Track{},
	}

	for _, entity := range entities {
		if err := db.AutoMigrate(entity); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", entity, err)
		}
	}
	return nil
}
