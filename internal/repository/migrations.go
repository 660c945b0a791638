package repository

import (
	"github.com/htmlpage/engine/internal/models"
	"gorm.io/gorm"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		&models.Role{},
		&models.HTMLPage{},
	}
}

// Migrate creates or updates the schema used by the htmlpage endpoint.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}

	migrations := []func(*gorm.DB) error{
		addHTMLPageStatusIndex,
	}
	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}
	return nil
}

// addHTMLPageStatusIndex serves the CMS listing of enabled pages.
func addHTMLPageStatusIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_htmlpage_status_role
		ON htmlpage(status, role)
	`).Error
}
