package database

import (
	"fmt"

	"proptrackrr/web/internal/models"
)

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(&models.Session{}); err != nil {
		return fmt.Errorf("failed to migrate sessions table: %w", err)
	}
	return nil
}
