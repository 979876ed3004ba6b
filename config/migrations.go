package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"e24.in/crm/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250812_create_crm_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Lead{}, &models.Activity{},
					&models.Task{}, &models.Quote{}, &models.QuoteKnowledge{},
					&models.SystemSetting{})
			},
		},
		{
			ID: "20250829_add_import_jobs",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.ImportJob{})
			},
		},
	})
	return m.Migrate()
}
