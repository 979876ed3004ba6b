package handlers

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"e24.in/crm/config"
	"e24.in/crm/models"
)

var testDBSeq atomic.Int64

// setupTestDB opens a fresh in-memory database, migrates the schema and
// points the package-global connection at it for the duration of the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Lead{},
		&models.Activity{},
		&models.Task{},
		&models.Quote{},
		&models.QuoteKnowledge{},
		&models.SystemSetting{},
		&models.ImportJob{},
	))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// mustCreateLead inserts a lead with sensible defaults for tests.
func mustCreateLead(t *testing.T, db *gorm.DB, lead *models.Lead) *models.Lead {
	t.Helper()
	if lead.CompanyName == "" {
		lead.CompanyName = "Test Company"
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}
