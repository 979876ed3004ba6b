package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm/clause"

	"e24.in/crm/config"
	"e24.in/crm/models"
)

// GetSettings returns all system settings as a flat key/value map.
func GetSettings(w http.ResponseWriter, r *http.Request) {
	var settings []models.SystemSetting
	if err := config.DB.Find(&settings).Error; err != nil {
		storeError(w, "Failed to get settings", err)
		return
	}

	result := make(map[string]string, len(settings))
	for _, s := range settings {
		result[s.Key] = s.Value
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// UpdateSettings upserts every key in the posted map. Unknown keys are
// stored as-is; non-string values are flattened to their string form.
func UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	now := time.Now()
	for key, value := range req {
		setting := models.SystemSetting{
			Key:       key,
			Value:     fmt.Sprint(value),
			UpdatedAt: now,
		}
		if err := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				UpdateAll: true,
			}).
			Create(&setting).Error; err != nil {
			tx.Rollback()
			storeError(w, "Failed to update settings", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		storeError(w, "Failed to update settings", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
