package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"e24.in/crm/config"
)

// Health reports process liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HealthDB reports database reachability.
func HealthDB(w http.ResponseWriter, r *http.Request) {
	var one int
	if err := config.DB.Raw("SELECT 1").Scan(&one).Error; err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "error",
			"error":  "database unreachable",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "database": "connected"})
}
