package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"e24.in/crm/config"
	"e24.in/crm/models"
)

// GetActivitiesByLead lists a lead's activities, newest first.
func GetActivitiesByLead(w http.ResponseWriter, r *http.Request) {
	leadID := mux.Vars(r)["leadId"]

	var activities []models.Activity
	if err := config.DB.
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		Find(&activities).Error; err != nil {
		storeError(w, "Failed to get activities", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(activities)
}

// CreateActivityRequest is the typed create payload.
type CreateActivityRequest struct {
	LeadID      string `json:"leadId" validate:"required,uuid"`
	Type        string `json:"type" validate:"required,oneof=CALL EMAIL MEETING NOTE INBOUND_FORM"`
	Subject     string `json:"subject"`
	BodyPreview string `json:"bodyPreview"`
	Outcome     string `json:"outcome"`
}

// CreateActivity appends an activity to a lead. Recording a CALL or EMAIL
// against a NEW lead moves it to ATTEMPTED in the same transaction.
func CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var lead models.Lead
	if err := config.DB.First(&lead, "id = ?", req.LeadID).Error; err != nil {
		http.Error(w, "Lead not found", http.StatusNotFound)
		return
	}

	activity := models.Activity{
		LeadID:      lead.ID,
		Type:        req.Type,
		Subject:     req.Subject,
		BodyPreview: req.BodyPreview,
		Outcome:     req.Outcome,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&activity).Error; err != nil {
		tx.Rollback()
		storeError(w, "Failed to create activity", err)
		return
	}
	if err := RecordActivitySideEffects(tx, &lead, req.Type); err != nil {
		tx.Rollback()
		storeError(w, "Failed to create activity", err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		storeError(w, "Failed to create activity", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(activity)
}
