package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"e24.in/crm/config"
	"e24.in/crm/models"
)

// PublicLeadRequest is the unauthenticated web-form submission payload.
type PublicLeadRequest struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	Notes   string `json:"notes"`
	Segment string `json:"segment" validate:"omitempty,oneof=GC COMMERCIAL_PM"`
}

// PublicLeadSubmission handles inbound web inquiries. A submission matching
// an existing lead (by contact email first, then by company name) reopens
// it with status NEW and priority HIGH; otherwise a new lead is created.
// Either way an INBOUND_FORM activity and an immediate follow-up task are
// appended. The whole sequence runs in one transaction.
func PublicLeadSubmission(w http.ResponseWriter, r *http.Request) {
	var req PublicLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	lead, err := findOrReopenLead(tx, &req)
	if err != nil {
		tx.Rollback()
		log.Printf("Public lead error: %v", err)
		http.Error(w, "Failed to process lead", http.StatusInternalServerError)
		return
	}

	activity := models.Activity{
		LeadID:      lead.ID,
		Type:        models.ActivityInboundForm,
		Subject:     "New Web Inquiry",
		BodyPreview: "Inbound request from " + req.Name + ". Notes: " + req.Notes,
	}
	if err := tx.Create(&activity).Error; err != nil {
		tx.Rollback()
		log.Printf("Public lead error: %v", err)
		http.Error(w, "Failed to process lead", http.StatusInternalServerError)
		return
	}

	task := models.Task{
		LeadID:  lead.ID,
		Title:   "Call inbound lead immediately",
		DueDate: time.Now(),
	}
	if err := tx.Create(&task).Error; err != nil {
		tx.Rollback()
		log.Printf("Public lead error: %v", err)
		http.Error(w, "Failed to process lead", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Public lead error: %v", err)
		http.Error(w, "Failed to process lead", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"leadId":  lead.ID,
	})
}

// findOrReopenLead deduplicates a submission against existing leads. An
// email match takes priority over a company-name match so the outcome does
// not depend on store ordering when both match different rows.
func findOrReopenLead(tx *gorm.DB, req *PublicLeadRequest) (*models.Lead, error) {
	var lead models.Lead
	found := false

	if req.Email != "" {
		err := tx.Where("email1 = ?", req.Email).Order("created_at ASC").First(&lead).Error
		if err == nil {
			found = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if !found && req.Company != "" {
		err := tx.Where("company_name = ?", req.Company).Order("created_at ASC").First(&lead).Error
		if err == nil {
			found = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if found {
		// Re-open regardless of prior state; this is an override, not a merge.
		if err := tx.Model(&lead).Updates(map[string]interface{}{
			"status":   models.StatusNew,
			"priority": models.PriorityHigh,
		}).Error; err != nil {
			return nil, err
		}
		lead.Status = models.StatusNew
		lead.Priority = models.PriorityHigh
		return &lead, nil
	}

	companyName := req.Company
	if companyName == "" {
		companyName = req.Name
	}
	if companyName == "" {
		companyName = "Unknown Company"
	}
	segment := req.Segment
	if segment == "" {
		segment = models.SegmentCommercialPM
	}

	lead = models.Lead{
		CompanyName:  companyName,
		ContactName1: req.Name,
		Email1:       req.Email,
		City:         req.City,
		Segment:      segment,
		Priority:     models.PriorityMedium,
		Status:       models.StatusNew,
		Focus:        req.Notes,
	}
	if req.Phone != "" {
		phone := req.Phone
		lead.Phone = &phone
	}
	if err := tx.Create(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}
