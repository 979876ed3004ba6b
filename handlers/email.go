package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"e24.in/crm/config"
	"e24.in/crm/middleware"
	"e24.in/crm/models"
	"e24.in/crm/pkg/mailer"
)

// Mail is the outbound mail service, configured at startup.
var Mail *mailer.Service

// SendEmailRequest is the typed send payload.
type SendEmailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	HTML    string `json:"html" validate:"required"`
	LeadID  string `json:"leadId" validate:"required,uuid"`
}

// SendEmail delivers an outreach email, then logs an EMAIL activity against
// the lead. A delivery failure never rolls back earlier writes; the
// activity is only logged after the mailer reports success.
func SendEmail(w http.ResponseWriter, r *http.Request) {
	var req SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	var lead models.Lead
	if err := config.DB.First(&lead, "id = ?", req.LeadID).Error; err != nil {
		http.Error(w, "Lead not found", http.StatusNotFound)
		return
	}

	if err := Mail.Send(req.To, req.Subject, req.HTML); err != nil {
		http.Error(w, "Failed to send email: "+err.Error(), http.StatusBadGateway)
		return
	}

	// Truncate by runes so a multi-byte character is never split.
	preview := req.HTML
	if runes := []rune(preview); len(runes) > 100 {
		preview = string(runes[:100])
	}
	preview += "..."

	activity := models.Activity{
		LeadID:      lead.ID,
		Type:        models.ActivityEmail,
		Subject:     req.Subject,
		BodyPreview: preview,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&activity).Error; err != nil {
		tx.Rollback()
		storeError(w, "Failed to send email", err)
		return
	}
	if err := RecordActivitySideEffects(tx, &lead, models.ActivityEmail); err != nil {
		tx.Rollback()
		storeError(w, "Failed to send email", err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		storeError(w, "Failed to send email", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"activity": activity,
	})
}

// TestEmail sends a connectivity check to the current user's address.
func TestEmail(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	to := user.Email
	if to == "" {
		to = "admin@amarillosecurity.com"
	}

	err := Mail.Send(to, "Test Email from Elite24",
		"<strong>It works!</strong><p>Your email integration is active.</p>")
	if err != nil {
		http.Error(w, "Failed to send test email: "+err.Error(), http.StatusBadGateway)
		return
	}

	message := "Sent"
	if Mail.Simulated() {
		message = "Simulated sent"
	}
	log.Printf("Test email to %s: %s", to, message)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": message,
	})
}

// GetRecentEmails lists the 50 most recent EMAIL activities with their
// leads.
func GetRecentEmails(w http.ResponseWriter, r *http.Request) {
	var emails []models.Activity
	if err := config.DB.
		Preload("Lead").
		Where("type = ?", models.ActivityEmail).
		Order("created_at DESC").
		Limit(50).
		Find(&emails).Error; err != nil {
		storeError(w, "Failed to get emails", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(emails)
}
