package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"e24.in/crm/config"
	"e24.in/crm/models"
	"e24.in/crm/pkg/quoting"
)

// GetQuoteKnowledge returns the singleton knowledge row, or the built-in
// default template when none has been saved yet.
func GetQuoteKnowledge(w http.ResponseWriter, r *http.Request) {
	var knowledge models.QuoteKnowledge
	err := config.DB.First(&knowledge, "id = ?", models.QuoteKnowledgeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{
				"content":     quoting.DefaultKnowledgeContent(),
				"contentType": "json",
			})
			return
		}
		storeError(w, "Failed to get quote knowledge", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(knowledge)
}

// UpdateQuoteKnowledge replaces the singleton knowledge row. The write is
// an upsert on the fixed key, so there is never a moment with no row.
func UpdateQuoteKnowledge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content     string `json:"content"`
		ContentType string `json:"contentType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if req.ContentType == "json" && !json.Valid([]byte(req.Content)) {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	knowledge := models.QuoteKnowledge{
		ID:          models.QuoteKnowledgeID,
		Content:     req.Content,
		ContentType: req.ContentType,
	}
	if err := config.DB.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&knowledge).Error; err != nil {
		storeError(w, "Failed to update quote knowledge", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(knowledge)
}

// SuggestDraftRequest asks for a proposal draft for a lead. The knowledge
// document is optional; when absent the stored (or default) knowledge is
// used.
type SuggestDraftRequest struct {
	LeadID       string                `json:"leadId" validate:"required,uuid"`
	ServiceType  string                `json:"serviceType" validate:"required"`
	GuardType    string                `json:"guardType" validate:"required"`
	HoursPerWeek float64               `json:"hoursPerWeek" validate:"gt=0"`
	Knowledge    *quoting.KnowledgeDoc `json:"knowledge"`
}

// SuggestDraft composes a deterministic proposal draft for a lead.
func SuggestDraft(w http.ResponseWriter, r *http.Request) {
	var req SuggestDraftRequest
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

	doc := req.Knowledge
	if doc == nil {
		var knowledge models.QuoteKnowledge
		if err := config.DB.First(&knowledge, "id = ?", models.QuoteKnowledgeID).Error; err == nil {
			doc = quoting.ParseKnowledge(knowledge.Content)
		} else {
			def := quoting.DefaultKnowledge()
			doc = &def
		}
	}

	draft := quoting.ComposeDraft(&lead, req.ServiceType, req.GuardType, req.HoursPerWeek, doc)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"draft": draft})
}

// GetAllQuotes lists quotes, optionally filtered by status and lead.
func GetAllQuotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := config.DB.Preload("Lead").Order("created_at DESC")
	if status := q.Get("status"); status != "" && status != "ALL" {
		query = query.Where("status = ?", status)
	}
	if leadID := q.Get("leadId"); leadID != "" {
		query = query.Where("lead_id = ?", leadID)
	}

	var quotes []models.Quote
	if err := query.Find(&quotes).Error; err != nil {
		storeError(w, "Failed to get quotes", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quotes)
}

// GetQuotesByLead lists a lead's quotes, newest first.
func GetQuotesByLead(w http.ResponseWriter, r *http.Request) {
	leadID := mux.Vars(r)["leadId"]

	var quotes []models.Quote
	if err := config.DB.
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		Find(&quotes).Error; err != nil {
		storeError(w, "Failed to get quotes", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quotes)
}

// CreateQuoteRequest is the typed create payload. HourlyRate and
// TotalAmount, when supplied, override the computed defaults, never the
// reverse.
type CreateQuoteRequest struct {
	LeadID       string     `json:"leadId" validate:"required,uuid"`
	ServiceType  string     `json:"serviceType" validate:"required,oneof=CONSTRUCTION_SITE COMMERCIAL_PROPERTY EVENT"`
	GuardType    string     `json:"guardType" validate:"required,oneof=UNARMED ARMED PATROL"`
	HoursPerWeek float64    `json:"hoursPerWeek" validate:"gt=0"`
	HourlyRate   float64    `json:"hourlyRate" validate:"gte=0"`
	TotalAmount  float64    `json:"totalAmount" validate:"gte=0"`
	StartDate    *time.Time `json:"startDate"`
	Notes        string     `json:"notes"`
	DraftText    string     `json:"draftText"`
}

// CreateQuote prices and stores a new DRAFT quote for a lead.
func CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req CreateQuoteRequest
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

	// Use provided rate or default
	effectiveRate := req.HourlyRate
	if effectiveRate == 0 {
		effectiveRate = quoting.DefaultRate(req.ServiceType, req.GuardType)
	}

	// Use provided monthly estimate or recalculate
	monthlyEstimate := req.TotalAmount
	if monthlyEstimate == 0 {
		monthlyEstimate = quoting.MonthlyEstimate(effectiveRate, req.HoursPerWeek)
	}

	quote := models.Quote{
		LeadID:          lead.ID,
		ServiceType:     req.ServiceType,
		GuardType:       req.GuardType,
		HoursPerWeek:    req.HoursPerWeek,
		HourlyRate:      effectiveRate,
		MonthlyEstimate: monthlyEstimate,
		StartDate:       req.StartDate,
		Notes:           req.Notes,
		DraftText:       req.DraftText,
		Status:          models.QuoteDraft,
	}
	if err := config.DB.Create(&quote).Error; err != nil {
		storeError(w, "Failed to create quote", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(quote)
}

// UpdateQuoteStatus moves a quote between DRAFT, SENT, ACCEPTED and
// DECLINED.
func UpdateQuoteStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if !models.ValidQuoteStatus(req.Status) {
		http.Error(w, "invalid status: "+req.Status, http.StatusBadRequest)
		return
	}

	var quote models.Quote
	if err := config.DB.First(&quote, "id = ?", id).Error; err != nil {
		http.Error(w, "Quote not found", http.StatusNotFound)
		return
	}

	if err := config.DB.Model(&quote).Update("status", req.Status).Error; err != nil {
		storeError(w, "Failed to update quote status", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quote)
}
