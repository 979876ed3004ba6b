package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"e24.in/crm/config"
	"e24.in/crm/models"
)

// leadListItem is a lead row plus related-record counts for list views.
type leadListItem struct {
	models.Lead
	ActivityCount int64 `json:"activityCount"`
	TaskCount     int64 `json:"taskCount"`
	QuoteCount    int64 `json:"quoteCount"`
}

const leadCountSelect = "leads.*, " +
	"(SELECT count(*) FROM activities WHERE activities.lead_id = leads.id) AS activity_count, " +
	"(SELECT count(*) FROM tasks WHERE tasks.lead_id = leads.id) AS task_count, " +
	"(SELECT count(*) FROM quotes WHERE quotes.lead_id = leads.id) AS quote_count"

var leadSortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"companyName": "company_name",
	"priority":    "priority",
	"status":      "status",
	"city":        "city",
	"rating":      "rating",
}

// GetAllLeads lists leads with filtering, search and pagination.
func GetAllLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}

	query := config.DB.Model(&models.Lead{})
	if segment := q.Get("segment"); segment != "" {
		query = query.Where("segment = ?", segment)
	}
	if priority := q.Get("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if status := q.Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if city := q.Get("city"); city != "" {
		query = query.Where("LOWER(city) LIKE LOWER(?)", "%"+city+"%")
	}
	if search := q.Get("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"LOWER(company_name) LIKE LOWER(?) OR LOWER(focus) LIKE LOWER(?) OR LOWER(city) LIKE LOWER(?)",
			like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		storeError(w, "Failed to get leads", err)
		return
	}

	sortColumn, ok := leadSortColumns[q.Get("sortBy")]
	if !ok {
		sortColumn = "created_at"
	}
	order := "DESC"
	if q.Get("sortOrder") == "asc" {
		order = "ASC"
	}

	var leads []leadListItem
	if err := query.
		Select(leadCountSelect).
		Order(sortColumn + " " + order).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&leads).Error; err != nil {
		storeError(w, "Failed to get leads", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"leads": leads,
		"pagination": map[string]interface{}{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetLead returns one lead with its recent activities, tasks and quotes.
func GetLead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var lead models.Lead
	err := config.DB.
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(50)
		}).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date ASC")
		}).
		Preload("Quotes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&lead, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Lead not found", http.StatusNotFound)
			return
		}
		storeError(w, "Failed to get lead", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}

// CreateLeadRequest is the typed create payload; unknown fields in the body
// are ignored.
type CreateLeadRequest struct {
	CompanyName    string   `json:"companyName" validate:"required"`
	Segment        string   `json:"segment" validate:"omitempty,oneof=GC COMMERCIAL_PM"`
	Focus          string   `json:"focus"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	Zip            string   `json:"zip"`
	Phone          string   `json:"phone"`
	Website        string   `json:"website"`
	ContactName1   string   `json:"contactName1"`
	Role1          string   `json:"role1"`
	Email1         string   `json:"email1" validate:"omitempty,email"`
	ContactName2   string   `json:"contactName2"`
	Role2          string   `json:"role2"`
	Email2         string   `json:"email2" validate:"omitempty,email"`
	ContactName3   string   `json:"contactName3"`
	Role3          string   `json:"role3"`
	Email3         string   `json:"email3" validate:"omitempty,email"`
	ContactFormURL string   `json:"contactFormURL"`
	Rating         *float64 `json:"rating"`
	ReviewCount    *int     `json:"reviewCount"`
	Priority       string   `json:"priority" validate:"omitempty,oneof=HIGH MEDIUM LOW"`
	Status         string   `json:"status" validate:"omitempty,oneof=NEW ATTEMPTED CONNECTED MEETING_SET QUOTE_SENT WON LOST"`
}

func (req *CreateLeadRequest) toModel() models.Lead {
	lead := models.Lead{
		CompanyName:    req.CompanyName,
		Segment:        req.Segment,
		Focus:          req.Focus,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Zip:            req.Zip,
		Website:        req.Website,
		ContactName1:   req.ContactName1,
		Role1:          req.Role1,
		Email1:         req.Email1,
		ContactName2:   req.ContactName2,
		Role2:          req.Role2,
		Email2:         req.Email2,
		ContactName3:   req.ContactName3,
		Role3:          req.Role3,
		Email3:         req.Email3,
		ContactFormURL: req.ContactFormURL,
		Rating:         req.Rating,
		ReviewCount:    req.ReviewCount,
		Priority:       req.Priority,
		Status:         req.Status,
	}
	if req.Phone != "" {
		phone := req.Phone
		lead.Phone = &phone
	}
	return lead
}

// CreateLead creates a new lead.
func CreateLead(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	lead := req.toModel()
	if err := config.DB.Create(&lead).Error; err != nil {
		storeError(w, "Failed to create lead", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(lead)
}

// UpdateLeadRequest carries optional field updates; only non-nil fields are
// applied.
type UpdateLeadRequest struct {
	CompanyName    *string  `json:"companyName"`
	Segment        *string  `json:"segment" validate:"omitempty,oneof=GC COMMERCIAL_PM"`
	Focus          *string  `json:"focus"`
	Address        *string  `json:"address"`
	City           *string  `json:"city"`
	State          *string  `json:"state"`
	Zip            *string  `json:"zip"`
	Phone          *string  `json:"phone"`
	Website        *string  `json:"website"`
	ContactName1   *string  `json:"contactName1"`
	Role1          *string  `json:"role1"`
	Email1         *string  `json:"email1"`
	ContactName2   *string  `json:"contactName2"`
	Role2          *string  `json:"role2"`
	Email2         *string  `json:"email2"`
	ContactName3   *string  `json:"contactName3"`
	Role3          *string  `json:"role3"`
	Email3         *string  `json:"email3"`
	ContactFormURL *string  `json:"contactFormURL"`
	Rating         *float64 `json:"rating"`
	ReviewCount    *int     `json:"reviewCount"`
	Priority       *string  `json:"priority" validate:"omitempty,oneof=HIGH MEDIUM LOW"`
}

// UpdateLead applies a partial update to a lead.
func UpdateLead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var lead models.Lead
	if err := config.DB.First(&lead, "id = ?", id).Error; err != nil {
		http.Error(w, "Lead not found", http.StatusNotFound)
		return
	}

	updates := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	set("company_name", req.CompanyName)
	set("segment", req.Segment)
	set("focus", req.Focus)
	set("address", req.Address)
	set("city", req.City)
	set("state", req.State)
	set("zip", req.Zip)
	set("website", req.Website)
	set("contact_name1", req.ContactName1)
	set("role1", req.Role1)
	set("email1", req.Email1)
	set("contact_name2", req.ContactName2)
	set("role2", req.Role2)
	set("email2", req.Email2)
	set("contact_name3", req.ContactName3)
	set("role3", req.Role3)
	set("email3", req.Email3)
	set("contact_form_url", req.ContactFormURL)
	set("priority", req.Priority)
	if req.Phone != nil {
		if *req.Phone == "" {
			updates["phone"] = nil
		} else {
			updates["phone"] = *req.Phone
		}
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.ReviewCount != nil {
		updates["review_count"] = *req.ReviewCount
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := config.DB.Model(&lead).Updates(updates).Error; err != nil {
			storeError(w, "Failed to update lead", err)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}

// UpdateLeadStatus is the status-only PATCH endpoint; it delegates to
// ChangeStatus so the audit activity is written in the same transaction.
func UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	lead, err := ChangeStatus(config.DB, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			http.Error(w, "invalid status: "+req.Status, http.StatusBadRequest)
		case errors.Is(err, gorm.ErrRecordNotFound):
			http.Error(w, "Lead not found", http.StatusNotFound)
		default:
			storeError(w, "Failed to update status", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}

// DeleteLead removes a lead and, via FK cascade, its activities, tasks and
// quotes.
func DeleteLead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result := config.DB.Delete(&models.Lead{}, "id = ?", id)
	if result.Error != nil {
		storeError(w, "Failed to delete lead", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Lead not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
