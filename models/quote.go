package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quote service types.
const (
	ServiceConstructionSite   = "CONSTRUCTION_SITE"
	ServiceCommercialProperty = "COMMERCIAL_PROPERTY"
	ServiceEvent              = "EVENT"
)

// Quote guard types.
const (
	GuardUnarmed = "UNARMED"
	GuardArmed   = "ARMED"
	GuardPatrol  = "PATROL"
)

// Quote statuses.
const (
	QuoteDraft    = "DRAFT"
	QuoteSent     = "SENT"
	QuoteAccepted = "ACCEPTED"
	QuoteDeclined = "DECLINED"
)

var QuoteStatuses = []string{QuoteDraft, QuoteSent, QuoteAccepted, QuoteDeclined}

func ValidQuoteStatus(s string) bool { return slices.Contains(QuoteStatuses, s) }

// Quote is a priced proposal against a lead. MonthlyEstimate stays
// consistent with hourlyRate * hoursPerWeek * 4.33 unless the caller
// supplied an explicit total.
type Quote struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LeadID          uuid.UUID  `gorm:"type:uuid;index;not null" json:"leadId"`
	Lead            *Lead      `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	ServiceType     string     `gorm:"size:30;not null" json:"serviceType"`
	GuardType       string     `gorm:"size:20;not null" json:"guardType"`
	HoursPerWeek    float64    `gorm:"not null" json:"hoursPerWeek"`
	HourlyRate      float64    `gorm:"not null" json:"hourlyRate"`
	MonthlyEstimate float64    `gorm:"not null" json:"monthlyEstimate"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	Notes           string     `gorm:"size:1000" json:"notes,omitempty"`
	DraftText       string     `gorm:"type:text" json:"draftText,omitempty"`
	Status          string     `gorm:"size:20;not null;default:DRAFT;index" json:"status"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (q *Quote) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.Status == "" {
		q.Status = QuoteDraft
	}
	return
}
