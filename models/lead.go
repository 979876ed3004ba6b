package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead pipeline stages.
const (
	StatusNew        = "NEW"
	StatusAttempted  = "ATTEMPTED"
	StatusConnected  = "CONNECTED"
	StatusMeetingSet = "MEETING_SET"
	StatusQuoteSent  = "QUOTE_SENT"
	StatusWon        = "WON"
	StatusLost       = "LOST"
)

// Lead segments.
const (
	SegmentGC           = "GC"
	SegmentCommercialPM = "COMMERCIAL_PM"
)

// Lead priorities.
const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

// LeadStatuses lists every valid pipeline stage. WON and LOST are terminal
// by convention only; any stage may move to any other stage.
var LeadStatuses = []string{
	StatusNew, StatusAttempted, StatusConnected, StatusMeetingSet,
	StatusQuoteSent, StatusWon, StatusLost,
}

// LeadPriorities lists every valid priority.
var LeadPriorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

// LeadSegments lists every valid segment.
var LeadSegments = []string{SegmentGC, SegmentCommercialPM}

func ValidLeadStatus(s string) bool   { return slices.Contains(LeadStatuses, s) }
func ValidLeadPriority(p string) bool { return slices.Contains(LeadPriorities, p) }
func ValidLeadSegment(s string) bool  { return slices.Contains(LeadSegments, s) }

// Lead is a prospective client record. The (company_name, phone) pair is
// unique when a phone is present; phone stays NULL otherwise so the index
// does not collide on empty strings.
type Lead struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyName string    `gorm:"size:255;not null;uniqueIndex:idx_leads_company_phone" json:"companyName"`
	Phone       *string   `gorm:"size:30;uniqueIndex:idx_leads_company_phone" json:"phone,omitempty"`
	Segment     string    `gorm:"size:20;not null;default:COMMERCIAL_PM" json:"segment"`
	Focus       string    `gorm:"size:255" json:"focus,omitempty"`
	Address     string    `gorm:"size:255" json:"address,omitempty"`
	City        string    `gorm:"size:100" json:"city,omitempty"`
	State       string    `gorm:"size:50" json:"state,omitempty"`
	Zip         string    `gorm:"size:20" json:"zip,omitempty"`
	Website     string    `gorm:"size:255" json:"website,omitempty"`

	ContactName1 string `gorm:"size:100" json:"contactName1,omitempty"`
	Role1        string `gorm:"size:100" json:"role1,omitempty"`
	Email1       string `gorm:"size:255;index" json:"email1,omitempty"`
	ContactName2 string `gorm:"size:100" json:"contactName2,omitempty"`
	Role2        string `gorm:"size:100" json:"role2,omitempty"`
	Email2       string `gorm:"size:255" json:"email2,omitempty"`
	ContactName3 string `gorm:"size:100" json:"contactName3,omitempty"`
	Role3        string `gorm:"size:100" json:"role3,omitempty"`
	Email3       string `gorm:"size:255" json:"email3,omitempty"`

	ContactFormURL string   `gorm:"size:500" json:"contactFormURL,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	ReviewCount    *int     `json:"reviewCount,omitempty"`

	Priority string `gorm:"size:10;not null;default:MEDIUM" json:"priority"`
	Status   string `gorm:"size:20;not null;default:NEW;index" json:"status"`

	Activities []Activity `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE" json:"activities,omitempty"`
	Tasks      []Task     `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	Quotes     []Quote    `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE" json:"quotes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (l *Lead) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Segment == "" {
		l.Segment = SegmentCommercialPM
	}
	if l.Priority == "" {
		l.Priority = PriorityMedium
	}
	if l.Status == "" {
		l.Status = StatusNew
	}
	return
}
