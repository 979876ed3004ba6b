package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity types.
const (
	ActivityCall        = "CALL"
	ActivityEmail       = "EMAIL"
	ActivityMeeting     = "MEETING"
	ActivityNote        = "NOTE"
	ActivityInboundForm = "INBOUND_FORM"
)

// Activity is an append-only log entry against a lead. The API exposes no
// update or delete for activities.
type Activity struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LeadID      uuid.UUID `gorm:"type:uuid;index;not null" json:"leadId"`
	Lead        *Lead     `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	Type        string    `gorm:"size:20;not null" json:"type"`
	Subject     string    `gorm:"size:255" json:"subject,omitempty"`
	BodyPreview string    `gorm:"size:500" json:"bodyPreview,omitempty"`
	Outcome     string    `gorm:"size:255" json:"outcome,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
