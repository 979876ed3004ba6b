package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ImportJob records one bulk lead import run: aggregate counts plus the
// ordered per-row error list as stored JSON.
type ImportJob struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Filename  string         `gorm:"size:255" json:"filename"`
	Created   int            `gorm:"not null" json:"created"`
	Updated   int            `gorm:"not null" json:"updated"`
	Errors    datatypes.JSON `gorm:"type:jsonb" json:"errors"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

func (j *ImportJob) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return
}
