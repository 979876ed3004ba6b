package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a follow-up reminder against a lead.
type Task struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LeadID    uuid.UUID `gorm:"type:uuid;index;not null" json:"leadId"`
	Lead      *Lead     `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	DueDate   time.Time `gorm:"index;not null" json:"dueDate"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// TasksDueToday scopes a query to tasks due within [today, tomorrow).
func TasksDueToday(now time.Time) func(*gorm.DB) *gorm.DB {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("due_date >= ? AND due_date < ?", today, tomorrow)
	}
}

// TasksOverdue scopes a query to incomplete tasks whose due date has passed.
func TasksOverdue(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("due_date < ? AND completed = ?", now, false)
	}
}
