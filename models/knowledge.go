package models

import "time"

// QuoteKnowledgeID is the fixed primary key of the singleton knowledge row.
// Replacing the row is an upsert on this key, so there is never a window
// with no configuration present.
const QuoteKnowledgeID int16 = 1

// QuoteKnowledge holds the pricing/context configuration consumed by the
// quoting logic: a raw content blob plus a content-type tag.
type QuoteKnowledge struct {
	ID          int16     `gorm:"primaryKey" json:"id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	ContentType string    `gorm:"size:20;not null;default:json" json:"contentType"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
