package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestTaskScopes(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:task_scopes?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Lead{}, &Activity{}, &Task{}, &Quote{}))

	lead := Lead{CompanyName: "Scope Co"}
	require.NoError(t, db.Create(&lead).Error)

	now := time.Now()
	for _, task := range []Task{
		{LeadID: lead.ID, Title: "morning", DueDate: now.Add(time.Minute)},
		{LeadID: lead.ID, Title: "yesterday", DueDate: now.AddDate(0, 0, -1)},
		{LeadID: lead.ID, Title: "yesterday done", DueDate: now.AddDate(0, 0, -1), Completed: true},
		{LeadID: lead.ID, Title: "next week", DueDate: now.AddDate(0, 0, 7)},
	} {
		task := task
		require.NoError(t, db.Create(&task).Error)
	}

	var dueToday []Task
	require.NoError(t, db.Scopes(TasksDueToday(now)).Find(&dueToday).Error)
	require.Len(t, dueToday, 1)
	assert.Equal(t, "morning", dueToday[0].Title)

	// Completed tasks drop out of the overdue set even when past due.
	var overdue []Task
	require.NoError(t, db.Scopes(TasksOverdue(now)).Find(&overdue).Error)
	require.Len(t, overdue, 1)
	assert.Equal(t, "yesterday", overdue[0].Title)
}

func TestLeadValidators(t *testing.T) {
	assert.True(t, ValidLeadStatus(StatusMeetingSet))
	assert.False(t, ValidLeadStatus("meeting_set"))
	assert.True(t, ValidLeadSegment(SegmentGC))
	assert.False(t, ValidLeadSegment("RESIDENTIAL"))
	assert.True(t, ValidLeadPriority(PriorityLow))
	assert.False(t, ValidLeadPriority(""))
	assert.True(t, ValidQuoteStatus(QuoteDeclined))
	assert.False(t, ValidQuoteStatus("ARCHIVED"))
}
