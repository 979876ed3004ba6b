package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"e24.in/crm/config"
	"e24.in/crm/models"
)

// GetDashboardStats returns the pipeline counters for the dashboard page.
func GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	db := config.DB
	counts := map[string]int64{}
	count := func(key string, query func() (int64, error)) bool {
		n, err := query()
		if err != nil {
			storeError(w, "Failed to get statistics", err)
			return false
		}
		counts[key] = n
		return true
	}

	ok := count("newLeads", func() (n int64, err error) {
		err = db.Model(&models.Lead{}).Where("status = ?", models.StatusNew).Count(&n).Error
		return
	})
	ok = ok && count("highPriorityLeads", func() (n int64, err error) {
		err = db.Model(&models.Lead{}).Where("priority = ?", models.PriorityHigh).Count(&n).Error
		return
	})
	ok = ok && count("meetingsThisWeek", func() (n int64, err error) {
		err = db.Model(&models.Activity{}).
			Where("type = ? AND created_at >= ?", models.ActivityMeeting, weekStart).Count(&n).Error
		return
	})
	ok = ok && count("quotesSentThisWeek", func() (n int64, err error) {
		err = db.Model(&models.Quote{}).
			Where("status = ? AND created_at >= ?", models.QuoteSent, weekStart).Count(&n).Error
		return
	})
	ok = ok && count("wonThisMonth", func() (n int64, err error) {
		err = db.Model(&models.Lead{}).
			Where("status = ? AND updated_at >= ?", models.StatusWon, monthStart).Count(&n).Error
		return
	})
	ok = ok && count("tasksDueToday", func() (n int64, err error) {
		err = db.Model(&models.Task{}).
			Scopes(models.TasksDueToday(now)).
			Where("completed = ?", false).Count(&n).Error
		return
	})
	ok = ok && count("overdueTasks", func() (n int64, err error) {
		err = db.Model(&models.Task{}).Scopes(models.TasksOverdue(now)).Count(&n).Error
		return
	})
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(counts)
}
