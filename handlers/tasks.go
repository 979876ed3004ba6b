package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"e24.in/crm/config"
	"e24.in/crm/models"
)

// GetAllTasks lists tasks ordered by due date, with optional filters:
// leadId, completed, dueToday, overdue.
func GetAllTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := config.DB.Preload("Lead").Order("due_date ASC")

	if leadID := q.Get("leadId"); leadID != "" {
		query = query.Where("lead_id = ?", leadID)
	}
	if completed := q.Get("completed"); completed != "" {
		query = query.Where("completed = ?", completed == "true")
	}
	if q.Get("dueToday") == "true" {
		query = query.Scopes(models.TasksDueToday(time.Now()))
	}
	if q.Get("overdue") == "true" {
		query = query.Scopes(models.TasksOverdue(time.Now()))
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		storeError(w, "Failed to get tasks", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}

// CreateTaskRequest is the typed create payload.
type CreateTaskRequest struct {
	LeadID  string    `json:"leadId" validate:"required,uuid"`
	Title   string    `json:"title" validate:"required"`
	DueDate time.Time `json:"dueDate" validate:"required"`
}

// CreateTask creates a follow-up task against a lead.
func CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
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

	task := models.Task{
		LeadID:  lead.ID,
		Title:   req.Title,
		DueDate: req.DueDate,
	}
	if err := config.DB.Create(&task).Error; err != nil {
		storeError(w, "Failed to create task", err)
		return
	}
	task.Lead = &lead

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

// CompleteTask toggles a task's completion; with no body the task is marked
// complete.
func CompleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Completed *bool `json:"completed"`
	}
	// body is optional
	json.NewDecoder(r.Body).Decode(&req)

	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	var task models.Task
	if err := config.DB.First(&task, "id = ?", id).Error; err != nil {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	if err := config.DB.Model(&task).Update("completed", completed).Error; err != nil {
		storeError(w, "Failed to update task", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// DeleteTask removes a task.
func DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result := config.DB.Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		storeError(w, "Failed to delete task", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
