package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"e24.in/crm/handlers"
	"e24.in/crm/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/api/health", handlers.Health).Methods("GET")
	r.HandleFunc("/api/health/db", handlers.HealthDB).Methods("GET")

	loginLimiter := middleware.NewIPRateLimiter(5, 5)
	r.Handle("/api/auth/login",
		loginLimiter.Limit(http.HandlerFunc(handlers.Login))).Methods("POST")

	publicLimiter := middleware.NewIPRateLimiter(30, 10)
	r.Handle("/api/public/leads",
		publicLimiter.Limit(http.HandlerFunc(handlers.PublicLeadSubmission))).Methods("POST")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTMiddleware)

	// Auth
	api.HandleFunc("/auth/me", handlers.GetCurrentUser).Methods("GET")
	api.HandleFunc("/auth/change-password", handlers.ChangePassword).Methods("POST")

	// Leads
	api.HandleFunc("/leads", handlers.GetAllLeads).Methods("GET")
	api.HandleFunc("/leads", handlers.CreateLead).Methods("POST")
	api.HandleFunc("/leads/{id}", handlers.GetLead).Methods("GET")
	api.HandleFunc("/leads/{id}", handlers.UpdateLead).Methods("PUT")
	api.HandleFunc("/leads/{id}", handlers.DeleteLead).Methods("DELETE")
	api.HandleFunc("/leads/{id}/status", handlers.UpdateLeadStatus).Methods("PATCH")

	// Activities
	api.HandleFunc("/activities", handlers.CreateActivity).Methods("POST")
	api.HandleFunc("/activities/lead/{leadId}", handlers.GetActivitiesByLead).Methods("GET")

	// Tasks
	api.HandleFunc("/tasks", handlers.GetAllTasks).Methods("GET")
	api.HandleFunc("/tasks", handlers.CreateTask).Methods("POST")
	api.HandleFunc("/tasks/{id}/complete", handlers.CompleteTask).Methods("PATCH")
	api.HandleFunc("/tasks/{id}", handlers.DeleteTask).Methods("DELETE")

	// Quotes
	api.HandleFunc("/quotes/knowledge", handlers.GetQuoteKnowledge).Methods("GET")
	api.HandleFunc("/quotes/knowledge", handlers.UpdateQuoteKnowledge).Methods("POST")
	api.HandleFunc("/quotes/draft-suggest", handlers.SuggestDraft).Methods("POST")
	api.HandleFunc("/quotes", handlers.GetAllQuotes).Methods("GET")
	api.HandleFunc("/quotes", handlers.CreateQuote).Methods("POST")
	api.HandleFunc("/quotes/lead/{leadId}", handlers.GetQuotesByLead).Methods("GET")
	api.HandleFunc("/quotes/{id}/status", handlers.UpdateQuoteStatus).Methods("PATCH")

	// Email
	api.HandleFunc("/email/send", handlers.SendEmail).Methods("POST")
	api.HandleFunc("/email/test", handlers.TestEmail).Methods("POST")
	api.HandleFunc("/email", handlers.GetRecentEmails).Methods("GET")

	// Suggestions
	api.HandleFunc("/suggestions/email", handlers.SuggestEmail).Methods("POST")
	api.HandleFunc("/suggestions/lead-summary", handlers.SummarizeLead).Methods("POST")

	// Dashboard
	api.HandleFunc("/dashboard/stats", handlers.GetDashboardStats).Methods("GET")

	// Settings
	api.HandleFunc("/settings", handlers.GetSettings).Methods("GET")
	api.HandleFunc("/settings", handlers.UpdateSettings).Methods("POST")

	// Import
	api.HandleFunc("/import/leads", handlers.ImportLeads).Methods("POST")
	api.HandleFunc("/import/jobs", handlers.GetImportJobs).Methods("GET")

	return r
}
