package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"e24.in/crm/config"
	"e24.in/crm/models"
)

// emailTemplates are the canned outreach suggestions, keyed by email type.
// Unknown types fall back to follow_up.
var emailTemplates = map[string]struct {
	Subject string
	Body    string
}{
	"GC_first_touch": {
		Subject: "Security for Construction Sites",
		Body: "Hi {{contactName}},\n\n" +
			"We work with general contractors across the region to keep job sites " +
			"secure after hours. Licensed guards, theft deterrence, and daily " +
			"activity reports.\n\n" +
			"Would a quick call this week make sense?\n",
	},
	"PM_first_touch": {
		Subject: "Commercial Property Security",
		Body: "Hi {{contactName}},\n\n" +
			"We provide licensed security coverage for commercial properties, " +
			"from lobby posts to mobile patrol routes.\n\n" +
			"Happy to put together a proposal for {{companyName}}.\n",
	},
	"follow_up": {
		Subject: "Following up",
		Body: "Hi {{contactName}},\n\n" +
			"Just checking in on my last note. Is security coverage still on " +
			"your radar for {{companyName}}?\n",
	},
}

// SuggestEmail returns a templated outreach email for a lead, personalized
// with its contact and company names.
func SuggestEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LeadID    string `json:"leadId"`
		EmailType string `json:"emailType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var lead models.Lead
	if err := config.DB.First(&lead, "id = ?", req.LeadID).Error; err != nil {
		http.Error(w, "Lead not found", http.StatusNotFound)
		return
	}

	template, ok := emailTemplates[req.EmailType]
	if !ok {
		template = emailTemplates["follow_up"]
	}

	contactName := lead.ContactName1
	if contactName == "" {
		contactName = "there"
	}
	body := strings.NewReplacer(
		"{{contactName}}", contactName,
		"{{companyName}}", lead.CompanyName,
	).Replace(template.Body)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"subject": template.Subject,
		"body":    body,
	})
}

// SummarizeLead builds a plain-text digest of a lead's state and recent
// history for the detail page sidebar.
func SummarizeLead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LeadID string `json:"leadId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var lead models.Lead
	if err := config.DB.
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(10)
		}).
		First(&lead, "id = ?", req.LeadID).Error; err != nil {
		http.Error(w, "Lead not found", http.StatusNotFound)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s) is %s priority, currently %s.\n",
		lead.CompanyName, lead.Segment, strings.ToLower(lead.Priority), lead.Status)
	if lead.City != "" {
		fmt.Fprintf(&sb, "Location: %s.\n", lead.City)
	}
	if len(lead.Activities) == 0 {
		sb.WriteString("No activity recorded yet.\n")
	} else {
		fmt.Fprintf(&sb, "Recent activity (%d):\n", len(lead.Activities))
		for _, a := range lead.Activities {
			line := a.Subject
			if line == "" {
				line = a.Type
			}
			fmt.Fprintf(&sb, "- [%s] %s\n", a.Type, line)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"summary": sb.String()})
}
