package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"e24.in/crm/models"
)

func postPublicLead(t *testing.T, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/public/leads", bytes.NewReader(body))
	w := httptest.NewRecorder()
	PublicLeadSubmission(w, req)
	return w
}

func TestPublicLeadSubmissionCreatesLeadActivityAndTask(t *testing.T) {
	db := setupTestDB(t)

	w := postPublicLead(t, map[string]interface{}{
		"name":    "Jane Doe",
		"company": "Doe Construction",
		"email":   "jane@doe.com",
		"phone":   "806-555-0101",
		"city":    "Amarillo",
		"notes":   "Need overnight coverage",
		"segment": "GC",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	require.NotEmpty(t, resp["leadId"])

	var lead models.Lead
	require.NoError(t, db.First(&lead, "id = ?", resp["leadId"]).Error)
	assert.Equal(t, "Doe Construction", lead.CompanyName)
	assert.Equal(t, models.SegmentGC, lead.Segment)
	assert.Equal(t, models.StatusNew, lead.Status)
	assert.Equal(t, models.PriorityMedium, lead.Priority)
	assert.Equal(t, "jane@doe.com", lead.Email1)
	assert.Equal(t, "Need overnight coverage", lead.Focus)
	require.NotNil(t, lead.Phone)
	assert.Equal(t, "806-555-0101", *lead.Phone)

	var activity models.Activity
	require.NoError(t, db.First(&activity, "lead_id = ?", lead.ID).Error)
	assert.Equal(t, models.ActivityInboundForm, activity.Type)
	assert.Equal(t, "New Web Inquiry", activity.Subject)
	assert.Contains(t, activity.BodyPreview, "Jane Doe")
	assert.Contains(t, activity.BodyPreview, "Need overnight coverage")

	var task models.Task
	require.NoError(t, db.First(&task, "lead_id = ?", lead.ID).Error)
	assert.Equal(t, "Call inbound lead immediately", task.Title)
	assert.False(t, task.Completed)
}

func TestPublicLeadSubmissionReopensExistingLead(t *testing.T) {
	db := setupTestDB(t)
	lead := mustCreateLead(t, db, &models.Lead{
		CompanyName: "Doe Construction",
		Email1:      "jane@doe.com",
		Status:      models.StatusLost,
		Priority:    models.PriorityLow,
	})

	for i := 0; i < 2; i++ {
		w := postPublicLead(t, map[string]interface{}{
			"name":  "Jane Doe",
			"email": "jane@doe.com",
			"notes": "Still interested",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	// Still one lead, forced back to NEW / HIGH.
	var leadCount int64
	require.NoError(t, db.Model(&models.Lead{}).Count(&leadCount).Error)
	assert.EqualValues(t, 1, leadCount)

	var stored models.Lead
	require.NoError(t, db.First(&stored, "id = ?", lead.ID).Error)
	assert.Equal(t, models.StatusNew, stored.Status)
	assert.Equal(t, models.PriorityHigh, stored.Priority)

	// Every submission appends its own activity and task.
	var activityCount, taskCount int64
	require.NoError(t, db.Model(&models.Activity{}).Where("lead_id = ?", lead.ID).Count(&activityCount).Error)
	require.NoError(t, db.Model(&models.Task{}).Where("lead_id = ?", lead.ID).Count(&taskCount).Error)
	assert.EqualValues(t, 2, activityCount)
	assert.EqualValues(t, 2, taskCount)
}

func TestPublicLeadSubmissionEmailMatchWinsOverCompany(t *testing.T) {
	db := setupTestDB(t)
	byEmail := mustCreateLead(t, db, &models.Lead{
		CompanyName: "Alpha Properties",
		Email1:      "pm@alpha.com",
		Status:      models.StatusWon,
	})
	byCompany := mustCreateLead(t, db, &models.Lead{
		CompanyName: "Beta Builders",
		Status:      models.StatusWon,
	})

	w := postPublicLead(t, map[string]interface{}{
		"name":    "Pat",
		"company": "Beta Builders",
		"email":   "pm@alpha.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reopened, untouched models.Lead
	require.NoError(t, db.First(&reopened, "id = ?", byEmail.ID).Error)
	require.NoError(t, db.First(&untouched, "id = ?", byCompany.ID).Error)
	assert.Equal(t, models.StatusNew, reopened.Status)
	assert.Equal(t, models.StatusWon, untouched.Status)
}

func TestPublicLeadSubmissionCompanyNameFallbacks(t *testing.T) {
	db := setupTestDB(t)

	// No company: the contact name stands in.
	w := postPublicLead(t, map[string]interface{}{"name": "Solo Contact"})
	require.Equal(t, http.StatusOK, w.Code)

	var byName models.Lead
	require.NoError(t, db.Where("company_name = ?", "Solo Contact").First(&byName).Error)
	assert.Equal(t, models.SegmentCommercialPM, byName.Segment)

	// Neither company nor name. A fresh destination keeps the previous
	// primary key out of the lookup conditions.
	w = postPublicLead(t, map[string]interface{}{"notes": "anonymous inquiry"})
	require.Equal(t, http.StatusOK, w.Code)
	var anonymous models.Lead
	require.NoError(t, db.Where("company_name = ?", "Unknown Company").First(&anonymous).Error)
	assert.Equal(t, "anonymous inquiry", anonymous.Focus)
}

func TestPublicLeadSubmissionRejectsBadPayload(t *testing.T) {
	setupTestDB(t)

	req := httptest.NewRequest(http.MethodPost, "/api/public/leads", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	PublicLeadSubmission(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postPublicLead(t, map[string]interface{}{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postPublicLead(t, map[string]interface{}{"name": "X", "segment": "RESIDENTIAL"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
