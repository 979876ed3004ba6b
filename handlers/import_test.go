package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"e24.in/crm/models"
)

func TestImportLeadRowsCreatesAndUpdates(t *testing.T) {
	db := setupTestDB(t)

	first := importLeadRows(db, []map[string]string{
		{
			"CompanyName": "Acme Builders",
			"Phone":       "806-555-0101",
			"City":        "Amarillo",
			"Segment":     "GC",
		},
	})
	assert.Equal(t, 1, first.Created)
	assert.Equal(t, 0, first.Updated)
	assert.Empty(t, first.Errors)

	// Same company and phone: the existing row is updated in place.
	second := importLeadRows(db, []map[string]string{
		{
			"CompanyName": "Acme Builders",
			"Phone":       "806-555-0101",
			"City":        "Lubbock",
			"Priority":    "high",
		},
	})
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Updated)

	var count int64
	require.NoError(t, db.Model(&models.Lead{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var lead models.Lead
	require.NoError(t, db.Where("company_name = ?", "Acme Builders").First(&lead).Error)
	assert.Equal(t, "Lubbock", lead.City)
	assert.Equal(t, models.PriorityHigh, lead.Priority)
}

func TestImportLeadRowsHeaderVariants(t *testing.T) {
	db := setupTestDB(t)

	result := importLeadRows(db, []map[string]string{
		{"Company Name": "Spaced Header Co"},
		{"Company": "Short Header Co"},
	})
	assert.Equal(t, 2, result.Created)
	assert.Empty(t, result.Errors)
}

func TestImportLeadRowsMissingCompanyName(t *testing.T) {
	db := setupTestDB(t)

	result := importLeadRows(db, []map[string]string{
		{"CompanyName": "Good Row"},
		{"City": "Amarillo"},
		{"CompanyName": "Another Good Row"},
	})
	assert.Equal(t, 2, result.Created)
	require.Len(t, result.Errors, 1)
	// Row numbers are 1-indexed plus the header row.
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, `Missing "CompanyName"`, result.Errors[0].Error)
}

func TestImportLeadRowsInvalidEnumsDefaultWithWarnings(t *testing.T) {
	db := setupTestDB(t)

	result := importLeadRows(db, []map[string]string{
		{
			"CompanyName": "Enum Test Co",
			"Segment":     "RESIDENTIAL",
			"Status":      "frozen",
			"Priority":    "urgent",
		},
	})
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, `Invalid Segment "RESIDENTIAL". Defaulting to COMMERCIAL_PM.`, result.Errors[0].Error)
	assert.Equal(t, `Invalid Status "frozen". Defaulting to NEW.`, result.Errors[1].Error)
	assert.Equal(t, `Invalid Priority "urgent". Defaulting to MEDIUM.`, result.Errors[2].Error)

	var lead models.Lead
	require.NoError(t, db.Where("company_name = ?", "Enum Test Co").First(&lead).Error)
	assert.Equal(t, models.SegmentCommercialPM, lead.Segment)
	assert.Equal(t, models.StatusNew, lead.Status)
	assert.Equal(t, models.PriorityMedium, lead.Priority)
}

func TestImportLeadRowsLowercaseEnumsAccepted(t *testing.T) {
	db := setupTestDB(t)

	result := importLeadRows(db, []map[string]string{
		{"CompanyName": "Case Test Co", "Status": "won", "Priority": "low"},
	})
	assert.Equal(t, 1, result.Created)
	assert.Empty(t, result.Errors)

	var lead models.Lead
	require.NoError(t, db.Where("company_name = ?", "Case Test Co").First(&lead).Error)
	assert.Equal(t, models.StatusWon, lead.Status)
	assert.Equal(t, models.PriorityLow, lead.Priority)
}

func TestImportLeadRowsNumericFields(t *testing.T) {
	db := setupTestDB(t)

	result := importLeadRows(db, []map[string]string{
		{
			"CompanyName": "Rated Co",
			"Rating":      "4.7",
			"ReviewCount": "132",
		},
		{
			"CompanyName": "Unrated Co",
			"Rating":      "five stars",
			"ReviewCount": "many",
		},
	})
	assert.Equal(t, 2, result.Created)

	var rated models.Lead
	require.NoError(t, db.Where("company_name = ?", "Rated Co").First(&rated).Error)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 4.7, *rated.Rating)
	require.NotNil(t, rated.ReviewCount)
	assert.Equal(t, 132, *rated.ReviewCount)

	// Unparseable numerics are dropped silently, not errored.
	var unrated models.Lead
	require.NoError(t, db.Where("company_name = ?", "Unrated Co").First(&unrated).Error)
	assert.Nil(t, unrated.Rating)
	assert.Nil(t, unrated.ReviewCount)
}

func TestRowsToMaps(t *testing.T) {
	rows := rowsToMaps([][]string{
		{"CompanyName", " City ", ""},
		{" Acme ", "Amarillo", "ignored"},
		{"Beta"},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0]["CompanyName"])
	assert.Equal(t, "Amarillo", rows[0]["City"])
	assert.Equal(t, "Beta", rows[1]["CompanyName"])
	_, hasCity := rows[1]["City"]
	assert.False(t, hasCity)

	assert.Nil(t, rowsToMaps([][]string{{"CompanyName"}}))
	assert.Nil(t, rowsToMaps(nil))
}
