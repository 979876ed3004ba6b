package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"e24.in/crm/config"
	"e24.in/crm/models"
)

// ImportRowError reports one failed or defaulted row. Row numbers are
// 1-indexed plus the header row, matching what the user sees in the
// spreadsheet.
type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult aggregates one import run.
type ImportResult struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Errors  []ImportRowError `json:"errors"`
}

// ImportLeads accepts one xlsx file per call and upserts its rows as leads.
// Rows fail individually; a bad row never aborts the batch.
func ImportLeads(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	log.Printf("[Import] Route hit. File: %s, Size: %d", header.Filename, header.Size)

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "Failed to read workbook", http.StatusBadRequest)
		return
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		http.Error(w, "Workbook has no sheets", http.StatusBadRequest)
		return
	}
	rawRows, err := workbook.GetRows(sheets[0])
	if err != nil {
		http.Error(w, "Failed to read workbook", http.StatusBadRequest)
		return
	}

	rows := rowsToMaps(rawRows)
	log.Printf("[Import] Parsed %d rows from file.", len(rows))

	result := importLeadRows(config.DB, rows)

	errorsJSON, _ := json.Marshal(result.Errors)
	job := models.ImportJob{
		Filename: header.Filename,
		Created:  result.Created,
		Updated:  result.Updated,
		Errors:   datatypes.JSON(errorsJSON),
	}
	if err := config.DB.Create(&job).Error; err != nil {
		log.Printf("[Import] Failed to record import job: %v", err)
	}

	log.Printf("[Import] Finished. Created: %d, Updated: %d", result.Created, result.Updated)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"created": result.Created,
		"updated": result.Updated,
		"errors":  result.Errors,
		"message": fmt.Sprintf("Imported %d new leads, updated %d existing leads.",
			result.Created, result.Updated),
	})
}

// GetImportJobs lists past import runs, newest first.
func GetImportJobs(w http.ResponseWriter, r *http.Request) {
	var jobs []models.ImportJob
	if err := config.DB.Order("created_at DESC").Limit(50).Find(&jobs).Error; err != nil {
		storeError(w, "Failed to get import jobs", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// rowsToMaps turns raw sheet rows into header-keyed field maps.
func rowsToMaps(raw [][]string) []map[string]string {
	if len(raw) < 2 {
		return nil
	}
	headers := raw[0]
	rows := make([]map[string]string, 0, len(raw)-1)
	for _, r := range raw[1:] {
		row := make(map[string]string, len(headers))
		for j, h := range headers {
			h = strings.TrimSpace(h)
			if h == "" || j >= len(r) {
				continue
			}
			row[h] = strings.TrimSpace(r[j])
		}
		rows = append(rows, row)
	}
	return rows
}

func firstNonEmpty(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := row[k]; v != "" {
			return v
		}
	}
	return ""
}

// importLeadRows runs the per-row validate/upsert loop. Each row is
// independent: a database failure is recorded against its row number and
// the loop moves on.
func importLeadRows(db *gorm.DB, rows []map[string]string) ImportResult {
	result := ImportResult{Errors: []ImportRowError{}}

	for i, row := range rows {
		rowNumber := i + 2 // 1-indexed plus header row

		companyName := firstNonEmpty(row, "CompanyName", "Company Name", "Company")
		if companyName == "" {
			log.Printf("[Import] Skipping row %d missing CompanyName", rowNumber)
			result.Errors = append(result.Errors, ImportRowError{
				Row: rowNumber, Error: `Missing "CompanyName"`,
			})
			continue
		}
		phone := row["Phone"]

		segment := models.SegmentCommercialPM
		if raw := row["Segment"]; raw != "" {
			if models.ValidLeadSegment(raw) {
				segment = raw
			} else {
				result.Errors = append(result.Errors, ImportRowError{
					Row:   rowNumber,
					Error: fmt.Sprintf("Invalid Segment %q. Defaulting to COMMERCIAL_PM.", raw),
				})
			}
		}

		status := models.StatusNew
		if raw := row["Status"]; raw != "" {
			if s := strings.ToUpper(raw); models.ValidLeadStatus(s) {
				status = s
			} else {
				result.Errors = append(result.Errors, ImportRowError{
					Row:   rowNumber,
					Error: fmt.Sprintf("Invalid Status %q. Defaulting to NEW.", raw),
				})
			}
		}

		priority := models.PriorityMedium
		if raw := row["Priority"]; raw != "" {
			if p := strings.ToUpper(raw); models.ValidLeadPriority(p) {
				priority = p
			} else {
				result.Errors = append(result.Errors, ImportRowError{
					Row:   rowNumber,
					Error: fmt.Sprintf("Invalid Priority %q. Defaulting to MEDIUM.", raw),
				})
			}
		}

		updates := map[string]interface{}{
			"company_name": companyName,
			"segment":      segment,
			"status":       status,
			"priority":     priority,
		}
		setIf := func(column, key string) {
			if v := row[key]; v != "" {
				updates[column] = v
			}
		}
		setIf("focus", "Focus")
		setIf("address", "Address")
		setIf("city", "City")
		setIf("state", "State")
		setIf("zip", "Zip")
		setIf("website", "Website")
		setIf("contact_name1", "ContactName1")
		setIf("role1", "Role1")
		setIf("email1", "Email1")
		setIf("contact_name2", "ContactName2")
		setIf("role2", "Role2")
		setIf("email2", "Email2")
		setIf("contact_name3", "ContactName3")
		setIf("role3", "Role3")
		setIf("email3", "Email3")
		setIf("contact_form_url", "ContactFormURL")
		if phone != "" {
			updates["phone"] = phone
		}
		if raw := row["Rating"]; raw != "" {
			if rating, err := strconv.ParseFloat(raw, 64); err == nil {
				updates["rating"] = rating
			}
		}
		if raw := row["ReviewCount"]; raw != "" {
			if count, err := strconv.Atoi(raw); err == nil {
				updates["review_count"] = count
			}
		}

		var existing models.Lead
		var lookupErr error
		if phone != "" {
			lookupErr = db.Where("company_name = ? AND phone = ?", companyName, phone).
				First(&existing).Error
		} else {
			// Fallback check by company name only if phone is missing
			lookupErr = db.Where("company_name = ?", companyName).First(&existing).Error
		}

		switch {
		case lookupErr == nil:
			if err := db.Model(&existing).Updates(updates).Error; err != nil {
				log.Printf("[Import] DB Error for %s: %v", companyName, err)
				result.Errors = append(result.Errors, ImportRowError{
					Row: rowNumber, Error: "Database error saving record",
				})
				continue
			}
			result.Updated++
		case errors.Is(lookupErr, gorm.ErrRecordNotFound):
			lead := leadFromImportRow(updates)
			if err := db.Create(&lead).Error; err != nil {
				log.Printf("[Import] DB Error for %s: %v", companyName, err)
				result.Errors = append(result.Errors, ImportRowError{
					Row: rowNumber, Error: "Database error saving record",
				})
				continue
			}
			result.Created++
		default:
			log.Printf("[Import] DB Error for %s: %v", companyName, lookupErr)
			result.Errors = append(result.Errors, ImportRowError{
				Row: rowNumber, Error: "Database error saving record",
			})
		}
	}

	return result
}

func leadFromImportRow(updates map[string]interface{}) models.Lead {
	str := func(column string) string {
		if v, ok := updates[column].(string); ok {
			return v
		}
		return ""
	}
	lead := models.Lead{
		CompanyName:    str("company_name"),
		Segment:        str("segment"),
		Status:         str("status"),
		Priority:       str("priority"),
		Focus:          str("focus"),
		Address:        str("address"),
		City:           str("city"),
		State:          str("state"),
		Zip:            str("zip"),
		Website:        str("website"),
		ContactName1:   str("contact_name1"),
		Role1:          str("role1"),
		Email1:         str("email1"),
		ContactName2:   str("contact_name2"),
		Role2:          str("role2"),
		Email2:         str("email2"),
		ContactName3:   str("contact_name3"),
		Role3:          str("role3"),
		Email3:         str("email3"),
		ContactFormURL: str("contact_form_url"),
	}
	if v, ok := updates["phone"].(string); ok && v != "" {
		phone := v
		lead.Phone = &phone
	}
	if v, ok := updates["rating"].(float64); ok {
		lead.Rating = &v
	}
	if v, ok := updates["review_count"].(int); ok {
		lead.ReviewCount = &v
	}
	return lead
}
