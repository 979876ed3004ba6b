package handlers

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"e24.in/crm/models"
)

// ErrInvalidStatus is returned when a status change names an unknown stage.
var ErrInvalidStatus = errors.New("invalid lead status")

// ChangeStatus moves a lead to newStatus and appends the NOTE audit
// activity recording the transition. Both writes run in one transaction:
// if the audit insert fails, the status change rolls back with it.
// Transitions are permissive: any stage may move to any other, including
// out of WON and LOST.
func ChangeStatus(db *gorm.DB, leadID, newStatus string) (*models.Lead, error) {
	if !models.ValidLeadStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	var lead models.Lead
	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.First(&lead, "id = ?", leadID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Model(&lead).Update("status", newStatus).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	audit := models.Activity{
		LeadID:      lead.ID,
		Type:        models.ActivityNote,
		Subject:     "Status Changed",
		Outcome:     "Status changed to " + newStatus,
		BodyPreview: "Lead status was updated to " + newStatus,
	}
	if err := tx.Create(&audit).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	log.Printf("Lead %s status -> %s", lead.ID, newStatus)
	return &lead, nil
}

// RecordActivitySideEffects applies the one automatic pipeline transition:
// a CALL or EMAIL recorded against a NEW lead marks it ATTEMPTED. Repeats
// past the first transition leave the status unchanged.
func RecordActivitySideEffects(tx *gorm.DB, lead *models.Lead, activityType string) error {
	if activityType != models.ActivityCall && activityType != models.ActivityEmail {
		return nil
	}
	if lead.Status != models.StatusNew {
		return nil
	}
	if err := tx.Model(lead).Update("status", models.StatusAttempted).Error; err != nil {
		return err
	}
	lead.Status = models.StatusAttempted
	return nil
}
