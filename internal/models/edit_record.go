package models

import (
	"github.com/google/uuid"
	"github.com/messmill/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Owner types for edit records.
const (
	OwnerStudent = "students"
	OwnerMealDay = "meal_days"
	OwnerExpense = "expenses"
)

// EditRecord is one entry in the edit history of a student, a meal day
// or an expense.
type EditRecord struct {
	DefaultModel
	OwnerID        uuid.UUID       `json:"-" gorm:"type:uuid;index"`
	OwnerType      string          `json:"-" gorm:"index"`
	PreviousAmount decimal.Decimal `json:"previousAmount" gorm:"type:DECIMAL(20,8)" example:"1000"` // Value before the edit
	NewAmount      decimal.Decimal `json:"newAmount" gorm:"type:DECIMAL(20,8)" example:"1200"`      // Value after the edit
	Date           types.Date      `json:"date" example:"2026-10-14"`                               // Day the edit was made
}

// history returns the edit records of an owner, oldest first.
func history(db *gorm.DB, ownerType string, ownerID uuid.UUID) ([]EditRecord, error) {
	records := make([]EditRecord, 0)
	err := db.
		Where(&EditRecord{OwnerType: ownerType, OwnerID: ownerID}).
		Order("date ASC, created_at ASC").
		Find(&records).Error

	return records, err
}

// deleteHistory removes the edit records of all given owners.
func deleteHistory(tx *gorm.DB, ownerType string, ownerIDs ...uuid.UUID) error {
	if len(ownerIDs) == 0 {
		return nil
	}

	return tx.Where("owner_type = ? AND owner_id IN ?", ownerType, ownerIDs).Delete(&EditRecord{}).Error
}
