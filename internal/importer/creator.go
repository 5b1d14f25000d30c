package importer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/messmill/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Create replaces all ledger data with the parsed resources.
//
// Everything happens in one transaction, if any resource cannot be
// created, the existing data is kept.
func Create(db *gorm.DB, resources ParsedResources) (Summary, error) {
	summary := Summary{
		Checksum: resources.Checksum,
		Warnings: resources.Warnings,
	}
	if summary.Warnings == nil {
		summary.Warnings = []string{}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		err := models.DeleteAll(tx)
		if err != nil {
			return err
		}

		for idx, student := range resources.Students {
			student.Model.Position = int64(idx + 1)
			err := tx.Create(&student.Model).Error
			if err != nil {
				return fmt.Errorf("student '%s': %w", student.Model.Name, err)
			}

			err = createHistory(tx, models.OwnerStudent, student.Model.ID, student.History)
			if err != nil {
				return err
			}

			total := decimal.Zero
			for _, day := range student.Days {
				day.Model.StudentID = student.Model.ID
				err := tx.Create(&day.Model).Error
				if err != nil {
					return fmt.Errorf("meals of '%s' on %s: %w", student.Model.Name, day.Model.Date, err)
				}

				err = createHistory(tx, models.OwnerMealDay, day.Model.ID, day.History)
				if err != nil {
					return err
				}

				total = total.Add(day.Model.MealCount)
				summary.MealDays++
			}

			if len(student.Days) == 0 && !student.Meals.Valid {
				summary.Students++
				continue
			}

			if len(student.Days) == 0 {
				total = student.Meals.Decimal
			}

			err = tx.Create(&models.MealEntry{
				StudentID:  student.Model.ID,
				TotalMeals: total,
			}).Error
			if err != nil {
				return err
			}

			summary.Students++
		}

		for idx, expense := range resources.Expenses {
			expense.Model.Position = int64(idx + 1)
			err := tx.Create(&expense.Model).Error
			if err != nil {
				return fmt.Errorf("expense %d: %w", idx+1, err)
			}

			err = createHistory(tx, models.OwnerExpense, expense.Model.ID, expense.History)
			if err != nil {
				return err
			}

			summary.Expenses++
		}

		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	return summary, nil
}

// createHistory creates the edit records of one owner.
func createHistory(tx *gorm.DB, ownerType string, ownerID uuid.UUID, records []models.EditRecord) error {
	for _, record := range records {
		record.ID = uuid.Nil
		record.OwnerType = ownerType
		record.OwnerID = ownerID

		err := tx.Create(&record).Error
		if err != nil {
			return err
		}
	}

	return nil
}
