package models

import "gorm.io/gorm"

// DeleteAll permanently deletes all ledger records.
//
// Foreign keys are checked, so models are deleted before the models
// they reference.
func DeleteAll(tx *gorm.DB) error {
	resources := []any{
		EditRecord{},
		MealDay{},
		MealEntry{},
		Expense{},
		Student{},
	}

	for _, model := range resources {
		err := tx.Where("true").Delete(&model).Error
		if err != nil {
			return err
		}
	}

	return nil
}
