package models

import (
	"errors"

	"github.com/google/uuid"
	"github.com/messmill/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// MaxMealDayEdits is the number of times the meal count of one day can be
// corrected after it was added.
const MaxMealDayEdits = 1

// MealEntry is the aggregate of all meals of a student.
type MealEntry struct {
	DefaultModel
	StudentID  uuid.UUID       `gorm:"type:uuid;uniqueIndex"`
	Student    Student         `gorm:"constraint:OnDelete:CASCADE"`
	TotalMeals decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

// MealDay is the number of meals of a student on one day.
type MealDay struct {
	DefaultModel
	StudentID   uuid.UUID       `gorm:"type:uuid;uniqueIndex:meal_day_student_date"`
	Student     Student         `gorm:"constraint:OnDelete:CASCADE"`
	Date        types.Date      `gorm:"uniqueIndex:meal_day_student_date"`
	MealCount   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Edited      bool
	EditCount   int
	EditHistory []EditRecord `gorm:"-"`
}

// LoadHistory loads the edit history of the meal day.
func (m *MealDay) LoadHistory(db *gorm.DB) (err error) {
	m.EditHistory, err = history(db, OwnerMealDay, m.ID)
	return
}

// AddMeal records the meals of a student for today.
//
// Meals can only be added once per day. A day that exists with a
// count of zero is treated as not added yet.
func AddMeal(db *gorm.DB, studentID uuid.UUID, count decimal.Decimal) (MealDay, error) {
	var day MealDay

	err := db.Transaction(func(tx *gorm.DB) error {
		var student Student
		err := tx.First(&student, "id = ?", studentID).Error
		if errors.Is(err, ErrResourceNotFound) {
			return ErrNoSuchStudent
		} else if err != nil {
			return err
		}

		today := Today()
		var days []MealDay
		err = tx.Where("student_id = ? AND date = ?", student.ID, today).Limit(1).Find(&days).Error
		if err != nil {
			return err
		}

		if len(days) > 0 {
			day = days[0]
			if !day.MealCount.IsZero() {
				return ErrMealAlreadyAddedToday
			}

			day.MealCount = count
			err = tx.Save(&day).Error
		} else {
			day = MealDay{
				StudentID: student.ID,
				Date:      today,
				MealCount: count,
			}
			err = tx.Create(&day).Error
		}
		if err != nil {
			return err
		}

		err = refreshMealEntry(tx, student.ID)
		if err != nil {
			return err
		}

		return day.LoadHistory(tx)
	})
	if err != nil {
		return MealDay{}, err
	}

	return day, nil
}

// EditMeal corrects the meal count of a student on a specific day.
// Every day can be corrected MaxMealDayEdits times.
func EditMeal(db *gorm.DB, studentID uuid.UUID, date types.Date, count decimal.Decimal) (MealDay, error) {
	var day MealDay

	err := db.Transaction(func(tx *gorm.DB) error {
		var student Student
		err := tx.First(&student, "id = ?", studentID).Error
		if err != nil {
			return err
		}

		err = tx.First(&day, "student_id = ? AND date = ?", student.ID, date).Error
		if err != nil {
			return err
		}

		if day.EditCount >= MaxMealDayEdits {
			return ErrMealAlreadyEdited
		}

		err = tx.Create(&EditRecord{
			OwnerID:        day.ID,
			OwnerType:      OwnerMealDay,
			PreviousAmount: day.MealCount,
			NewAmount:      count,
			Date:           Today(),
		}).Error
		if err != nil {
			return err
		}

		day.MealCount = count
		day.Edited = true
		day.EditCount++

		err = tx.Save(&day).Error
		if err != nil {
			return err
		}

		err = refreshMealEntry(tx, student.ID)
		if err != nil {
			return err
		}

		return day.LoadHistory(tx)
	})
	if err != nil {
		return MealDay{}, err
	}

	return day, nil
}

// MealDays returns the meal days of a student in ascending order of date.
// If month is not zero, only days in that month are returned.
func MealDays(db *gorm.DB, studentID uuid.UUID, month types.Month) ([]MealDay, error) {
	q := db.Where("student_id = ?", studentID)
	if !month.IsZero() {
		q = q.Where("date >= ? AND date < ?", month.FirstDay(), month.AddDate(0, 1).FirstDay())
	}

	days := make([]MealDay, 0)
	err := q.Order("date ASC").Find(&days).Error
	if err != nil {
		return nil, err
	}

	for i := range days {
		err = days[i].LoadHistory(db)
		if err != nil {
			return nil, err
		}
	}

	return days, nil
}

// MealEntries returns the meal aggregates with their students in the
// order the students were added.
func MealEntries(db *gorm.DB) ([]MealEntry, error) {
	entries := make([]MealEntry, 0)
	err := db.Preload("Student").Find(&entries).Error
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b MealEntry) int {
		return int(a.Student.Position - b.Student.Position)
	})

	return entries, nil
}

// refreshMealEntry sets the aggregate of a student to the sum of all of
// their meal days.
func refreshMealEntry(tx *gorm.DB, studentID uuid.UUID) error {
	var days []MealDay
	err := tx.Where("student_id = ?", studentID).Find(&days).Error
	if err != nil {
		return err
	}

	total := decimal.Zero
	for _, day := range days {
		total = total.Add(day.MealCount)
	}

	var entries []MealEntry
	err = tx.Where("student_id = ?", studentID).Limit(1).Find(&entries).Error
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return tx.Create(&MealEntry{
			StudentID:  studentID,
			TotalMeals: total,
		}).Error
	}

	return tx.Model(&entries[0]).Update("total_meals", total).Error
}
