package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/messmill/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxStudentEditsPerMonth is the number of times a student can be edited
// within one calendar month.
const MaxStudentEditsPerMonth = 3

// Student is a member of the mess and the money they contributed.
type Student struct {
	DefaultModel
	Name          string          `gorm:"uniqueIndex"`
	TotalMoney    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	LastEntryDate types.Date
	EditCount     int
	LastEditMonth types.Month
	Position      int64        `gorm:"index"` // Insertion order, used for delete-last
	EditHistory   []EditRecord `gorm:"-"`
}

// BeforeSave trims whitespace from the name and verifies it is set.
func (s *Student) BeforeSave(_ *gorm.DB) (err error) {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return ErrStudentNameEmpty
	}

	return nil
}

// BeforeCreate enforces case-insensitive uniqueness of the name and
// appends the student to the end of the collection.
func (s *Student) BeforeCreate(tx *gorm.DB) (err error) {
	err = s.DefaultModel.BeforeCreate(tx)
	if err != nil {
		return err
	}

	var names []string
	err = tx.Model(&Student{}).Pluck("name", &names).Error
	if err != nil {
		return err
	}

	for _, name := range names {
		if strings.EqualFold(name, s.Name) {
			return ErrStudentNameNotUnique
		}
	}

	if s.Position == 0 {
		s.Position, err = nextPosition(tx, "students")
	}

	return err
}

// LoadHistory loads the edit history of the student.
func (s *Student) LoadHistory(db *gorm.DB) (err error) {
	s.EditHistory, err = history(db, OwnerStudent, s.ID)
	return
}

// EditableThisMonth returns the number of edits left for the current month.
func (s Student) EditableThisMonth() int {
	if !s.LastEditMonth.Equal(ThisMonth()) {
		return MaxStudentEditsPerMonth
	}

	return max(MaxStudentEditsPerMonth-s.EditCount, 0)
}

// CreateStudent appends a new student.
func CreateStudent(db *gorm.DB, name string, amount decimal.Decimal) (Student, error) {
	student := Student{
		Name:          name,
		TotalMoney:    amount,
		LastEntryDate: Today(),
		EditHistory:   []EditRecord{},
	}

	err := db.Create(&student).Error
	if err != nil {
		return Student{}, err
	}

	return student, nil
}

// EditStudent replaces the total money of a student.
//
// A student can be edited once per day and MaxStudentEditsPerMonth times
// per calendar month. The count resets when the first edit of a new month
// is made.
func EditStudent(db *gorm.DB, id uuid.UUID, amount decimal.Decimal) (Student, error) {
	var student Student

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&student, "id = ?", id).Error
		if err != nil {
			return err
		}

		today := Today()
		var editedToday int64
		err = tx.Model(&EditRecord{}).
			Where("owner_type = ? AND owner_id = ? AND date = ?", OwnerStudent, student.ID, today).
			Count(&editedToday).Error
		if err != nil {
			return err
		}

		if editedToday > 0 {
			return ErrStudentAlreadyEditedToday
		}

		month := ThisMonth()
		if !student.LastEditMonth.Equal(month) {
			student.EditCount = 0
		}

		if student.EditCount+1 > MaxStudentEditsPerMonth {
			return ErrStudentMonthlyEditLimit
		}

		err = tx.Create(&EditRecord{
			OwnerID:        student.ID,
			OwnerType:      OwnerStudent,
			PreviousAmount: student.TotalMoney,
			NewAmount:      amount,
			Date:           today,
		}).Error
		if err != nil {
			return err
		}

		student.TotalMoney = amount
		student.LastEntryDate = today
		student.EditCount++
		student.LastEditMonth = month

		err = tx.Save(&student).Error
		if err != nil {
			return err
		}

		return student.LoadHistory(tx)
	})
	if err != nil {
		return Student{}, err
	}

	return student, nil
}

// FindStudentByName returns the student with the name, compared
// case-insensitively.
func FindStudentByName(db *gorm.DB, name string) (Student, error) {
	name = strings.TrimSpace(name)

	var students []Student
	err := db.Order("position ASC").Find(&students).Error
	if err != nil {
		return Student{}, err
	}

	for _, student := range students {
		if strings.EqualFold(student.Name, name) {
			return student, nil
		}
	}

	return Student{}, ErrNoSuchStudent
}

// DeleteStudent deletes a student together with its meal entry,
// its meal days and all of their edit records.
func DeleteStudent(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var student Student
		err := tx.First(&student, "id = ?", id).Error
		if err != nil {
			return err
		}

		return deleteStudent(tx, student.ID)
	})
}

// DeleteLastStudent deletes the most recently added student.
func DeleteLastStudent(db *gorm.DB) (Student, error) {
	var student Student

	err := db.Transaction(func(tx *gorm.DB) error {
		var students []Student
		err := tx.Order("position DESC").Limit(1).Find(&students).Error
		if err != nil {
			return err
		}

		if len(students) == 0 {
			return ErrEmptyCollection
		}

		student = students[0]
		return deleteStudent(tx, student.ID)
	})
	if err != nil {
		return Student{}, err
	}

	return student, nil
}

// RestartStudents deletes all students and all meal data.
func RestartStudents(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&Student{}).Count(&count).Error
		if err != nil {
			return err
		}

		if count == 0 {
			return ErrEmptyCollection
		}

		err = tx.Where("owner_type IN ?", []string{OwnerStudent, OwnerMealDay}).Delete(&EditRecord{}).Error
		if err != nil {
			return err
		}

		for _, model := range []any{&MealDay{}, &MealEntry{}, &Student{}} {
			err = tx.Where("true").Delete(model).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func deleteStudent(tx *gorm.DB, id uuid.UUID) error {
	var dayIDs []uuid.UUID
	err := tx.Model(&MealDay{}).Where("student_id = ?", id).Pluck("id", &dayIDs).Error
	if err != nil {
		return err
	}

	err = deleteHistory(tx, OwnerMealDay, dayIDs...)
	if err != nil {
		return err
	}

	err = tx.Where("student_id = ?", id).Delete(&MealDay{}).Error
	if err != nil {
		return err
	}

	err = tx.Where("student_id = ?", id).Delete(&MealEntry{}).Error
	if err != nil {
		return err
	}

	err = deleteHistory(tx, OwnerStudent, id)
	if err != nil {
		return err
	}

	return tx.Delete(&Student{}, "id = ?", id).Error
}
