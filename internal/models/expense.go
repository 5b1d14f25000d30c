package models

import (
	"github.com/google/uuid"
	"github.com/messmill/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxExpenseEditsPerDay is the number of times an expense can be edited
// on one day.
const MaxExpenseEditsPerDay = 3

// Expense is money spent by the mess.
type Expense struct {
	DefaultModel
	Amount       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date         types.Date
	EditCount    int          // Edits made on LastEditDate
	LastEditDate types.Date   // Day of the most recent edit
	Position     int64        `gorm:"index"`
	EditHistory  []EditRecord `gorm:"-"`
}

// BeforeCreate appends the expense to the end of the collection.
func (e *Expense) BeforeCreate(tx *gorm.DB) (err error) {
	err = e.DefaultModel.BeforeCreate(tx)
	if err != nil {
		return err
	}

	if e.Position == 0 {
		e.Position, err = nextPosition(tx, "expenses")
	}

	return err
}

// BeforeSave defaults the date to today.
func (e *Expense) BeforeSave(_ *gorm.DB) (err error) {
	if e.Date.IsZero() {
		e.Date = Today()
	}

	return nil
}

// LoadHistory loads the edit history of the expense.
func (e *Expense) LoadHistory(db *gorm.DB) (err error) {
	e.EditHistory, err = history(db, OwnerExpense, e.ID)
	return
}

// EditableToday returns the number of edits left for today.
func (e Expense) EditableToday() int {
	if !e.LastEditDate.Equal(Today()) {
		return MaxExpenseEditsPerDay
	}

	return max(MaxExpenseEditsPerDay-e.EditCount, 0)
}

// CreateExpense appends an expense dated today.
func CreateExpense(db *gorm.DB, amount decimal.Decimal) (Expense, error) {
	expense := Expense{
		Amount:      amount,
		Date:        Today(),
		EditHistory: []EditRecord{},
	}

	err := db.Create(&expense).Error
	if err != nil {
		return Expense{}, err
	}

	return expense, nil
}

// EditExpense replaces the amount of an expense.
//
// The edit count starts over on every new day.
func EditExpense(db *gorm.DB, id uuid.UUID, amount decimal.Decimal) (Expense, error) {
	var expense Expense

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&expense, "id = ?", id).Error
		if err != nil {
			return err
		}

		today := Today()
		if !expense.LastEditDate.Equal(today) {
			expense.EditCount = 0
		}

		if expense.EditCount >= MaxExpenseEditsPerDay {
			return ErrExpenseDailyEditLimit
		}

		err = tx.Create(&EditRecord{
			OwnerID:        expense.ID,
			OwnerType:      OwnerExpense,
			PreviousAmount: expense.Amount,
			NewAmount:      amount,
			Date:           today,
		}).Error
		if err != nil {
			return err
		}

		expense.Amount = amount
		expense.EditCount++
		expense.LastEditDate = today

		err = tx.Save(&expense).Error
		if err != nil {
			return err
		}

		return expense.LoadHistory(tx)
	})
	if err != nil {
		return Expense{}, err
	}

	return expense, nil
}

// DeleteExpense deletes an expense and its edit history.
func DeleteExpense(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var expense Expense
		err := tx.First(&expense, "id = ?", id).Error
		if err != nil {
			return err
		}

		return deleteExpense(tx, expense.ID)
	})
}

// DeleteLastExpense deletes the most recently added expense.
func DeleteLastExpense(db *gorm.DB) (Expense, error) {
	var expense Expense

	err := db.Transaction(func(tx *gorm.DB) error {
		var expenses []Expense
		err := tx.Order("position DESC").Limit(1).Find(&expenses).Error
		if err != nil {
			return err
		}

		if len(expenses) == 0 {
			return ErrEmptyCollection
		}

		expense = expenses[0]
		return deleteExpense(tx, expense.ID)
	})
	if err != nil {
		return Expense{}, err
	}

	return expense, nil
}

// RestartExpenses deletes all expenses.
func RestartExpenses(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&Expense{}).Count(&count).Error
		if err != nil {
			return err
		}

		if count == 0 {
			return ErrEmptyCollection
		}

		err = tx.Where("owner_type = ?", OwnerExpense).Delete(&EditRecord{}).Error
		if err != nil {
			return err
		}

		return tx.Where("true").Delete(&Expense{}).Error
	})
}

func deleteExpense(tx *gorm.DB, id uuid.UUID) error {
	err := deleteHistory(tx, OwnerExpense, id)
	if err != nil {
		return err
	}

	return tx.Delete(&Expense{}, "id = ?", id).Error
}
