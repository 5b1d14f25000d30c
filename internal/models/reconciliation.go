package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	perMealCostPlaces = 8
	costPlaces        = 2
)

type BalanceStatus string

const (
	BalancePositive BalanceStatus = "positive"
	BalanceNegative BalanceStatus = "negative"
	BalanceSettled  BalanceStatus = "settled"
)

// StudentBalance is the account of one student against the cost of the
// meals they had.
type StudentBalance struct {
	StudentID  uuid.UUID       `json:"studentId" example:"65392deb-5e92-4268-b114-297faad6cdce"` // ID of the student
	Name       string          `json:"name" example:"Alice"`                                     // Name of the student
	TotalMoney decimal.Decimal `json:"totalMoney" example:"1000"`                                // Money the student contributed
	TotalMeals decimal.Decimal `json:"totalMeals" example:"10"`                                  // Meals the student had
	Cost       decimal.Decimal `json:"cost" example:"500"`                                       // Cost of the meals, rounded to 2 decimal places
	Balance    decimal.Decimal `json:"balance" example:"500"`                                    // Money minus cost
	Status     BalanceStatus   `json:"status" example:"positive" enums:"positive,negative,settled"`
}

// Reconciliation is the summary of all three ledgers.
type Reconciliation struct {
	TotalMoney     decimal.Decimal  `json:"totalMoney" example:"1000"`    // Sum of the money of all students
	TotalMeals     decimal.Decimal  `json:"totalMeals" example:"10"`      // Sum of the meals of all students
	TotalExpenses  decimal.Decimal  `json:"totalExpenses" example:"500"`  // Sum of all expenses
	PerMealCost    decimal.Decimal  `json:"perMealCost" example:"50"`     // Expenses divided by meals, 0 when there are no meals
	RemainingMoney decimal.Decimal  `json:"remainingMoney" example:"500"` // Money minus expenses
	Students       []StudentBalance `json:"students"`                     // Balances in the order the students were added
}

// Reconcile computes the totals and the balance of every student.
//
// Meal entries of students that are not in the list are ignored.
func Reconcile(students []Student, entries []MealEntry, expenses []Expense) Reconciliation {
	meals := make(map[uuid.UUID]decimal.Decimal, len(entries))
	for _, entry := range entries {
		meals[entry.StudentID] = meals[entry.StudentID].Add(entry.TotalMeals)
	}

	r := Reconciliation{
		TotalMoney:    decimal.Zero,
		TotalMeals:    decimal.Zero,
		TotalExpenses: decimal.Zero,
		PerMealCost:   decimal.Zero,
		Students:      make([]StudentBalance, 0, len(students)),
	}

	for _, student := range students {
		r.TotalMoney = r.TotalMoney.Add(student.TotalMoney)
		r.TotalMeals = r.TotalMeals.Add(meals[student.ID])
	}

	for _, expense := range expenses {
		r.TotalExpenses = r.TotalExpenses.Add(expense.Amount)
	}

	if r.TotalMeals.IsPositive() {
		r.PerMealCost = r.TotalExpenses.DivRound(r.TotalMeals, perMealCostPlaces)
	}

	r.RemainingMoney = r.TotalMoney.Sub(r.TotalExpenses)

	for _, student := range students {
		total := meals[student.ID]
		cost := total.Mul(r.PerMealCost).Round(costPlaces)
		balance := student.TotalMoney.Sub(cost)

		r.Students = append(r.Students, StudentBalance{
			StudentID:  student.ID,
			Name:       student.Name,
			TotalMoney: student.TotalMoney,
			TotalMeals: total,
			Cost:       cost,
			Balance:    balance,
			Status:     status(balance),
		})
	}

	return r
}

func status(balance decimal.Decimal) BalanceStatus {
	switch balance.Sign() {
	case 1:
		return BalancePositive
	case -1:
		return BalanceNegative
	default:
		return BalanceSettled
	}
}

// LoadReconciliation reads all three ledgers and reconciles them.
func LoadReconciliation(db *gorm.DB) (Reconciliation, error) {
	var students []Student
	err := db.Order("position ASC").Find(&students).Error
	if err != nil {
		return Reconciliation{}, err
	}

	var entries []MealEntry
	err = db.Find(&entries).Error
	if err != nil {
		return Reconciliation{}, err
	}

	var expenses []Expense
	err = db.Order("position ASC").Find(&expenses).Error
	if err != nil {
		return Reconciliation{}, err
	}

	return Reconcile(students, entries, expenses), nil
}
