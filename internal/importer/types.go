package importer

import (
	"github.com/messmill/backend/internal/models"
	"github.com/shopspring/decimal"
)

// ParsedResources is the struct containing all resources that are to be created.
//
// Students and expenses are in the order they were added to their ledger.
type ParsedResources struct {
	Students []Student
	Expenses []Expense
	Checksum string   // SHA256 of the parsed document
	Warnings []string // Parts of the document that were skipped
}

type Student struct {
	Model   models.Student
	History []models.EditRecord
	Days    []MealDay

	// Total meals from the aggregate row. It is only used when the
	// student has no day records, otherwise the sum of the days is used.
	Meals decimal.NullDecimal
}

type MealDay struct {
	Model   models.MealDay
	History []models.EditRecord
}

type Expense struct {
	Model   models.Expense
	History []models.EditRecord
}

// Summary counts the resources that were created.
type Summary struct {
	Students int      `json:"students" example:"12"`
	MealDays int      `json:"mealDays" example:"240"`
	Expenses int      `json:"expenses" example:"31"`
	Checksum string   `json:"checksum" example:"dbac4a4ba50e42b6e04b43c2c9b3619e3668dc0a8caf050b584bdafaebee1787"` // SHA256 of the imported document
	Warnings []string `json:"warnings"`                                                                            // Parts of the document that were skipped
}
