package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/messmill/backend/internal/models"
	"github.com/messmill/backend/internal/types"
	"github.com/shopspring/decimal"
)

type ExpenseEditable struct {
	Amount decimal.NullDecimal `json:"amount" example:"250" swaggertype:"number"` // Money spent
}

type ExpenseLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/expenses/3b1b8a3e-0b7c-4a8e-9f4e-0c1f1b6d2a11"` // The expense itself
}

// Expense is the API v1 representation of an Expense.
type Expense struct {
	models.DefaultModel
	Amount        decimal.Decimal     `json:"amount" example:"250"`              // Money spent
	Date          types.Date          `json:"date" example:"2026-10-14"`         // Day the expense was added
	EditCount     int                 `json:"editCount" example:"1"`             // Edits made on lastEditDate
	LastEditDate  types.Date          `json:"lastEditDate" example:"2026-10-14"` // Day of the most recent edit
	EditableToday int                 `json:"editableToday" example:"2"`         // Edits left for today
	EditHistory   []models.EditRecord `json:"editHistory"`                       // All edits, oldest first
	Links         ExpenseLinks        `json:"links"`
}

func newExpense(c *gin.Context, model models.Expense) Expense {
	url := c.GetString(string(models.DBContextURL))

	history := model.EditHistory
	if history == nil {
		history = []models.EditRecord{}
	}

	return Expense{
		DefaultModel:  model.DefaultModel,
		Amount:        model.Amount,
		Date:          model.Date,
		EditCount:     model.EditCount,
		LastEditDate:  model.LastEditDate,
		EditableToday: model.EditableToday(),
		EditHistory:   history,
		Links: ExpenseLinks{
			Self: fmt.Sprintf("%s/v1/expenses/%s", url, model.ID),
		},
	}
}

type ExpenseListResponse struct {
	Data       []Expense   `json:"data"`                                                          // List of expenses
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ExpenseCreateResponse struct {
	Error *string           `json:"error" example:"the expense amount must be set"` // The error, if any occurred
	Data  []ExpenseResponse `json:"data"`                                           // List of created Expenses
}

func (e *ExpenseCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	e.Data = append(e.Data, ExpenseResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ExpenseResponse struct {
	Data  *Expense `json:"data"`                                                          // Data for the expense
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this expense
}

type ExpenseQueryFilter struct {
	Date   types.Date `form:"date" filterField:"false"`   // Only expenses added on this day
	Offset uint       `form:"offset" filterField:"false"` // The offset of the first Expense returned. Defaults to 0.
	Limit  int        `form:"limit" filterField:"false"`  // Maximum number of Expenses to return. Defaults to 50.
}
