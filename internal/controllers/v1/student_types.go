package v1

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/messmill/backend/internal/models"
	"github.com/messmill/backend/internal/types"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
)

type StudentEditable struct {
	Name       string              `json:"name" example:"Alice"`                           // Name of the student, unique regardless of case
	TotalMoney decimal.NullDecimal `json:"totalMoney" example:"1000" swaggertype:"number"` // Money the student contributed
}

type StudentUpdate struct {
	TotalMoney decimal.NullDecimal `json:"totalMoney" example:"1200" swaggertype:"number"` // New total of money the student contributed
}

type StudentLinks struct {
	Self  string `json:"self" example:"https://example.com/api/v1/students/65392deb-5e92-4268-b114-297faad6cdce"`        // The student itself
	Meals string `json:"meals" example:"https://example.com/api/v1/students/65392deb-5e92-4268-b114-297faad6cdce/meals"` // Meal days of the student
}

// Student is the API v1 representation of a Student.
type Student struct {
	models.DefaultModel
	Name              string              `json:"name" example:"Alice"`               // Name of the student
	TotalMoney        decimal.Decimal     `json:"totalMoney" example:"1000"`          // Money the student contributed
	LastEntryDate     types.Date          `json:"lastEntryDate" example:"2026-10-14"` // Day the money was last set
	EditCount         int                 `json:"editCount" example:"1"`              // Edits made in lastEditMonth
	LastEditMonth     string              `json:"lastEditMonth" example:"2026-10"`    // Month of the most recent edit, empty if never edited
	EditableThisMonth int                 `json:"editableThisMonth" example:"2"`      // Edits left for the current month
	EditHistory       []models.EditRecord `json:"editHistory"`                        // All edits, oldest first
	Links             StudentLinks        `json:"links"`
}

func newStudent(c *gin.Context, model models.Student) Student {
	url := c.GetString(string(models.DBContextURL))

	lastEditMonth := ""
	if !model.LastEditMonth.IsZero() {
		lastEditMonth = model.LastEditMonth.String()
	}

	history := model.EditHistory
	if history == nil {
		history = []models.EditRecord{}
	}

	return Student{
		DefaultModel:      model.DefaultModel,
		Name:              model.Name,
		TotalMoney:        model.TotalMoney,
		LastEntryDate:     model.LastEntryDate,
		EditCount:         model.EditCount,
		LastEditMonth:     lastEditMonth,
		EditableThisMonth: model.EditableThisMonth(),
		EditHistory:       history,
		Links: StudentLinks{
			Self:  fmt.Sprintf("%s/v1/students/%s", url, model.ID),
			Meals: fmt.Sprintf("%s/v1/students/%s/meals", url, model.ID),
		},
	}
}

type StudentListResponse struct {
	Data       []Student   `json:"data"`                                                          // List of students
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type StudentCreateResponse struct {
	Error *string           `json:"error" example:"the student name must be unique"` // The error, if any occurred
	Data  []StudentResponse `json:"data"`                                            // List of created Students
}

func (s *StudentCreateResponse) appendError(err error, currentStatus int) int {
	e := err.Error()
	s.Data = append(s.Data, StudentResponse{Error: &e})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type StudentResponse struct {
	Data  *Student `json:"data"`                                                          // Data for the student
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this student
}

type StudentQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // Case-insensitive glob pattern for the name, e.g. "a*"
	Search string `form:"search" filterField:"false"` // By text in the name, ignoring case
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first Student returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of Students to return. Defaults to 50.
}

func (f StudentQueryFilter) matches(s models.Student) bool {
	name := strings.ToLower(s.Name)

	if f.Search != "" && !strings.Contains(name, strings.ToLower(f.Search)) {
		return false
	}

	if f.Name != "" && !glob.Glob(strings.ToLower(f.Name), name) {
		return false
	}

	return true
}
