package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/messmill/backend/internal/models"
	"github.com/messmill/backend/internal/types"
	"github.com/shopspring/decimal"
)

// MealEditable adds the meals of today for a student. The student is
// identified by its ID or by its name, ignoring case.
type MealEditable struct {
	StudentID   uuid.UUID           `json:"studentId" example:"65392deb-5e92-4268-b114-297faad6cdce"` // ID of the student
	StudentName string              `json:"studentName" example:"Alice"`                              // Name of the student, used when studentId is not set
	MealCount   decimal.NullDecimal `json:"mealCount" example:"2" swaggertype:"number"`               // Number of meals
}

type MealUpdate struct {
	MealCount decimal.NullDecimal `json:"mealCount" example:"3" swaggertype:"number"` // Corrected number of meals
}

type MealEntryLinks struct {
	Student string `json:"student" example:"https://example.com/api/v1/students/65392deb-5e92-4268-b114-297faad6cdce"`    // The student the meals belong to
	Days    string `json:"days" example:"https://example.com/api/v1/students/65392deb-5e92-4268-b114-297faad6cdce/meals"` // Meal days of the student
}

// MealEntry is the API v1 representation of the meal total of a student.
type MealEntry struct {
	models.DefaultModel
	StudentID   uuid.UUID       `json:"studentId" example:"65392deb-5e92-4268-b114-297faad6cdce"` // ID of the student
	StudentName string          `json:"studentName" example:"Alice"`                              // Name of the student
	TotalMeals  decimal.Decimal `json:"totalMeals" example:"24"`                                  // Sum of the meals of all days
	Links       MealEntryLinks  `json:"links"`
}

func newMealEntry(c *gin.Context, model models.MealEntry) MealEntry {
	url := c.GetString(string(models.DBContextURL))

	return MealEntry{
		DefaultModel: model.DefaultModel,
		StudentID:    model.StudentID,
		StudentName:  model.Student.Name,
		TotalMeals:   model.TotalMeals,
		Links: MealEntryLinks{
			Student: fmt.Sprintf("%s/v1/students/%s", url, model.StudentID),
			Days:    fmt.Sprintf("%s/v1/students/%s/meals", url, model.StudentID),
		},
	}
}

type MealDayLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/meals/65392deb-5e92-4268-b114-297faad6cdce/2026-10-14"` // The meal day, used for corrections
	Student string `json:"student" example:"https://example.com/api/v1/students/65392deb-5e92-4268-b114-297faad6cdce"`      // The student the meals belong to
}

// MealDay is the API v1 representation of the meals of a student on one day.
type MealDay struct {
	models.DefaultModel
	StudentID   uuid.UUID           `json:"studentId" example:"65392deb-5e92-4268-b114-297faad6cdce"` // ID of the student
	Date        types.Date          `json:"date" example:"2026-10-14"`                                // Day of the meals
	MealCount   decimal.Decimal     `json:"mealCount" example:"2"`                                    // Number of meals
	Edited      bool                `json:"edited" example:"false"`                                   // Was the count corrected?
	EditCount   int                 `json:"editCount" example:"0"`                                    // Number of corrections
	Editable    bool                `json:"editable" example:"true"`                                  // Can the count still be corrected?
	EditHistory []models.EditRecord `json:"editHistory"`                                              // Corrections, oldest first
	Links       MealDayLinks        `json:"links"`
}

func newMealDay(c *gin.Context, model models.MealDay) MealDay {
	url := c.GetString(string(models.DBContextURL))

	history := model.EditHistory
	if history == nil {
		history = []models.EditRecord{}
	}

	return MealDay{
		DefaultModel: model.DefaultModel,
		StudentID:    model.StudentID,
		Date:         model.Date,
		MealCount:    model.MealCount,
		Edited:       model.Edited,
		EditCount:    model.EditCount,
		Editable:     model.EditCount < models.MaxMealDayEdits,
		EditHistory:  history,
		Links: MealDayLinks{
			Self:    fmt.Sprintf("%s/v1/meals/%s/%s", url, model.StudentID, model.Date),
			Student: fmt.Sprintf("%s/v1/students/%s", url, model.StudentID),
		},
	}
}

type MealEntryListResponse struct {
	Data  []MealEntry `json:"data"`                                                                // Meal totals in the order the students were added
	Error *string     `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
}

type MealDayListResponse struct {
	Data  []MealDay `json:"data"`                                                          // Meal days, oldest first
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type MealDayResponse struct {
	Data  *MealDay `json:"data"`                                                            // Data for the meal day
	Error *string  `json:"error" example:"the meals for this day have already been edited"` // The error, if any occurred
}

type MealDayCreateResponse struct {
	Error *string           `json:"error" example:"meals for this student have already been added today"` // The error, if any occurred
	Data  []MealDayResponse `json:"data"`                                                                 // List of added meal days
}

func (m *MealDayCreateResponse) appendError(err error, currentStatus int) int {
	e := err.Error()
	m.Data = append(m.Data, MealDayResponse{Error: &e})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}
