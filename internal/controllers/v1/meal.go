package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/messmill/backend/internal/events"
	"github.com/messmill/backend/internal/httputil"
	"github.com/messmill/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterMealRoutes registers the routes for meals with
// the RouterGroup that is passed.
func RegisterMealRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsMealList)
		r.GET("", GetMeals)
		r.POST("", CreateMeals)
	}

	// Meal day of a student
	{
		r.OPTIONS("/:id/:date", OptionsMealDay)
		r.PATCH("/:id/:date", UpdateMealDay)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Meals
// @Success		204
// @Router			/v1/meals [options]
func OptionsMealList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Meals
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		string	true	"ID of the student"
// @Param			date	path		string	true	"Day of the meals in YYYY-MM-DD format"
// @Router			/v1/meals/{id}/{date} [options]
func OptionsMealDay(c *gin.Context) {
	var uri URIMealDay
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: err.Error(),
		})
		return
	}

	var day models.MealDay
	err = models.DB.First(&day, "student_id = ? AND date = ?", uri.ID.UUID, uri.Date).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPatch(c)
}

// @Summary		List meals
// @Description	Returns the meal totals of all students in the order the students were added
// @Tags			Meals
// @Produce		json
// @Success		200	{object}	MealEntryListResponse
// @Failure		500	{object}	MealEntryListResponse
// @Router			/v1/meals [get]
func GetMeals(c *gin.Context) {
	entries, err := models.MealEntries(models.DB)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MealEntryListResponse{
			Error: &s,
		})
		return
	}

	data := make([]MealEntry, 0, len(entries))
	for _, entry := range entries {
		data = append(data, newMealEntry(c, entry))
	}

	c.JSON(http.StatusOK, MealEntryListResponse{Data: data})
}

// @Summary		Add meals
// @Description	Records the meals of today for students. Meals can be added once per day for every student.
// @Tags			Meals
// @Accept			json
// @Produce		json
// @Success		201		{object}	MealDayCreateResponse
// @Failure		400		{object}	MealDayCreateResponse
// @Failure		404		{object}	MealDayCreateResponse
// @Failure		500		{object}	MealDayCreateResponse
// @Param			meals	body		[]MealEditable	true	"Meals"
// @Router			/v1/meals [post]
func CreateMeals(c *gin.Context) {
	var editables []MealEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MealDayCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := MealDayCreateResponse{}

	for _, editable := range editables {
		if !editable.MealCount.Valid {
			status = r.appendError(models.ErrMealCountNotSet, status)
			continue
		}

		studentID, err := mealStudent(editable)
		if err != nil {
			reject(events.Meals, err)
			status = r.appendError(err, status)
			continue
		}

		day, err := models.AddMeal(models.DB, studentID, editable.MealCount.Decimal)
		if err != nil {
			reject(events.Meals, err)
			status = r.appendError(err, status)
			continue
		}

		publish(events.Meals, events.Created, day.ID)
		data := newMealDay(c, day)
		r.Data = append(r.Data, MealDayResponse{Data: &data})
	}

	c.JSON(status, r)
}

// mealStudent resolves the student meals are added for.
func mealStudent(editable MealEditable) (uuid.UUID, error) {
	if editable.StudentID != uuid.Nil {
		return editable.StudentID, nil
	}

	if editable.StudentName == "" {
		return uuid.Nil, errStudentNotSpecified
	}

	student, err := models.FindStudentByName(models.DB, editable.StudentName)
	if err != nil {
		return uuid.Nil, err
	}

	return student.ID, nil
}

// @Summary		Correct meals
// @Description	Corrects the number of meals of a student on one day. Every day can be corrected once.
// @Tags			Meals
// @Accept			json
// @Produce		json
// @Success		200		{object}	MealDayResponse
// @Failure		400		{object}	MealDayResponse
// @Failure		404		{object}	MealDayResponse
// @Failure		500		{object}	MealDayResponse
// @Param			id		path		string		true	"ID of the student"
// @Param			date	path		string		true	"Day of the meals in YYYY-MM-DD format"
// @Param			meals	body		MealUpdate	true	"Meals"
// @Router			/v1/meals/{id}/{date} [patch]
func UpdateMealDay(c *gin.Context) {
	var uri URIMealDay
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, MealDayResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, MealUpdate{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MealDayResponse{
			Error: &s,
		})
		return
	}

	var data MealUpdate
	err = httputil.BindData(c, &data)
	if err == nil && (!slices.Contains(updateFields, any("MealCount")) || !data.MealCount.Valid) {
		err = models.ErrMealCountNotSet
	}
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MealDayResponse{
			Error: &s,
		})
		return
	}

	day, err := models.EditMeal(models.DB, uri.ID.UUID, uri.Date, data.MealCount.Decimal)
	if err != nil {
		reject(events.Meals, err)
		s := err.Error()
		c.JSON(status(err), MealDayResponse{
			Error: &s,
		})
		return
	}

	publish(events.Meals, events.Updated, day.ID)
	r := newMealDay(c, day)
	c.JSON(http.StatusOK, MealDayResponse{Data: &r})
}
