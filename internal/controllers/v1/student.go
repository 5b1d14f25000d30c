package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/messmill/backend/internal/events"
	"github.com/messmill/backend/internal/httputil"
	"github.com/messmill/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterStudentRoutes registers the routes for students with
// the RouterGroup that is passed.
func RegisterStudentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsStudentList)
		r.GET("", GetStudents)
		r.POST("", CreateStudents)
		r.DELETE("", RestartStudents)
	}

	// Most recently added student
	{
		r.OPTIONS("/last", OptionsStudentLast)
		r.DELETE("/last", DeleteLastStudent)
	}

	// Student with ID
	{
		r.OPTIONS("/:id", OptionsStudentDetail)
		r.GET("/:id", GetStudent)
		r.PATCH("/:id", UpdateStudent)
		r.DELETE("/:id", DeleteStudent)
		r.OPTIONS("/:id/meals", OptionsStudentMeals)
		r.GET("/:id/meals", GetStudentMeals)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Students
// @Success		204
// @Router			/v1/students [options]
func OptionsStudentList(c *gin.Context) {
	httputil.OptionsGetPostDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Students
// @Success		204
// @Router			/v1/students/last [options]
func OptionsStudentLast(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Students
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/students/{id} [options]
func OptionsStudentDetail(c *gin.Context) {
	if _, ok := bindStudent(c); !ok {
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Students
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/students/{id}/meals [options]
func OptionsStudentMeals(c *gin.Context) {
	if _, ok := bindStudent(c); !ok {
		return
	}

	httputil.OptionsGet(c)
}

// bindStudent reads the student referenced in the URI. If that fails,
// the error is written to the response.
func bindStudent(c *gin.Context) (models.Student, bool) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: httputil.ErrInvalidUUID.Error(),
		})
		return models.Student{}, false
	}

	var student models.Student
	err = models.DB.First(&student, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return models.Student{}, false
	}

	return student, true
}

// @Summary		Create students
// @Description	Adds new students to the end of the list
// @Tags			Students
// @Produce		json
// @Success		201			{object}	StudentCreateResponse
// @Failure		400			{object}	StudentCreateResponse
// @Failure		500			{object}	StudentCreateResponse
// @Param			students	body		[]StudentEditable	true	"Students"
// @Router			/v1/students [post]
func CreateStudents(c *gin.Context) {
	var editables []StudentEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), StudentCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := StudentCreateResponse{}

	for _, editable := range editables {
		if strings.TrimSpace(editable.Name) == "" {
			status = r.appendError(models.ErrStudentNameEmpty, status)
			continue
		}

		if !editable.TotalMoney.Valid {
			status = r.appendError(models.ErrStudentAmountNotSet, status)
			continue
		}

		student, err := models.CreateStudent(models.DB, editable.Name, editable.TotalMoney.Decimal)
		if err != nil {
			reject(events.Students, err)
			status = r.appendError(err, status)
			continue
		}

		publish(events.Students, events.Created, student.ID)
		data := newStudent(c, student)
		r.Data = append(r.Data, StudentResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List students
// @Description	Returns the students in the order they were added
// @Tags			Students
// @Produce		json
// @Success		200	{object}	StudentListResponse
// @Failure		400	{object}	StudentListResponse
// @Failure		500	{object}	StudentListResponse
// @Router			/v1/students [get]
// @Param			name	query	string	false	"Filter by name with a glob pattern, ignoring case"
// @Param			search	query	string	false	"Search for this text in the name, ignoring case"
// @Param			offset	query	uint	false	"The offset of the first Student returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Students to return. Defaults to 50."
func GetStudents(c *gin.Context) {
	var filter StudentQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, StudentListResponse{
			Error: &s,
		})
		return
	}

	// Get the set parameters in the query string
	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	var students []models.Student
	err := models.DB.Order("position ASC").Find(&students).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), StudentListResponse{
			Error: &s,
		})
		return
	}

	matching := make([]models.Student, 0, len(students))
	for _, student := range students {
		if filter.matches(student) {
			matching = append(matching, student)
		}
	}

	// Default to 50 Students and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}

	// When there are no resources, we want an empty list, not null
	// Therefore, we use make to create a slice with zero elements
	// which will be marshalled to an empty JSON array
	data := make([]Student, 0)
	for _, student := range paginate(matching, filter.Offset, limit) {
		err = student.LoadHistory(models.DB)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), StudentListResponse{
				Error: &s,
			})
			return
		}

		data = append(data, newStudent(c, student))
	}

	c.JSON(http.StatusOK, StudentListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  int64(len(matching)),
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get student
// @Description	Returns a specific student with its edit history
// @Tags			Students
// @Produce		json
// @Success		200	{object}	StudentResponse
// @Failure		400	{object}	StudentResponse
// @Failure		404	{object}	StudentResponse
// @Failure		500	{object}	StudentResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/students/{id} [get]
func GetStudent(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, StudentResponse{
			Error: &s,
		})
		return
	}

	var student models.Student
	err = models.DB.First(&student, "id = ?", uri.ID.UUID).Error
	if err == nil {
		err = student.LoadHistory(models.DB)
	}
	if err != nil {
		s := err.Error()
		c.JSON(status(err), StudentResponse{
			Error: &s,
		})
		return
	}

	data := newStudent(c, student)
	c.JSON(http.StatusOK, StudentResponse{Data: &data})
}

// @Summary		Update student
// @Description	Replaces the total money of a student. A student can be edited once per day and three times per month.
// @Tags			Students
// @Accept			json
// @Produce		json
// @Success		200		{object}	StudentResponse
// @Failure		400		{object}	StudentResponse
// @Failure		404		{object}	StudentResponse
// @Failure		500		{object}	StudentResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			student	body		StudentUpdate	true	"Student"
// @Router			/v1/students/{id} [patch]
func UpdateStudent(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, StudentResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, StudentUpdate{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), StudentResponse{
			Error: &s,
		})
		return
	}

	var data StudentUpdate
	err = httputil.BindData(c, &data)
	if err == nil && (!slices.Contains(updateFields, any("TotalMoney")) || !data.TotalMoney.Valid) {
		err = models.ErrStudentAmountNotSet
	}
	if err != nil {
		s := err.Error()
		c.JSON(status(err), StudentResponse{
			Error: &s,
		})
		return
	}

	student, err := models.EditStudent(models.DB, uri.ID.UUID, data.TotalMoney.Decimal)
	if err != nil {
		reject(events.Students, err)
		s := err.Error()
		c.JSON(status(err), StudentResponse{
			Error: &s,
		})
		return
	}

	publish(events.Students, events.Updated, student.ID)
	r := newStudent(c, student)
	c.JSON(http.StatusOK, StudentResponse{Data: &r})
}

// @Summary		Delete student
// @Description	Deletes a student together with all of its meals
// @Tags			Students
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/students/{id} [delete]
func DeleteStudent(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: httputil.ErrInvalidUUID.Error(),
		})
		return
	}

	err = models.DeleteStudent(models.DB, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	publish(events.Students, events.Deleted, uri.ID.UUID)
	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Delete last student
// @Description	Deletes the most recently added student together with all of its meals
// @Tags			Students
// @Success		204
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/students/last [delete]
func DeleteLastStudent(c *gin.Context) {
	student, err := models.DeleteLastStudent(models.DB)
	if err != nil {
		reject(events.Students, err)
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	publish(events.Students, events.Deleted, student.ID)
	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Delete all students
// @Description	Deletes all students and all meals
// @Tags			Students
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			confirm	query		string	false	"Confirmation to delete all students. Must have the value 'yes-please-delete-all-students'"
// @Router			/v1/students [delete]
func RestartStudents(c *gin.Context) {
	var params QueryConfirm
	err := c.ShouldBindQuery(&params)
	if err != nil || params.Confirm != "yes-please-delete-all-students" {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errRestartConfirmation.Error(),
		})
		return
	}

	err = models.RestartStudents(models.DB)
	if err != nil {
		reject(events.Students, err)
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	publish(events.Students, events.Cleared, uuid.Nil)
	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Get meals of a student
// @Description	Returns the meal days of a student in ascending order of date
// @Tags			Students
// @Produce		json
// @Success		200		{object}	MealDayListResponse
// @Failure		400		{object}	MealDayListResponse
// @Failure		404		{object}	MealDayListResponse
// @Failure		500		{object}	MealDayListResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			month	query		string	false	"Only return days of this month, in YYYY-MM format"
// @Router			/v1/students/{id}/meals [get]
func GetStudentMeals(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, MealDayListResponse{
			Error: &s,
		})
		return
	}

	var query QueryMonth
	err = c.ShouldBindQuery(&query)
	if err != nil {
		s := errMonthInvalid.Error()
		c.JSON(http.StatusBadRequest, MealDayListResponse{
			Error: &s,
		})
		return
	}

	var student models.Student
	err = models.DB.First(&student, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MealDayListResponse{
			Error: &s,
		})
		return
	}

	days, err := models.MealDays(models.DB, student.ID, query.Month)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MealDayListResponse{
			Error: &s,
		})
		return
	}

	data := make([]MealDay, 0, len(days))
	for _, day := range days {
		data = append(data, newMealDay(c, day))
	}

	c.JSON(http.StatusOK, MealDayListResponse{Data: data})
}
