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

// RegisterExpenseRoutes registers the routes for expenses with
// the RouterGroup that is passed.
func RegisterExpenseRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsExpenseList)
		r.GET("", GetExpenses)
		r.POST("", CreateExpenses)
		r.DELETE("", RestartExpenses)
	}

	// Most recently added expense
	{
		r.OPTIONS("/last", OptionsExpenseLast)
		r.DELETE("/last", DeleteLastExpense)
	}

	// Expense with ID
	{
		r.OPTIONS("/:id", OptionsExpenseDetail)
		r.GET("/:id", GetExpense)
		r.PATCH("/:id", UpdateExpense)
		r.DELETE("/:id", DeleteExpense)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Router			/v1/expenses [options]
func OptionsExpenseList(c *gin.Context) {
	httputil.OptionsGetPostDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Router			/v1/expenses/last [options]
func OptionsExpenseLast(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [options]
func OptionsExpenseDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: httputil.ErrInvalidUUID.Error(),
		})
		return
	}

	err = models.DB.First(&models.Expense{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create expenses
// @Description	Adds new expenses dated today
// @Tags			Expenses
// @Produce		json
// @Success		201			{object}	ExpenseCreateResponse
// @Failure		400			{object}	ExpenseCreateResponse
// @Failure		500			{object}	ExpenseCreateResponse
// @Param			expenses	body		[]ExpenseEditable	true	"Expenses"
// @Router			/v1/expenses [post]
func CreateExpenses(c *gin.Context) {
	var editables []ExpenseEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ExpenseCreateResponse{}

	for _, editable := range editables {
		if !editable.Amount.Valid {
			status = r.appendError(models.ErrExpenseAmountNotSet, status)
			continue
		}

		expense, err := models.CreateExpense(models.DB, editable.Amount.Decimal)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		publish(events.Expenses, events.Created, expense.ID)
		data := newExpense(c, expense)
		r.Data = append(r.Data, ExpenseResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List expenses
// @Description	Returns the expenses in the order they were added
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseListResponse
// @Failure		400	{object}	ExpenseListResponse
// @Failure		500	{object}	ExpenseListResponse
// @Router			/v1/expenses [get]
// @Param			date	query	string	false	"Only expenses added on this day, in YYYY-MM-DD format"
// @Param			offset	query	uint	false	"The offset of the first Expense returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Expenses to return. Defaults to 50."
func GetExpenses(c *gin.Context) {
	var filter ExpenseQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ExpenseListResponse{
			Error: &s,
		})
		return
	}

	// Get the set parameters in the query string
	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Model(&models.Expense{}).
		Order("position ASC")

	if slices.Contains(setFields, "Date") {
		q = q.Where("date = ?", filter.Date)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Expenses and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var expenses []models.Expense
	err := q.Find(&expenses).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Expense, 0)
	for _, expense := range expenses {
		err = expense.LoadHistory(models.DB)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), ExpenseListResponse{
				Error: &s,
			})
			return
		}

		data = append(data, newExpense(c, expense))
	}

	c.JSON(http.StatusOK, ExpenseListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get expense
// @Description	Returns a specific expense with its edit history
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseResponse
// @Failure		400	{object}	ExpenseResponse
// @Failure		404	{object}	ExpenseResponse
// @Failure		500	{object}	ExpenseResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [get]
func GetExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, ExpenseResponse{
			Error: &s,
		})
		return
	}

	var expense models.Expense
	err = models.DB.First(&expense, "id = ?", uri.ID.UUID).Error
	if err == nil {
		err = expense.LoadHistory(models.DB)
	}
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &s,
		})
		return
	}

	data := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &data})
}

// @Summary		Update expense
// @Description	Replaces the amount of an expense. An expense can be edited three times per day.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		200		{object}	ExpenseResponse
// @Failure		400		{object}	ExpenseResponse
// @Failure		404		{object}	ExpenseResponse
// @Failure		500		{object}	ExpenseResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			expense	body		ExpenseEditable	true	"Expense"
// @Router			/v1/expenses/{id} [patch]
func UpdateExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, ExpenseResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, ExpenseEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &s,
		})
		return
	}

	var data ExpenseEditable
	err = httputil.BindData(c, &data)
	if err == nil && (!slices.Contains(updateFields, any("Amount")) || !data.Amount.Valid) {
		err = models.ErrExpenseAmountNotSet
	}
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &s,
		})
		return
	}

	expense, err := models.EditExpense(models.DB, uri.ID.UUID, data.Amount.Decimal)
	if err != nil {
		reject(events.Expenses, err)
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &s,
		})
		return
	}

	publish(events.Expenses, events.Updated, expense.ID)
	r := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &r})
}

// @Summary		Delete expense
// @Description	Deletes an expense
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [delete]
func DeleteExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: httputil.ErrInvalidUUID.Error(),
		})
		return
	}

	err = models.DeleteExpense(models.DB, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	publish(events.Expenses, events.Deleted, uri.ID.UUID)
	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Delete last expense
// @Description	Deletes the most recently added expense
// @Tags			Expenses
// @Success		204
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/expenses/last [delete]
func DeleteLastExpense(c *gin.Context) {
	expense, err := models.DeleteLastExpense(models.DB)
	if err != nil {
		reject(events.Expenses, err)
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	publish(events.Expenses, events.Deleted, expense.ID)
	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Delete all expenses
// @Description	Deletes all expenses
// @Tags			Expenses
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			confirm	query		string	false	"Confirmation to delete all expenses. Must have the value 'yes-please-delete-all-expenses'"
// @Router			/v1/expenses [delete]
func RestartExpenses(c *gin.Context) {
	var params QueryConfirm
	err := c.ShouldBindQuery(&params)
	if err != nil || params.Confirm != "yes-please-delete-all-expenses" {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errRestartConfirmation.Error(),
		})
		return
	}

	err = models.RestartExpenses(models.DB)
	if err != nil {
		reject(events.Expenses, err)
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	publish(events.Expenses, events.Cleared, uuid.Nil)
	c.JSON(http.StatusNoContent, nil)
}
