package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/messmill/backend/internal/events"
	"github.com/messmill/backend/internal/httputil"
	"github.com/messmill/backend/internal/models"
	"gorm.io/gorm"
)

func RegisterRootRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.DELETE("", Cleanup)
	r.OPTIONS("", Options)
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Students  string `json:"students" example:"https://example.com/api/v1/students"`   // URL of Student collection endpoint
	Meals     string `json:"meals" example:"https://example.com/api/v1/meals"`         // URL of Meal collection endpoint
	Expenses  string `json:"expenses" example:"https://example.com/api/v1/expenses"`   // URL of Expense collection endpoint
	Dashboard string `json:"dashboard" example:"https://example.com/api/v1/dashboard"` // URL of the dashboard
	Export    string `json:"export" example:"https://example.com/api/v1/export"`       // URL of the export endpoint
	Import    string `json:"import" example:"https://example.com/api/v1/import"`       // URL of the import endpoint
	Events    string `json:"events" example:"https://example.com/api/v1/events"`       // URL of the change event stream
}

// Get returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Students:  url + "/v1/students",
			Meals:     url + "/v1/meals",
			Expenses:  url + "/v1/expenses",
			Dashboard: url + "/v1/dashboard",
			Export:    url + "/v1/export",
			Import:    url + "/v1/import",
			Events:    url + "/v1/events",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}

// @Summary		Delete everything
// @Description	Permanently deletes all students, meals and expenses
// @Tags			v1
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			confirm	query		string	false	"Confirmation to delete all resources. Must have the value 'yes-please-delete-everything'"
// @Router			/v1 [delete]
func Cleanup(c *gin.Context) {
	var params QueryConfirm
	err := c.ShouldBindQuery(&params)
	if err != nil || params.Confirm != "yes-please-delete-everything" {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errCleanupConfirmation.Error(),
		})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return models.DeleteAll(tx)
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	publish(events.All, events.Cleared, uuid.Nil)
	c.JSON(http.StatusNoContent, nil)
}
