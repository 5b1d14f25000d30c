package v1

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/messmill/backend/internal/dashboard"
	"github.com/messmill/backend/internal/httputil"
	"github.com/messmill/backend/internal/models"
	"github.com/messmill/backend/internal/report"
)

// Dashboard is the cached reconciliation served by the dashboard endpoints.
// It is set up by the router.
var Dashboard *dashboard.View

// ReportOptions are used for the report unless the request overrides them.
var ReportOptions = report.DefaultOptions

func RegisterDashboardRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsDashboard)
		r.GET("", GetDashboard)
		r.OPTIONS("/report", OptionsReport)
		r.GET("/report", GetReport)
	}
}

type DashboardData struct {
	models.Reconciliation
	ComputedAt time.Time `json:"computedAt" example:"2026-10-14T09:30:00Z"` // Time the numbers were computed
}

type DashboardResponse struct {
	Data  *DashboardData `json:"data"`                                                                // Totals and balances of all students
	Error *string        `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
}

type ReportQuery struct {
	Language string `form:"language" example:"bn"`  // BCP 47 language tag used to format numbers
	Currency string `form:"currency" example:"BDT"` // ISO 4217 currency code shown in the report
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Dashboard
// @Success		204
// @Router			/v1/dashboard [options]
func OptionsDashboard(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Dashboard
// @Success		204
// @Router			/v1/dashboard/report [options]
func OptionsReport(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get dashboard
// @Description	Returns the total money, meals and expenses, the cost per meal and the balance of every student
// @Tags			Dashboard
// @Produce		json
// @Success		200	{object}	DashboardResponse
// @Failure		500	{object}	DashboardResponse
// @Router			/v1/dashboard [get]
func GetDashboard(c *gin.Context) {
	r, computedAt, err := Dashboard.Snapshot()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DashboardResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Data: &DashboardData{
			Reconciliation: r,
			ComputedAt:     computedAt,
		},
	})
}

// @Summary		Get report
// @Description	Returns the dashboard as a plain text report
// @Tags			Dashboard
// @Produce		plain
// @Success		200			{string}	string
// @Failure		400			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			language	query		string	false	"BCP 47 language tag used to format numbers"
// @Param			currency	query		string	false	"ISO 4217 currency code shown in the report"
// @Router			/v1/dashboard/report [get]
func GetReport(c *gin.Context) {
	var query ReportQuery
	err := c.ShouldBindQuery(&query)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: err.Error(),
		})
		return
	}

	o, err := reportOptions(query)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: err.Error(),
		})
		return
	}

	r, computedAt, err := Dashboard.Snapshot()
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var b bytes.Buffer
	err = report.Write(&b, r, computedAt, o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{
			Error: err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", b.Bytes())
}

// reportOptions applies the overrides of the query to ReportOptions.
func reportOptions(query ReportQuery) (report.Options, error) {
	o := ReportOptions

	if query.Language != "" || query.Currency != "" {
		parsed, err := report.ParseOptions(query.Language, query.Currency)
		if err != nil {
			return report.Options{}, err
		}

		if query.Language != "" {
			o.Language = parsed.Language
		}

		if query.Currency != "" {
			o.Currency = parsed.Currency
		}
	}

	o.Location = models.Location
	return o, nil
}
