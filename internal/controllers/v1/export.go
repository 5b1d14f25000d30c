package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/messmill/backend/internal/httputil"
	"github.com/messmill/backend/internal/importer/parser/localstorage"
	"github.com/messmill/backend/internal/models"
)

func RegisterExportRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsExport)
		r.GET("", GetExport)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Import/Export
// @Success		204
// @Router			/v1/export [options]
func OptionsExport(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Export
// @Description	Exports all students, meals and expenses in the browser storage layout of the web app. The document can be imported again.
// @Tags			Import/Export
// @Produce		json
// @Success		200	{object}	localstorage.Document
// @Failure		500	{object}	httpError
// @Router			/v1/export [get]
func GetExport(c *gin.Context) {
	doc, err := localstorage.Export(models.DB)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"mess-mill-%s.json\"", models.Today()))
	c.JSON(http.StatusOK, doc)
}
