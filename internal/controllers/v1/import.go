package v1

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/messmill/backend/internal/events"
	"github.com/messmill/backend/internal/httputil"
	"github.com/messmill/backend/internal/importer"
	"github.com/messmill/backend/internal/importer/parser/localstorage"
	"github.com/messmill/backend/internal/models"
	"github.com/rs/zerolog/log"
)

type ImportResponse struct {
	Data  *importer.Summary `json:"data"`                                                                   // What was imported
	Error *string           `json:"error" example:"not a JSON object with the keys of the browser storage"` // The error, if any occurred
}

func RegisterImportRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsImport)
		r.POST("", Import)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Import/Export
// @Success		204
// @Router			/v1/import [options]
func OptionsImport(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Import
// @Description	Replaces all students, meals and expenses with the ones in a document in the browser storage layout of the web app.
// @Description	The document is sent as JSON body or as the form field "file". Collections that cannot be read are imported empty and reported as warnings.
// @Tags			Import/Export
// @Accept			json,mpfd
// @Produce		json
// @Success		200			{object}	ImportResponse
// @Failure		400			{object}	ImportResponse
// @Failure		500			{object}	ImportResponse
// @Param			document	body		localstorage.Document	false	"Document to import"
// @Param			file		formData	file					false	"File to import"
// @Router			/v1/import [post]
func Import(c *gin.Context) {
	f, err := importSource(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportResponse{
			Error: &s,
		})
		return
	}
	defer f.Close()

	resources, err := localstorage.Parse(f)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ImportResponse{
			Error: &s,
		})
		return
	}

	summary, err := importer.Create(models.DB, resources)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportResponse{
			Error: &s,
		})
		return
	}

	log.Info().Int("students", summary.Students).Int("mealDays", summary.MealDays).Int("expenses", summary.Expenses).Int("warnings", len(summary.Warnings)).Str("checksum", summary.Checksum).Msg("import")

	publish(events.All, events.Imported, uuid.Nil)
	c.JSON(http.StatusOK, ImportResponse{Data: &summary})
}

// importSource returns the uploaded file for multipart requests and the
// request body otherwise.
func importSource(c *gin.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			return nil, errNoFilePost
		}

		return c.Request.Body, nil
	}

	formFile, err := c.FormFile("file")
	if formFile == nil {
		return nil, errNoFilePost
	}

	if err != nil {
		return nil, err
	}

	return formFile.Open()
}
