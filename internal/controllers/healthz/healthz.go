// Package healthz reports whether the backend can serve the ledgers.
package healthz

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/messmill/backend/internal/httputil"
	"github.com/messmill/backend/internal/models"
	"github.com/rs/zerolog/log"
)

type Response struct {
	Error string `json:"error" example:"an error occurred on the server during your request"`
	Check string `json:"check" example:"database"` // Name of the check that failed
}

// check is one condition the backend needs to be healthy.
type check struct {
	name string
	run  func(c *gin.Context) error
}

var checks = []check{
	{"database", func(c *gin.Context) error {
		sqlDB, err := models.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(c.Request.Context())
	}},
	{"ledgers", func(c *gin.Context) error {
		var count int64
		return models.DB.WithContext(c.Request.Context()).Model(&models.Student{}).Count(&count).Error
	}},
}

func RegisterRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", Options)
	r.GET("", Get)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get health
// @Description	Checks that the database answers and the ledgers can be read. Returns the first check that failed.
// @Tags			General
// @Produce		json
// @Success		204
// @Failure		500	{object}	Response
// @Router			/healthz [get]
func Get(c *gin.Context) {
	for _, ch := range checks {
		err := ch.run(c)
		if err != nil {
			log.Error().Str("check", ch.name).Msgf("%T: %v", err, err.Error())
			c.JSON(http.StatusInternalServerError, Response{
				Error: models.ErrGeneral.Error(),
				Check: ch.name,
			})
			return
		}
	}

	c.Status(http.StatusNoContent)
}
