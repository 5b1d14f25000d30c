// Package version reports which build of the backend is running.
package version

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/messmill/backend/internal/httputil"
)

// APIRevisions are the API versions served under their own path prefix.
var APIRevisions = []string{"v1"}

var backendVersion = "0.0.0"

type Response struct {
	Data Object `json:"data"`
}

type Object struct {
	Version   string   `json:"version" example:"1.1.0"` // Version of the mess mill backend
	Go        string   `json:"go" example:"go1.23.4"`   // Go release the binary was built with
	Revisions []string `json:"revisions" example:"v1"`  // API versions that can be used
}

func RegisterRoutes(r *gin.RouterGroup, v string) {
	backendVersion = v

	r.GET("", Get)
	r.OPTIONS("", Options)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/version [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Backend version
// @Description	Returns the version of the backend, the Go release it was built with and the API versions it serves
// @Tags			General
// @Success		200	{object}	Response
// @Router			/version [get]
func Get(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Data: Object{
			Version:   backendVersion,
			Go:        runtime.Version(),
			Revisions: APIRevisions,
		},
	})
}
