package v1

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/messmill/backend/internal/events"
	"github.com/messmill/backend/internal/httputil"
	"github.com/rs/zerolog/log"
)

// Events buffered per client before they are dropped.
const eventBuffer = 16

func RegisterEventRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsEvents)
		r.GET("", GetEvents)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Events
// @Success		204
// @Router			/v1/events [options]
func OptionsEvents(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Change events
// @Description	Streams server-sent events for every change to students, meals and expenses.
// @Description	The first event is "ready", all following ones are "change" events.
// @Tags			Events
// @Produce		text/event-stream
// @Success		200	{object}	events.Event
// @Router			/v1/events [get]
func GetEvents(c *gin.Context) {
	ch, unsubscribe := events.Default.Subscribe(eventBuffer)
	defer unsubscribe()

	log.Debug().Str("request-id", requestid.Get(c)).Msg("event stream opened")

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.SSEvent("ready", gin.H{})
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			log.Debug().Str("request-id", requestid.Get(c)).Msg("event stream closed")
			return
		case e, ok := <-ch:
			if !ok {
				return
			}

			c.SSEvent("change", e)
			c.Writer.Flush()
		}
	}
}
