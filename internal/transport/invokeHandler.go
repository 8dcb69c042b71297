package transport

import (
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/pkg/publisher"
	"github.com/gin-gonic/gin"
)

func (h *Handler) Invoke(c *gin.Context) {
	var event events.S3ObjectLambdaEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event: " + err.Error()})
		return
	}

	rec := publisher.NewRecorder()
	if err := h.service.WithPublisher(rec).Handle(c.Request.Context(), event); err != nil {
		c.JSON(MapHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	resp, ok := rec.Last()
	if !ok {
		c.JSON(http.StatusBadGateway, gin.H{"error": "no response was published"})
		return
	}

	c.Header("X-Request-Route", resp.Target.Route)
	c.Data(resp.StatusCode, resp.ContentType, resp.Body)
}
