package handlers

import (
	"io"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"umlforge/internal/middlewares"
	"umlforge/internal/realtime"
	"umlforge/internal/services"
	"umlforge/internal/utils"
)

// keepaliveInterval is how often an idle stream writes a comment so proxies
// do not drop the connection.
const keepaliveInterval = 30 * time.Second

type StreamHandler struct {
	diagramService *services.DiagramService
	hub            *realtime.Hub
	logger         *zap.Logger
}

func NewStreamHandler(diagramService *services.DiagramService, hub *realtime.Hub, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{
		diagramService: diagramService,
		hub:            hub,
		logger:         logger,
	}
}

// Stream serves the diagram update feed as Server-Sent Events. EventSource
// cannot set headers, so the access token may arrive as a query parameter
// instead of the Authorization header. Share references work unauthenticated.
func (h *StreamHandler) Stream(c *gin.Context) {
	userID := middlewares.UserID(c)
	if userID == nil {
		if tokenStr := c.Query("token"); tokenStr != "" {
			if claims, err := utils.VerifyJWT(tokenStr, utils.AccessTokenSecret); err == nil {
				if id, err := uuid.Parse(claims.Subject); err == nil {
					userID = &id
				}
			}
		}
	}

	ref := c.Param("id")
	diagram, err := h.diagramService.Get(ref, userID)
	if err != nil {
		failFromService(c, err, "Could not open diagram stream")
		return
	}

	h.serve(c, diagram.ID.String(), ref)
}

// serve runs the event loop for an already resolved diagram.
func (h *StreamHandler) serve(c *gin.Context, diagramID, ref string) {
	ch := h.hub.Subscribe(diagramID)
	defer h.hub.Unsubscribe(diagramID, ch)

	// EventSource rejects anything that is not text/event-stream, so the
	// header must be in place before the first body write locks it in.
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	connected := realtime.Update{
		Type:       realtime.UpdateTypeConnected,
		DiagramID:  diagramID,
		OriginalID: ref,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := sse.Encode(c.Writer, sse.Event{Data: connected}); err != nil {
		return
	}
	c.Writer.Flush()

	h.logger.Debug("stream opened",
		zap.String("diagram_id", diagramID),
		zap.Int("listeners", h.hub.Listeners(diagramID)),
	)

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()
	clientGone := c.Request.Context().Done()

	for {
		select {
		case <-clientGone:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := sse.Encode(c.Writer, sse.Event{Data: string(msg)}); err != nil {
				return
			}
			c.Writer.Flush()
		case <-keepalive.C:
			if _, err := io.WriteString(c.Writer, ": keepalive\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}
