package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/wheelgate/wheelgate/internal/pkg/logger"
	"github.com/wheelgate/wheelgate/internal/stream"
)

type StreamHandler struct {
	hub *stream.Hub
}

func NewStreamHandler(hub *stream.Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// Stream upgrades to a websocket that first carries the session state and
// then every phase event of the session.
func (h *StreamHandler) Stream(c *gin.Context) {
	table, ok := tableOrAbort(c)
	if !ok {
		return
	}
	if err := h.hub.Serve(c.Writer, c.Request, table.ID, table.State()); err != nil {
		// the upgrader has already replied to the client
		logger.Warn("Websocket upgrade failed", "session_id", table.ID, "error", err)
	}
}
