package handlers

import (
	"net/http"
	"time"

	"sealtrack/internal/config"
	"sealtrack/internal/logger"
	"sealtrack/internal/tracking"

	"github.com/gin-gonic/gin"
)

// EventsHandler serves the session's pending events to the client-side
// queue. Reading drains the relay, so a second request before any new
// server-side event returns an empty list.
type EventsHandler struct {
	config  *config.Config
	logger  *logger.Logger
	relay   *tracking.Relay
	builder *tracking.Builder
}

func NewEventsHandler(cfg *config.Config, logger *logger.Logger, relay *tracking.Relay) *EventsHandler {
	return &EventsHandler{
		config:  cfg,
		logger:  logger,
		relay:   relay,
		builder: tracking.NewBuilder(),
	}
}

func (h *EventsHandler) Drain(c *gin.Context) {
	if !h.config.Enabled || h.config.AccountID == "" {
		c.JSON(http.StatusOK, gin.H{"events": []tracking.Event{}, "timestamp": time.Now().Unix()})
		return
	}

	sessionID := c.Param("session")

	drained, err := h.relay.DrainAll(sessionID)
	if err != nil {
		h.logger.Error("failed to drain relay for %s: %v", sessionID, err)
		drained = nil
	}

	// Pending lead conversions become lead events at pickup time.
	pending, err := h.relay.DrainConversions(sessionID)
	if err != nil {
		h.logger.Error("failed to drain conversions for %s: %v", sessionID, err)
		pending = nil
	}
	for _, pc := range pending {
		drained = append(drained, h.builder.Lead(h.config.ConversionLabel, pc.FormName, "", ""))
	}

	if drained == nil {
		drained = []tracking.Event{}
	}
	c.JSON(http.StatusOK, gin.H{
		"events":    drained,
		"timestamp": time.Now().Unix(),
	})
}
