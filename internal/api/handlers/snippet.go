package handlers

import (
	"net/http"

	"sealtrack/internal/config"
	"sealtrack/internal/tracking"

	"github.com/gin-gonic/gin"
)

// SnippetHandler exposes the configuration the client-side snippet
// needs: account id, debug flag and the attribute normalization map.
type SnippetHandler struct {
	config *config.Config
}

func NewSnippetHandler(cfg *config.Config) *SnippetHandler {
	return &SnippetHandler{config: cfg}
}

func (h *SnippetHandler) Config(c *gin.Context) {
	if !h.config.Enabled || h.config.AccountID == "" {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enabled":          true,
		"account_id":       h.config.AccountID,
		"debug":            h.config.DebugMode,
		"conversion_label": h.config.ConversionLabel,
		"track_page_type":  h.config.TrackPageType,
		"attribute_map":    tracking.AttributeMap(),
	})
}
