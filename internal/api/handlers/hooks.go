package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"sealtrack/internal/config"
	"sealtrack/internal/events"
	"sealtrack/internal/logger"
	"sealtrack/internal/platforms/magento"
	"sealtrack/internal/platforms/prestashop"
	"sealtrack/internal/platforms/woocommerce"
	"sealtrack/internal/platforms/wordpress"
	"sealtrack/internal/tracking"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Publisher is the kafka side of the hooks handler. It may be nil, in
// which case events only go through the session relay.
type Publisher interface {
	Publish(ctx context.Context, msg events.Message) error
}

// HooksHandler receives platform lifecycle hooks. Tracking is strictly
// best-effort: no failure in here may surface to the host platform, so
// every error path degrades to 204 No Content.
type HooksHandler struct {
	config  *config.Config
	logger  *logger.Logger
	builder *tracking.Builder
	relay   *tracking.Relay
	gate    tracking.Gate
	pub     Publisher
}

func NewHooksHandler(cfg *config.Config, logger *logger.Logger, relay *tracking.Relay, gate tracking.Gate, pub Publisher) *HooksHandler {
	return &HooksHandler{
		config:  cfg,
		logger:  logger,
		builder: tracking.NewBuilder(),
		relay:   relay,
		gate:    gate,
		pub:     pub,
	}
}

// Pageview ingests the once-per-page pageview beacon. The handler
// accepts every beacon; once-per-session suppression happens in the
// dispatch worker, which owns the session queues.
func (h *HooksHandler) Pageview(c *gin.Context) {
	if h.disabled() {
		c.Status(http.StatusNoContent)
		return
	}

	ev := h.builder.Pageview()
	h.publish(c, c.Param("platform"), h.sessionID(c), ev)

	c.JSON(http.StatusAccepted, gin.H{"data": ev})
}

func (h *HooksHandler) ProductView(c *gin.Context) {
	if h.disabled() {
		c.Status(http.StatusNoContent)
		return
	}

	platform := c.Param("platform")
	item, err := h.parseProduct(platform, c)
	if err != nil {
		h.logger.Error("product-view hook dropped: %v", err)
		c.Status(http.StatusNoContent)
		return
	}

	ev := h.builder.ProductView(item)
	h.emit(c, platform, ev)
}

func (h *HooksHandler) AddToCart(c *gin.Context) {
	if h.disabled() {
		c.Status(http.StatusNoContent)
		return
	}

	platform := c.Param("platform")
	item, err := h.parseProduct(platform, c)
	if err != nil {
		h.logger.Error("add-to-cart hook dropped: %v", err)
		c.Status(http.StatusNoContent)
		return
	}

	ev := h.builder.AddToCart(item)
	h.emit(c, platform, ev)
}

func (h *HooksHandler) Checkout(c *gin.Context) {
	if h.disabled() {
		c.Status(http.StatusNoContent)
		return
	}

	platform := c.Param("platform")
	step, _ := strconv.Atoi(c.DefaultQuery("step", "1"))
	if step < 1 || step > 3 {
		step = 1
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusNoContent)
		return
	}

	var src tracking.ItemSource
	switch platform {
	case woocommerce.Platform:
		src, err = woocommerce.ParseCart(body)
	case prestashop.Platform:
		src, err = prestashop.ParseCart(body)
	case magento.Platform:
		src, err = magento.ParseCart(body)
	default:
		h.logger.Debug("checkout hook for unsupported platform %q", platform)
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		h.logger.Error("checkout hook dropped: %v", err)
		c.Status(http.StatusNoContent)
		return
	}

	ev := h.builder.CheckoutStep(step, src)
	h.emit(c, platform, ev)
}

func (h *HooksHandler) Order(c *gin.Context) {
	if h.disabled() {
		c.Status(http.StatusNoContent)
		return
	}

	platform := c.Param("platform")
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusNoContent)
		return
	}

	var src tracking.ItemSource
	switch platform {
	case woocommerce.Platform:
		src, err = woocommerce.ParseOrder(body)
	case prestashop.Platform:
		src, err = prestashop.ParseOrder(body)
	case magento.Platform:
		src, err = magento.ParseOrder(body)
	default:
		h.logger.Debug("order hook for unsupported platform %q", platform)
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		h.logger.Error("order hook dropped: %v", err)
		c.Status(http.StatusNoContent)
		return
	}

	// Purchase events fire at most once per order.
	gateKey := platform + ":" + src.OrderID()
	ok, err := h.gate.ShouldEmit(gateKey)
	if err != nil {
		h.logger.Error("dedup gate check failed for %s: %v", gateKey, err)
		c.Status(http.StatusNoContent)
		return
	}
	if !ok {
		h.logger.Debug("duplicate purchase suppressed for %s", gateKey)
		c.Status(http.StatusNoContent)
		return
	}

	ev := h.builder.Purchase(src)
	if err := h.gate.MarkEmitted(gateKey); err != nil {
		h.logger.Error("failed to mark order %s tracked: %v", gateKey, err)
	}

	sessionID := h.sessionID(c)
	if err := h.relay.StorePurchase(sessionID, ev); err != nil {
		h.logger.Error("failed to relay purchase event: %v", err)
	}
	h.publish(c, platform, sessionID, ev)

	c.JSON(http.StatusAccepted, gin.H{"data": ev})
}

func (h *HooksHandler) Form(c *gin.Context) {
	if h.disabled() {
		c.Status(http.StatusNoContent)
		return
	}

	if platform := c.Param("platform"); platform != wordpress.Platform {
		h.logger.Debug("form hook for unsupported platform %q", platform)
		c.Status(http.StatusNoContent)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusNoContent)
		return
	}

	sub, err := wordpress.ParseForm(body, time.Now())
	if err != nil {
		h.logger.Error("form hook dropped: %v", err)
		c.Status(http.StatusNoContent)
		return
	}

	sessionID := h.sessionID(c)
	if err := h.relay.StoreConversion(sessionID, tracking.PendingConversion{
		FormName:  sub.FormName,
		Timestamp: sub.Timestamp,
	}); err != nil {
		h.logger.Error("failed to relay pending conversion: %v", err)
	}

	pageType := sub.PageType
	if !h.config.TrackPageType {
		pageType = ""
	}
	ev := h.builder.Lead(h.config.ConversionLabel, sub.FormName, pageType, sub.PageSlug)
	h.publish(c, wordpress.Platform, sessionID, ev)

	c.JSON(http.StatusAccepted, gin.H{"data": ev})
}

func (h *HooksHandler) parseProduct(platform string, c *gin.Context) (tracking.Item, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return tracking.Item{}, err
	}

	switch platform {
	case woocommerce.Platform:
		return woocommerce.ParseProduct(body)
	case prestashop.Platform:
		return prestashop.ParseProduct(body)
	case magento.Platform:
		return magento.ParseProduct(body)
	}
	return tracking.Item{}, errUnsupportedPlatform(platform)
}

// emit relays a microconversion to the visitor session and publishes it
// for the dispatch worker.
func (h *HooksHandler) emit(c *gin.Context, platform string, ev tracking.Event) {
	sessionID := h.sessionID(c)
	if err := h.relay.Store(sessionID, ev); err != nil {
		h.logger.Error("failed to relay event: %v", err)
	}
	h.publish(c, platform, sessionID, ev)

	c.JSON(http.StatusAccepted, gin.H{"data": ev})
}

func (h *HooksHandler) publish(c *gin.Context, platform, sessionID string, ev tracking.Event) {
	if h.pub == nil {
		return
	}
	msg := events.Message{
		Platform:  platform,
		SessionID: sessionID,
		Event:     ev,
		Timestamp: time.Now(),
	}
	if err := h.pub.Publish(c.Request.Context(), msg); err != nil {
		h.logger.Error("failed to publish event: %v", err)
	}
}

func (h *HooksHandler) sessionID(c *gin.Context) string {
	if id := c.GetHeader("X-Session-ID"); id != "" {
		return id
	}
	return uuid.New().String()
}

func (h *HooksHandler) disabled() bool {
	return !h.config.Enabled || h.config.AccountID == ""
}

type errUnsupportedPlatform string

func (e errUnsupportedPlatform) Error() string {
	return "unsupported platform: " + string(e)
}
