package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sealtrack/internal/api/handlers"
	"sealtrack/internal/api/middleware"
	"sealtrack/internal/config"
	"sealtrack/internal/logger"
	"sealtrack/internal/session"
	"sealtrack/internal/tracking"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, store session.Store, gate tracking.Gate, pub handlers.Publisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	relay := tracking.NewRelay(store)

	// Initialize handlers
	hooksHandler := handlers.NewHooksHandler(cfg, logger, relay, gate, pub)
	eventsHandler := handlers.NewEventsHandler(cfg, logger, relay)
	snippetHandler := handlers.NewSnippetHandler(cfg)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	{
		hooks := v1.Group("/hooks")
		{
			hooks.POST("/:platform/pageview", hooksHandler.Pageview)
			hooks.POST("/:platform/product-view", hooksHandler.ProductView)
			hooks.POST("/:platform/add-to-cart", hooksHandler.AddToCart)
			hooks.POST("/:platform/checkout", hooksHandler.Checkout)
			hooks.POST("/:platform/order", hooksHandler.Order)
			hooks.POST("/:platform/form", hooksHandler.Form)
		}

		v1.GET("/events/:session", eventsHandler.Drain)
		v1.GET("/snippet/config", snippetHandler.Config)
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
