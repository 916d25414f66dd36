// Package http assembles the gin router and runs the API server.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/allisson/xchat/internal/config"
	keysHTTP "github.com/allisson/xchat/internal/keys/http"
	"github.com/allisson/xchat/internal/metrics"
	proxyHTTP "github.com/allisson/xchat/internal/proxy/http"
)

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the server and assembles the router with all routes
// and middleware.
func NewServer(
	cfg *config.Config,
	keyHandler *keysHTTP.KeyHandler,
	proxyHandler *proxyHTTP.ProxyHandler,
	metricsProvider *metrics.Provider,
	logger *slog.Logger,
) *Server {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	// Liveness probe, separate from the upstream connectivity check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.POST("/v1/keys", keyHandler.StoreHandler)
	router.GET("/v1/keys", keyHandler.GetHandler)
	router.HEAD("/v1/keys", keyHandler.ExistsHandler)
	router.DELETE("/v1/keys", keyHandler.DeleteHandler)

	router.POST("/v1/chat", proxyHandler.ChatHandler)
	router.POST("/v1/vision", proxyHandler.VisionHandler)
	router.POST("/v1/generate", proxyHandler.GenerateHandler)
	router.GET("/v1/health", proxyHandler.HealthHandler)

	return &Server{
		server: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler: router,
			// No write timeout: streaming chat responses stay open for as
			// long as the upstream produces tokens.
			ReadTimeout: 15 * time.Second,
			IdleTimeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
