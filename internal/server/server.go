// Package server exposes the catalog as a read-only JSON API under
// /api/v1. Mutations stay on the CLI; the API is for browsing, search and
// comparison.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shaftlab/shaftdb/internal/catalog"
)

// Server wraps a gin engine over a catalog store.
type Server struct {
	store  catalog.Store
	logger *zap.Logger
	engine *gin.Engine
}

// New builds the route tree. A nil logger disables logging.
func New(store catalog.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{store: store, logger: logger}
	engine := gin.New()
	engine.Use(requestLogger(logger), gin.Recovery())

	engine.GET("/healthz", s.health)

	api := engine.Group("/api/v1")
	api.GET("/shafts", s.listShafts)
	api.GET("/shafts/search", s.searchShafts)
	api.GET("/shafts/:id", s.getShaft)
	api.POST("/compare", s.compareShafts)
	api.GET("/manufacturers", s.listManufacturers)
	api.GET("/stats", s.stats)
	api.GET("/progression", s.progression)

	s.engine = engine
	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("http server listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
