package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/core"
)

// Server exposes the analysis service over HTTP
type Server struct {
	service    *core.AnalysisService
	logger     *zap.Logger
	httpServer *http.Server
}

type checkRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// NewServer creates a new HTTP API server
func NewServer(service *core.AnalysisService, listenAddr string, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		service: service,
		logger:  logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	router.POST("/api/check", s.handleCheck)
	router.GET("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         listenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP API server", zap.String("address", s.httpServer.Addr))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() error {
	s.logger.Info("Stopping HTTP API server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleCheck(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
		return
	}

	report, err := s.service.Analyze(c.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyInput):
			c.JSON(http.StatusBadRequest, errorResponse{Detail: "Text cannot be empty"})
		case errors.Is(err, core.ErrClassifierUnavailable):
			c.JSON(http.StatusServiceUnavailable, errorResponse{Detail: "Analysis model is not available"})
		default:
			s.logger.Error("Analysis failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) handleHealth(c *gin.Context) {
	health := s.service.HealthCheck()

	status := http.StatusOK
	if health.ModelStatus == core.ModelUnavailable {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, health)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}
