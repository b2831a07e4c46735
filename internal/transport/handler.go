package transport

import (
	"net/http"
	"time"

	"github.com/dumbgoos/WEB2PG/internal/config"
	apperrors "github.com/dumbgoos/WEB2PG/internal/errors"
	"github.com/dumbgoos/WEB2PG/internal/logger"
	"github.com/dumbgoos/WEB2PG/internal/observer"
	"github.com/dumbgoos/WEB2PG/internal/service"
	"github.com/dumbgoos/WEB2PG/pkg/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler wires the extraction routes. The caller is typically a
// browser extension, hence the permissive CORS policy.
func NewHandler(svc service.ExtractionService, pool *service.WorkerPool, metrics *observer.MetricsObserver, cfg *config.Config) http.Handler {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		cors.Default(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
	)

	r.GET("/health", healthCheck)
	r.GET("/metrics", metricsReport(metrics))
	r.POST("/extract", extractScreenshot(svc, pool))

	return r
}

func extractScreenshot(svc service.ExtractionService, pool *service.WorkerPool) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		requestID := uuid.NewString()

		logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"ip":         c.ClientIP(),
		}).Info("Processing extraction request")

		var req models.ExtractionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithField("request_id", requestID).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err.Error())
			return
		}

		if req.Image == "" && req.ImageURL == "" {
			err := apperrors.NewValidationError("Missing required field: image", nil)
			logger.WithError(err).WithField("request_id", requestID).Error("Request has no image")
			respondError(c, err.StatusCode, "missing image", err.Message)
			return
		}

		// The OCR stage is deliberately unbounded, so the request context
		// is passed through without a deadline. The pool caps how many
		// extractions run at once.
		var result *models.PipelineResult
		err := pool.Execute(c.Request.Context(), func() {
			result = svc.ProcessScreenshot(c.Request.Context(), &req)
		})
		if err != nil {
			logger.WithError(err).WithField("request_id", requestID).Warn("Extraction abandoned")
			respondError(c, http.StatusServiceUnavailable, "extraction abandoned", err.Error())
			return
		}

		logger.WithFields(logrus.Fields{
			"request_id":         requestID,
			"success":            result.Success,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Extraction request completed")

		// Pipeline failures are structured results, not HTTP errors.
		c.JSON(http.StatusOK, result)
	}
}

func metricsReport(metrics *observer.MetricsObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.GetMetrics())
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func respondError(c *gin.Context, code int, message string, detail string) {
	logger.WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: message + ": " + detail,
	})
}
