package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anime-shed/kernel-forge/internal/analyzer"
	"github.com/anime-shed/kernel-forge/internal/config"
	apperrors "github.com/anime-shed/kernel-forge/internal/errors"
	"github.com/anime-shed/kernel-forge/internal/logger"
	"github.com/anime-shed/kernel-forge/internal/observer"
	"github.com/anime-shed/kernel-forge/internal/service"
	"github.com/anime-shed/kernel-forge/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

// kernelQuery holds the optional generator parameters of GET and publish routes
type kernelQuery struct {
	Size      *int     `form:"size"`
	Mode      string   `form:"mode"`
	Mu        float64  `form:"mu"`
	Std       *float64 `form:"std"`
	Normalize string   `form:"normalize"`
}

func (q kernelQuery) request(kind string) models.KernelRequest {
	return models.KernelRequest{
		Kind:      kind,
		Size:      q.Size,
		Mode:      q.Mode,
		Mu:        q.Mu,
		Std:       q.Std,
		Normalize: q.Normalize,
	}
}

// Handler serves the kernel API
type Handler struct {
	svc     service.KernelService
	metrics *observer.MetricsObserver
	pool    *analyzer.WorkerPool
	cfg     *config.Config
}

func NewHandler(svc service.KernelService, metrics *observer.MetricsObserver, pool *analyzer.WorkerPool, cfg *config.Config) http.Handler {
	h := &Handler{svc: svc, metrics: metrics, pool: pool, cfg: cfg}

	r := gin.New()
	r.Use(gin.Recovery())

	// Add middleware
	r.Use(
		requestID(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		requestTimeout(cfg.RequestTimeout),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/metrics", h.getMetrics)
	r.GET("/kernels/:kind", h.getKernel)
	r.POST("/batch", h.postBatch)
	r.GET("/presets", h.listPresets)
	r.GET("/presets/:name", h.getPreset)
	r.POST("/publish/:kind", h.publishKernel)
	r.GET("/published/*key", h.getPublished)

	return r
}

func (h *Handler) getKernel(c *gin.Context) {
	var q kernelQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	req := q.request(c.Param("kind"))
	resp, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, determineStatusCode(err), "kernel generation failed", err)
		return
	}

	logger.WithFields(logrus.Fields{
		"request_id":         c.GetString("request_id"),
		"kind":               resp.Kind,
		"size":               resp.Rows,
		"mode":               resp.Mode,
		"normalize":          resp.Normalize,
		"processing_time_ms": resp.ProcessingTimeMs,
	}).Info("Kernel generated")

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) postBatch(c *gin.Context) {
	var req models.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	results, err := h.svc.GenerateBatch(c.Request.Context(), req.Requests)
	if err != nil {
		respondError(c, determineStatusCode(err), "batch generation failed", err)
		return
	}

	logger.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"batch_size": len(results),
	}).Info("Kernel batch generated")

	c.JSON(http.StatusOK, models.BatchResponse{Kernels: results})
}

func (h *Handler) listPresets(c *gin.Context) {
	presets, err := h.svc.Presets(c.Request.Context())
	if err != nil {
		respondError(c, determineStatusCode(err), "failed to list presets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

func (h *Handler) getPreset(c *gin.Context) {
	resp, err := h.svc.Preset(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, determineStatusCode(err), "preset generation failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) publishKernel(c *gin.Context) {
	var q kernelQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	resp, err := h.svc.Publish(c.Request.Context(), q.request(c.Param("kind")))
	if err != nil {
		respondError(c, determineStatusCode(err), "publish failed", err)
		return
	}

	logger.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"key":        resp.Key,
	}).Info("Kernel published")

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) getPublished(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	doc, err := h.svc.Fetch(c.Request.Context(), key)
	if err != nil {
		respondError(c, determineStatusCode(err), "failed to fetch published kernel", err)
		return
	}
	c.Data(http.StatusOK, "application/json", doc)
}

func (h *Handler) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"events": h.metrics.GetMetrics(),
		"pool":   h.pool.GetStats(),
	})
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err.Err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	logger.WithError(err).WithFields(logrus.Fields{
		"request_id":  c.GetString("request_id"),
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:     http.StatusText(code),
		Message:   fmt.Sprintf("%s: %v", message, err),
		RequestID: c.GetString("request_id"),
	})
}
