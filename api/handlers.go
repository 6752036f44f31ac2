package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-numeral-engine/internal/analytics"
	"github.com/gcbaptista/go-numeral-engine/internal/engine"
	"github.com/gcbaptista/go-numeral-engine/model"
	"github.com/gcbaptista/go-numeral-engine/services"
)

// API holds dependencies for API handlers, primarily the correlation engine.
type API struct {
	correlator services.Correlator
	documents  services.DocumentManager
	analytics  *analytics.Service
	logger     *zap.Logger
}

// NewAPI creates a new API handler structure. The analytics service may be
// nil, in which case event tracking is disabled.
func NewAPI(correlator services.Correlator, documents services.DocumentManager, analyticsService *analytics.Service, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		correlator: correlator,
		documents:  documents,
		analytics:  analyticsService,
		logger:     logger,
	}
}

// SetupRoutes defines all the API routes for the correlation engine.
func SetupRoutes(router *gin.Engine, correlator services.Correlator, documents services.DocumentManager, analyticsService *analytics.Service, logger *zap.Logger) {
	apiHandler := NewAPI(correlator, documents, analyticsService, logger)

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Analytics route
	router.GET("/analytics", apiHandler.GetStatsHandler)

	// Stateless correlation routes
	router.POST("/extract", apiHandler.ExtractHandler)
	router.POST("/correlate", apiHandler.CorrelateHandler)

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler)
	}

	// Document management routes
	docRoutes := router.Group("/documents")
	{
		docRoutes.POST("", apiHandler.AddDocumentHandler)
		docRoutes.GET("", apiHandler.ListDocumentsHandler)
		docRoutes.GET("/:documentId", apiHandler.GetDocumentHandler)
		docRoutes.DELETE("/:documentId", apiHandler.DeleteDocumentHandler)
		docRoutes.GET("/:documentId/labels", apiHandler.GetLabelsHandler)
		docRoutes.POST("/:documentId/correlate", apiHandler.CorrelateAsyncHandler)
	}
}

// ExtractRequest defines the structure for text-only extraction requests.
type ExtractRequest struct {
	Text string `json:"text"`
}

// ExtractHandler runs numeral extraction and label normalization on raw
// description text, without any detections.
func (api *API) ExtractHandler(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateDescriptionText(req.Text); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	startTime := time.Now()
	labels := api.correlator.ExtractAndNormalize(req.Text)
	api.trackEvent(model.CorrelationEvent{
		Mode:         model.ModeExtract,
		NumeralCount: len(labels),
		ResponseTime: time.Since(startTime),
	})
	c.JSON(http.StatusOK, gin.H{
		"labels":   labels,
		"numerals": labels.SortedNumerals(),
		"count":    len(labels),
	})
}

// CorrelateRequest defines the structure for one-shot correlation requests.
type CorrelateRequest struct {
	Text       string            `json:"text"`
	Detections []model.Detection `json:"detections"`
}

// CorrelateHandler runs the full pipeline on the supplied text and
// detections and returns the merged label map.
func (api *API) CorrelateHandler(c *gin.Context) {
	var req CorrelateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateDescriptionText(req.Text); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	startTime := time.Now()
	labels := api.correlator.Correlate(req.Text, req.Detections)
	api.trackEvent(model.CorrelationEvent{
		Mode:           model.ModeCorrelate,
		NumeralCount:   len(labels),
		DetectionCount: len(req.Detections),
		ResponseTime:   time.Since(startTime),
	})
	c.JSON(http.StatusOK, gin.H{
		"labels":   labels,
		"numerals": labels.SortedNumerals(),
		"count":    len(labels),
	})
}

// GetJobHandler handles requests to get job status by ID.
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.documents.GetJob(jobID)
	if err != nil {
		SendJobNotFoundError(c, jobID)
		return
	}

	c.JSON(http.StatusOK, job)
}

// GetJobMetricsHandler handles requests to get job performance metrics.
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	engineWithMetrics, ok := api.documents.(*engine.Engine)
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeInternalError,
			"Job metrics not supported by this engine")
		return
	}

	metrics := engineWithMetrics.JobMetrics()
	c.JSON(http.StatusOK, gin.H{
		"metrics":      metrics,
		"success_rate": metrics.SuccessRate(),
	})
}

// GetStatsHandler handles requests for aggregate correlation statistics.
func (api *API) GetStatsHandler(c *gin.Context) {
	if api.analytics == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeInternalError,
			"Analytics not enabled for this engine")
		return
	}

	c.JSON(http.StatusOK, api.analytics.GetStats())
}

// trackEvent records a correlation event without blocking the request.
func (api *API) trackEvent(event model.CorrelationEvent) {
	if api.analytics == nil {
		return
	}
	go api.analytics.TrackEvent(event)
}

// HealthCheckHandler provides a simple health check endpoint.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "go-numeral-engine",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}
