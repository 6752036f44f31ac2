package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-numeral-engine/api"
	"github.com/gcbaptista/go-numeral-engine/internal/analytics"
	enginetesting "github.com/gcbaptista/go-numeral-engine/internal/testing"
	"github.com/gcbaptista/go-numeral-engine/model"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	eng := enginetesting.CreateTestEngine(t)
	analyticsService := analytics.NewService(t.TempDir(), eng, nil)
	router := gin.New()
	api.SetupRoutes(router, eng, eng, analyticsService, nil)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestExtractHandler(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/extract", gin.H{
		"text": "a flexible main body 100, front flap 120",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Labels   map[string]string `json:"labels"`
		Numerals []string          `json:"numerals"`
		Count    int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.NotEmpty(t, resp.Labels["100"])
	assert.NotEmpty(t, resp.Labels["120"])
	assert.Equal(t, []string{"100", "120"}, resp.Numerals)
}

func TestExtractHandlerEmptyText(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/extract", gin.H{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_FAILED", resp["code"])
}

func TestExtractHandlerInvalidJSON(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/extract", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_JSON", resp["code"])
}

func TestCorrelateHandler(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/correlate", gin.H{
		"text": "a flexible main body 100",
		"detections": []model.Detection{
			enginetesting.MakeDetection("1OO", 0.9, 0, 0, 20, 10),
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Labels map[string]string `json:"labels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Labels["100"])
}

func TestDocumentLifecycle(t *testing.T) {
	router := setupRouter(t)

	// Register.
	w := doJSON(t, router, http.MethodPost, "/documents", gin.H{
		"id":   "doc-1",
		"text": "a flexible main body 100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Duplicate registration conflicts.
	w = doJSON(t, router, http.MethodPost, "/documents", gin.H{
		"id":   "doc-1",
		"text": "other text 10",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Listing includes it.
	w = doJSON(t, router, http.MethodGet, "/documents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Documents []string `json:"documents"`
		Count     int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Equal(t, []string{"doc-1"}, listResp.Documents)

	// Fetch it back.
	w = doJSON(t, router, http.MethodGet, "/documents/doc-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var doc model.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "a flexible main body 100", doc.Text)

	// Labels compute on demand.
	w = doJSON(t, router, http.MethodGet, "/documents/doc-1/labels", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var labelsResp struct {
		Labels map[string]string `json:"labels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &labelsResp))
	assert.NotEmpty(t, labelsResp.Labels["100"])

	// Deletion runs as a background job; poll until the document is gone.
	w = doJSON(t, router, http.MethodDelete, "/documents/doc-1", nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	var deleteResp struct {
		JobID string `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deleteResp))
	require.NotEmpty(t, deleteResp.JobID)

	deadline := time.Now().Add(5 * time.Second)
	for {
		w = doJSON(t, router, http.MethodGet, "/documents/doc-1", nil)
		if w.Code == http.StatusNotFound || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddDocumentGeneratesID(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/documents", gin.H{
		"text": "front flap 120",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["document_id"])
}

func TestAddDocumentRejectsEmptyText(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/documents", gin.H{"id": "doc-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDocumentNotFound(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/documents/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DOCUMENT_NOT_FOUND", resp["code"])
}

func TestCorrelateAsyncEndpoint(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/documents", gin.H{
		"id":   "doc-1",
		"text": "a flexible main body 100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/documents/doc-1/correlate", nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var acceptResp struct {
		JobID string `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acceptResp))
	require.NotEmpty(t, acceptResp.JobID)

	// Poll until the job finishes.
	deadline := time.Now().Add(5 * time.Second)
	for {
		w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/jobs/%s", acceptResp.JobID), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var job model.Job
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
		if job.Status == model.JobStatusCompleted {
			break
		}
		require.NotEqual(t, model.JobStatusFailed, job.Status, "job failed: %s", job.Error)
		require.True(t, time.Now().Before(deadline), "job never completed")
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCorrelateAsyncUnknownDocument(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/documents/missing/correlate", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetJobNotFound(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/jobs/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "JOB_NOT_FOUND", resp["code"])
}

func TestGetJobMetrics(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/jobs/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "metrics")
	assert.Contains(t, resp, "success_rate")
}

func TestGetStats(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/extract",
		api.ExtractRequest{Text: "a flexible main body 100, front flap 120"})
	require.Equal(t, http.StatusOK, w.Code)

	// Event tracking is asynchronous, so poll until the run shows up.
	deadline := time.Now().Add(2 * time.Second)
	var resp map[string]interface{}
	for {
		w = doJSON(t, router, http.MethodGet, "/analytics", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		if resp["total_runs"].(float64) >= 1 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	assert.Equal(t, float64(1), resp["total_runs"])
	assert.Equal(t, float64(1), resp["runs_24h"])
	runsByMode, ok := resp["runs_by_mode"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), runsByMode[model.ModeExtract])
}
