package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-numeral-engine/internal/engine"
	internalErrors "github.com/gcbaptista/go-numeral-engine/internal/errors"
	"github.com/gcbaptista/go-numeral-engine/model"
)

// AddDocumentRequest defines the structure for document registration.
type AddDocumentRequest struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	Detections []model.Detection `json:"detections"`
}

// AddDocumentHandler registers a document for later correlation. The ID is
// generated when the request carries none.
func (api *API) AddDocumentHandler(c *gin.Context) {
	var req AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	result := ValidateDescriptionText(req.Text)
	if req.ID != "" {
		if idResult := ValidateDocumentID(req.ID); idResult.HasErrors() {
			result.Errors = append(result.Errors, idResult.Errors...)
			result.Valid = false
		}
	}
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	id, err := api.documents.AddDocument(model.Document{
		ID:         req.ID,
		Text:       req.Text,
		Detections: req.Detections,
	})
	if err != nil {
		if errors.Is(err, internalErrors.ErrDocumentAlreadyExists) {
			SendDocumentExistsError(c, req.ID)
			return
		}
		SendInternalError(c, "document registration", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Document registered",
		"document_id": id,
	})
}

// ListDocumentsHandler lists all registered document IDs.
func (api *API) ListDocumentsHandler(c *gin.Context) {
	ids := api.documents.ListDocuments()
	c.JSON(http.StatusOK, gin.H{"documents": ids, "count": len(ids)})
}

// GetDocumentHandler retrieves a specific document by ID.
func (api *API) GetDocumentHandler(c *gin.Context) {
	documentID := c.Param("documentId")

	doc, err := api.documents.GetDocument(documentID)
	if err != nil {
		SendDocumentNotFoundError(c, documentID)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DeleteDocumentHandler deletes a specific document by ID. When the engine
// supports background jobs the deletion runs asynchronously.
func (api *API) DeleteDocumentHandler(c *gin.Context) {
	documentID := c.Param("documentId")

	var jobID string
	var err error
	if concreteEngine, ok := api.documents.(*engine.Engine); ok {
		jobID, err = concreteEngine.DeleteDocumentAsync(documentID)
	} else {
		err = api.documents.DeleteDocument(documentID)
	}

	if err != nil {
		if errors.Is(err, internalErrors.ErrDocumentNotFound) {
			SendDocumentNotFoundError(c, documentID)
			return
		}
		SendInternalError(c, "document deletion", err)
		return
	}

	if jobID != "" {
		c.JSON(http.StatusAccepted, gin.H{
			"status":      "accepted",
			"message":     "Deletion started for document '" + documentID + "'",
			"document_id": documentID,
			"job_id":      jobID,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document '" + documentID + "' deleted"})
}

// GetLabelsHandler returns the label map for a document, computing it on
// first access.
func (api *API) GetLabelsHandler(c *gin.Context) {
	documentID := c.Param("documentId")

	startTime := time.Now()
	labels, err := api.documents.GetLabels(documentID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrDocumentNotFound) {
			SendDocumentNotFoundError(c, documentID)
			return
		}
		SendInternalError(c, "label computation", err)
		return
	}
	api.trackEvent(model.CorrelationEvent{
		DocumentID:   documentID,
		Mode:         model.ModeDocument,
		NumeralCount: len(labels),
		ResponseTime: time.Since(startTime),
	})

	c.JSON(http.StatusOK, gin.H{
		"document_id": documentID,
		"labels":      labels,
		"numerals":    labels.SortedNumerals(),
		"count":       len(labels),
	})
}

// CorrelateAsyncHandler recomputes a document's label map in the background
// and returns the job ID for polling.
func (api *API) CorrelateAsyncHandler(c *gin.Context) {
	documentID := c.Param("documentId")

	jobID, err := api.documents.CorrelateAsync(documentID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrDocumentNotFound) {
			SendDocumentNotFoundError(c, documentID)
			return
		}
		SendJobExecutionError(c, "correlation", err)
		return
	}

	api.logger.Info("correlation job accepted",
		zap.String("document_id", documentID), zap.String("job_id", jobID))
	c.JSON(http.StatusAccepted, gin.H{
		"status":      "accepted",
		"message":     "Correlation started for document '" + documentID + "'",
		"job_id":      jobID,
		"document_id": documentID,
	})
}
