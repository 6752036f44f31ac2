// Package api provides validation utilities for API request handling.
package api

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// maxDescriptionBytes bounds description text accepted by the API. The
// request-size middleware bounds the whole body; this bounds the one field
// the regex pipeline actually scans.
const maxDescriptionBytes = 4 << 20

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateDocumentID validates a document ID
func ValidateDocumentID(documentID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if documentID == "" {
		result.AddError("id", "Document ID is required")
		return result
	}

	if strings.TrimSpace(documentID) != documentID {
		result.AddError("id", "Document ID cannot have leading or trailing whitespace")
		return result
	}

	return result
}

// ValidateDescriptionText validates description text supplied for extraction
// or correlation.
func ValidateDescriptionText(text string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(text) == "" {
		result.AddError("text", "Description text is required")
		return result
	}

	if len(text) > maxDescriptionBytes {
		result.AddError("text", "Description text exceeds the maximum supported size")
		return result
	}

	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
