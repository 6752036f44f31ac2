// Package services defines the public interfaces of the numeral engine.
package services

import (
	"github.com/gcbaptista/go-numeral-engine/model"
)

// Correlator is the core reference-numeral correlation contract: both entry
// points are pure computations over the supplied inputs and are safe to call
// concurrently.
type Correlator interface {
	// ExtractAndNormalize maps every numeral named in the text to its best
	// label. Usable standalone when no drawing is available.
	ExtractAndNormalize(text string) model.LabelMap

	// Correlate merges text candidates with OCR detections from the drawing.
	// An empty detections slice degrades to the text-only path.
	Correlate(text string, detections []model.Detection) model.LabelMap
}

// DocumentManager manages registered patent documents and their computed
// label maps.
type DocumentManager interface {
	// AddDocument registers a document and returns its ID (generated when the
	// document carries none).
	AddDocument(doc model.Document) (string, error)

	// GetDocument returns a registered document.
	GetDocument(id string) (model.Document, error)

	// DeleteDocument removes a document and its labels.
	DeleteDocument(id string) error

	// ListDocuments returns the IDs of all registered documents.
	ListDocuments() []string

	// GetLabels returns the label map for a document, computing and
	// persisting it on first access.
	GetLabels(id string) (model.LabelMap, error)

	// CorrelateAsync recomputes a document's labels in the background and
	// returns the tracking job ID.
	CorrelateAsync(id string) (string, error)

	// GetJob returns the state of a background job.
	GetJob(jobID string) (*model.Job, error)
}
