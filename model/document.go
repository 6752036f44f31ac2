package model

import "time"

// Document is a single patent document registered with the engine: the prose
// that names reference numerals, plus the OCR detections from its drawings.
// Detections may be empty; the text-only extraction path still applies.
type Document struct {
	ID         string      `json:"id"`
	Text       string      `json:"text"`
	Detections []Detection `json:"detections,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}
