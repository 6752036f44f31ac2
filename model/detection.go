package model

import (
	"fmt"
	"sort"
	"strconv"
)

// Point is an (x, y) pixel coordinate with the origin in the upper-left
// corner of the image.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Detection is a single text region reported by an external OCR collaborator.
// Box holds the four corners of the detected region as a simple polygon.
type Detection struct {
	Box        []Point `json:"box"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Validate reports why a detection is malformed, or nil if it is usable.
// The engine skips malformed detections instead of failing the batch.
func (d Detection) Validate() error {
	if len(d.Box) != 4 {
		return fmt.Errorf("box must have 4 points, got %d", len(d.Box))
	}
	if d.Text == "" {
		return fmt.Errorf("text is empty")
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("confidence %v is outside [0, 1]", d.Confidence)
	}
	return nil
}

// ValidatedNumber is a detection that survived digit correction and
// confidence filtering.
type ValidatedNumber struct {
	Box           []Point `json:"box"`
	OriginalText  string  `json:"original_text"`
	CorrectedText string  `json:"corrected_text"`
	Value         float64 `json:"value"`
	Confidence    float64 `json:"confidence"`
}

// LabelMap maps a reference numeral (as its canonical digit string, e.g.
// "100") to the single label chosen for it.
type LabelMap map[string]string

// SortedNumerals returns the numeral keys in ascending numeric order.
// Keys that do not parse as integers sort last, lexicographically.
func (m LabelMap) SortedNumerals() []string {
	numerals := make([]string, 0, len(m))
	for numeral := range m {
		numerals = append(numerals, numeral)
	}
	sort.Slice(numerals, func(i, j int) bool {
		a, errA := strconv.Atoi(numerals[i])
		b, errB := strconv.Atoi(numerals[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return numerals[i] < numerals[j]
		}
	})
	return numerals
}
