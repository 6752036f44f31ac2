// Package dedup removes overlapping OCR detections of the same physical
// glyph cluster, keeping the most confident reading.
package dedup

import (
	"math"
	"sort"

	"github.com/gcbaptista/go-numeral-engine/model"
)

// rect is an axis-aligned bounding rectangle.
type rect struct {
	minX, minY, maxX, maxY float64
}

// boundingRect collapses a detection polygon into its axis-aligned bounding
// rectangle. An intentional approximation: exact polygon intersection buys
// nothing at the scale of numeral glyphs.
func boundingRect(box []model.Point) rect {
	r := rect{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
	for _, p := range box {
		r.minX = math.Min(r.minX, p.X)
		r.minY = math.Min(r.minY, p.Y)
		r.maxX = math.Max(r.maxX, p.X)
		r.maxY = math.Max(r.maxY, p.Y)
	}
	return r
}

func (r rect) area() float64 {
	return (r.maxX - r.minX) * (r.maxY - r.minY)
}

// iou computes intersection-over-union of two rectangles, 0 when disjoint.
func iou(a, b rect) float64 {
	x1 := math.Max(a.minX, b.minX)
	y1 := math.Max(a.minY, b.minY)
	x2 := math.Min(a.maxX, b.maxX)
	y2 := math.Min(a.maxY, b.maxY)

	if x2 <= x1 || y2 <= y1 {
		return 0
	}

	intersection := (x2 - x1) * (y2 - y1)
	union := a.area() + b.area() - intersection
	if union <= 0 {
		return 0
	}
	return intersection / union
}

// Suppress keeps at most one detection per glyph cluster: candidates are
// visited in descending confidence order (stable on ties) and greedily
// accepted unless their bounding box overlaps an accepted one beyond
// overlapThreshold.
func Suppress(numbers []model.ValidatedNumber, overlapThreshold float64) []model.ValidatedNumber {
	if len(numbers) == 0 {
		return numbers
	}

	ordered := make([]model.ValidatedNumber, len(numbers))
	copy(ordered, numbers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	accepted := make([]model.ValidatedNumber, 0, len(ordered))
	acceptedRects := make([]rect, 0, len(ordered))
	for _, candidate := range ordered {
		candidateRect := boundingRect(candidate.Box)
		duplicate := false
		for _, r := range acceptedRects {
			if iou(candidateRect, r) > overlapThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			accepted = append(accepted, candidate)
			acceptedRects = append(acceptedRects, candidateRect)
		}
	}
	return accepted
}
