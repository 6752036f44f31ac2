package dedup

import (
	"testing"

	"github.com/gcbaptista/go-numeral-engine/model"
)

func number(text string, confidence, x, y, w, h float64) model.ValidatedNumber {
	return model.ValidatedNumber{
		Box: []model.Point{
			{X: x, Y: y},
			{X: x + w, Y: y},
			{X: x + w, Y: y + h},
			{X: x, Y: y + h},
		},
		OriginalText:  text,
		CorrectedText: text,
		Confidence:    confidence,
	}
}

func TestSuppressKeepsMostConfidentOverlap(t *testing.T) {
	// Two readings of the same glyph cluster, nearly identical boxes.
	numbers := []model.ValidatedNumber{
		number("100", 0.7, 0, 0, 10, 10),
		number("100", 0.9, 1, 0, 10, 10),
	}

	kept := Suppress(numbers, 0.5)
	if len(kept) != 1 {
		t.Fatalf("Expected 1 surviving detection, got %d", len(kept))
	}
	if kept[0].Confidence != 0.9 {
		t.Errorf("Expected the 0.9 confidence reading to survive, got %+v", kept[0])
	}
}

func TestSuppressKeepsDisjointDetections(t *testing.T) {
	numbers := []model.ValidatedNumber{
		number("100", 0.9, 0, 0, 10, 10),
		number("120", 0.8, 100, 100, 10, 10),
		number("250", 0.7, 200, 0, 10, 10),
	}

	kept := Suppress(numbers, 0.5)
	if len(kept) != 3 {
		t.Fatalf("Expected all 3 disjoint detections kept, got %d", len(kept))
	}
}

func TestSuppressBorderlineOverlapKept(t *testing.T) {
	// Half-overlapping boxes: IoU = 1/3, below the 0.5 threshold.
	numbers := []model.ValidatedNumber{
		number("100", 0.9, 0, 0, 10, 10),
		number("101", 0.8, 5, 0, 10, 10),
	}

	kept := Suppress(numbers, 0.5)
	if len(kept) != 2 {
		t.Fatalf("Expected both boxes kept at IoU 1/3, got %d", len(kept))
	}
}

func TestSuppressStableOnEqualConfidence(t *testing.T) {
	// Same confidence, same box: the earlier input wins.
	numbers := []model.ValidatedNumber{
		number("first", 0.8, 0, 0, 10, 10),
		number("second", 0.8, 0, 0, 10, 10),
	}

	kept := Suppress(numbers, 0.5)
	if len(kept) != 1 {
		t.Fatalf("Expected 1 surviving detection, got %d", len(kept))
	}
	if kept[0].CorrectedText != "first" {
		t.Errorf("Expected stable ordering to keep the first reading, got %q", kept[0].CorrectedText)
	}
}

func TestSuppressEmptyInput(t *testing.T) {
	if kept := Suppress(nil, 0.5); len(kept) != 0 {
		t.Errorf("Expected empty result for nil input, got %+v", kept)
	}
}

func TestIOU(t *testing.T) {
	a := rect{0, 0, 10, 10}
	tests := []struct {
		name string
		b    rect
		want float64
	}{
		{"identical", rect{0, 0, 10, 10}, 1},
		{"disjoint", rect{20, 20, 30, 30}, 0},
		{"touching edges", rect{10, 0, 20, 10}, 0},
		{"half overlap", rect{5, 0, 15, 10}, 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := iou(a, tt.b); got != tt.want {
				t.Errorf("iou = %v, want %v", got, tt.want)
			}
		})
	}
}
