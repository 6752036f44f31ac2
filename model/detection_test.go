package model

import (
	"reflect"
	"testing"
)

func quad() []Point {
	return []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
}

func TestDetectionValidate(t *testing.T) {
	tests := []struct {
		name      string
		detection Detection
		wantErr   bool
	}{
		{"valid", Detection{Box: quad(), Text: "100", Confidence: 0.9}, false},
		{"zero confidence is valid", Detection{Box: quad(), Text: "100", Confidence: 0}, false},
		{"full confidence is valid", Detection{Box: quad(), Text: "100", Confidence: 1}, false},
		{"missing box", Detection{Text: "100", Confidence: 0.9}, true},
		{"three points", Detection{Box: quad()[:3], Text: "100", Confidence: 0.9}, true},
		{"empty text", Detection{Box: quad(), Confidence: 0.9}, true},
		{"negative confidence", Detection{Box: quad(), Text: "100", Confidence: -0.1}, true},
		{"confidence above one", Detection{Box: quad(), Text: "100", Confidence: 1.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.detection.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLabelMapSortedNumerals(t *testing.T) {
	m := LabelMap{
		"120":  "front flap",
		"20":   "lid",
		"3":    "strap",
		"1000": "container",
		"x1":   "stray",
	}

	want := []string{"3", "20", "120", "1000", "x1"}
	if got := m.SortedNumerals(); !reflect.DeepEqual(got, want) {
		t.Errorf("SortedNumerals() = %v, want %v", got, want)
	}
}

func TestLabelMapSortedNumeralsEmpty(t *testing.T) {
	if got := (LabelMap{}).SortedNumerals(); len(got) != 0 {
		t.Errorf("Expected empty slice, got %v", got)
	}
}
