package correlation_test

import (
	"reflect"
	"testing"

	"github.com/gcbaptista/go-numeral-engine/config"
	"github.com/gcbaptista/go-numeral-engine/internal/correlation"
	"github.com/gcbaptista/go-numeral-engine/internal/normalizer"
	enginetesting "github.com/gcbaptista/go-numeral-engine/internal/testing"
	"github.com/gcbaptista/go-numeral-engine/model"
)

func newTestService(t *testing.T, adjectives ...string) *correlation.Service {
	t.Helper()
	n := normalizer.New(enginetesting.NewStaticTagger(adjectives...))
	svc, err := correlation.NewService(n, config.EngineSettings{})
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	return svc
}

func TestNewServiceRejectsNilNormalizer(t *testing.T) {
	if _, err := correlation.NewService(nil, config.EngineSettings{}); err == nil {
		t.Error("Expected error for nil normalizer")
	}
}

func TestNewServiceRejectsInvalidSettings(t *testing.T) {
	n := normalizer.New(enginetesting.NewStaticTagger())
	_, err := correlation.NewService(n, config.EngineSettings{MinConfidence: 2})
	if err == nil {
		t.Error("Expected error for out-of-range min confidence")
	}
}

func TestExtractAndNormalize(t *testing.T) {
	svc := newTestService(t, "flexible", "front")

	got := svc.ExtractAndNormalize("a flexible main body 100, front flap 120")
	want := model.LabelMap{
		"100": "flexible main body",
		"120": "front flap",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractAndNormalize = %v, want %v", got, want)
	}
}

func TestExtractAndNormalizeShortestLabelWins(t *testing.T) {
	svc := newTestService(t, "flexible")

	got := svc.ExtractAndNormalize("a flexible main body 100. The body 100")
	if got["100"] != "body" {
		t.Errorf("Expected shortest candidate 'body', got %q", got["100"])
	}
}

func TestExtractAndNormalizeTieGoesToFirstSeen(t *testing.T) {
	svc := newTestService(t)

	// "lid" and "cap" are equally short; the first mention wins.
	got := svc.ExtractAndNormalize("the lid 20. The cap 20")
	if got["20"] != "lid" {
		t.Errorf("Expected first-seen candidate 'lid' on length tie, got %q", got["20"])
	}
}

func TestExtractAndNormalizeEmptyIsSuccess(t *testing.T) {
	svc := newTestService(t)

	got := svc.ExtractAndNormalize("a bag with no markings")
	if got == nil {
		t.Fatal("Expected non-nil map")
	}
	if len(got) != 0 {
		t.Errorf("Expected empty map for text without numerals, got %v", got)
	}
}

func TestCorrelateMergesDetections(t *testing.T) {
	svc := newTestService(t, "flexible", "front")
	text := "a flexible main body 100, front flap 120"

	detections := []model.Detection{
		// Corrects to 100; 999 is on the drawing but never named in the text.
		enginetesting.MakeDetection("1OO", 0.9, 0, 0, 20, 10),
		enginetesting.MakeDetection("999", 0.9, 50, 0, 20, 10),
	}

	got := svc.Correlate(text, detections)
	// Text-only numerals survive a partial drawing.
	want := model.LabelMap{
		"100": "flexible main body",
		"120": "front flap",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Correlate = %v, want %v", got, want)
	}
}

func TestCorrelateWithoutDetections(t *testing.T) {
	svc := newTestService(t, "front")
	text := "front flap 120"

	got := svc.Correlate(text, nil)
	if got["120"] != "front flap" {
		t.Errorf("Expected text-only path result, got %v", got)
	}
}

func TestCorrelateIgnoresDuplicateDetections(t *testing.T) {
	svc := newTestService(t, "front")
	text := "front flap 120"

	// Two overlapping readings of the same glyph cluster.
	detections := []model.Detection{
		enginetesting.MakeDetection("120", 0.8, 0, 0, 20, 10),
		enginetesting.MakeDetection("12O", 0.95, 1, 0, 20, 10),
	}

	got := svc.Correlate(text, detections)
	want := model.LabelMap{"120": "front flap"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Correlate = %v, want %v", got, want)
	}
}

func TestCorrelateDeterministic(t *testing.T) {
	svc := newTestService(t, "flexible", "front", "insulated")
	text := "a flexible main body 100, front flap 120, insulated compartment flap 250"
	detections := []model.Detection{
		enginetesting.MakeDetection("100", 0.9, 0, 0, 20, 10),
		enginetesting.MakeDetection("250", 0.8, 50, 0, 20, 10),
	}

	first := svc.Correlate(text, detections)
	for i := 0; i < 10; i++ {
		if got := svc.Correlate(text, detections); !reflect.DeepEqual(got, first) {
			t.Fatalf("Correlate not deterministic: %v vs %v", got, first)
		}
	}
}
