// Package testing provides utilities and helpers for testing the numeral engine.
package testing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-numeral-engine/config"
	"github.com/gcbaptista/go-numeral-engine/internal/engine"
	"github.com/gcbaptista/go-numeral-engine/internal/normalizer"
	"github.com/gcbaptista/go-numeral-engine/model"
)

// StaticTagger is a deterministic part-of-speech tagger for tests. Words
// listed as adjectives, participles or determiners get those tags; everything
// else is tagged as a noun. This keeps label expectations exact without
// depending on a trained model.
type StaticTagger struct {
	Adjectives   map[string]bool
	Participles  map[string]bool
	Determiners  map[string]bool
	Prepositions map[string]bool
}

// NewStaticTagger builds a StaticTagger that marks the given words as
// adjectives and knows the common English determiners and prepositions.
func NewStaticTagger(adjectives ...string) *StaticTagger {
	adj := make(map[string]bool, len(adjectives))
	for _, w := range adjectives {
		adj[strings.ToLower(w)] = true
	}
	return &StaticTagger{
		Adjectives:  adj,
		Participles: map[string]bool{},
		Determiners: map[string]bool{"a": true, "an": true, "the": true},
		Prepositions: map[string]bool{
			"of": true, "on": true, "in": true, "to": true, "for": true,
			"from": true, "at": true, "by": true, "shows": true, "noting": true,
		},
	}
}

// WithParticiples marks the given words as past participles (VBN), the way a
// statistical tagger reads modifiers like "insulated" or "fixed".
func (st *StaticTagger) WithParticiples(words ...string) *StaticTagger {
	for _, w := range words {
		st.Participles[strings.ToLower(w)] = true
	}
	return st
}

// Tag implements normalizer.Tagger.
func (st *StaticTagger) Tag(text string) ([]normalizer.Token, error) {
	var tokens []normalizer.Token
	for _, word := range strings.Fields(text) {
		tag := "NN"
		switch {
		case st.Determiners[strings.ToLower(word)]:
			tag = "DT"
		case st.Prepositions[strings.ToLower(word)]:
			tag = "IN"
		case st.Participles[strings.ToLower(word)]:
			tag = "VBN"
		case st.Adjectives[strings.ToLower(word)]:
			tag = "JJ"
		}
		tokens = append(tokens, normalizer.Token{Text: word, Tag: tag})
	}
	return tokens, nil
}

// CreateTestEngine creates an engine instance backed by a temporary data
// directory that is removed when the test finishes.
func CreateTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	eng, err := engine.NewEngine(t.TempDir(), config.EngineSettings{}, nil)
	require.NoError(t, err, "Failed to create test engine")
	t.Cleanup(eng.Close)
	return eng
}

// MakeBox builds an axis-aligned 4-point polygon from the top-left corner
// and the width and height.
func MakeBox(x, y, w, h float64) []model.Point {
	return []model.Point{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}

// MakeDetection builds a detection with an axis-aligned box.
func MakeDetection(text string, confidence, x, y, w, h float64) model.Detection {
	return model.Detection{
		Box:        MakeBox(x, y, w, h),
		Text:       text,
		Confidence: confidence,
	}
}
