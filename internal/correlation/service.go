// Package correlation merges the two noisy signals of a patent document:
// numerals named in the prose and numerals actually detected on the drawing.
package correlation

import (
	"fmt"
	"sort"

	"github.com/gcbaptista/go-numeral-engine/config"
	"github.com/gcbaptista/go-numeral-engine/internal/dedup"
	"github.com/gcbaptista/go-numeral-engine/internal/digits"
	"github.com/gcbaptista/go-numeral-engine/internal/extractor"
	"github.com/gcbaptista/go-numeral-engine/internal/normalizer"
	"github.com/gcbaptista/go-numeral-engine/model"
)

// Service implements the correlation pipeline for one settings profile.
// It is a pure computation over in-memory data and is safe for concurrent
// use on independent inputs.
type Service struct {
	extractor *extractor.Extractor
	settings  config.EngineSettings
}

// NewService creates a correlation Service around the given normalizer.
func NewService(norm *normalizer.Normalizer, settings config.EngineSettings) (*Service, error) {
	if norm == nil {
		return nil, fmt.Errorf("normalizer cannot be nil")
	}
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid settings: %v", problems)
	}

	return &Service{
		extractor: extractor.New(norm, settings.MaxNumeralDigits),
		settings:  settings,
	}, nil
}

// ExtractAndNormalize runs the text-only path: every numeral named in the
// prose, each mapped to its best candidate label. An empty map is a
// legitimate "no reference numerals found" outcome.
func (s *Service) ExtractAndNormalize(text string) model.LabelMap {
	result := make(model.LabelMap)
	for numeral, labels := range s.extractor.Extract(text) {
		if label := pickLabel(labels); label != "" {
			result[numeral] = label
		}
	}
	return result
}

// Correlate runs the full engine: the candidate table from the prose is
// merged with the set of numerals actually present on the drawing. Numerals
// seen in the image are assigned first; numerals found only in text are kept
// as well, since the drawing is not always available.
func (s *Service) Correlate(text string, detections []model.Detection) model.LabelMap {
	candidates := s.extractor.Extract(text)

	validated := digits.FilterValid(detections, digits.FilterOptions{
		MinConfidence: s.settings.MinConfidence,
		MinDigitRatio: s.settings.MinDigitRatio,
	})
	kept := dedup.Suppress(validated, s.settings.OverlapThreshold)

	present := make(map[string]bool, len(kept))
	for _, vn := range kept {
		present[vn.CorrectedText] = true
	}

	result := make(model.LabelMap, len(candidates))
	for numeral := range present {
		if labels, ok := candidates[numeral]; ok {
			if label := pickLabel(labels); label != "" {
				result[numeral] = label
			}
		}
	}
	for numeral, labels := range candidates {
		if _, assigned := result[numeral]; assigned {
			continue
		}
		if label := pickLabel(labels); label != "" {
			result[numeral] = label
		}
	}
	return result
}

// pickLabel chooses the winning candidate: the shortest string, on the
// heuristic that concise labels are the canonical term and longer ones are
// restated descriptions. Ties go to the earliest-seen candidate.
func pickLabel(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	ordered := make([]string, len(labels))
	copy(ordered, labels)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) < len(ordered[j])
	})
	return ordered[0]
}
