// Package digits corrects visually-confusable OCR glyphs into digits and
// filters raw detections down to validated numeric readings.
package digits

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/gcbaptista/go-numeral-engine/model"
)

// confusions maps glyphs that OCR engines commonly mistake for digits in
// technical drawings (e.g., a hand-drawn "100" read as "1OO").
var confusions = map[rune]rune{
	'b': '6', 'B': '6',
	'o': '0', 'O': '0', 'D': '0',
	'l': '1', 'I': '1', 'i': '1',
	'S': '5', 's': '5',
	'Z': '2', 'z': '2',
	'g': '9', 'G': '9', 'q': '9', 'Q': '9',
	'T': '7', 't': '7',
}

var nonWordOrDot = regexp.MustCompile(`[^\w.]`)

// Correct substitutes confusable glyphs with their digit counterparts and
// strips every remaining character that is not a digit or a decimal point.
func Correct(raw string) string {
	substituted := strings.Map(func(r rune) rune {
		if digit, ok := confusions[r]; ok {
			return digit
		}
		return r
	}, raw)

	var b strings.Builder
	for _, r := range substituted {
		if unicode.IsDigit(r) || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsNumber reports whether text reads as numeric: either it parses as a
// float, or at least minDigitRatio of its characters are digits. The ratio
// guard keeps mostly-numeric tokens that aggressive stripping would
// otherwise lose, while still rejecting plain OCR noise.
func IsNumber(text string, minDigitRatio float64) bool {
	cleaned := nonWordOrDot.ReplaceAllString(text, "")
	if cleaned == "" {
		return false
	}

	if _, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return true
	}

	digitCount := 0
	for _, r := range cleaned {
		if unicode.IsDigit(r) {
			digitCount++
		}
	}
	return float64(digitCount)/float64(len([]rune(cleaned))) >= minDigitRatio
}

// FilterOptions carries the thresholds used when validating detections.
type FilterOptions struct {
	// MinConfidence drops detections the OCR engine itself is unsure about.
	MinConfidence float64
	// MinDigitRatio is forwarded to IsNumber.
	MinDigitRatio float64
}

// FilterValid reduces raw OCR detections to validated numbers: malformed
// detections are skipped, low-confidence readings dropped, and the remaining
// text corrected and required to parse numerically.
func FilterValid(detections []model.Detection, opts FilterOptions) []model.ValidatedNumber {
	valid := make([]model.ValidatedNumber, 0, len(detections))
	for _, det := range detections {
		if err := det.Validate(); err != nil {
			continue
		}
		if det.Confidence < opts.MinConfidence {
			continue
		}

		corrected := Correct(det.Text)
		if corrected == "" || !IsNumber(corrected, opts.MinDigitRatio) {
			continue
		}
		value, err := strconv.ParseFloat(corrected, 64)
		if err != nil {
			continue
		}

		valid = append(valid, model.ValidatedNumber{
			Box:           det.Box,
			OriginalText:  det.Text,
			CorrectedText: corrected,
			Value:         value,
			Confidence:    det.Confidence,
		})
	}
	return valid
}
