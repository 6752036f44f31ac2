// Package extractor scans patent prose for candidate (phrase, numeral)
// pairs, e.g. "a flexible main body 100, front flap 120".
package extractor

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gcbaptista/go-numeral-engine/internal/normalizer"
)

// phraseRegex captures an optional lead-in clause ("indicated as",
// "reference numeral", ...), then a free-form phrase, then one or more
// comma-separated numbers. Digit runs are captured greedily and length-checked
// in code: a 5+ digit run is never split into a shorter reference numeral.
var phraseRegex = regexp.MustCompile(
	`(?:[\w\s\-,;:()]*?\s(?:indicated\s+(?:generally\s+)?as|identified\s+as|as|no\.?|reference\s+numeral|shown\s+as)\s+)?` +
		`([\w\s\-.,;:()]+?)\s*(\d+(?:,\s*\d+)*)`)

// figReferenceRegex spots caption markers ("FIG. 2b") inside a captured
// phrase; such a match names a drawing, not a part.
var figReferenceRegex = regexp.MustCompile(`(?i)\bfigs?\.?\s*\d+\w*\b`)

// Extractor turns free text into a numeral -> candidate-labels table.
type Extractor struct {
	normalizer *normalizer.Normalizer
	maxDigits  int
}

// New creates an Extractor. maxDigits caps the numeral length (reference
// numerals on patent drawings are at most 4 digits).
func New(n *normalizer.Normalizer, maxDigits int) *Extractor {
	return &Extractor{normalizer: n, maxDigits: maxDigits}
}

// Extract scans text left to right for non-overlapping matches and returns,
// per numeral, the normalized candidate labels in order of appearance.
// Numerals whose phrases normalize to nothing are absent from the table.
func (e *Extractor) Extract(text string) map[string][]string {
	candidates := make(map[string][]string)

	text = norm.NFKC.String(text)
	for _, match := range phraseRegex.FindAllStringSubmatch(text, -1) {
		phrase, numberList := match[1], match[2]

		// A caption marker means the numbers name a figure, not a part.
		if figReferenceRegex.MatchString(phrase) {
			continue
		}

		label := e.normalizer.Normalize(strings.ToLower(phrase))
		if label == "" {
			continue
		}

		for _, token := range strings.Split(numberList, ",") {
			numeral := strings.TrimSpace(token)
			if !isNumeral(numeral, e.maxDigits) {
				continue
			}
			candidates[numeral] = append(candidates[numeral], label)
		}
	}
	return candidates
}

// isNumeral reports whether token is a pure digit string of 1..maxDigits
// characters.
func isNumeral(token string, maxDigits int) bool {
	if len(token) == 0 || len(token) > maxDigits {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
