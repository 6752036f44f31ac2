// Package normalizer reduces raw descriptive phrases from patent prose to
// short canonical labels ("a flexible main body" -> "flexible main body").
package normalizer

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-openapi/inflect"
	gocache "github.com/patrickmn/go-cache"
)

// stopWordPattern strips articles, conjunctions, hedging words and claim
// boilerplate before the phrase is parsed.
const stopWordPattern = `\b(?:wherein|each|the|and|a|an|when|all|of|may be|is|are|with|such as|general(?:ly)?|indicated|identified|numeral|no|shown|shows|noting|` +
	`that defines|controlled be|may be made of|or includes|i\.e\.|e\.g\.|as by|in use|considering again|be it|some other|one embodiment|` +
	`roughly|such that|whether by|to the extent that|as suggested by|mounted|attached|respectively|similarly|or|this|that|these|those|` +
	`some|any|all|every|each|either|neither|both|few|many|much|more|most|other|such|what|however|with|within|without)\b`

// figTokenRegex matches residual figure references ("FIG. 3", "figs 2a").
var figTokenRegex = regexp.MustCompile(`(?i)\bfigs?\.?\s*\d+\w*\b`)

const trimCutset = " ,.-:;"

// chunkExclusions are generic heads that never make useful labels when they
// anchor a noun phrase.
var chunkExclusions = map[string]bool{
	"it": true, "access": true, "extent": true, "width": true, "ends": true,
	"structure": true, "point": true, "form": true, "define": true, "has": true,
	"portion": true, "side": true, "area": true, "view": true, "figure": true,
}

// tokenExclusions is the smaller set used by the single-token fallback scan.
var tokenExclusions = map[string]bool{
	"it": true, "access": true, "extent": true, "width": true, "ends": true,
	"structure": true, "point": true, "form": true, "define": true, "has": true,
	"portion": true,
}

const (
	cacheTTL     = time.Hour
	cacheCleanup = 10 * time.Minute
)

// Normalizer reduces phrases to canonical labels. It is safe for concurrent
// use; the tagger is read-only and the label cache is internally locked.
type Normalizer struct {
	tagger    Tagger
	stopWords *regexp.Regexp
	cache     *gocache.Cache
}

// New creates a Normalizer around the given tagger. A nil tagger is allowed:
// the normalizer then degrades to lower-case + trim, trading precision for
// availability. extraStopWords extends the built-in vocabulary.
func New(tagger Tagger, extraStopWords ...string) *Normalizer {
	pattern := stopWordPattern
	if len(extraStopWords) > 0 {
		quoted := make([]string, 0, len(extraStopWords))
		for _, word := range extraStopWords {
			if word != "" {
				quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(word)))
			}
		}
		if len(quoted) > 0 {
			pattern += `|\b(?:` + strings.Join(quoted, "|") + `)\b`
		}
	}

	return &Normalizer{
		tagger:    tagger,
		stopWords: regexp.MustCompile(`(?i)(?:` + pattern + `)`),
		cache:     gocache.New(cacheTTL, cacheCleanup),
	}
}

// Normalize reduces a raw phrase to a short canonical label. An empty result
// signals "no usable label".
func (n *Normalizer) Normalize(phrase string) string {
	if n.tagger == nil {
		// Degraded mode: no linguistic model, lower precision beats failing.
		return strings.TrimSpace(strings.ToLower(phrase))
	}

	if cached, found := n.cache.Get(phrase); found {
		return cached.(string)
	}
	label := n.normalize(phrase)
	n.cache.Set(phrase, label, gocache.DefaultExpiration)
	return label
}

func (n *Normalizer) normalize(phrase string) string {
	cleaned := n.stopWords.ReplaceAllString(strings.ToLower(phrase), "")
	cleaned = figTokenRegex.ReplaceAllString(cleaned, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = strings.Trim(cleaned, trimCutset)
	if cleaned == "" {
		return ""
	}

	tokens, err := n.tagger.Tag(cleaned)
	if err != nil {
		return strings.TrimSpace(cleaned)
	}

	headPhrase := selectHeadPhrase(tokens)
	if headPhrase == "" {
		return ""
	}

	headTokens, err := n.tagger.Tag(strings.ToLower(headPhrase))
	if err != nil {
		return ""
	}

	words := make([]string, 0, len(headTokens))
	for _, tok := range headTokens {
		switch {
		case isNoun(tok.Tag):
			words = append(words, inflect.Singularize(tok.Text))
		case isAdjective(tok.Tag) || isParticiple(tok.Tag):
			words = append(words, tok.Text)
		}
	}

	label := collapseRepeats(strings.Join(words, " "))
	if len(label) <= 1 {
		return ""
	}
	return label
}

func isNoun(tag string) bool {
	return strings.HasPrefix(tag, "NN")
}

func isAdjective(tag string) bool {
	return strings.HasPrefix(tag, "JJ")
}

// isParticiple reports participial forms ("insulated", "fixed") that modify a
// noun the way an adjective does. The statistical tagger marks them VBD or
// VBN rather than JJ, so they need their own keep rule.
func isParticiple(tag string) bool {
	return tag == "VBN" || tag == "VBD" || tag == "VBG"
}

// chunkable reports whether a token may belong to a noun phrase.
func chunkable(tag string) bool {
	return tag == "DT" || isNoun(tag) || isAdjective(tag) || isParticiple(tag)
}

type nounChunk struct {
	tokens []Token
	head   Token // rightmost noun in the run
}

// nounChunks groups contiguous determiner/adjective/noun runs that contain at
// least one noun. The rightmost noun of a run is its syntactic head; for the
// flat descriptive clauses of patent prose this matches what a full
// dependency parse would pick.
func nounChunks(tokens []Token) []nounChunk {
	var chunks []nounChunk
	var run []Token

	flush := func() {
		if len(run) == 0 {
			return
		}
		for i := len(run) - 1; i >= 0; i-- {
			if isNoun(run[i].Tag) {
				chunks = append(chunks, nounChunk{tokens: run, head: run[i]})
				break
			}
		}
		run = nil
	}

	for _, tok := range tokens {
		if chunkable(tok.Tag) {
			run = append(run, tok)
			continue
		}
		flush()
	}
	flush()
	return chunks
}

// selectHeadPhrase picks the referent of a descriptive clause: the rightmost
// noun phrase whose head is a usable common or proper noun, falling back to a
// single-token scan from the end.
func selectHeadPhrase(tokens []Token) string {
	chunks := nounChunks(tokens)
	for i := len(chunks) - 1; i >= 0; i-- {
		if !chunkExclusions[strings.ToLower(chunks[i].head.Text)] {
			words := make([]string, 0, len(chunks[i].tokens))
			for _, tok := range chunks[i].tokens {
				words = append(words, tok.Text)
			}
			return strings.Join(words, " ")
		}
	}

	for i := len(tokens) - 1; i >= 0; i-- {
		if isNoun(tokens[i].Tag) && !tokenExclusions[strings.ToLower(tokens[i].Text)] {
			return tokens[i].Text
		}
	}
	return ""
}

// collapseRepeats drops immediately-repeated identical words ("pad pad").
func collapseRepeats(label string) string {
	words := strings.Fields(label)
	kept := words[:0]
	for _, word := range words {
		if len(kept) > 0 && kept[len(kept)-1] == word {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}
