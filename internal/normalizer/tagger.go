package normalizer

import (
	"fmt"
	"sync"

	prose "github.com/jdkato/prose/v2"

	internalErrors "github.com/gcbaptista/go-numeral-engine/internal/errors"
)

// Token is a single word with its part-of-speech tag (Penn Treebank tag set).
type Token struct {
	Text string
	Tag  string
}

// Tagger assigns part-of-speech tags to a phrase. Implementations must be
// immutable after construction and safe for concurrent use; the Normalizer
// calls Tag from arbitrary goroutines.
type Tagger interface {
	Tag(text string) ([]Token, error)
}

// proseTagger backs Tagger with the prose statistical model.
type proseTagger struct{}

func (proseTagger) Tag(text string) ([]Token, error) {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}

	proseTokens := doc.Tokens()
	tokens := make([]Token, 0, len(proseTokens))
	for _, tok := range proseTokens {
		tokens = append(tokens, Token{Text: tok.Text, Tag: tok.Tag})
	}
	return tokens, nil
}

var (
	defaultTaggerOnce sync.Once
	defaultTagger     Tagger
	defaultTaggerErr  error
)

// DefaultTagger returns the process-wide prose-backed tagger, initializing it
// on first use and reusing it for every call after that. Initialization runs
// a warm-up phrase through the model so a broken installation surfaces here,
// once, instead of on every request.
func DefaultTagger() (Tagger, error) {
	defaultTaggerOnce.Do(func() {
		tagger := proseTagger{}
		if _, err := tagger.Tag("reference numeral"); err != nil {
			defaultTaggerErr = err
			return
		}
		defaultTagger = tagger
	})
	if defaultTaggerErr != nil {
		return nil, fmt.Errorf("%w: %v", internalErrors.ErrNoTagger, defaultTaggerErr)
	}
	return defaultTagger, nil
}
