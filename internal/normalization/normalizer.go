// Package normalization turns free-text ingredient lines into short canonical
// phrases suitable for an ontology search.
package normalization

import (
	"fmt"
	"strings"

	"github.com/yungbote/recipegraph-backend/internal/pkg/textfold"
)

// Token is one tagged word. Tag uses the Penn Treebank tag set.
type Token struct {
	Text string
	Tag  string
}

// Tagger assigns part-of-speech tags to space separated words.
type Tagger interface {
	Tag(text string) ([]Token, error)
}

var keptTags = map[string]bool{
	"NN":   true,
	"NNS":  true,
	"NNP":  true,
	"NNPS": true,
	"JJ":   true,
}

type Normalizer struct {
	phrases [][]string
	tagger  Tagger
	words   func(string) []string
}

type Option func(*Normalizer)

// WithAccentFolding maps accented letters to their base letter before the
// ASCII filter instead of dropping them. Off by default.
func WithAccentFolding() Option {
	return func(n *Normalizer) { n.words = textfold.FoldedWords }
}

// NewNormalizer takes the strip phrases in removal order, usually
// lexicon amounts followed by processes.
func NewNormalizer(stripPhrases []string, tagger Tagger, opts ...Option) *Normalizer {
	n := &Normalizer{tagger: tagger, words: textfold.Words}
	for _, opt := range opts {
		opt(n)
	}
	phrases := make([][]string, 0, len(stripPhrases))
	for _, p := range stripPhrases {
		words := n.words(p)
		if len(words) == 0 {
			continue
		}
		phrases = append(phrases, words)
	}
	n.phrases = phrases
	return n
}

// Normalize reduces raw to its noun and adjective tokens. An empty result
// means there is nothing worth resolving.
func (n *Normalizer) Normalize(raw string) (string, error) {
	words := n.words(raw)
	for _, p := range n.phrases {
		if len(words) == 0 {
			break
		}
		words = removePhrase(words, p)
	}
	if len(words) == 0 {
		return "", nil
	}

	tokens, err := n.tagger.Tag(strings.Join(words, " "))
	if err != nil {
		return "", fmt.Errorf("normalize %q: tag: %w", raw, err)
	}
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if keptTags[tok.Tag] && strings.TrimSpace(tok.Text) != "" {
			kept = append(kept, tok.Text)
		}
	}
	return strings.Join(kept, " "), nil
}

// removePhrase drops every whole-word occurrence of phrase, scanning left to
// right without overlap.
func removePhrase(words, phrase []string) []string {
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if matchAt(words, i, phrase) {
			i += len(phrase)
			continue
		}
		out = append(out, words[i])
		i++
	}
	return out
}

func matchAt(words []string, i int, phrase []string) bool {
	if i+len(phrase) > len(words) {
		return false
	}
	for j, w := range phrase {
		if words[i+j] != w {
			return false
		}
	}
	return true
}
