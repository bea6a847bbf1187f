package normalization

import (
	"github.com/jdkato/prose/v2"
)

// ProseTagger tags with the averaged perceptron model bundled in prose.
type ProseTagger struct{}

func NewProseTagger() *ProseTagger { return &ProseTagger{} }

func (*ProseTagger) Tag(text string) ([]Token, error) {
	doc, err := prose.NewDocument(
		text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, err
	}
	toks := doc.Tokens()
	out := make([]Token, 0, len(toks))
	for _, t := range toks {
		out = append(out, Token{Text: t.Text, Tag: t.Tag})
	}
	return out, nil
}
