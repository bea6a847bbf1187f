package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yungbote/recipegraph-backend/internal/lexicon"
)

func TestMeatClassifier(t *testing.T) {
	c := NewMeatClassifier([]string{"Bacon", "ham", " "})
	cases := map[string]bool{
		"bacon":          true,
		"Smoked BACON":   true,
		"graham cracker": true,
		"onion":          false,
		"":               false,
	}
	for label, want := range cases {
		assert.Equal(t, want, c.ContainsMeat(label), label)
	}
}

func TestMeatClassifierEmptyLexicon(t *testing.T) {
	assert.False(t, NewMeatClassifier(nil).ContainsMeat("bacon"))
}

func TestMeatClassifierKeepsPunctuationAndAccents(t *testing.T) {
	lex := lexicon.New(nil, nil, []string{"T-Bone", "jamón"})
	c := NewMeatClassifier(lex.Meats())
	assert.True(t, c.ContainsMeat("t-bone steak"))
	assert.True(t, c.ContainsMeat("Jamón ibérico"))
	assert.False(t, c.ContainsMeat("tbone"))
	assert.False(t, c.ContainsMeat("jamon"))
}
