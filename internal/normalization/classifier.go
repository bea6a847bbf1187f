package normalization

import "strings"

// MeatClassifier flags labels that mention any meat term. Matching is a
// case-insensitive substring test, so "graham cracker" counts as ham.
type MeatClassifier struct {
	terms []string
}

func NewMeatClassifier(terms []string) *MeatClassifier {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return &MeatClassifier{terms: out}
}

func (c *MeatClassifier) ContainsMeat(label string) bool {
	l := strings.ToLower(label)
	for _, t := range c.terms {
		if strings.Contains(l, t) {
			return true
		}
	}
	return false
}
