package recipes

// RawRecipe is one scraped record. Title and Author may be empty; Source is
// the page URL and doubles as the recipe's identity.
type RawRecipe struct {
	Title       string   `json:"title,omitempty" yaml:"title"`
	Author      string   `json:"author,omitempty" yaml:"author"`
	Ingredients []string `json:"ingredients" yaml:"ingredients"`
	Directions  []string `json:"directions" yaml:"directions"`
	Source      string   `json:"source" yaml:"source"`
	Cuisines    []string `json:"cuisines" yaml:"cuisines"`
}

// ResolvedConcept is the ontology entry chosen for a canonical ingredient phrase.
type ResolvedConcept struct {
	Label       string  `json:"label"`
	ExternalID  string  `json:"external_id"`
	Description *string `json:"description,omitempty"`
}
