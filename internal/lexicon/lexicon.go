// Package lexicon loads the word lists that drive ingredient normalization
// and meat classification.
package lexicon

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/yungbote/recipegraph-backend/internal/pkg/textfold"
)

const (
	AmountsFile   = "amounts.txt"
	ProcessesFile = "processes.txt"
	MeatsFile     = "meats.txt"
)

//go:embed corpus/*.txt
var corpus embed.FS

// Lexicon is immutable after construction; accessors hand out copies.
type Lexicon struct {
	amounts   []string
	processes []string
	meats     []string
}

// New cleans amounts and processes the same way ingredient text is cleaned.
// Meat terms are matched as substrings of resolved labels, so they are only
// trimmed. Blank entries are dropped and order is preserved.
func New(amounts, processes, meats []string) *Lexicon {
	return &Lexicon{
		amounts:   clean(amounts),
		processes: clean(processes),
		meats:     trimmed(meats),
	}
}

// Default returns the lists compiled into the binary.
func Default() (*Lexicon, error) {
	sub, err := fs.Sub(corpus, "corpus")
	if err != nil {
		return nil, fmt.Errorf("lexicon: embedded corpus: %w", err)
	}
	return LoadFS(sub)
}

// Load reads the three list files from dir.
func Load(dir string) (*Lexicon, error) {
	if strings.TrimSpace(dir) == "" {
		return Default()
	}
	return LoadFS(os.DirFS(dir))
}

func LoadFS(fsys fs.FS) (*Lexicon, error) {
	lists := make([][]string, 0, 3)
	for _, name := range []string{AmountsFile, ProcessesFile, MeatsFile} {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("lexicon: open %s: %w", name, err)
		}
		lines, err := ReadLines(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("lexicon: read %s: %w", name, err)
		}
		lists = append(lists, lines)
	}
	return New(lists[0], lists[1], lists[2]), nil
}

// ReadLines returns the non-blank lines of r with surrounding space trimmed.
// Lines starting with '#' are comments.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Lexicon) Amounts() []string   { return append([]string(nil), l.amounts...) }
func (l *Lexicon) Processes() []string { return append([]string(nil), l.processes...) }
func (l *Lexicon) Meats() []string     { return append([]string(nil), l.meats...) }

// StripPhrases is amounts followed by processes, the order the normalizer
// removes them in.
func (l *Lexicon) StripPhrases() []string {
	out := make([]string, 0, len(l.amounts)+len(l.processes))
	out = append(out, l.amounts...)
	return append(out, l.processes...)
}

func trimmed(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		if t := strings.TrimSpace(raw); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		words := textfold.Words(raw)
		if len(words) == 0 {
			continue
		}
		out = append(out, strings.Join(words, " "))
	}
	return out
}
