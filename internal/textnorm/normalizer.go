// Package textnorm turns raw English text into normalized token strings and
// splits it into sentences.
package textnorm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Lemmatizer maps a lowercase word to its dictionary base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// Normalizer lowercases, tokenizes, drops non-alphanumeric tokens and
// stopwords, and lemmatizes. It is safe for concurrent use.
type Normalizer struct {
	lemmatizer   Lemmatizer
	stopwords    map[string]struct{}
	tokenPattern *regexp.Regexp
}

// New creates a Normalizer backed by the embedded English lemma dictionary.
func New() (*Normalizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("textnorm: load lemmatizer: %w", err)
	}
	return NewWithLemmatizer(lem), nil
}

// NewWithLemmatizer creates a Normalizer with a custom lemmatizer. A nil
// lemmatizer keeps tokens as they are.
func NewWithLemmatizer(l Lemmatizer) *Normalizer {
	if l == nil {
		l = identityLemmatizer{}
	}
	return &Normalizer{
		lemmatizer:   l,
		stopwords:    defaultStopwords(),
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+(?:['’\-][\p{L}\p{N}]+)*`),
	}
}

// Normalize returns the normalized tokens of text joined by single spaces.
// Empty or whitespace-only input yields "".
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// Tokens returns the normalized tokens of text in order.
func (n *Normalizer) Tokens(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := cases.Lower(language.English).String(norm.NFC.String(text))
	raw := n.tokenPattern.FindAllString(lower, -1)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok, ok := alphanumeric(tok)
		if !ok {
			continue
		}
		if _, isStop := n.stopwords[tok]; isStop {
			continue
		}
		out = append(out, n.lemmatizer.Lemma(tok))
	}
	return out
}

// alphanumeric reduces a raw match to the token a Treebank tokenizer would
// keep after the isalnum filter. Hyphenated words stay whole there and are
// dropped; clitics split off at the apostrophe ("don't" -> "do" + "n't").
func alphanumeric(tok string) (string, bool) {
	if strings.Contains(tok, "-") {
		return "", false
	}
	i := strings.IndexAny(tok, "'’")
	if i < 0 {
		return tok, true
	}
	head, tail := tok[:i], tok[i:]
	tail = strings.TrimLeft(tail, "'’")
	if tail == "t" && len(head) > 1 && strings.HasSuffix(head, "n") {
		head = head[:len(head)-1]
	}
	return head, head != ""
}

type identityLemmatizer struct{}

func (identityLemmatizer) Lemma(word string) string { return word }
