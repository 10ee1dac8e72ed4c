package textnorm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CollapseWhitespace replaces every whitespace run (newlines included) with
// a single space and trims the result.
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// SentenceSplitter splits English text into sentences with the Punkt model.
type SentenceSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSentenceSplitter loads the English Punkt parameters.
func NewSentenceSplitter() (*SentenceSplitter, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("textnorm: load sentence model: %w", err)
	}
	return &SentenceSplitter{tokenizer: tok}, nil
}

// Split returns the trimmed, non-empty sentences of text in order.
func (s *SentenceSplitter) Split(text string) []string {
	text = CollapseWhitespace(text)
	if text == "" {
		return nil
	}
	var out []string
	for _, sent := range s.tokenizer.Tokenize(text) {
		t := strings.TrimSpace(sent.Text)
		if t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		out = []string{text}
	}
	return out
}
