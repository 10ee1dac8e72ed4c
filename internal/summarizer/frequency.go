// Package summarizer picks the most representative sentences of a scene.
package summarizer

import (
	"math"
	"sort"
	"strings"
)

// Splitter splits text into sentences.
type Splitter interface {
	Split(text string) []string
}

// Tokenizer yields normalized content tokens (stopwords already removed).
type Tokenizer interface {
	Tokens(text string) []string
}

// FrequencySummarizer ranks sentences by the normalized frequency of their
// content words across the whole text.
type FrequencySummarizer struct {
	splitter  Splitter
	tokenizer Tokenizer
}

// NewFrequencySummarizer creates a frequency-based sentence ranker summarizer.
func NewFrequencySummarizer(splitter Splitter, tokenizer Tokenizer) *FrequencySummarizer {
	return &FrequencySummarizer{splitter: splitter, tokenizer: tokenizer}
}

// Summarize returns up to maxSentences sentences in their original order.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 1
	}
	sentences := s.splitter.Split(text)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}
	tokens := make([][]string, len(sentences))
	freq := map[string]float64{}
	for i, sent := range sentences {
		tokens[i] = s.tokenizer.Tokens(sent)
		for _, tok := range tokens[i] {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = math.Max(maxF, v)
	}

	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i := range sentences {
		sscore := 0.0
		for _, tok := range tokens[i] {
			sscore += freq[tok] / maxF
		}
		// Normalize by sentence length to avoid bias
		if l := float64(len(tokens[i])); l > 0 {
			sscore /= math.Sqrt(l)
		}
		scores[i] = pair{i, sscore}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	// Keep original order among selected
	selected := make([]int, maxSentences)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, len(selected))
	for i, idx := range selected {
		out[i] = sentences[idx]
	}
	return strings.Join(out, " "), nil
}
