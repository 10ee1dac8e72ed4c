package conceptspace

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Topic is one reference document of the concept space.
type Topic struct {
	Name string
	Text string
}

// Corpus is an ordered, immutable set of reference topics identified by a
// snapshot tag. Its length is the dimension of every vector derived from it.
type Corpus struct {
	topics   []Topic
	snapshot string
}

// NewCorpus builds a corpus from topics in coordinate order. An empty
// snapshot is replaced by a content hash. Duplicate topic names are rejected.
func NewCorpus(topics []Topic, snapshot string) (*Corpus, error) {
	seen := make(map[string]struct{}, len(topics))
	cp := make([]Topic, len(topics))
	for i, t := range topics {
		if _, ok := seen[t.Name]; ok {
			return nil, fmt.Errorf("conceptspace: duplicate topic %q", t.Name)
		}
		seen[t.Name] = struct{}{}
		cp[i] = t
	}
	if snapshot == "" {
		snapshot = SnapshotID(cp)
	}
	return &Corpus{topics: cp, snapshot: snapshot}, nil
}

// LoadCorpus reads a JSON object {topic: text} from path. Key order in the
// file defines vector coordinates.
func LoadCorpus(path, snapshot string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("conceptspace: open corpus: %w", err)
	}
	defer f.Close()
	return ReadCorpus(f, snapshot)
}

// ReadCorpus decodes a corpus snapshot. Empty input is an empty corpus.
func ReadCorpus(r io.Reader, snapshot string) (*Corpus, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("conceptspace: read corpus: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return NewCorpus(nil, snapshot)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("conceptspace: decode corpus: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("conceptspace: corpus must be a JSON object")
	}
	var topics []Topic
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("conceptspace: decode corpus: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("conceptspace: unexpected token %v", tok)
		}
		var text string
		if err := dec.Decode(&text); err != nil {
			return nil, fmt.Errorf("conceptspace: topic %q: %w", name, err)
		}
		topics = append(topics, Topic{Name: name, Text: text})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("conceptspace: decode corpus: %w", err)
	}
	return NewCorpus(topics, snapshot)
}

// SnapshotID derives a stable identifier from topic order, names and texts.
func SnapshotID(topics []Topic) string {
	h := sha256.New()
	for _, t := range topics {
		fmt.Fprintf(h, "%d:%s\x00%d:%s\x00", len(t.Name), t.Name, len(t.Text), t.Text)
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil))[:12]
}

// Len returns the number of topics.
func (c *Corpus) Len() int { return len(c.topics) }

// Snapshot returns the snapshot tag.
func (c *Corpus) Snapshot() string { return c.snapshot }

// Topics returns a copy of the topics in coordinate order.
func (c *Corpus) Topics() []Topic {
	out := make([]Topic, len(c.topics))
	copy(out, c.topics)
	return out
}

// Names returns topic names in coordinate order.
func (c *Corpus) Names() []string {
	out := make([]string, len(c.topics))
	for i, t := range c.topics {
		out[i] = t.Name
	}
	return out
}
