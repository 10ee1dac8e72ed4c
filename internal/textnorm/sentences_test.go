package textnorm

import (
	"reflect"
	"testing"
)

func TestCollapseWhitespace(t *testing.T) {
	got := CollapseWhitespace("  Chris  sells\n\tscanners.\r\n ")
	if got != "Chris sells scanners." {
		t.Fatalf("CollapseWhitespace = %q", got)
	}
}

func TestSentenceSplitter(t *testing.T) {
	s, err := NewSentenceSplitter()
	if err != nil {
		t.Fatalf("NewSentenceSplitter: %v", err)
	}
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace", " \n ", nil},
		{"single without terminator", "Chris waits", []string{"Chris waits"}},
		{
			"multiple across lines",
			"Chris sells scanners.\nLinda leaves him.   He keeps going!",
			[]string{"Chris sells scanners.", "Linda leaves him.", "He keeps going!"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Split(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Split(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}
