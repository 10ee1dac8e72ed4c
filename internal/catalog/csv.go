package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// LoadCSV reads a catalog CSV file.
func LoadCSV(path string, logger *log.Logger) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, path, logger)
}

// ReadCSV reads catalog records from r. The header must contain artist and
// esa_vector; track, lyrics and snapshot are optional. Rows are numbered
// from 0 in data order.
func ReadCSV(r io.Reader, source string, logger *log.Logger) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return newBuilder(logger).done(source), nil
		}
		return nil, fmt.Errorf("catalog: read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"artist", "esa_vector"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("catalog: csv header missing %q column", required)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	b := newBuilder(logger)
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				b.skip(row, "malformed csv line", err)
				continue
			}
			return nil, fmt.Errorf("catalog: read csv: %w", err)
		}
		if len(rec) < len(header) {
			b.skip(row, fmt.Sprintf("%d fields, header has %d", len(rec), len(header)), nil)
			continue
		}
		b.add(row, field(rec, "artist"), field(rec, "track"), field(rec, "lyrics"), field(rec, "esa_vector"), field(rec, "snapshot"))
	}
	return b.done(source), nil
}
