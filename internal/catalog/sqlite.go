package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS catalog (
	artist TEXT NOT NULL,
	track TEXT,
	lyrics TEXT,
	esa_vector TEXT NOT NULL,
	snapshot TEXT
);
CREATE INDEX IF NOT EXISTS idx_catalog_artist ON catalog(artist);
`

// LoadSQLite reads the catalog table of a SQLite database in rowid order.
func LoadSQLite(ctx context.Context, path string, logger *log.Logger) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT artist, track, lyrics, esa_vector, snapshot FROM catalog ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query: %w", err)
	}
	defer rows.Close()

	b := newBuilder(logger)
	for row := 0; rows.Next(); row++ {
		var artist, track, lyrics, vector, snapshot sql.NullString
		if err := rows.Scan(&artist, &track, &lyrics, &vector, &snapshot); err != nil {
			b.skip(row, "unreadable row", err)
			continue
		}
		b.add(row, artist.String, track.String, lyrics.String, vector.String, snapshot.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate rows: %w", err)
	}
	return b.done(path), nil
}

// SaveSQLite writes c into the catalog table at path, creating it if needed.
// Existing rows are replaced.
func SaveSQLite(ctx context.Context, path string, c *Catalog) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("catalog: open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("catalog: create tables: %w", err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog`); err != nil {
		return fmt.Errorf("catalog: clear: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO catalog (artist, track, lyrics, esa_vector, snapshot) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("catalog: prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range c.Entries {
		vec, err := FormatVector(e.Vector)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, e.Artist, e.Track, e.Lyrics, vec, nullable(c.Snapshot)); err != nil {
			return fmt.Errorf("catalog: insert row %d: %w", e.Row, err)
		}
	}
	return tx.Commit()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
