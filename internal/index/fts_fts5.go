//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS faqs_fts USING fts5(
			position UNINDEXED,
			question,
			keywords,
			answer,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, r FAQRow) error {
	if _, err := tx.Exec(`DELETE FROM faqs_fts WHERE position = ?`, r.Position); err != nil {
		return fmt.Errorf("index: clear fts: %w", err)
	}
	_, err := tx.Exec(`INSERT INTO faqs_fts (position, question, keywords, answer) VALUES (?, ?, ?, ?)`,
		r.Position, r.Question, strings.Join(r.Keywords, " "), r.Answer)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, position int) error {
	if _, err := tx.Exec(`DELETE FROM faqs_fts WHERE position = ?`, position); err != nil {
		return fmt.Errorf("index: delete fts: %w", err)
	}
	return nil
}

// matchExpr turns free text into an FTS5 expression of quoted prefix terms so
// user input can never be parsed as query syntax.
func matchExpr(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + t + `"*`
	}
	return strings.Join(quoted, " OR ")
}

// Search ranks records by FTS5 relevance.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	terms := searchTerms(query)
	if len(terms) == 0 {
		return []SearchResult{}, nil
	}
	rows, err := db.conn.Query(`
		SELECT position,
		       question,
		       snippet(faqs_fts, 3, '<b>', '</b>', '...', 24)
		FROM faqs_fts
		WHERE faqs_fts MATCH ?
		ORDER BY rank, position
		LIMIT ?
	`, matchExpr(terms), clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	out := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Position, &r.Question, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
