//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(_ *sql.DB) error {
	// LIKE search runs directly on the faqs table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _ FAQRow) error { return nil }

func ftsDelete(_ *sql.Tx, _ int) error { return nil }

// Search returns records containing any query word. Hits in the question or
// keywords weigh twice as much as hits in the answer; ties keep
// knowledge-base order.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	terms := searchTerms(query)
	if len(terms) == 0 {
		return []SearchResult{}, nil
	}

	var (
		weights []string
		conds   []string
		args    []any
	)
	for _, t := range terms {
		conds = append(conds, "(lower(question) LIKE ? OR lower(keywords) LIKE ? OR lower(answer) LIKE ?)")
		weights = append(weights, "(lower(question) LIKE ?) * 2 + (lower(keywords) LIKE ?) * 2 + (lower(answer) LIKE ?)")
		like := "%" + t + "%"
		args = append(args, like, like, like)
	}
	args = append(args, args...)
	args = append(args, clampLimit(limit))

	q := fmt.Sprintf(`
		SELECT position, question, substr(answer, 1, 200)
		FROM faqs
		WHERE %s
		ORDER BY (%s) DESC, position
		LIMIT ?
	`, strings.Join(conds, " OR "), strings.Join(weights, " + "))

	rows, err := db.conn.Query(q, args...)
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
