package index

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// FAQRow is one indexed knowledge-base record. Position is its zero-based
// place in the knowledge base.
type FAQRow struct {
	Position  int       `json:"position"`
	Question  string    `json:"question"`
	Keywords  []string  `json:"keywords"`
	Answer    string    `json:"answer"`
	Checksum  string    `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// SearchResult is one suggested question.
type SearchResult struct {
	Position int    `json:"position"`
	Question string `json:"question"`
	Snippet  string `json:"snippet"`
}

// UpsertFAQ inserts or replaces a record and its full-text entry.
func (db *DB) UpsertFAQ(r FAQRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if r.Keywords == nil {
		r.Keywords = []string{}
	}
	kw, err := json.Marshal(r.Keywords)
	if err != nil {
		return fmt.Errorf("index: encode keywords: %w", err)
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now().UTC()
	}

	_, err = tx.Exec(`
		INSERT INTO faqs (position, question, keywords, answer, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(position) DO UPDATE SET
			question   = excluded.question,
			keywords   = excluded.keywords,
			answer     = excluded.answer,
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, r.Position, r.Question, string(kw), r.Answer, r.Checksum, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert faq %d: %w", r.Position, err)
	}
	if err := ftsUpsert(tx, r); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteFAQ removes the record at position.
func (db *DB) DeleteFAQ(position int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := ftsDelete(tx, position); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM faqs WHERE position = ?`, position); err != nil {
		return fmt.Errorf("index: delete faq %d: %w", position, err)
	}
	return tx.Commit()
}

// AllChecksums maps every indexed position to its checksum.
func (db *DB) AllChecksums() (map[int]string, error) {
	rows, err := db.conn.Query(`SELECT position, checksum FROM faqs`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[int]string)
	for rows.Next() {
		var (
			pos int
			cs  string
		)
		if err := rows.Scan(&pos, &cs); err != nil {
			return nil, err
		}
		out[pos] = cs
	}
	return out, rows.Err()
}

// Count returns the number of indexed records.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM faqs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// searchTerms splits a free-text query into lower-case alphanumeric words.
func searchTerms(q string) []string {
	return strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
