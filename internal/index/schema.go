// Package index keeps a SQLite copy of the knowledge base for question
// suggestions, with optional FTS5 full-text search.
package index

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS faqs (
	position   INTEGER PRIMARY KEY,
	question   TEXT NOT NULL DEFAULT '',
	keywords   TEXT NOT NULL DEFAULT '[]',
	answer     TEXT NOT NULL DEFAULT '',
	checksum   TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the database at dsn and applies the schema. An
// empty dsn or MemoryDSN yields an in-memory database pinned to a single
// connection so every query sees the same data.
func Open(dsn string) (*DB, error) {
	memory := dsn == "" || dsn == MemoryDSN
	var source string
	if memory {
		source = MemoryDSN + "?_busy_timeout=5000"
	} else {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		source = dsn + sep + "_journal_mode=WAL&_busy_timeout=5000"
	}

	conn, err := sql.Open("sqlite3", source)
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if memory {
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxLifetime(0)
		conn.SetConnMaxIdleTime(0)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
