package index

// FAQIndex is the read/write surface of the suggestion index. Consumers depend
// on it rather than *DB.
type FAQIndex interface {
	UpsertFAQ(r FAQRow) error
	DeleteFAQ(position int) error
	AllChecksums() (map[int]string, error)
	Count() (int, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

var _ FAQIndex = (*DB)(nil)
