// Package faq implements the keyword-overlap FAQ matcher and its immutable
// knowledge base.
package faq

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/parser"
	"github.com/starford/sowilo/internal/storage"
)

// KnowledgeBase is an ordered, immutable list of FAQ records.
// Order matters: the first-listed record wins score ties.
type KnowledgeBase struct {
	records []models.FAQRecord
}

// NewKnowledgeBase normalizes, validates and copies records into a
// KnowledgeBase. Question and answer are trimmed; keywords are lower-cased,
// trimmed, and dropped when blank.
func NewKnowledgeBase(records []models.FAQRecord) (*KnowledgeBase, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("faq: knowledge base is empty: %w", apperr.ErrInvalidArgument)
	}
	out := make([]models.FAQRecord, len(records))
	for i, r := range records {
		rec := normalizeRecord(r)
		if err := validateRecord(rec); err != nil {
			return nil, fmt.Errorf("faq: record %d (%q): %v: %w", i, r.Question, err, apperr.ErrInvalidArgument)
		}
		out[i] = rec
	}
	return &KnowledgeBase{records: out}, nil
}

func normalizeRecord(r models.FAQRecord) models.FAQRecord {
	kw := make([]string, 0, len(r.Keywords))
	for _, k := range r.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kw = append(kw, k)
		}
	}
	return models.FAQRecord{
		Question: strings.TrimSpace(r.Question),
		Keywords: kw,
		Answer:   strings.TrimSpace(r.Answer),
	}
}

// validateRecord expects a normalized record.
func validateRecord(r models.FAQRecord) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Question, validation.Required),
		validation.Field(&r.Answer, validation.Required),
		validation.Field(&r.Keywords, validation.Required),
	)
}

// Len returns the number of records.
func (kb *KnowledgeBase) Len() int {
	return len(kb.records)
}

// Records returns a copy of all records in knowledge-base order.
func (kb *KnowledgeBase) Records() []models.FAQRecord {
	out := make([]models.FAQRecord, len(kb.records))
	for i, r := range kb.records {
		out[i] = models.FAQRecord{
			Question: r.Question,
			Keywords: append([]string(nil), r.Keywords...),
			Answer:   r.Answer,
		}
	}
	return out
}

// Load resolves a knowledge-base source: an empty path yields the built-in
// FAQ, a directory is read as Markdown entries, anything else as a JSON or
// YAML document.
func Load(path string) (*KnowledgeBase, error) {
	if path == "" {
		return Default(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("faq: stat knowledge base: %w", err)
	}
	if info.IsDir() {
		store, err := storage.NewFS(path)
		if err != nil {
			return nil, err
		}
		return LoadDir(store)
	}
	return LoadFile(path)
}

// LoadFile reads an array of {question, keywords, answer} objects from a
// .json, .yaml, or .yml file.
func LoadFile(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("faq: read %s: %w", path, err)
	}

	var records []models.FAQRecord
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &records)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		return nil, fmt.Errorf("faq: unsupported knowledge base format %q: %w", ext, apperr.ErrInvalidArgument)
	}
	if err != nil {
		return nil, fmt.Errorf("faq: parse %s: %v: %w", path, err, apperr.ErrInvalidArgument)
	}
	return NewKnowledgeBase(records)
}

// LoadDir reads one FAQ record per Markdown file, in path order.
func LoadDir(store storage.Provider) (*KnowledgeBase, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, err
	}
	records := make([]models.FAQRecord, 0, len(metas))
	for _, m := range metas {
		data, err := store.Read(m.Path)
		if err != nil {
			return nil, err
		}
		res, err := parser.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("faq: parse %s: %w", m.Path, err)
		}
		records = append(records, models.FAQRecord{
			Question: res.Question,
			Keywords: res.Keywords,
			Answer:   res.Answer,
		})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("faq: no Markdown entries found: %w", apperr.ErrInvalidArgument)
	}
	return NewKnowledgeBase(records)
}
