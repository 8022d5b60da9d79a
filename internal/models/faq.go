// Package models defines the domain types for Sowilo.
package models

import "time"

// FAQRecord is one entry of the knowledge base.
type FAQRecord struct {
	Question string   `json:"question" yaml:"question"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Answer   string   `json:"answer" yaml:"answer"`
}

// DocumentMetadata is a lightweight representation returned by storage list operations.
type DocumentMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
