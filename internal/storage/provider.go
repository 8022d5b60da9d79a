// Package storage defines the file-system abstraction used for Markdown
// knowledge bases and exported artifacts.
package storage

import "github.com/starford/sowilo/internal/models"

// Provider is the interface for rooted file operations.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to root).
	List(dir string) ([]models.DocumentMetadata, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
}
