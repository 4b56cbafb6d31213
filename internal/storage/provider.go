// Package storage defines the site file-system abstraction.
package storage

import "github.com/starford/sitefrag/internal/models"

// Provider is the interface for site file operations.
type Provider interface {
	// List returns metadata for every .html file directly inside dir
	// (relative to the site root). Subdirectories are not descended.
	List(dir string) ([]models.PageMetadata, error)
	// Read returns the raw bytes of the file at path (relative to the site root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the site root).
	Write(path string, content []byte) error
	// Root returns the absolute site root.
	Root() string
}
