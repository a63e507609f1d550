// Package storage defines the cases-directory file-system abstraction.
package storage

import "github.com/starford/fdsreac/internal/models"

// CaseExt is the file extension of FDS input files.
const CaseExt = ".fds"

// Provider is the interface for case file operations.
type Provider interface {
	// List returns metadata for every .fds file under dir (relative to the cases root).
	List(dir string) ([]models.CaseMetadata, error)
	// Read returns the raw bytes of the file at path (relative to the cases root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the cases root).
	Write(path string, content []byte) error
	// Root returns the absolute cases directory.
	Root() string
}
