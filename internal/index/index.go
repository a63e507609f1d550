package index

import "github.com/starford/fdsreac/internal/models"

// CaseIndex defines the catalogue operations used by the service layer.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type CaseIndex interface {
	UpsertCase(c models.Case) error
	DeleteCase(path string) error
	GetChecksum(path string) (string, error)
	GetCase(path string) (*models.Case, error)
	ListCases(limit, offset int, fuelID string) ([]models.Case, int, error)
	Search(query string, limit int) ([]models.Case, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies CaseIndex at compile time.
var _ CaseIndex = (*DB)(nil)
