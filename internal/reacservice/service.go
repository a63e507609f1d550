// Package reacservice coordinates the stoichiometry engine, the record
// extractor, case storage and the catalogue.
package reacservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/starford/fdsreac/internal/apperr"
	"github.com/starford/fdsreac/internal/fdsrec"
	"github.com/starford/fdsreac/internal/index"
	"github.com/starford/fdsreac/internal/metrics"
	"github.com/starford/fdsreac/internal/models"
	"github.com/starford/fdsreac/internal/stoich"
	"github.com/starford/fdsreac/internal/storage"
)

// Session identifies the case file a reaction block was imported from.
// It is passed explicitly to Save; the service keeps no per-user state.
type Session struct {
	Path     string `json:"path"`
	FuelID   string `json:"fuel_id"`
	Checksum string `json:"checksum"`
}

// ComputeResult is the output of a successful computation.
type ComputeResult struct {
	FuelID       string              `json:"fuel_id"`
	Inputs       stoich.Inputs       `json:"inputs"`
	Coefficients stoich.Coefficients `json:"coefficients"`
	Block        string              `json:"block"`
}

// ImportResult is what could be recovered from a case file.
type ImportResult struct {
	Session       Session            `json:"session"`
	Fields        map[string]float64 `json:"fields"`
	Missing       []string           `json:"missing"`
	Warnings      []fdsrec.Warning   `json:"warnings"`
	OriginalBlock string             `json:"original_block"`
	HasBlock      bool               `json:"has_block"`
}

// SaveResult describes a completed save.
type SaveResult struct {
	Path      string `json:"path"`
	FuelID    string `json:"fuel_id"`
	Checksum  string `json:"checksum"`
	Placement string `json:"placement"`
}

// Service coordinates storage and catalogue operations around the engine.
type Service struct {
	store       storage.Provider
	db          index.CaseIndex
	defaultFuel string
}

// NewService creates a new reaction service. db may be nil, in which case
// the catalogue is neither consulted nor refreshed.
func NewService(store storage.Provider, db index.CaseIndex, defaultFuel string) *Service {
	if defaultFuel == "" {
		defaultFuel = stoich.DefaultFuelID
	}
	return &Service{store: store, db: db, defaultFuel: defaultFuel}
}

// DefaultFuel returns the fuel id used when a request names none.
func (s *Service) DefaultFuel() string { return s.defaultFuel }

// Compute validates raw field values and renders the reaction block.
func (s *Service) Compute(_ context.Context, raw map[string]string, fuelID string) (*ComputeResult, error) {
	defer metrics.ObserveSince("compute", time.Now())

	in, err := stoich.ParseInputs(raw)
	if err != nil {
		metrics.ComputationsTotal.WithLabelValues(metrics.StatusInvalid).Inc()
		return nil, err
	}
	fuel := s.fuel(fuelID)
	coeffs := stoich.Compute(in, fuel)
	metrics.ComputationsTotal.WithLabelValues(metrics.StatusOK).Inc()
	return &ComputeResult{
		FuelID:       fuel,
		Inputs:       in,
		Coefficients: coeffs,
		Block:        stoich.Render(coeffs, fuel, in.HeatOfCombustion, in.MolarMass),
	}, nil
}

// Open reads a case file and starts a session on it without extracting inputs.
func (s *Service) Open(_ context.Context, p string) (Session, error) {
	data, err := s.read(p)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Path:     p,
		FuelID:   fdsrec.ExtractFuelID(string(data)),
		Checksum: storage.Checksum(data),
	}, nil
}

// Import recovers the engine inputs from a case file. A fatal parse error
// is returned alone, with no partial result.
func (s *Service) Import(_ context.Context, p string) (*ImportResult, error) {
	defer metrics.ObserveSince("import", time.Now())

	data, err := s.read(p)
	if err != nil {
		metrics.ImportsTotal.WithLabelValues(metrics.StatusError).Inc()
		return nil, err
	}
	doc := string(data)
	fuel := fdsrec.ExtractFuelID(doc)

	partial, warnings, err := fdsrec.ExtractInputs(doc, fuel)
	if err != nil {
		metrics.ImportsTotal.WithLabelValues(metrics.StatusFatal).Inc()
		return nil, err
	}
	for _, w := range warnings {
		metrics.ImportWarningsTotal.WithLabelValues(w.Code).Inc()
	}
	metrics.ImportsTotal.WithLabelValues(metrics.StatusOK).Inc()

	original, hasBlock := fdsrec.OriginalBlock(doc, fuel)
	return &ImportResult{
		Session:       Session{Path: p, FuelID: fuel, Checksum: storage.Checksum(data)},
		Fields:        partial.Fields(),
		Missing:       nonNilSlice(partial.Missing()),
		Warnings:      nonNilSlice(warnings),
		OriginalBlock: original,
		HasBlock:      hasBlock,
	}, nil
}

// Save splices block into the session's source file and writes the result
// to dest (the source when empty). The source is re-read at save time; a
// session checksum that no longer matches yields apperr.ErrConflict.
func (s *Service) Save(_ context.Context, sess Session, block, dest string) (*SaveResult, error) {
	defer metrics.ObserveSince("save", time.Now())

	if strings.TrimSpace(block) == "" {
		return nil, &apperr.ValidationError{Field: "block", Reason: "is empty"}
	}
	if sess.Path == "" {
		return nil, &apperr.ValidationError{Field: "path", Reason: "is required"}
	}
	data, err := s.read(sess.Path)
	if err != nil {
		return nil, err
	}
	if sess.Checksum != "" && sess.Checksum != storage.Checksum(data) {
		return nil, apperr.ErrConflict
	}

	fuel := s.fuel(sess.FuelID)
	res := fdsrec.Splice(string(data), block, fuel)

	target := DestPath(sess.Path, dest)
	out := []byte(res.Document)
	if err := s.store.Write(target, out); err != nil {
		metrics.SavesTotal.WithLabelValues(metrics.StatusError).Inc()
		return nil, err
	}
	metrics.SavesTotal.WithLabelValues(res.Placement.String()).Inc()

	if s.db != nil {
		if err := s.db.UpsertCase(index.Describe(target, out)); err != nil {
			return nil, fmt.Errorf("reacservice: catalogue %s: %w", target, err)
		}
	}
	return &SaveResult{
		Path:      target,
		FuelID:    fdsrec.ExtractFuelID(res.Document),
		Checksum:  storage.Checksum(out),
		Placement: res.Placement.String(),
	}, nil
}

// ListCases returns a page of catalogued cases, optionally filtered by fuel id.
func (s *Service) ListCases(_ context.Context, limit, offset int, fuelID string) ([]models.Case, int, error) {
	if s.db == nil {
		return []models.Case{}, 0, nil
	}
	rows, total, err := s.db.ListCases(limit, offset, fuelID)
	if err != nil {
		return nil, 0, err
	}
	return nonNilSlice(rows), total, nil
}

// Search delegates catalogue search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]models.Case, error) {
	if s.db == nil {
		return []models.Case{}, nil
	}
	rows, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(rows), nil
}

// DestPath resolves a save destination relative to the source file's
// directory. An empty dest means the source itself; a name without the
// .fds suffix gets one appended.
func DestPath(source, dest string) string {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return source
	}
	if !storage.IsCase(dest) {
		dest += storage.CaseExt
	}
	if strings.HasPrefix(dest, "/") {
		return strings.TrimPrefix(path.Clean(dest), "/")
	}
	return path.Join(path.Dir(source), dest)
}

func (s *Service) fuel(fuelID string) string {
	if f := strings.TrimSpace(fuelID); f != "" {
		return f
	}
	return s.defaultFuel
}

func (s *Service) read(p string) ([]byte, error) {
	data, err := s.store.Read(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
