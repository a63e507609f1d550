package index

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/fdsreac/internal/apperr"
	"github.com/starford/fdsreac/internal/models"
)

const caseColumns = `path, fuel_id, checksum, molar_mass, heat_of_combustion,
	has_block, recovered, warnings, parse_error, updated_at`

// likeEscaper makes LIKE wildcards in a search query match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// UpsertCase inserts or replaces a catalogue entry.
func (db *DB) UpsertCase(c models.Case) error {
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now()
	}
	_, err := db.conn.Exec(`
		INSERT INTO cases (`+caseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			fuel_id            = excluded.fuel_id,
			checksum           = excluded.checksum,
			molar_mass         = excluded.molar_mass,
			heat_of_combustion = excluded.heat_of_combustion,
			has_block          = excluded.has_block,
			recovered          = excluded.recovered,
			warnings           = excluded.warnings,
			parse_error        = excluded.parse_error,
			updated_at         = excluded.updated_at
	`, c.Path, c.FuelID, c.Checksum, c.MolarMass, c.HeatOfCombustion,
		c.HasBlock, c.Recovered, c.Warnings, c.ParseError, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert case: %w", err)
	}
	return nil
}

// DeleteCase removes a catalogue entry.
func (db *DB) DeleteCase(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM cases WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete case: %w", err)
	}
	return nil
}

// GetChecksum returns the stored checksum for a case, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM cases WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// GetCase returns one catalogue entry.
func (db *DB) GetCase(path string) (*models.Case, error) {
	row := db.conn.QueryRow(`SELECT `+caseColumns+` FROM cases WHERE path = ?`, path)
	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get case: %w", err)
	}
	return c, nil
}

// ListCases returns a page of catalogue entries, optionally filtered by fuel id,
// along with the total number of matching entries.
func (db *DB) ListCases(limit, offset int, fuelID string) ([]models.Case, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	where, args := "", []any{}
	if fuelID != "" {
		where = ` WHERE fuel_id = ?`
		args = append(args, fuelID)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM cases`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count cases: %w", err)
	}

	rows, err := db.conn.Query(`SELECT `+caseColumns+` FROM cases`+where+
		` ORDER BY path LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list cases: %w", err)
	}
	defer rows.Close()
	out, err := scanCases(rows)
	return out, total, err
}

// Search matches the query against case paths and fuel ids.
func (db *DB) Search(query string, limit int) ([]models.Case, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + likeEscaper.Replace(query) + "%"
	rows, err := db.conn.Query(`SELECT `+caseColumns+` FROM cases
		WHERE path LIKE ? ESCAPE '\' OR fuel_id LIKE ? ESCAPE '\'
		ORDER BY path LIMIT ?`, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()
	return scanCases(rows)
}

// AllChecksums returns path → checksum for every catalogued case.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM cases`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCase(s scanner) (*models.Case, error) {
	var (
		c    models.Case
		mw   sql.NullFloat64
		heat sql.NullFloat64
	)
	if err := s.Scan(&c.Path, &c.FuelID, &c.Checksum, &mw, &heat,
		&c.HasBlock, &c.Recovered, &c.Warnings, &c.ParseError, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if mw.Valid {
		c.MolarMass = &mw.Float64
	}
	if heat.Valid {
		c.HeatOfCombustion = &heat.Float64
	}
	return &c, nil
}

func scanCases(rows *sql.Rows) ([]models.Case, error) {
	var out []models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
