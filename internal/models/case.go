// Package models defines the domain types shared across fdsreac packages.
package models

import "time"

// CaseMetadata is a lightweight description of an FDS input file in the cases directory.
type CaseMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Case is the catalogue entry derived from a case file's reaction records.
type Case struct {
	Path             string    `json:"path"`
	FuelID           string    `json:"fuel_id"`
	Checksum         string    `json:"checksum"`
	MolarMass        *float64  `json:"molar_mass,omitempty"`
	HeatOfCombustion *float64  `json:"heat_of_combustion,omitempty"`
	HasBlock         bool      `json:"has_block"`
	Recovered        int       `json:"recovered"`
	Warnings         int       `json:"warnings"`
	ParseError       string    `json:"parse_error,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}
