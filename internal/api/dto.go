package api

import (
	"github.com/starford/fdsreac/internal/models"
	"github.com/starford/fdsreac/internal/reacservice"
)

// ComputeRequest is the request body for computing a reaction block.
// Input values may be numbers or strings (a decimal comma is accepted).
type ComputeRequest struct {
	FuelID string         `json:"fuel_id,omitempty" example:"PMMA"`
	Inputs map[string]any `json:"inputs" validate:"required"`
}

// SaveRequest is the request body for saving into a case file. When Block is
// empty it is computed from Inputs, using FuelID or the file's current fuel.
type SaveRequest struct {
	Block  string         `json:"block,omitempty"`
	Inputs map[string]any `json:"inputs,omitempty"`
	FuelID string         `json:"fuel_id,omitempty" example:"PMMA"`
	Dest   string         `json:"dest,omitempty" example:"room_v2.fds"`
}

// ComputeResult is the computation response type (aliased from the domain layer).
type ComputeResult = reacservice.ComputeResult

// ImportResult is the import response type (aliased from the domain layer).
type ImportResult = reacservice.ImportResult

// SaveResult is the save response type (aliased from the domain layer).
type SaveResult = reacservice.SaveResult

// CaseListResponse wraps paginated case listings.
type CaseListResponse struct {
	Cases []models.Case `json:"cases" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []models.Case `json:"results" validate:"required"`
}
