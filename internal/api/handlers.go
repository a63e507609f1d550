package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fdsreac/internal/reacservice"
	"github.com/starford/fdsreac/internal/sse"
)

// Handler holds API route handlers.
type Handler struct {
	svc    *reacservice.Service
	broker *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil.
func NewHandler(svc *reacservice.Service, broker *sse.Broker) *Handler {
	return &Handler{svc: svc, broker: broker}
}

// casePath extracts the case path from the URL (everything after /api/cases/).
// Supports encoded slashes (e.g. runs%2Froom.fds).
func casePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Compute handles POST /api/reactions.
//
//	@Summary		Compute a reaction block from fire properties
//	@Tags			reactions
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ComputeRequest	true	"Inputs and fuel id"
//	@Success		200		{object}	ComputeResult
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/reactions [post]
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	res, err := h.svc.Compute(r.Context(), reacservice.RawInputs(req.Inputs), req.FuelID)
	if err != nil {
		writeError(w, "compute", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListCases handles GET /api/cases.
//
//	@Summary		List catalogued case files
//	@Tags			cases
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			fuel	query		string	false	"Filter by fuel id"
//	@Success		200		{object}	CaseListResponse
//	@Security		BearerAuth
//	@Router			/cases [get]
func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListCases(r.Context(), limit, offset, q.Get("fuel"))
	if err != nil {
		writeError(w, "list cases", err)
		return
	}
	writeJSON(w, http.StatusOK, CaseListResponse{Cases: items, Total: total})
}

// ImportCase handles GET /api/cases/*.
//
//	@Summary		Recover reaction inputs from a case file
//	@Tags			cases
//	@Produce		json
//	@Param			path	path		string	true	"Case path"
//	@Success		200		{object}	ImportResult
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cases/{path} [get]
func (h *Handler) ImportCase(w http.ResponseWriter, r *http.Request) {
	path := casePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	res, err := h.svc.Import(r.Context(), path)
	if err != nil {
		writeError(w, "import case", err, slog.String("path", path))
		return
	}
	w.Header().Set("ETag", `"`+res.Session.Checksum+`"`)
	writeJSON(w, http.StatusOK, res)
}

// SaveCase handles PUT /api/cases/*.
//
//	@Summary		Splice a reaction block into a case file
//	@Tags			cases
//	@Accept			json
//	@Produce		json
//	@Param			path		path		string		true	"Source case path"
//	@Param			If-Match	header		string		false	"Checksum returned by import"
//	@Param			body		body		SaveRequest	true	"Block or inputs to save"
//	@Success		200			{object}	SaveResult
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Failure		422			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cases/{path} [put]
func (h *Handler) SaveCase(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	path := casePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	sess, err := h.svc.Open(r.Context(), path)
	if err != nil {
		writeError(w, "save case", err, slog.String("path", path))
		return
	}
	// Strip surrounding quotes if present (standard ETag format).
	sess.Checksum = strings.Trim(r.Header.Get("If-Match"), `"`)

	block := req.Block
	if strings.TrimSpace(block) == "" && len(req.Inputs) > 0 {
		fuel := req.FuelID
		if fuel == "" {
			fuel = sess.FuelID
		}
		res, err := h.svc.Compute(r.Context(), reacservice.RawInputs(req.Inputs), fuel)
		if err != nil {
			writeError(w, "save case", err)
			return
		}
		block = res.Block
	}

	res, err := h.svc.Save(r.Context(), sess, block, req.Dest)
	if err != nil {
		writeError(w, "save case", err, slog.String("path", path))
		return
	}
	if h.broker != nil {
		h.broker.PublishSaved(sse.SavedData{
			Path:      res.Path,
			FuelID:    res.FuelID,
			Placement: res.Placement,
			Checksum:  res.Checksum,
		})
	}
	w.Header().Set("ETag", `"`+res.Checksum+`"`)
	writeJSON(w, http.StatusOK, res)
}

// Search handles GET /api/search.
//
//	@Summary		Search cases by path or fuel id
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err, slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
