package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/pipeline"
	"github.com/dpup/routeintel/server/internal/lib/tables"
)

// EnrichPath is the root of the enrichment HTTP API.
const EnrichPath = "/api/v1/enrich"

// maxRequestBytes bounds an enrichment request body.
const maxRequestBytes = 8 << 20

// Handler returns the HTTP API:
//
//	POST /api/v1/enrich                  enrich a route, returns the bundle
//	GET  /api/v1/enrich/{id}             stored bundle
//	GET  /api/v1/enrich/{id}/tables.xlsx printable tables as a workbook
//	GET  /api/v1/enrich/{id}/route.kml   route and annotations as KML
//	DELETE /api/v1/enrich/{id}           drop a stored bundle
func (s *EnrichmentService) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+EnrichPath, s.handleEnrich)
	mux.HandleFunc("GET "+EnrichPath+"/{id}", s.handleReport)
	mux.HandleFunc("GET "+EnrichPath+"/{id}/tables.xlsx", s.handleTables)
	mux.HandleFunc("GET "+EnrichPath+"/{id}/route.kml", s.handleKML)
	mux.HandleFunc("DELETE "+EnrichPath+"/{id}", s.handleDelete)
	return mux
}

func (s *EnrichmentService) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req EnrichRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	b, err := s.Enrich(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *EnrichmentService) handleReport(w http.ResponseWriter, r *http.Request) {
	if b, ok := s.loadReport(w, r); ok {
		writeJSON(w, http.StatusOK, b)
	}
}

func (s *EnrichmentService) handleTables(w http.ResponseWriter, r *http.Request) {
	b, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := tables.WriteXLSX(&buf, b.Tables); err != nil {
		log.Printf("Failed to render tables for %s: %v", b.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to render tables")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+b.ID+`.xlsx"`)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Failed to write tables for %s: %v", b.ID, err)
	}
}

func (s *EnrichmentService) handleKML(w http.ResponseWriter, r *http.Request) {
	b, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := b.WriteKML(&buf); err != nil {
		log.Printf("Failed to render KML for %s: %v", b.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to render KML")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="`+b.ID+`.kml"`)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Failed to write KML for %s: %v", b.ID, err)
	}
}

func (s *EnrichmentService) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if err := s.DeleteReport(r.Context(), id); err != nil {
		log.Printf("Failed to delete report %s: %v", id, err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *EnrichmentService) loadReport(w http.ResponseWriter, r *http.Request) (*pipeline.Bundle, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing report id")
		return nil, false
	}
	b, err := s.Report(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return nil, false
	}
	return b, true
}

// statusFor maps service and provider errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrReportNotFound):
		return http.StatusNotFound
	case errors.Is(err, enrich.ErrEmptyRoute), errors.Is(err, enrich.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoDirections):
		return http.StatusNotImplemented
	case errors.Is(err, enrich.ErrProviderEmpty):
		return http.StatusUnprocessableEntity
	case errors.Is(err, enrich.ErrProviderUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
