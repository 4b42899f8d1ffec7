package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"peoplemover/internal/domain"
	"peoplemover/internal/seed"
	"peoplemover/internal/service"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(howtoPage)
}

func (s *Server) handleCreateInputDatabase(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.SeedSample(r.Context()); err != nil {
		s.internalError(w, r, err)
		return
	}
	writeText(w, "ok")
}

func (s *Server) handleShowInputDatabase(w http.ResponseWriter, r *http.Request) {
	people, err := s.svc.ListSource(r.Context())
	if err != nil {
		// No special handling here: a missing input store surfaces as a
		// bare 500, unlike the output listing below.
		s.internalError(w, r, err)
		return
	}
	if people == nil {
		people = []domain.Person{}
	}
	writeJSON(w, http.StatusOK, people)
}

func (s *Server) handleShowOutputDatabase(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.ListDestination(r.Context())
	if errors.Is(err, domain.ErrStoreUnavailable) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":        "error",
			"what_happened": "Could not access output database. Did you create it already?",
		})
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if views == nil {
		views = []service.OutputPersonView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleProcessEverything(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.RunPipeline(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeText(w, fmt.Sprintf("%d people processed of which %d were cool", result.Processed, result.Cool))
}

func (s *Server) handleCreateLotsOfPeople(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.SeedFiller(r.Context(), seed.FillerCount); err != nil {
		s.internalError(w, r, err)
		return
	}
	// Historical message; the actual count is one short of it.
	writeText(w, "100,000 people created in input database")
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.RunHistory())
}

// internalError surfaces unhandled failures as a generic 500 with no
// structured body.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
