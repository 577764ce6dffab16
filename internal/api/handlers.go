package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	cycle := s.holder.Latest()
	if cycle == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error: "no cycle completed yet",
		})
		return
	}
	if cycle.Assessment == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:   cycle.AssessmentErr,
			Sources: cycle.SourceErrors(),
		})
		return
	}
	writeJSON(w, http.StatusOK, newAssessmentResponse(cycle))
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	cycle := s.holder.Latest()
	if cycle == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error: "no cycle completed yet",
		})
		return
	}
	writeJSON(w, http.StatusOK, cycle)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	cycle := s.holder.Latest()
	if cycle == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error: "no cycle completed yet",
		})
		return
	}
	if !cycle.Trend.OK() || cycle.Trend.Observation == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:   "trend series unavailable",
			Sources: cycle.SourceErrors(),
		})
		return
	}
	writeJSON(w, http.StatusOK, newTrendResponse(cycle.Trend.Source, cycle.Trend.Observation))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// Headers are already sent, nothing left to do for the client on error.
	_ = json.NewEncoder(w).Encode(v)
}
