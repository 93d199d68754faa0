package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	items, err := s.reports.ListReports(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]reportJSON, 0, len(items))
	for _, item := range items {
		out = append(out, toReportJSON(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMarkReportRead(w http.ResponseWriter, r *http.Request) {
	if err := s.reports.MarkReportRead(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := s.reports.DeleteReport(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
