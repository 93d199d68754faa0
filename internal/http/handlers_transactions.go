package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"financas/internal/core"
)

// handleListTransactions applies the query filter, sorts newest first and
// paginates. Total counts the filtered set, not the page.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	filtered := core.FilterTransactions(txs, parseListFilter(r))
	core.SortByDateDesc(filtered)

	page, pageSize := parsePagination(r, s.defaultPageSize)
	items := core.Paginate(filtered, page, pageSize)

	out := transactionPageJSON{
		Items:    make([]transactionJSON, 0, len(items)),
		Page:     page,
		PageSize: pageSize,
		Total:    len(filtered),
	}
	for _, t := range items {
		out.Items = append(out.Items, toTransactionJSON(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	t, err := req.toDomain("")
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.transactions.Create(r.Context(), t)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboards()
	writeJSON(w, http.StatusCreated, toTransactionJSON(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	t, err := req.toDomain(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.transactions.Update(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboards()
	writeJSON(w, http.StatusOK, toTransactionJSON(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.transactions.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboards()
	w.WriteHeader(http.StatusNoContent)
}
