package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"everydollar/internal/core"
)

type createdResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// listFilter reads the optional type and q query parameters.
func listFilter(r *http.Request) (core.ListFilter, error) {
	q := r.URL.Query()
	f := core.ListFilter{Query: strings.TrimSpace(q.Get("q"))}
	if t := strings.TrimSpace(q.Get("type")); t != "" {
		kind, err := core.ParseKind(t)
		if err != nil {
			return core.ListFilter{}, err
		}
		f.Kind = kind
	}
	return f, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, user core.User) {
	f, err := listFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	txs, err := s.ledger.List(r.Context(), user.ID, f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request, user core.User) {
	var req TransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := req.ToNewTransaction()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.ledger.Add(r.Context(), user.ID, t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Message: "Transaction added successfully", ID: id})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, r, fmt.Errorf("%w: transaction id must be a positive integer", core.ErrInvalidInput))
		return
	}

	if err := s.ledger.Delete(r.Context(), user.ID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Transaction deleted successfully"})
}
