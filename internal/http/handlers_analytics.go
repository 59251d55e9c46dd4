package http

import (
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"everydollar/internal/core"
)

type suggestionResponse struct {
	core.Suggestion
	User string `json:"user"`
}

type dashboardResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	Analytics    core.Summary       `json:"analytics"`
	Suggestion   core.Suggestion    `json:"suggestion"`
}

// asOf returns the as_of query date, or today.
func (s *Server) asOf(r *http.Request) (core.Date, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("as_of"))
	if raw == "" {
		return s.today(), nil
	}
	return core.ParseDate(raw)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request, user core.User) {
	asOf, err := s.asOf(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summary, err := s.analytics.MonthlySummary(r.Context(), user.ID, asOf)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request, user core.User) {
	var req SuggestionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	income, expenses, err := req.Parse()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestionResponse{
		Suggestion: s.analytics.SavingsSuggestion(income, expenses),
		User:       user.Username,
	})
}

// handleDashboard loads the ledger and the month summary concurrently and
// derives the suggestion from the summary.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, user core.User) {
	asOf, err := s.asOf(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		txs     []core.Transaction
		summary core.Summary
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		txs, err = s.ledger.List(ctx, user.ID, core.ListFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = s.analytics.MonthlySummary(ctx, user.ID, asOf)
		return err
	})
	if err := g.Wait(); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Transactions: txs,
		Analytics:    summary,
		Suggestion:   core.SuggestFromSummary(summary),
	})
}
