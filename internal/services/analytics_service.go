package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"everydollar/internal/cache"
	"everydollar/internal/core"
	applog "everydollar/internal/log"
)

type RangeReader interface {
	ListTransactionsInRange(ctx context.Context, userID int64, from, to core.Date) ([]core.Transaction, error)
}

// AnalyticsService computes monthly summaries and savings suggestions.
type AnalyticsService struct {
	store     RangeReader
	summaries cache.Cache[core.Summary]

	// generations counts invalidations per user. A summary computed across
	// an invalidation is returned but not cached.
	mu          sync.Mutex
	generations map[int64]uint64
}

// NewAnalyticsService builds the engine. summaries may be nil to disable
// caching.
func NewAnalyticsService(store RangeReader, summaries cache.Cache[core.Summary]) *AnalyticsService {
	return &AnalyticsService{
		store:       store,
		summaries:   summaries,
		generations: make(map[int64]uint64),
	}
}

func summaryKeyPrefix(userID int64) string {
	return fmt.Sprintf("user:%d:", userID)
}

func summaryKey(userID int64, month core.Date) string {
	return summaryKeyPrefix(userID) + month.Format("2006-01")
}

// MonthlySummary aggregates userID's transactions in asOf's calendar month.
func (s *AnalyticsService) MonthlySummary(ctx context.Context, userID int64, asOf core.Date) (core.Summary, error) {
	from, to := asOf.MonthWindow()
	key := summaryKey(userID, from)

	if s.summaries != nil {
		if cached, ok := s.summaries.Get(key); ok {
			return cached, nil
		}
	}
	gen := s.generation(userID)

	txs, err := s.store.ListTransactionsInRange(ctx, userID, from, to)
	if err != nil {
		return core.Summary{}, fmt.Errorf("load month transactions: %w", err)
	}
	summary := core.Summarize(txs, asOf)

	s.cacheSummary(userID, gen, key, summary)

	applog.FromContext(ctx).WithComponent(applog.ComponentAnalytics).DebugContext(ctx, "Monthly summary computed",
		applog.FieldUserID, userID,
		applog.FieldMonth, from.Format("2006-01"),
		applog.FieldOperation, applog.OpSummary,
		"transactions", len(txs))
	return summary, nil
}

// Invalidate drops every cached month of userID. Reads already in flight
// will not repopulate the cache.
func (s *AnalyticsService) Invalidate(userID int64) {
	if s.summaries == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[userID]++
	s.summaries.DeletePrefix(summaryKeyPrefix(userID))
}

func (s *AnalyticsService) generation(userID int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[userID]
}

// cacheSummary stores summary unless userID was invalidated since gen was
// read.
func (s *AnalyticsService) cacheSummary(userID int64, gen uint64, key string, summary core.Summary) {
	if s.summaries == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[userID] != gen {
		return
	}
	s.summaries.Set(key, summary)
}

// SavingsSuggestion rates caller-supplied income and expenses.
func (s *AnalyticsService) SavingsSuggestion(income, expenses decimal.Decimal) core.Suggestion {
	return core.SuggestSavings(income, expenses)
}
