package memory

import (
	"context"
	"sync"

	"everydollar/internal/core"
	ports "everydollar/internal/sheets"
)

// Store is an in-process LedgerMirror. Rows keep their position when
// cleared, like a spreadsheet.
type Store struct {
	mu   sync.Mutex
	rows [][]any
	ids  []int64
}

var _ ports.LedgerMirror = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) AppendTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(t.ID) >= 0 {
		return nil
	}
	s.rows = append(s.rows, ports.Row(t))
	s.ids = append(s.ids, t.ID)
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.rows[i] = nil
		s.ids[i] = 0
	}
	return nil
}

func (s *Store) indexOf(id int64) int {
	for i, v := range s.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// Rows returns a copy of the non-cleared rows in sheet order.
func (s *Store) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([][]any, 0, len(s.rows))
	for _, r := range s.rows {
		if r != nil {
			out = append(out, append([]any(nil), r...))
		}
	}
	return out
}
