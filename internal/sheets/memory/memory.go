package memory

import (
	"context"
	"sort"
	"sync"

	"finances/internal/core"
	"finances/internal/sheets"
)

var _ sheets.MonthlyRecordMirror = (*Store)(nil)

// Store is an in-process mirror used when no spreadsheet is configured and
// in tests.
type Store struct {
	mu      sync.Mutex
	records map[int64]core.MonthlyRecord
	deletes int
}

func New() *Store {
	return &Store{records: make(map[int64]core.MonthlyRecord)}
}

func (s *Store) UpsertMonthlyRecord(_ context.Context, r core.MonthlyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = r
	return nil
}

// DeleteMonthlyRecord is a no-op for ids that were never mirrored.
func (s *Store) DeleteMonthlyRecord(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; ok {
		delete(s.records, id)
		s.deletes++
	}
	return nil
}

func (s *Store) Get(id int64) (core.MonthlyRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	return r, ok
}

// Records returns the mirrored rows ordered by id.
func (s *Store) Records() []core.MonthlyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.MonthlyRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Deletes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletes
}
