// internal/repository/memory/report_store.go
package memory

import (
	"context"
	"sync"
	"time"

	"incluso-service/internal/domain/report"
)

// ReportStore is a thread-safe in-memory report.Store used in tests and
// local development.
type ReportStore struct {
	mu     sync.RWMutex
	byID   map[int64]*report.Report
	nextID int64
}

func NewReportStore() *ReportStore {
	return &ReportStore{byID: make(map[int64]*report.Report)}
}

func (s *ReportStore) Create(_ context.Context, r *report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	r.ID = s.nextID
	r.CreatedAt = time.Now()

	cp := *r
	s.byID[r.ID] = &cp
	return nil
}

func (s *ReportStore) ListByStudent(_ context.Context, accountID, studentID int64) ([]report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []report.Report{}
	for _, r := range s.byID {
		if r.AccountID == accountID && r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	return out, nil
}
