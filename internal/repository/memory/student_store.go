// internal/repository/memory/student_store.go
package memory

import (
	"context"
	"sync"
	"time"

	"incluso-service/internal/domain/student"
	xerrors "incluso-service/internal/pkg/errors"
)

// StudentStore is a thread-safe in-memory student.Store used in tests and
// local development.
type StudentStore struct {
	mu     sync.RWMutex
	byID   map[int64]*student.Student
	nextID int64
}

func NewStudentStore() *StudentStore {
	return &StudentStore{byID: make(map[int64]*student.Student)}
}

func (s *StudentStore) Create(_ context.Context, st *student.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := time.Now()
	st.ID = s.nextID
	st.CreatedAt = now
	st.UpdatedAt = now

	cp := *st
	s.byID[st.ID] = &cp
	return nil
}

func (s *StudentStore) ListByAccount(_ context.Context, accountID int64) ([]student.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []student.Student{}
	for _, st := range s.byID {
		if st.AccountID == accountID {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (s *StudentStore) FindByID(_ context.Context, accountID, studentID int64) (*student.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.byID[studentID]
	if !ok || st.AccountID != accountID {
		return nil, xerrors.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (s *StudentStore) Delete(_ context.Context, accountID, studentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.byID[studentID]
	if !ok || st.AccountID != accountID {
		return xerrors.ErrNotFound
	}
	delete(s.byID, studentID)
	return nil
}
