// internal/service/student/student_service.go
package student

import (
	"context"
	"fmt"

	"incluso-service/internal/domain/student"
	"incluso-service/internal/domain/subscription"
	"incluso-service/internal/entitlement"
	"incluso-service/internal/pkg/entcache"
	xerrors "incluso-service/internal/pkg/errors"
	"incluso-service/internal/plan"

	"go.uber.org/zap"
)

// StudentService manages learner records under the account's plan limit:
// adding a student is gated on the quota and metered against it.
type StudentService struct {
	students student.Store
	subs     subscription.Store
	cache    *entcache.Cache
	logger   *zap.Logger
}

func NewStudentService(students student.Store, subs subscription.Store, cache *entcache.Cache, logger *zap.Logger) *StudentService {
	return &StudentService{
		students: students,
		subs:     subs,
		cache:    cache,
		logger:   logger,
	}
}

// Create adds a student if the plan has room and counts it against the quota.
func (s *StudentService) Create(ctx context.Context, accountID int64, req *student.CreateStudentRequest) (*student.Student, error) {
	if req.Name == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "name")
	}

	sub, err := s.subs.GetOrCreate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if !entitlement.CanIncrement(sub, plan.ByID(sub.PlanID), subscription.UsageStudent) {
		return nil, xerrors.Wrap(xerrors.ErrLimitExceeded, "students")
	}

	st := &student.Student{
		AccountID: accountID,
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Diagnosis: req.Diagnosis,
		Notes:     req.Notes,
	}
	if err := s.students.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	if err := s.subs.IncrementUsage(ctx, accountID, subscription.UsageStudent); err != nil {
		s.logger.Error("student created but usage not counted",
			zap.Int64("account_id", accountID),
			zap.Int64("student_id", st.ID),
			zap.Error(err),
		)
	}
	s.cache.Invalidate(ctx, accountID)

	return st, nil
}

// List returns all students of the account.
func (s *StudentService) List(ctx context.Context, accountID int64) ([]student.Student, error) {
	return s.students.ListByAccount(ctx, accountID)
}

// Get returns one student, scoped to the account.
func (s *StudentService) Get(ctx context.Context, accountID, studentID int64) (*student.Student, error) {
	return s.students.FindByID(ctx, accountID, studentID)
}

// Delete removes a student. Usage counters only grow within a billing
// period, so the quota slot stays consumed until the next rollover.
func (s *StudentService) Delete(ctx context.Context, accountID, studentID int64) error {
	return s.students.Delete(ctx, accountID, studentID)
}
