// internal/service/report/report_service.go
package report

import (
	"context"
	"fmt"

	"incluso-service/internal/domain/report"
	"incluso-service/internal/domain/student"
	"incluso-service/internal/domain/subscription"
	"incluso-service/internal/entitlement"
	"incluso-service/internal/pkg/entcache"
	xerrors "incluso-service/internal/pkg/errors"
	"incluso-service/internal/plan"

	"go.uber.org/zap"
)

// ReportService creates progress reports under the per-period report quota.
// AI-generated reports additionally require the assistant feature and consume
// the generation quota.
type ReportService struct {
	reports  report.Store
	students student.Store
	subs     subscription.Store
	cache    *entcache.Cache
	logger   *zap.Logger
}

func NewReportService(reports report.Store, students student.Store, subs subscription.Store, cache *entcache.Cache, logger *zap.Logger) *ReportService {
	return &ReportService{
		reports:  reports,
		students: students,
		subs:     subs,
		cache:    cache,
		logger:   logger,
	}
}

// Create writes a manual report for a student of the account.
func (s *ReportService) Create(ctx context.Context, accountID int64, req *report.CreateReportRequest) (*report.Report, error) {
	if req.Title == "" || req.StudentID == 0 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "title and student id")
	}

	sub, err := s.subs.GetOrCreate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if !entitlement.CanIncrement(sub, plan.ByID(sub.PlanID), subscription.UsageReport) {
		return nil, xerrors.Wrap(xerrors.ErrLimitExceeded, "reports")
	}

	if _, err := s.students.FindByID(ctx, accountID, req.StudentID); err != nil {
		return nil, err
	}

	r := &report.Report{
		AccountID: accountID,
		StudentID: req.StudentID,
		Title:     req.Title,
		Content:   req.Content,
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if err := s.subs.IncrementUsage(ctx, accountID, subscription.UsageReport); err != nil {
		s.logger.Error("report created but usage not counted",
			zap.Int64("account_id", accountID),
			zap.Int64("report_id", r.ID),
			zap.Error(err),
		)
	}
	s.cache.Invalidate(ctx, accountID)

	return r, nil
}

// Generate produces an assistant-drafted report. The account needs the AI
// assistant feature and room in both the report and generation quotas.
func (s *ReportService) Generate(ctx context.Context, accountID int64, req *report.GenerateReportRequest) (*report.Report, error) {
	if req.Prompt == "" || req.StudentID == 0 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "prompt and student id")
	}

	sub, err := s.subs.GetOrCreate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	p := plan.ByID(sub.PlanID)
	view := entitlement.Evaluate(sub, p)
	if !view.CanUseAI {
		return nil, xerrors.Wrap(xerrors.ErrForbidden, "ai assistant")
	}
	if !entitlement.CanIncrement(sub, p, subscription.UsageGeneration) {
		return nil, xerrors.Wrap(xerrors.ErrLimitExceeded, "generations")
	}

	st, err := s.students.FindByID(ctx, accountID, req.StudentID)
	if err != nil {
		return nil, err
	}

	r := &report.Report{
		AccountID: accountID,
		StudentID: req.StudentID,
		Title:     fmt.Sprintf("Relatório de progresso - %s", st.Name),
		Content:   req.Prompt,
		Generated: true,
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if err := s.subs.IncrementUsage(ctx, accountID, subscription.UsageGeneration); err != nil {
		s.logger.Error("report generated but usage not counted",
			zap.Int64("account_id", accountID),
			zap.Int64("report_id", r.ID),
			zap.Error(err),
		)
	}
	s.cache.Invalidate(ctx, accountID)

	return r, nil
}

// ListByStudent returns the reports of one student of the account.
func (s *ReportService) ListByStudent(ctx context.Context, accountID, studentID int64) ([]report.Report, error) {
	if _, err := s.students.FindByID(ctx, accountID, studentID); err != nil {
		return nil, err
	}
	return s.reports.ListByStudent(ctx, accountID, studentID)
}
