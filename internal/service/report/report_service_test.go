// internal/service/report/report_service_test.go
package report

import (
	"context"
	"testing"

	"incluso-service/internal/domain/report"
	"incluso-service/internal/domain/student"
	domain "incluso-service/internal/domain/subscription"
	xerrors "incluso-service/internal/pkg/errors"
	"incluso-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc      *ReportService
	subs     *memory.SubscriptionStore
	students *memory.StudentStore
}

func newFixture(t *testing.T, planID string) (*fixture, int64) {
	t.Helper()
	subs := memory.NewSubscriptionStore()
	students := memory.NewStudentStore()
	f := &fixture{
		svc:      NewReportService(memory.NewReportStore(), students, subs, nil, zap.NewNop()),
		subs:     subs,
		students: students,
	}

	_, err := subs.GetOrCreate(context.Background(), 42)
	require.NoError(t, err)
	require.NoError(t, subs.ApplyPatch(context.Background(), 42, &domain.Patch{PlanID: &planID}))

	st := &student.Student{AccountID: 42, Name: "João"}
	require.NoError(t, students.Create(context.Background(), st))
	return f, st.ID
}

func TestCreateCountsAgainstReportQuota(t *testing.T) {
	f, studentID := newFixture(t, "starter")

	r, err := f.svc.Create(context.Background(), 42, &report.CreateReportRequest{
		StudentID: studentID,
		Title:     "Avaliação inicial",
	})
	require.NoError(t, err)
	assert.False(t, r.Generated)

	sub, err := f.subs.FindByAccount(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 1, sub.ReportsUsedThisPeriod)
}

func TestCreateBlockedAtReportLimit(t *testing.T) {
	f, studentID := newFixture(t, "free")

	// free plan allows 2 reports per period
	for i := 0; i < 2; i++ {
		_, err := f.svc.Create(context.Background(), 42, &report.CreateReportRequest{
			StudentID: studentID,
			Title:     "Relatório",
		})
		require.NoError(t, err)
	}

	_, err := f.svc.Create(context.Background(), 42, &report.CreateReportRequest{
		StudentID: studentID,
		Title:     "Relatório",
	})
	assert.ErrorIs(t, err, xerrors.ErrLimitExceeded)
}

func TestCreateRejectsUnknownStudent(t *testing.T) {
	f, _ := newFixture(t, "starter")

	_, err := f.svc.Create(context.Background(), 42, &report.CreateReportRequest{
		StudentID: 999,
		Title:     "Relatório",
	})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestGenerateRequiresAIFeature(t *testing.T) {
	f, studentID := newFixture(t, "free")

	_, err := f.svc.Generate(context.Background(), 42, &report.GenerateReportRequest{
		StudentID: studentID,
		Prompt:    "Resumo do trimestre",
	})
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
}

func TestGenerateCountsAgainstGenerationQuota(t *testing.T) {
	f, studentID := newFixture(t, "starter")

	r, err := f.svc.Generate(context.Background(), 42, &report.GenerateReportRequest{
		StudentID: studentID,
		Prompt:    "Resumo do trimestre",
	})
	require.NoError(t, err)
	assert.True(t, r.Generated)
	assert.Contains(t, r.Title, "João")

	sub, err := f.subs.FindByAccount(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 1, sub.GenerationsUsedThisPeriod)
	assert.Zero(t, sub.ReportsUsedThisPeriod)
}

func TestGenerateBlockedAtGenerationLimit(t *testing.T) {
	f, studentID := newFixture(t, "starter")

	// exhaust the starter generation quota directly
	used := 50
	require.NoError(t, f.subs.ApplyPatch(context.Background(), 42, &domain.Patch{GenerationsUsed: &used}))

	_, err := f.svc.Generate(context.Background(), 42, &report.GenerateReportRequest{
		StudentID: studentID,
		Prompt:    "Resumo",
	})
	assert.ErrorIs(t, err, xerrors.ErrLimitExceeded)
}

func TestListByStudentScopedToAccount(t *testing.T) {
	f, studentID := newFixture(t, "starter")

	_, err := f.svc.Create(context.Background(), 42, &report.CreateReportRequest{
		StudentID: studentID,
		Title:     "Relatório",
	})
	require.NoError(t, err)

	reports, err := f.svc.ListByStudent(context.Background(), 42, studentID)
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	_, err = f.svc.ListByStudent(context.Background(), 99, studentID)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}
