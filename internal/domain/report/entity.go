// internal/domain/report/entity.go
package report

import (
	"context"
	"time"
)

// Report is a progress report about a student. Generated reports come out of
// the AI assistant and count against the per-period generation quota instead
// of the report quota.
type Report struct {
	ID        int64     `json:"id" db:"id"`
	AccountID int64     `json:"account_id" db:"account_id"`
	StudentID int64     `json:"student_id" db:"student_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Generated bool      `json:"generated" db:"generated"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateReportRequest struct {
	StudentID int64  `json:"student_id" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
}

type GenerateReportRequest struct {
	StudentID int64  `json:"student_id" binding:"required"`
	Prompt    string `json:"prompt" binding:"required"`
}

// Store persists report records.
type Store interface {
	Create(ctx context.Context, r *Report) error
	ListByStudent(ctx context.Context, accountID, studentID int64) ([]Report, error)
}
