// internal/repository/postgres/report_repo.go
package postgres

import (
	"context"
	"fmt"

	"incluso-service/internal/domain/report"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	query := `
		INSERT INTO reports (account_id, student_id, title, content, generated)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(
		ctx, query,
		rep.AccountID, rep.StudentID, rep.Title, rep.Content, rep.Generated,
	).Scan(&rep.ID, &rep.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *ReportRepository) ListByStudent(ctx context.Context, accountID, studentID int64) ([]report.Report, error) {
	query := `
		SELECT id, account_id, student_id, title, content, generated, created_at
		FROM reports
		WHERE account_id = $1 AND student_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, accountID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []report.Report{}
	for rows.Next() {
		var rep report.Report
		err := rows.Scan(
			&rep.ID, &rep.AccountID, &rep.StudentID,
			&rep.Title, &rep.Content, &rep.Generated, &rep.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
