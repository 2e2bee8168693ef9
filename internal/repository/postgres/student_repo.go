// internal/repository/postgres/student_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"incluso-service/internal/domain/student"
	xerrors "incluso-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const studentColumns = `
	id, account_id, name, birth_date, diagnosis, notes, created_at, updated_at
`

type StudentRepository struct {
	db *pgxpool.Pool
}

func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) Create(ctx context.Context, st *student.Student) error {
	query := `
		INSERT INTO students (account_id, name, birth_date, diagnosis, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(
		ctx, query,
		st.AccountID, st.Name, st.BirthDate, st.Diagnosis, st.Notes,
	).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func (r *StudentRepository) ListByAccount(ctx context.Context, accountID int64) ([]student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE account_id = $1 ORDER BY name`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := []student.Student{}
	for rows.Next() {
		var st student.Student
		err := rows.Scan(
			&st.ID, &st.AccountID, &st.Name, &st.BirthDate,
			&st.Diagnosis, &st.Notes, &st.CreatedAt, &st.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

func (r *StudentRepository) FindByID(ctx context.Context, accountID, studentID int64) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE account_id = $1 AND id = $2`

	var st student.Student
	err := r.db.QueryRow(ctx, query, accountID, studentID).Scan(
		&st.ID, &st.AccountID, &st.Name, &st.BirthDate,
		&st.Diagnosis, &st.Notes, &st.CreatedAt, &st.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find student: %w", err)
	}
	return &st, nil
}

func (r *StudentRepository) Delete(ctx context.Context, accountID, studentID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM students WHERE account_id = $1 AND id = $2`, accountID, studentID)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
