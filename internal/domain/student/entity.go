// internal/domain/student/entity.go
package student

import (
	"context"
	"time"
)

// Student is a learner record owned by a professional's account.
type Student struct {
	ID        int64      `json:"id" db:"id"`
	AccountID int64      `json:"account_id" db:"account_id"`
	Name      string     `json:"name" db:"name"`
	BirthDate *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Diagnosis string     `json:"diagnosis,omitempty" db:"diagnosis"`
	Notes     string     `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateStudentRequest struct {
	Name      string     `json:"name" binding:"required"`
	BirthDate *time.Time `json:"birth_date"`
	Diagnosis string     `json:"diagnosis"`
	Notes     string     `json:"notes"`
}

// Store persists student records.
type Store interface {
	Create(ctx context.Context, s *Student) error
	ListByAccount(ctx context.Context, accountID int64) ([]Student, error)
	FindByID(ctx context.Context, accountID, studentID int64) (*Student, error)
	Delete(ctx context.Context, accountID, studentID int64) error
}
