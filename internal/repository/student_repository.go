package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schooltrack/attendance-api/internal/models"
)

// StudentRepository manages persistence for student rows. Students are only
// appended; the ordering column keeps list output in insertion order.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListAll returns every student in insertion order.
func (r *StudentRepository) ListAll(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	query := "SELECT id, name, grade, section FROM students ORDER BY position"
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Create appends a new student.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := "INSERT INTO students (id, name, grade, section) VALUES ($1, $2, $3, $4)"
	if _, err := r.db.ExecContext(ctx, query, student.ID, student.Name, student.Grade, student.Section); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
