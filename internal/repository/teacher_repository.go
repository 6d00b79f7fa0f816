package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schooltrack/attendance-api/internal/models"
)

// TeacherRepository manages persistence for teacher rows.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// ListAll returns every teacher in insertion order.
func (r *TeacherRepository) ListAll(ctx context.Context) ([]models.Teacher, error) {
	var teachers []models.Teacher
	query := "SELECT id, name FROM teachers ORDER BY position"
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// ExistsByID reports whether a teacher with the given id is registered.
func (r *TeacherRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM teachers WHERE id = $1)"
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check teacher id: %w", err)
	}
	return exists, nil
}

// Create appends a new teacher.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	query := "INSERT INTO teachers (id, name) VALUES ($1, $2)"
	if _, err := r.db.ExecContext(ctx, query, teacher.ID, teacher.Name); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}
