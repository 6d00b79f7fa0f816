package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schooltrack/attendance-api/internal/models"
)

// AssignmentRepository manages teacher assignment rows.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListAll returns every assignment in insertion order.
func (r *AssignmentRepository) ListAll(ctx context.Context) ([]models.TeacherAssignment, error) {
	var assignments []models.TeacherAssignment
	query := "SELECT teacher_id, grade, section, subject_id FROM teacher_assignments ORDER BY position"
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// FindForClass returns the assignment covering a (grade, section, subject)
// triple, or nil when the class/subject is unassigned.
func (r *AssignmentRepository) FindForClass(ctx context.Context, grade, section, subjectID string) (*models.TeacherAssignment, error) {
	var assignment models.TeacherAssignment
	query := "SELECT teacher_id, grade, section, subject_id FROM teacher_assignments WHERE grade = $1 AND section = $2 AND subject_id = $3"
	if err := r.db.GetContext(ctx, &assignment, query, grade, section, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &assignment, nil
}

// Create appends a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.TeacherAssignment) error {
	query := "INSERT INTO teacher_assignments (teacher_id, grade, section, subject_id) VALUES ($1, $2, $3, $4)"
	if _, err := r.db.ExecContext(ctx, query, assignment.TeacherID, assignment.Grade, assignment.Section, assignment.SubjectID); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}
