package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schooltrack/attendance-api/internal/models"
)

// SubjectRepository reads the static subject reference list.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// ListAll returns every subject.
func (r *SubjectRepository) ListAll(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	query := "SELECT id, name FROM subjects ORDER BY position"
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}
