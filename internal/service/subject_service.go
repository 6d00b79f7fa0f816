package service

import (
	"context"

	"github.com/schooltrack/attendance-api/internal/models"
)

// SubjectService exposes the subject catalog. Subjects are seeded at the
// database layer and read-only through the API.
type SubjectService struct {
	store snapshotProvider
}

// NewSubjectService constructs a SubjectService instance.
func NewSubjectService(store snapshotProvider) *SubjectService {
	return &SubjectService{store: store}
}

// List returns the subject catalog in insertion order.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Subjects, nil
}
