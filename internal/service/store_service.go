package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/schooltrack/attendance-api/internal/models"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
)

type studentStore interface {
	ListAll(ctx context.Context) ([]models.Student, error)
	Create(ctx context.Context, student *models.Student) error
}

type teacherStore interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
}

type subjectStore interface {
	ListAll(ctx context.Context) ([]models.Subject, error)
}

type assignmentStore interface {
	ListAll(ctx context.Context) ([]models.TeacherAssignment, error)
	FindForClass(ctx context.Context, grade, section, subjectID string) (*models.TeacherAssignment, error)
	Create(ctx context.Context, assignment *models.TeacherAssignment) error
}

type attendanceStore interface {
	ListAll(ctx context.Context) ([]models.AttendanceRecord, error)
	ReplaceAll(ctx context.Context, records []models.AttendanceRecord) error
}

type storeMeta interface {
	Version(ctx context.Context) (int64, error)
	Bump(ctx context.Context) (int64, error)
}

// StoreService owns every collection and hands out immutable snapshots.
// All reads downstream of here are pure functions over the snapshot;
// mutations go through the registration and attendance services, which bump
// the version so cached derived views expire.
type StoreService struct {
	students    studentStore
	teachers    teacherStore
	subjects    subjectStore
	assignments assignmentStore
	attendance  attendanceStore
	meta        storeMeta
	logger      *zap.Logger
}

// NewStoreService constructs the store service.
func NewStoreService(
	students studentStore,
	teachers teacherStore,
	subjects subjectStore,
	assignments assignmentStore,
	attendance attendanceStore,
	meta storeMeta,
	logger *zap.Logger,
) *StoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreService{
		students:    students,
		teachers:    teachers,
		subjects:    subjects,
		assignments: assignments,
		attendance:  attendance,
		meta:        meta,
		logger:      logger,
	}
}

// Snapshot loads a point-in-time view of all collections.
func (s *StoreService) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	version, err := s.meta.Version(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read store version")
	}
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	subjects, err := s.subjects.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	assignments, err := s.assignments.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	records, err := s.attendance.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance records")
	}

	return &models.Snapshot{
		Version:     version,
		Students:    students,
		Teachers:    teachers,
		Subjects:    subjects,
		Assignments: assignments,
		Records:     records,
	}, nil
}

// BumpVersion advances the store version after a mutation.
func (s *StoreService) BumpVersion(ctx context.Context) (int64, error) {
	version, err := s.meta.Bump(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bump store version")
	}
	return version, nil
}
