package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schooltrack/attendance-api/internal/models"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
)

type assignmentWriter interface {
	FindForClass(ctx context.Context, grade, section, subjectID string) (*models.TeacherAssignment, error)
	Create(ctx context.Context, assignment *models.TeacherAssignment) error
}

// AssignTeacherRequest is the payload for assigning a teacher to a class and
// subject.
type AssignTeacherRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	Grade     string `json:"grade" validate:"required"`
	Section   string `json:"section" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
}

// AssignmentService manages which teacher covers which class and subject.
type AssignmentService struct {
	store     snapshotProvider
	writer    assignmentWriter
	bumper    versionBumper
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(store snapshotProvider, writer assignmentWriter, bumper versionBumper, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{store: store, writer: writer, bumper: bumper, validator: validate, logger: logger}
}

// List returns all assignments in insertion order.
func (s *AssignmentService) List(ctx context.Context) ([]models.TeacherAssignment, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Assignments, nil
}

// Assign records that a teacher covers a subject for a class. A class and
// subject pair can only ever have one teacher; a second attempt fails and
// names the teacher already holding it.
func (s *AssignmentService) Assign(ctx context.Context, req AssignTeacherRequest) (*models.TeacherAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	teacher := snapshot.TeacherByID(req.TeacherID)
	if teacher == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("teacher %s not found", req.TeacherID))
	}
	if snapshot.SubjectName(req.SubjectID) == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("subject %s not found", req.SubjectID))
	}

	assignment := models.TeacherAssignment{
		TeacherID: req.TeacherID,
		Grade:     strings.TrimSpace(req.Grade),
		Section:   strings.ToUpper(strings.TrimSpace(req.Section)),
		SubjectID: req.SubjectID,
	}

	for _, a := range snapshot.Assignments {
		if a.ClassKey() == assignment.ClassKey() {
			holder := a.TeacherID
			if t := snapshot.TeacherByID(a.TeacherID); t != nil {
				holder = t.Name
			}
			return nil, appErrors.Clone(appErrors.ErrConflictingAssignment,
				fmt.Sprintf("This class and subject is already assigned to %s.", holder))
		}
	}

	// re-check against the store in case the snapshot is stale
	existing, err := s.writer.FindForClass(ctx, assignment.Grade, assignment.Section, assignment.SubjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment")
	}
	if existing != nil {
		holder := existing.TeacherID
		if t := snapshot.TeacherByID(existing.TeacherID); t != nil {
			holder = t.Name
		}
		return nil, appErrors.Clone(appErrors.ErrConflictingAssignment,
			fmt.Sprintf("This class and subject is already assigned to %s.", holder))
	}

	if err := s.writer.Create(ctx, &assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store assignment")
	}
	if _, err := s.bumper.BumpVersion(ctx); err != nil {
		s.logger.Warn("failed to bump store version", zap.Error(err))
	}

	s.logger.Info("teacher assigned",
		zap.String("teacher_id", assignment.TeacherID),
		zap.String("grade", assignment.Grade),
		zap.String("section", assignment.Section),
		zap.String("subject_id", assignment.SubjectID))

	return &assignment, nil
}
