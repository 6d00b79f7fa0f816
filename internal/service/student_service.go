package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schooltrack/attendance-api/internal/models"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
)

type studentWriter interface {
	Create(ctx context.Context, student *models.Student) error
}

type identityRegistrar interface {
	RegisterIdentity(ctx context.Context, email, password string, profile models.UserProfile) error
	RemoveIdentity(ctx context.Context, email string) error
}

// AccountPolicy holds the domains and default passwords used when
// provisioning login accounts for new students and teachers.
type AccountPolicy struct {
	StudentEmailDomain string
	TeacherEmailDomain string
	StudentPassword    string
	TeacherPassword    string
}

// AddStudentRequest is the payload for enrolling a student.
type AddStudentRequest struct {
	Name    string `json:"name" validate:"required,min=1"`
	Grade   string `json:"grade" validate:"required"`
	Section string `json:"section" validate:"required"`
}

// AddStudentResult pairs the stored student with the credentials that were
// generated for them.
type AddStudentResult struct {
	Student     models.Student           `json:"student"`
	Credentials models.IssuedCredentials `json:"credentials"`
}

// StudentService manages the student roster.
type StudentService struct {
	store     snapshotProvider
	writer    studentWriter
	bumper    versionBumper
	identity  identityRegistrar
	cache     *CacheService
	policy    AccountPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(store snapshotProvider, writer studentWriter, bumper versionBumper, identity identityRegistrar, cache *CacheService, policy AccountPolicy, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		store:     store,
		writer:    writer,
		bumper:    bumper,
		identity:  identity,
		cache:     cache,
		policy:    policy,
		validator: validate,
		logger:    logger,
	}
}

// List returns the roster in insertion order, optionally narrowed to a class.
func (s *StudentService) List(ctx context.Context, grade, section string) ([]models.Student, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if grade == "" && section == "" {
		return snapshot.Students, nil
	}
	out := make([]models.Student, 0, len(snapshot.Students))
	for _, st := range snapshot.Students {
		if grade != "" && st.Grade != grade {
			continue
		}
		if section != "" && st.Section != section {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

// Add enrolls a student and provisions their login account. The section is
// normalized to uppercase before storage.
func (s *StudentService) Add(ctx context.Context, req AddStudentRequest) (*AddStudentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student := models.Student{
		ID:      "stu_" + uuid.NewString(),
		Name:    strings.TrimSpace(req.Name),
		Grade:   strings.TrimSpace(req.Grade),
		Section: strings.ToUpper(strings.TrimSpace(req.Section)),
	}

	email := GenerateEmail(student.Name, s.policy.StudentEmailDomain)
	profile := models.UserProfile{
		ID:       "usr_" + uuid.NewString(),
		Name:     student.Name,
		Role:     models.RoleStudent,
		EntityID: student.ID,
	}
	if err := s.identity.RegisterIdentity(ctx, email, s.policy.StudentPassword, profile); err != nil {
		return nil, err
	}

	if err := s.writer.Create(ctx, &student); err != nil {
		if rmErr := s.identity.RemoveIdentity(ctx, email); rmErr != nil {
			s.logger.Error("failed to remove identity after store failure",
				zap.String("email", email), zap.Error(rmErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store student")
	}
	if _, err := s.bumper.BumpVersion(ctx); err != nil {
		s.logger.Warn("failed to bump store version", zap.Error(err))
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "reports:*"); err != nil {
			s.logger.Warn("failed to invalidate report cache", zap.Error(err))
		}
	}

	s.logger.Info("student enrolled",
		zap.String("student_id", student.ID),
		zap.String("grade", student.Grade),
		zap.String("section", student.Section))

	return &AddStudentResult{
		Student: student,
		Credentials: models.IssuedCredentials{
			Name:     student.Name,
			Email:    email,
			Password: s.policy.StudentPassword,
		},
	}, nil
}

// Get returns a single student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	student := snapshot.StudentByID(id)
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", id))
	}
	return student, nil
}
