package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schooltrack/attendance-api/internal/models"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
)

type teacherWriter interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
}

// AddTeacherRequest is the payload for onboarding a teacher.
type AddTeacherRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

// AddTeacherResult pairs the stored teacher with their generated credentials.
type AddTeacherResult struct {
	Teacher     models.Teacher           `json:"teacher"`
	Credentials models.IssuedCredentials `json:"credentials"`
}

// TeacherService manages the teaching staff roster.
type TeacherService struct {
	store     snapshotProvider
	writer    teacherWriter
	bumper    versionBumper
	identity  identityRegistrar
	policy    AccountPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService instance.
func NewTeacherService(store snapshotProvider, writer teacherWriter, bumper versionBumper, identity identityRegistrar, policy AccountPolicy, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{
		store:     store,
		writer:    writer,
		bumper:    bumper,
		identity:  identity,
		policy:    policy,
		validator: validate,
		logger:    logger,
	}
}

var slugStrip = regexp.MustCompile(`[^a-z0-9-]`)

// SlugID derives a stable identifier from a display name: lowercased, runs of
// whitespace collapsed to single hyphens, all other punctuation removed.
func SlugID(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = whitespace.ReplaceAllString(slug, "-")
	return slugStrip.ReplaceAllString(slug, "")
}

// List returns all teachers in insertion order.
func (s *TeacherService) List(ctx context.Context) ([]models.Teacher, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Teachers, nil
}

// Add onboards a teacher. The identifier is the name slug, so two teachers
// with names that collapse to the same slug collide.
func (s *TeacherService) Add(ctx context.Context, req AddTeacherRequest) (*AddTeacherResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	teacher := models.Teacher{
		ID:   SlugID(req.Name),
		Name: strings.TrimSpace(req.Name),
	}
	if teacher.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher name yields an empty identifier")
	}

	exists, err := s.writer.ExistsByID(ctx, teacher.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher id")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateID, fmt.Sprintf("Teacher with ID %s already exists.", teacher.ID))
	}

	email := GenerateEmail(teacher.Name, s.policy.TeacherEmailDomain)
	profile := models.UserProfile{
		ID:       "usr_" + uuid.NewString(),
		Name:     teacher.Name,
		Role:     models.RoleTeacher,
		EntityID: teacher.ID,
	}
	if err := s.identity.RegisterIdentity(ctx, email, s.policy.TeacherPassword, profile); err != nil {
		return nil, err
	}

	if err := s.writer.Create(ctx, &teacher); err != nil {
		if rmErr := s.identity.RemoveIdentity(ctx, email); rmErr != nil {
			s.logger.Error("failed to remove identity after store failure",
				zap.String("email", email), zap.Error(rmErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store teacher")
	}
	if _, err := s.bumper.BumpVersion(ctx); err != nil {
		s.logger.Warn("failed to bump store version", zap.Error(err))
	}

	s.logger.Info("teacher onboarded", zap.String("teacher_id", teacher.ID))

	return &AddTeacherResult{
		Teacher: teacher,
		Credentials: models.IssuedCredentials{
			Name:     teacher.Name,
			Email:    email,
			Password: s.policy.TeacherPassword,
		},
	}, nil
}
