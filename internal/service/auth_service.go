package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/schooltrack/attendance-api/internal/models"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
)

type identityRepository interface {
	FindCredentialByEmail(ctx context.Context, email string) (*models.Credential, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CreateIdentity(ctx context.Context, profile *models.UserProfile, cred *models.Credential) error
	DeleteIdentity(ctx context.Context, email string) error
	FindProfileByID(ctx context.Context, id string) (*models.UserProfile, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the authenticated profile.
type LoginResponse struct {
	AccessToken string             `json:"access_token"`
	ExpiresAt   time.Time          `json:"expires_at"`
	Profile     models.UserProfile `json:"profile"`
}

// AuthService owns identity registration and login. Registration is the
// collaborator the entity-add operations call to provision credentials.
type AuthService struct {
	repo      identityRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo identityRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config}
}

// RegisterIdentity stores a new profile with a hashed credential. A second
// registration for the same email, compared case-insensitively, fails with a
// duplicate-email error and leaves nothing behind.
func (s *AuthService) RegisterIdentity(ctx context.Context, email, password string, profile models.UserProfile) error {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrDuplicateEmail, fmt.Sprintf("User with email %s already exists.", email))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	cred := &models.Credential{Email: email, PasswordHash: string(hash), ProfileID: profile.ID}
	if err := s.repo.CreateIdentity(ctx, &profile, cred); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register identity")
	}
	return nil
}

// RemoveIdentity deletes a registered profile and credential. Entity creation
// calls this to undo provisioning when the roster insert fails, so a retry of
// the same add does not trip the duplicate-email check.
func (s *AuthService) RemoveIdentity(ctx context.Context, email string) error {
	if err := s.repo.DeleteIdentity(ctx, email); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove identity")
	}
	return nil
}

// Login authenticates a user and returns an access token. Unknown emails and
// wrong passwords produce the same generic failure.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	cred, err := s.repo.FindCredentialByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch credential")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	profile, err := s.repo.FindProfileByID(ctx, cred.ProfileID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}

	expiresAt := time.Now().UTC().Add(s.config.Expiration)
	claims := &models.JWTClaims{
		ProfileID: profile.ID,
		Name:      profile.Name,
		Role:      profile.Role,
		EntityID:  profile.EntityID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	return &LoginResponse{AccessToken: token, ExpiresAt: expiresAt, Profile: *profile}, nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(raw string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

// RequestPasswordReset simulates the reset flow. It always reports success so
// the existence of an account is never revealed; the log records the truth.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	_, err := s.repo.FindCredentialByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Info("password reset requested for unknown email", zap.String("email", email))
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch credential")
	}
	s.logger.Info("password reset email simulated", zap.String("email", email))
	return nil
}

var emailSanitizer = regexp.MustCompile(`[^a-z0-9.]`)
var whitespace = regexp.MustCompile(`\s+`)

// GenerateEmail derives the login email for a newly provisioned account:
// the name lowercased with whitespace collapsed to dots, on the role domain.
func GenerateEmail(name, domain string) string {
	local := strings.ToLower(strings.TrimSpace(name))
	local = whitespace.ReplaceAllString(local, ".")
	local = emailSanitizer.ReplaceAllString(local, "")
	return local + "@" + domain
}
