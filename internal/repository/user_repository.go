package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schooltrack/attendance-api/internal/models"
)

// UserRepository stores user profiles and their login credentials.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindCredentialByEmail resolves a credential case-insensitively.
func (r *UserRepository) FindCredentialByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var cred models.Credential
	query := "SELECT email, password_hash, profile_id FROM credentials WHERE LOWER(email) = LOWER($1)"
	if err := r.db.GetContext(ctx, &cred, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return &cred, nil
}

// ExistsByEmail reports whether an email is already registered, ignoring case.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM credentials WHERE LOWER(email) = LOWER($1))"
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check credential email: %w", err)
	}
	return exists, nil
}

// CreateIdentity stores the profile and its credential together.
func (r *UserRepository) CreateIdentity(ctx context.Context, profile *models.UserProfile, cred *models.Credential) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create identity: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	profileQuery := "INSERT INTO user_profiles (id, name, role, entity_id) VALUES ($1, $2, $3, $4)"
	if _, err := tx.ExecContext(ctx, profileQuery, profile.ID, profile.Name, profile.Role, profile.EntityID); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	credQuery := "INSERT INTO credentials (email, password_hash, profile_id) VALUES ($1, $2, $3)"
	if _, err := tx.ExecContext(ctx, credQuery, cred.Email, cred.PasswordHash, cred.ProfileID); err != nil {
		return fmt.Errorf("insert credential: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create identity: %w", err)
	}
	return nil
}

// DeleteIdentity removes a credential and its profile together, matching the
// email case-insensitively. A missing credential is not an error.
func (r *UserRepository) DeleteIdentity(ctx context.Context, email string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete identity: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var profileID string
	credQuery := "DELETE FROM credentials WHERE LOWER(email) = LOWER($1) RETURNING profile_id"
	if err := tx.GetContext(ctx, &profileID, credQuery, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("delete credential: %w", err)
	}

	profileQuery := "DELETE FROM user_profiles WHERE id = $1"
	if _, err := tx.ExecContext(ctx, profileQuery, profileID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete identity: %w", err)
	}
	return nil
}

// FindProfileByID loads a profile by id.
func (r *UserRepository) FindProfileByID(ctx context.Context, id string) (*models.UserProfile, error) {
	var profile models.UserProfile
	query := "SELECT id, name, role, entity_id FROM user_profiles WHERE id = $1"
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &profile, nil
}
