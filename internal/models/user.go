package models

import "github.com/golang-jwt/jwt/v5"

// UserRole is the closed set of dashboard roles.
type UserRole string

const (
	RoleAdmin   UserRole = "Admin"
	RoleTeacher UserRole = "Teacher"
	RoleStudent UserRole = "Student"
)

// Valid reports whether the role is one of the recognised values. Callers
// dispatching on role must route unrecognised values to an explicit fallback.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// UserProfile links an authentication identity to a Student or Teacher.
type UserProfile struct {
	ID       string   `db:"id" json:"id"`
	Name     string   `db:"name" json:"name"`
	Role     UserRole `db:"role" json:"role"`
	EntityID string   `db:"entity_id" json:"entity_id"`
}

// Credential stores a login identity. Emails are unique case-insensitively.
type Credential struct {
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	ProfileID    string `db:"profile_id" json:"profile_id"`
}

// IssuedCredentials is returned to the caller after provisioning an account,
// so the generated login can be shown once.
type IssuedCredentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// JWTClaims carries the authenticated profile inside access tokens.
type JWTClaims struct {
	ProfileID string   `json:"profile_id"`
	Name      string   `json:"name"`
	Role      UserRole `json:"role"`
	EntityID  string   `json:"entity_id"`
	jwt.RegisteredClaims
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
