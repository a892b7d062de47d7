package core

import (
	"context"
	"time"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleDoctor  UserRole = "doctor"
	RoleCashier UserRole = "cashier"
)

// User represents an authenticated system user.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        *string   `json:"phone,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUserInput carries the fields needed to create a user.
// Password is the plaintext password; the service hashes it before storage.
type NewUserInput struct {
	Username  string
	Email     string
	Password  string
	Role      UserRole
	FirstName string
	LastName  string
	Phone     *string
}

// UserService provides user management and credential verification.
type UserService interface {
	// Authenticate verifies username and password against an active user.
	// Returns ErrNotFound for unknown or inactive users and ErrInvalidArgument
	// for a wrong password, so callers can collapse both to a generic failure.
	Authenticate(ctx context.Context, username, password string) (*User, error)

	// Create hashes the password with bcrypt and inserts the user.
	// Returns ErrConflict when the username or email is already taken.
	Create(ctx context.Context, input NewUserInput) (*User, error)

	// GetByID returns a user by primary key.
	GetByID(ctx context.Context, userID int) (*User, error)

	// List returns all users ordered by username.
	List(ctx context.Context) ([]User, error)

	// SetActive activates or deactivates a user account.
	SetActive(ctx context.Context, userID int, active bool) (*User, error)
}
