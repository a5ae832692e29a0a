package user

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName    = errors.New("user name cannot be empty")
	ErrInvalidEmail = errors.New("email address is not valid")
)

// User is the minimal identity the statement core reads. Credentials and
// sessions are handled elsewhere; only the id is required by the ledger.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new user with the given parameters
func NewUser(name string, email string) (*User, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
