// Package auth provides sign-up, sign-in and profile management for users.
package auth

import (
	"context"
	"io"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
)

// DefaultAvatar is the object key every new user starts with. It is never deleted.
const DefaultAvatar = "avatars/default-avatar.png"

// User represents an account holder.
type User struct {
	ID           id.ID      `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Avatar       string     `db:"avatar" json:"-"`
	LastAccess   *time.Time `db:"last_access" json:"lastAccess"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
	Version      int        `db:"version" json:"version"`
}

// NewUser creates a new user with the default avatar.
func NewUser(name, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           id.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Avatar:       DefaultAvatar,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	return entity.ValidationError(validation.ValidateStructWithContext(ctx, u,
		validation.Field(&u.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&u.Email, validation.Required, validation.Length(1, 255), is.EmailFormat),
	))
}

// View is the public representation of a user.
type View struct {
	ID         id.ID      `json:"id"`
	Avatar     string     `json:"avatar"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	LastAccess *time.Time `json:"lastAccess"`
}

// Credentials for sign-in.
type Credentials struct {
	Email    string
	Password string
}

// SignUpRequest for user registration.
type SignUpRequest struct {
	Name     string
	Email    string
	Password string
}

// Session is a signed-in user with its access token.
type Session struct {
	User        View      `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Upload is a file received from the client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProfileUpdate replaces the editable fields of the current user.
type ProfileUpdate struct {
	Name     string
	Email    string
	Password string // empty keeps the current password
	Avatar   *Upload
}
