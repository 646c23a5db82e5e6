package auth

import (
	"context"
	"io"
	"time"

	"backoffice/internal/core/id"
)

// UserRepository defines user storage operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error

	// GetByID returns apperror NOT_FOUND when missing
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByEmail matches case-insensitively
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update writes name, email, password and avatar with optimistic locking
	Update(ctx context.Context, user *User) error

	TouchLastAccess(ctx context.Context, userID id.ID, at time.Time) error

	// ExistsByEmail ignores excludeID
	ExistsByEmail(ctx context.Context, email string, excludeID id.ID) (bool, error)
}

// AvatarStore keeps avatar files.
type AvatarStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error

	// URL returns the absolute public address of key
	URL(key string) string
}
