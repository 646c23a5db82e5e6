// Package auth_repo provides the PostgreSQL user store.
package auth_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain/auth"
	"backoffice/internal/infrastructure/storage/postgres"
)

const (
	userColumns = `id, name, email, password_hash, avatar, last_access, created_at, updated_at, version`

	emailConstraint = "users_email_lower_key"
)

var _ auth.UserRepository = (*UserRepo)(nil)

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txManager *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{txManager: txManager}
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Avatar,
		user.LastAccess, user.CreatedAt, user.UpdatedAt, user.Version,
	)
	if c, ok := postgres.UniqueViolation(err); ok && c == emailConstraint {
		return apperror.NewConflict("email already registered").WithDetail("email", user.Email)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.get(ctx, query, userID.String(), userID)
}

// GetByEmail retrieves user by email, ignoring case.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.get(ctx, query, email, email)
}

func (r *UserRepo) get(ctx context.Context, query, ref string, args ...any) (*auth.User, error) {
	var user auth.User
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &user, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", ref)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// Update updates the profile columns with optimistic locking.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, avatar = $4,
		    updated_at = $5, version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`
	var next int
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Avatar,
		user.UpdatedAt, user.ID, user.Version,
	).Scan(&next)
	if pgxscan.NotFound(err) {
		return apperror.NewConcurrentModification("user", user.ID.String())
	}
	if c, ok := postgres.UniqueViolation(err); ok && c == emailConstraint {
		return apperror.NewConflict("email already registered").WithDetail("email", user.Email)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	user.Version = next
	return nil
}

// TouchLastAccess records the time of the latest authenticated profile read.
func (r *UserRepo) TouchLastAccess(ctx context.Context, userID id.ID, at time.Time) error {
	query := `UPDATE users SET last_access = $1 WHERE id = $2`
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, query, at, userID)
	if err != nil {
		return fmt.Errorf("update last access: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID.String())
	}
	return nil
}

// ExistsByEmail checks whether another user holds email.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string, excludeID id.ID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1) AND id <> $2)`
	var exists bool
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user email: %w", err)
	}
	return exists, nil
}
