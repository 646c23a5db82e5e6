package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/core/tx"
	"backoffice/pkg/logger"
)

// avatarTypes maps accepted avatar content types to file extensions.
var avatarTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
}

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	PasswordMinLength int
	BcryptCost        int
	MaxAvatarBytes    int64
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PasswordMinLength: 8,
		BcryptCost:        bcrypt.DefaultCost,
		MaxAvatarBytes:    5 << 20,
	}
}

// Service provides authentication and profile logic.
type Service struct {
	users      UserRepository
	txManager  tx.Manager
	jwtService *JWTService
	avatars    AvatarStore
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(
	users UserRepository,
	txManager tx.Manager,
	jwtService *JWTService,
	avatars AvatarStore,
	config ServiceConfig,
) *Service {
	return &Service{
		users:      users,
		txManager:  txManager,
		jwtService: jwtService,
		avatars:    avatars,
		config:     config,
	}
}

// SignUp registers a new user and signs it in.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	email := normalizeEmail(req.Email)
	if err := s.checkPassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}
	user := NewUser(strings.TrimSpace(req.Name), email, hash)
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.users.ExistsByEmail(ctx, email, id.ID{})
		if err != nil {
			return fmt.Errorf("check email exists: %w", err)
		}
		if exists {
			return apperror.NewConflict("email already registered").WithDetail("email", email)
		}
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return s.session(user)
}

// SignIn authenticates by email and password.
func (s *Service) SignIn(ctx context.Context, creds Credentials) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(creds.Email))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	logger.Info(ctx, "user signed in", "user_id", user.ID)
	return s.session(user)
}

// Me records an access for the user and returns it.
func (s *Service) Me(ctx context.Context, userID id.ID) (*User, error) {
	if err := s.users.TouchLastAccess(ctx, userID, time.Now().UTC()); err != nil {
		return nil, s.normalizeGetErr(err, userID)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.normalizeGetErr(err, userID)
	}
	return user, nil
}

// UpdateMe replaces name and email, optionally the password and the avatar.
//
// A new avatar is stored before the user row; if the row cannot be saved the
// new file is removed again. Once saved, the previous avatar is removed unless
// it is DefaultAvatar.
func (s *Service) UpdateMe(ctx context.Context, userID id.ID, upd ProfileUpdate) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.normalizeGetErr(err, userID)
	}
	previousAvatar := user.Avatar

	user.Name = strings.TrimSpace(upd.Name)
	user.Email = normalizeEmail(upd.Email)
	if upd.Password != "" {
		if err := s.checkPassword(upd.Password); err != nil {
			return nil, err
		}
		hash, err := s.hash(upd.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	var newAvatar string
	if upd.Avatar != nil {
		newAvatar, err = s.storeAvatar(ctx, upd.Avatar)
		if err != nil {
			return nil, err
		}
		user.Avatar = newAvatar
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		taken, err := s.users.ExistsByEmail(ctx, user.Email, user.ID)
		if err != nil {
			return fmt.Errorf("check email exists: %w", err)
		}
		if taken {
			return apperror.NewConflict("email already registered").WithDetail("email", user.Email)
		}
		user.UpdatedAt = time.Now().UTC()
		if err := s.users.Update(ctx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return nil
	})
	if err != nil {
		if newAvatar != "" {
			s.deleteAvatar(ctx, newAvatar)
		}
		return nil, err
	}

	if newAvatar != "" && previousAvatar != DefaultAvatar && previousAvatar != "" {
		s.deleteAvatar(ctx, previousAvatar)
	}

	logger.Info(ctx, "user updated", "user_id", user.ID, "avatar_changed", newAvatar != "")
	return user, nil
}

// View renders the public representation of user.
func (s *Service) View(user *User) View {
	return View{
		ID:         user.ID,
		Avatar:     s.avatars.URL(user.Avatar),
		Name:       user.Name,
		Email:      user.Email,
		LastAccess: user.LastAccess,
	}
}

func (s *Service) storeAvatar(ctx context.Context, up *Upload) (string, error) {
	ext, ok := avatarTypes[strings.ToLower(up.ContentType)]
	if !ok {
		return "", apperror.NewValidation("only PNG or JPEG avatars are supported").
			WithDetail("field", "avatar").
			WithDetail("contentType", up.ContentType)
	}
	if s.config.MaxAvatarBytes > 0 && up.Size > s.config.MaxAvatarBytes {
		return "", apperror.NewValidation("avatar is too large").
			WithDetail("field", "avatar").
			WithDetail("maxBytes", s.config.MaxAvatarBytes)
	}

	key := fmt.Sprintf("avatars/%s.%s", id.New(), ext)
	if err := s.avatars.Put(ctx, key, up.ContentType, up.Body, up.Size); err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}
	return key, nil
}

func (s *Service) deleteAvatar(ctx context.Context, key string) {
	if err := s.avatars.Delete(ctx, key); err != nil {
		logger.Warn(ctx, "failed to delete avatar", "key", key, "error", err)
	}
}

func (s *Service) session(user *User) (*Session, error) {
	token, expiresAt, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &Session{User: s.View(user), AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) checkPassword(password string) error {
	if len(password) < s.config.PasswordMinLength {
		return apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	cost := s.config.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) normalizeGetErr(err error, userID id.ID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound("user", userID.String())
	}
	return fmt.Errorf("get user: %w", err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
