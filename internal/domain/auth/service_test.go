package auth

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
)

type memUsers struct {
	items     map[id.ID]*User
	updateErr error
}

func (m *memUsers) Create(ctx context.Context, u *User) error {
	cp := *u
	m.items[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	u, ok := m.items[userID]
	if !ok {
		return nil, apperror.NewNotFound("users", userID.String())
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range m.items {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("users", email)
}

func (m *memUsers) Update(ctx context.Context, u *User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	cp := *u
	m.items[u.ID] = &cp
	return nil
}

func (m *memUsers) TouchLastAccess(ctx context.Context, userID id.ID, at time.Time) error {
	u, ok := m.items[userID]
	if !ok {
		return apperror.NewNotFound("users", userID.String())
	}
	u.LastAccess = &at
	return nil
}

func (m *memUsers) ExistsByEmail(ctx context.Context, email string, excludeID id.ID) (bool, error) {
	for _, u := range m.items {
		if strings.EqualFold(u.Email, email) && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type memStore struct {
	objects map[string][]byte
	deleted []string
}

func (m *memStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memStore) URL(key string) string {
	return "http://localhost:8080/media/" + key
}

type directTx struct{}

func (directTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	ctx   context.Context
	users *memUsers
	store *memStore
	jwt   *JWTService
	svc   *Service
}

func newFixture() *fixture {
	f := &fixture{
		ctx:   context.Background(),
		users: &memUsers{items: map[id.ID]*User{}},
		store: &memStore{objects: map[string][]byte{}},
		jwt:   NewJWTService(DefaultJWTConfig("test-secret")),
	}
	cfg := DefaultServiceConfig()
	cfg.BcryptCost = bcrypt.MinCost
	f.svc = NewService(f.users, directTx{}, f.jwt, f.store, cfg)
	return f
}

func (f *fixture) signUp(t *testing.T) *Session {
	t.Helper()
	sess, err := f.svc.SignUp(f.ctx, SignUpRequest{Name: "Ana", Email: "Ana@Example.com", Password: "secret123"})
	require.NoError(t, err)
	return sess
}

func TestService_SignUpIssuesValidToken(t *testing.T) {
	f := newFixture()
	sess := f.signUp(t)

	assert.Equal(t, "ana@example.com", sess.User.Email)
	assert.Equal(t, "http://localhost:8080/media/"+DefaultAvatar, sess.User.Avatar)

	uc, err := f.jwt.ValidateToken(sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, uc.UserID)
	assert.Equal(t, "ana@example.com", uc.Email)
}

func TestService_SignUpDuplicateEmail(t *testing.T) {
	f := newFixture()
	f.signUp(t)

	_, err := f.svc.SignUp(f.ctx, SignUpRequest{Name: "Other", Email: "ana@example.com", Password: "secret123"})
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))
}

func TestService_SignUpValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SignUp(f.ctx, SignUpRequest{Name: "Ana", Email: "ana@example.com", Password: "short"})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = f.svc.SignUp(f.ctx, SignUpRequest{Name: "", Email: "ana@example.com", Password: "secret123"})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	assert.Empty(t, f.users.items)
}

func TestService_SignIn(t *testing.T) {
	f := newFixture()
	f.signUp(t)

	sess, err := f.svc.SignIn(f.ctx, Credentials{Email: " ANA@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.AccessToken)

	_, err = f.svc.SignIn(f.ctx, Credentials{Email: "ana@example.com", Password: "wrong-pass"})
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))

	_, err = f.svc.SignIn(f.ctx, Credentials{Email: "nobody@example.com", Password: "secret123"})
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
}

func TestService_MeTouchesLastAccess(t *testing.T) {
	f := newFixture()
	sess := f.signUp(t)

	user, err := f.svc.Me(f.ctx, sess.User.ID)
	require.NoError(t, err)
	require.NotNil(t, user.LastAccess)

	_, err = f.svc.Me(f.ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func pngUpload() *Upload {
	body := []byte("\x89PNG fake")
	return &Upload{Filename: "me.png", ContentType: "image/png", Size: int64(len(body)), Body: bytes.NewReader(body)}
}

func TestService_UpdateMeReplacesAvatar(t *testing.T) {
	f := newFixture()
	sess := f.signUp(t)

	first, err := f.svc.UpdateMe(f.ctx, sess.User.ID, ProfileUpdate{Name: "Ana", Email: "ana@example.com", Avatar: pngUpload()})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.Avatar, "avatars/"))
	assert.True(t, strings.HasSuffix(first.Avatar, ".png"))
	assert.Empty(t, f.store.deleted, "default avatar is kept")

	second, err := f.svc.UpdateMe(f.ctx, sess.User.ID, ProfileUpdate{Name: "Ana Maria", Email: "ana@example.com", Avatar: pngUpload()})
	require.NoError(t, err)
	assert.NotEqual(t, first.Avatar, second.Avatar)
	assert.Equal(t, []string{first.Avatar}, f.store.deleted)
	assert.Contains(t, f.store.objects, second.Avatar)
	assert.Equal(t, "Ana Maria", f.users.items[sess.User.ID].Name)
}

func TestService_UpdateMeRejectsOtherTypes(t *testing.T) {
	f := newFixture()
	sess := f.signUp(t)

	up := pngUpload()
	up.ContentType = "image/gif"
	_, err := f.svc.UpdateMe(f.ctx, sess.User.ID, ProfileUpdate{Name: "Ana", Email: "ana@example.com", Avatar: up})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	assert.Empty(t, f.store.objects)
}

func TestService_UpdateMeRemovesNewAvatarOnFailure(t *testing.T) {
	f := newFixture()
	sess := f.signUp(t)
	f.users.updateErr = errors.New("connection reset")

	_, err := f.svc.UpdateMe(f.ctx, sess.User.ID, ProfileUpdate{Name: "Ana", Email: "ana@example.com", Avatar: pngUpload()})
	require.Error(t, err)
	assert.Empty(t, f.store.objects)
	require.Len(t, f.store.deleted, 1)
	assert.Equal(t, DefaultAvatar, f.users.items[sess.User.ID].Avatar)
}

func TestService_UpdateMeChangesPassword(t *testing.T) {
	f := newFixture()
	sess := f.signUp(t)

	_, err := f.svc.UpdateMe(f.ctx, sess.User.ID, ProfileUpdate{Name: "Ana", Email: "ana@example.com", Password: "another-secret"})
	require.NoError(t, err)

	_, err = f.svc.SignIn(f.ctx, Credentials{Email: "ana@example.com", Password: "another-secret"})
	assert.NoError(t, err)
}

func TestService_UpdateMeEmailTaken(t *testing.T) {
	f := newFixture()
	sess := f.signUp(t)
	_, err := f.svc.SignUp(f.ctx, SignUpRequest{Name: "Bia", Email: "bia@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = f.svc.UpdateMe(f.ctx, sess.User.ID, ProfileUpdate{Name: "Ana", Email: "bia@example.com"})
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("one"))
	verifier := NewJWTService(DefaultJWTConfig("two"))

	token, _, err := issuer.GenerateAccessToken(id.New(), "a@b.com")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}
