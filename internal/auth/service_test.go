package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/basabecode/tupijama.com-sub001/pkg/auth"
	"github.com/basabecode/tupijama.com-sub001/pkg/auth/session"
	"github.com/basabecode/tupijama.com-sub001/pkg/config"
	"github.com/basabecode/tupijama.com-sub001/pkg/db/models"
	pkgerrors "github.com/basabecode/tupijama.com-sub001/pkg/errors"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
	"github.com/basabecode/tupijama.com-sub001/pkg/security"
)

var serviceJWTConfig = config.JWTConfig{
	Secret:            "service-test-secret-service-test",
	Issuer:            "tupijama-test",
	ExpirationMinutes: 15,
}

type stubUsers struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
	logins  []uuid.UUID
}

func (s *stubUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsers) RecordLogin(_ context.Context, id uuid.UUID, _ time.Time) error {
	s.logins = append(s.logins, id)
	return nil
}

type stubSessions struct {
	generated  []string
	revoked    []string
	rotateFrom string
	rotateErr  error
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Rotate(_ context.Context, oldAccessID, _ string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	s.rotateFrom = oldAccessID
	return "rotated-id", "rotated-refresh", nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func adminUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
	})
	require.NoError(t, err)

	role := "admin"
	return &models.User{
		ID:           uuid.New(),
		Email:        "admin@tupijama.com",
		PasswordHash: hash,
		FullName:     "Admin",
		AppRole:      &role,
		IsActive:     true,
	}
}

func newTestService(users UserRepository, sessions *stubSessions) *Service {
	return NewService(users, sessions, serviceJWTConfig, logger.New(logger.Options{ServiceName: "test"}))
}

func TestLoginIssuesTokenPair(t *testing.T) {
	user := adminUser(t, "super-secret-pass")
	users := &stubUsers{byEmail: map[string]*models.User{user.Email: user}}
	sessions := &stubSessions{}
	svc := newTestService(users, sessions)

	view, err := svc.Login(context.Background(), LoginInput{
		Email:    user.Email,
		Password: "super-secret-pass",
	})
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(serviceJWTConfig, view.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "admin", claims.AppMetadata.Role)
	require.Len(t, sessions.generated, 1)
	assert.Equal(t, sessions.generated[0], claims.ID)
	assert.Equal(t, "refresh-"+claims.ID, view.RefreshToken)
	assert.Equal(t, "admin", view.User.Role)
	assert.Equal(t, []uuid.UUID{user.ID}, users.logins)
}

func TestLoginUnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	user := adminUser(t, "super-secret-pass")
	users := &stubUsers{byEmail: map[string]*models.User{user.Email: user}}
	svc := newTestService(users, &stubSessions{})

	_, errUnknown := svc.Login(context.Background(), LoginInput{
		Email: "nobody@tupijama.com", Password: "whatever-pass",
	})
	_, errWrong := svc.Login(context.Background(), LoginInput{
		Email: user.Email, Password: "wrong-password",
	})

	for _, err := range []error{errUnknown, errWrong} {
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
		assert.Equal(t, "invalid credentials", typed.Message())
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	user := adminUser(t, "super-secret-pass")
	user.IsActive = false
	users := &stubUsers{byEmail: map[string]*models.User{user.Email: user}}
	svc := newTestService(users, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginInput{
		Email: user.Email, Password: "super-secret-pass",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "invalid credentials", typed.Message())
}

func TestRefreshRotatesSession(t *testing.T) {
	user := adminUser(t, "super-secret-pass")
	users := &stubUsers{byID: map[uuid.UUID]*models.User{user.ID: user}}
	sessions := &stubSessions{}
	svc := newTestService(users, sessions)

	expired, err := pkgauth.MintAccessToken(serviceJWTConfig, time.Now().Add(-time.Hour), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		JTI:    "old-session",
	})
	require.NoError(t, err)

	view, err := svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  expired,
		RefreshToken: "old-refresh",
	})
	require.NoError(t, err)
	assert.Equal(t, "old-session", sessions.rotateFrom)
	assert.Equal(t, "rotated-refresh", view.RefreshToken)

	claims, err := pkgauth.ParseAccessToken(serviceJWTConfig, view.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "rotated-id", claims.ID)
}

func TestRefreshRejectsInvalidRefreshToken(t *testing.T) {
	user := adminUser(t, "super-secret-pass")
	users := &stubUsers{byID: map[uuid.UUID]*models.User{user.ID: user}}
	sessions := &stubSessions{rotateErr: session.ErrInvalidRefreshToken}
	svc := newTestService(users, sessions)

	token, err := pkgauth.MintAccessToken(serviceJWTConfig, time.Now(), pkgauth.AccessTokenPayload{UserID: user.ID})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), RefreshInput{AccessToken: token, RefreshToken: "bad"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestRefreshRejectsGarbageAccessToken(t *testing.T) {
	svc := newTestService(&stubUsers{}, &stubSessions{})

	_, err := svc.Refresh(context.Background(), RefreshInput{AccessToken: "junk", RefreshToken: "junk"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(&stubUsers{}, sessions)

	require.NoError(t, svc.Logout(context.Background(), "session-1"))
	assert.Equal(t, []string{"session-1"}, sessions.revoked)
}

func TestRoleOfPrefersAppRole(t *testing.T) {
	app, usr := "admin", "customer"
	assert.Equal(t, "admin", roleOf(&models.User{AppRole: &app, UserRole: &usr}))
	assert.Equal(t, "customer", roleOf(&models.User{UserRole: &usr}))
	assert.Equal(t, "", roleOf(&models.User{}))
}

func TestLoginSurvivesRecordLoginFailure(t *testing.T) {
	user := adminUser(t, "super-secret-pass")
	users := &failingLoginUsers{stubUsers{byEmail: map[string]*models.User{user.Email: user}}}
	svc := newTestService(users, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginInput{
		Email: user.Email, Password: "super-secret-pass",
	})
	assert.NoError(t, err)
}

type failingLoginUsers struct {
	stubUsers
}

func (f *failingLoginUsers) RecordLogin(context.Context, uuid.UUID, time.Time) error {
	return errors.New("write timeout")
}
