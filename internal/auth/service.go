package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/basabecode/tupijama.com-sub001/pkg/auth"
	"github.com/basabecode/tupijama.com-sub001/pkg/auth/session"
	"github.com/basabecode/tupijama.com-sub001/pkg/config"
	"github.com/basabecode/tupijama.com-sub001/pkg/db/models"
	pkgerrors "github.com/basabecode/tupijama.com-sub001/pkg/errors"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
	"github.com/basabecode/tupijama.com-sub001/pkg/security"
)

// LoginInput is the credentials payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshInput carries the expired access token and its refresh pair.
type RefreshInput struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SessionView is the token pair handed back on login and refresh.
type SessionView struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	User         UserView `json:"user"`
}

// UserView is the account summary embedded in a session response.
type UserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name,omitempty"`
	Role     string    `json:"role"`
}

// SessionManager is the session lifecycle surface the service needs;
// *session.Manager implements it.
type SessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Service performs credential checks and session lifecycle operations.
type Service struct {
	users    UserRepository
	sessions SessionManager
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(users UserRepository, sessions SessionManager, jwtCfg config.JWTConfig, logg *logger.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		logg:     logg,
		now:      time.Now,
	}
}

// Login verifies credentials and opens a session. Unknown emails and bad
// passwords produce the same error so the endpoint does not leak which
// accounts exist.
func (s *Service) Login(ctx context.Context, input LoginInput) (*SessionView, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load account")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	view, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.users.RecordLogin(ctx, user.ID, s.now().UTC()); err != nil {
		wctx := s.logg.WithFields(ctx, map[string]any{
			"user_id": user.ID.String(),
			"error":   err.Error(),
		})
		s.logg.Warn(wctx, "failed to record login time")
	}

	return view, nil
}

// Refresh rotates the refresh token tied to an access token's jti and
// mints a fresh pair. The access token may be expired but must otherwise
// be valid.
func (s *Service) Refresh(ctx context.Context, input RefreshInput) (*SessionView, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, input.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to rotate session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
	}

	accessToken, err := s.mintToken(user, newAccessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to issue token")
	}

	return s.sessionView(accessToken, newRefresh, user), nil
}

// Logout revokes the session behind the presented access token.
func (s *Service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to close session")
	}
	return nil
}

func (s *Service) openSession(ctx context.Context, user *models.User) (*SessionView, error) {
	accessID := session.NewAccessID()

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to open session")
	}

	accessToken, err := s.mintToken(user, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to issue token")
	}

	return s.sessionView(accessToken, refreshToken, user), nil
}

func (s *Service) mintToken(user *models.User, accessID string) (string, error) {
	payload := pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		JTI:    accessID,
	}
	if user.AppRole != nil {
		payload.AppMetadata = pkgauth.RoleMetadata{Role: *user.AppRole}
	}
	if user.UserRole != nil {
		payload.UserMetadata = pkgauth.RoleMetadata{Role: *user.UserRole}
	}
	return pkgauth.MintAccessToken(s.jwtCfg, s.now(), payload)
}

func (s *Service) sessionView(accessToken, refreshToken string, user *models.User) *SessionView {
	role := roleOf(user)
	return &SessionView{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
		User: UserView{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     role,
		},
	}
}

func roleOf(user *models.User) string {
	claims := &pkgauth.AccessTokenClaims{}
	if user.AppRole != nil {
		claims.AppMetadata = pkgauth.RoleMetadata{Role: *user.AppRole}
	}
	if user.UserRole != nil {
		claims.UserMetadata = pkgauth.RoleMetadata{Role: *user.UserRole}
	}
	return pkgauth.ResolveRole(claims)
}
