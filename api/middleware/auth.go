package middleware

import (
	"net/http"
	"strings"

	"github.com/basabecode/tupijama.com-sub001/api/responses"
	pkgAuth "github.com/basabecode/tupijama.com-sub001/pkg/auth"
	"github.com/basabecode/tupijama.com-sub001/pkg/auth/session"
	"github.com/basabecode/tupijama.com-sub001/pkg/config"
	pkgerrors "github.com/basabecode/tupijama.com-sub001/pkg/errors"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
)

// SessionCookieName carries the access token for browser sessions; API
// clients send the same token as a bearer header.
const SessionCookieName = "tupijama_session"

// Auth validates the caller's token (bearer header or session cookie) and
// seeds the request context with the user id and the resolved role. Requests
// without a valid session never reach the handler.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			role := pkgAuth.ResolveRole(claims)
			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = WithRole(ctx, role)
			ctx = WithAccessID(ctx, claims.ID)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id": claims.UserID.String(),
					"role":    role,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest extracts the access token, preferring the Authorization
// header over the session cookie.
func TokenFromRequest(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw != "" {
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			return strings.TrimSpace(raw[7:])
		}
		return raw
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
