package middleware

import (
	"net/http"
	"net/url"

	pkgAuth "github.com/basabecode/tupijama.com-sub001/pkg/auth"
	"github.com/basabecode/tupijama.com-sub001/pkg/config"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
)

// AdminPage gates server-rendered admin pages. Unlike the API guard it never
// writes JSON: a session that is missing or lacks the admin role is redirected
// to the login page carrying the originally requested path as a return target.
// Role resolution shares pkgAuth.ResolveRole with the API guard.
func AdminPage(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				redirectToLogin(w, r)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil || !pkgAuth.IsAdmin(claims) {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "path", r.URL.Path), "admin page access denied")
				}
				redirectToLogin(w, r)
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = WithRole(ctx, pkgAuth.ResolveRole(claims))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusFound)
}
