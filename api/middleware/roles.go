package middleware

import (
	"net/http"

	"github.com/basabecode/tupijama.com-sub001/api/responses"
	pkgAuth "github.com/basabecode/tupijama.com-sub001/pkg/auth"
	pkgerrors "github.com/basabecode/tupijama.com-sub001/pkg/errors"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
)

// RequireAdmin rejects callers whose resolved role is not admin. Auth has
// already turned missing sessions into 401, so this only ever answers 403.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != pkgAuth.RoleAdmin {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
