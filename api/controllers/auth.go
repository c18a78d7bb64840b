package controllers

import (
	"net/http"

	"github.com/basabecode/tupijama.com-sub001/api/middleware"
	"github.com/basabecode/tupijama.com-sub001/api/responses"
	"github.com/basabecode/tupijama.com-sub001/api/validators"
	internalauth "github.com/basabecode/tupijama.com-sub001/internal/auth"
	pkgerrors "github.com/basabecode/tupijama.com-sub001/pkg/errors"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
)

// AuthController serves login, refresh, and logout.
type AuthController struct {
	svc  *internalauth.Service
	logg *logger.Logger
}

func NewAuthController(svc *internalauth.Service, logg *logger.Logger) *AuthController {
	return &AuthController{svc: svc, logg: logg}
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req internalauth.LoginInput
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	view, err := c.svc.Login(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	setSessionCookie(w, view.AccessToken, view.ExpiresIn)
	responses.WriteSuccess(w, view)
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req internalauth.RefreshInput
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	view, err := c.svc.Refresh(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	setSessionCookie(w, view.AccessToken, view.ExpiresIn)
	responses.WriteSuccess(w, view)
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	accessID := middleware.AccessIDFromContext(r.Context())
	if accessID == "" {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
		return
	}

	if err := c.svc.Logout(r.Context(), accessID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	clearSessionCookie(w)
	responses.WriteSuccess(w, map[string]any{"ok": true})
}

func setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
