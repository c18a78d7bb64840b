package controllers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/basabecode/tupijama.com-sub001/api/middleware"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
)

//go:embed templates/*.html
var pageFS embed.FS

var pageTemplates = template.Must(template.ParseFS(pageFS, "templates/*.html"))

// PagesController renders the server-side admin pages. Route protection
// lives in the AdminPage middleware; these handlers only render.
type PagesController struct {
	logg *logger.Logger
}

func NewPagesController(logg *logger.Logger) *PagesController {
	return &PagesController{logg: logg}
}

type loginPageData struct {
	Next string
}

type adminPageData struct {
	UserID string
	Role   string
}

// Login renders the sign-in form, preserving the post-login destination.
func (c *PagesController) Login(w http.ResponseWriter, r *http.Request) {
	data := loginPageData{Next: r.URL.Query().Get("next")}
	c.render(w, r, "login.html", data)
}

// AdminDashboard renders the admin landing page.
func (c *PagesController) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	data := adminPageData{
		UserID: middleware.UserIDFromContext(r.Context()),
		Role:   middleware.RoleFromContext(r.Context()),
	}
	c.render(w, r, "admin.html", data)
}

func (c *PagesController) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		c.logg.Error(r.Context(), "failed to render page", err)
	}
}
