package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/Gourab-ghosh21/digital-spark/internal/dashboard"
	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
)

//go:embed templates/*.html
var files embed.FS

const (
	PageLogin         = "login"
	PageSignup        = "signup"
	PageSignupSuccess = "signup_success"
	PageLoading       = "loading"
	PageDashboard     = "dashboard"
	PageVerifyEmail   = "verify_email"
)

var pageNames = []string{PageLogin, PageSignup, PageSignupSuccess, PageLoading, PageDashboard, PageVerifyEmail}

type LoginPage struct {
	Email  string
	From   string
	Error  string
	Notice string
}

type SignupPage struct {
	DisplayName string
	Email       string
	Error       string
}

type SignupSuccessPage struct {
	Email string
}

type VerifyEmailPage struct {
	Verified bool
	Message  string
}

type DashboardPage struct {
	Identity      domain.Identity
	Overview      dashboard.Overview
	Sessions      []dashboard.HoneypotSession
	Intel         []dashboard.IntelItem
	Status        []dashboard.ServiceStatus
	Conversation  dashboard.Conversation
	EngagingCount int
}

// Renderer holds one parsed template set per page, each sharing the layout.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
}

func New() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(files, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes page into a buffer first so a template error never
// leaves a half-written response.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	t, ok := rd.pages[page]
	if !ok {
		logger.Ctx(r.Context()).Error().Str("page", page).Msg("unknown page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Str("page", page).Msg("render page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Loading is the placeholder shown while a client's session resolves.
func (rd *Renderer) Loading() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rd.Render(w, r, http.StatusOK, PageLoading, nil)
	})
}
