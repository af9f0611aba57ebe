package guard

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/session"
)

type Config struct {
	LoginPath   string       // default "/login"
	DefaultPath string       // default "/dashboard"
	Loading     http.Handler // placeholder shown while the session resolves
}

// Guard gates handlers on the Session Store found in the request context.
type Guard struct {
	loginPath   string
	defaultPath string
	loading     http.Handler
}

func New(cfg Config) *Guard {
	g := &Guard{
		loginPath:   cfg.LoginPath,
		defaultPath: cfg.DefaultPath,
		loading:     cfg.Loading,
	}
	if g.loginPath == "" {
		g.loginPath = "/login"
	}
	if g.defaultPath == "" {
		g.defaultPath = "/dashboard"
	}
	if g.loading == nil {
		g.loading = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("Authenticating..."))
		})
	}
	return g
}

func (g *Guard) LoginPath() string   { return g.loginPath }
func (g *Guard) DefaultPath() string { return g.defaultPath }

// Wrap renders next only for an authenticated session. A loading session
// gets the placeholder and an unauthenticated one is sent to login with the
// requested location recorded. JSON clients get status codes instead.
func (g *Guard) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := session.State{}
		if store, ok := session.FromContext(r.Context()); ok {
			st = store.State()
		}

		switch Evaluate(st) {
		case PhaseAuthenticated:
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *st.Identity)))
		case PhaseLoading:
			g.renderLoading(w, r)
		default:
			g.redirectToLogin(w, r)
		}
	})
}

func (g *Guard) renderLoading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	if wantsJSON(r) {
		w.Header().Set("Retry-After", "1")
		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, map[string]any{"data": map[string]any{"phase": PhaseLoading.String()}})
		return
	}
	w.Header().Set("Refresh", "1")
	g.loading.ServeHTTP(w, r)
}

func (g *Guard) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	from := SafeReturnPath(r.URL.RequestURI(), g.defaultPath)
	login := LoginURL(g.loginPath, from)

	w.Header().Set("Cache-Control", "no-store")
	if wantsJSON(r) {
		err := domain.ErrUnauthenticated()
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]any{
			"error": map[string]any{
				"code":    err.Code,
				"message": err.Message,
				"login":   login,
			},
		})
		return
	}
	http.Redirect(w, r, login, http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.URL.Path, "/api/")
}
