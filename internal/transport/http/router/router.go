package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type PageHandler interface {
	Root(w http.ResponseWriter, r *http.Request)
	LoginForm(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	SignupForm(w http.ResponseWriter, r *http.Request)
	Signup(w http.ResponseWriter, r *http.Request)
	VerifyEmail(w http.ResponseWriter, r *http.Request)
	ResendVerification(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Signup(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	VerifyEmail(w http.ResponseWriter, r *http.Request)
	ResendVerification(w http.ResponseWriter, r *http.Request)
}

type SessionHandler interface {
	Current(w http.ResponseWriter, r *http.Request)
	Events(w http.ResponseWriter, r *http.Request)
}

type DashboardHandler interface {
	Overview(w http.ResponseWriter, r *http.Request)
	Sessions(w http.ResponseWriter, r *http.Request)
	Intel(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	Conversation(w http.ResponseWriter, r *http.Request)
}

type Middleware = func(http.Handler) http.Handler

type Deps struct {
	Health    HealthHandler
	Pages     PageHandler
	Auth      AuthHandler
	Session   SessionHandler
	Dashboard DashboardHandler

	// Metrics serves /metrics. Nil leaves the route unmounted.
	Metrics http.Handler

	// Global runs on every request, in order.
	Global []Middleware

	ClientSessionMW Middleware // attaches the client's Session Store
	GuardMW         Middleware // route guard for protected pages and APIs
	OriginMW        Middleware // CSRF origin check for state-changing routes

	// Optional per-route rate limits. Nil means unlimited.
	LoginLimitMW  Middleware
	SignupLimitMW Middleware
	ResendLimitMW Middleware
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Pages == nil {
		return nil, fmt.Errorf("nil Pages handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Session == nil {
		return nil, fmt.Errorf("nil Session handler")
	}
	if deps.Dashboard == nil {
		return nil, fmt.Errorf("nil Dashboard handler")
	}
	if deps.ClientSessionMW == nil {
		return nil, fmt.Errorf("nil ClientSession middleware")
	}
	if deps.GuardMW == nil {
		return nil, fmt.Errorf("nil Guard middleware")
	}
	if deps.OriginMW == nil {
		return nil, fmt.Errorf("nil Origin middleware")
	}
	loginLimit := orNoop(deps.LoginLimitMW)
	signupLimit := orNoop(deps.SignupLimitMW)
	resendLimit := orNoop(deps.ResendLimitMW)

	r := chi.NewRouter()
	for _, mw := range deps.Global {
		r.Use(mw)
	}

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(deps.ClientSessionMW)
		r.Use(deps.OriginMW)

		// --- Pages ---
		r.Get("/", deps.Pages.Root)
		r.Get("/login", deps.Pages.LoginForm)
		r.With(loginLimit).Post("/login", deps.Pages.Login)
		r.Get("/signup", deps.Pages.SignupForm)
		r.With(signupLimit).Post("/signup", deps.Pages.Signup)
		r.Get("/verify-email", deps.Pages.VerifyEmail) // ?token=...
		r.With(resendLimit).Post("/verify-email/resend", deps.Pages.ResendVerification)
		r.Post("/logout", deps.Pages.Logout)
		r.With(deps.GuardMW).Get("/dashboard", deps.Pages.Dashboard)

		r.Route("/api/v1", func(r chi.Router) {
			// --- Session (never guarded) ---
			r.Get("/session", deps.Session.Current)
			r.Get("/session/events", deps.Session.Events)

			// --- Auth ---
			r.With(loginLimit).Post("/auth/login", deps.Auth.Login)
			r.With(signupLimit).Post("/auth/signup", deps.Auth.Signup)
			r.Post("/auth/logout", deps.Auth.Logout)
			r.Post("/auth/verify-email", deps.Auth.VerifyEmail)
			r.With(resendLimit).Post("/auth/verify-email/resend", deps.Auth.ResendVerification)

			// --- Dashboard ---
			r.Route("/dashboard", func(r chi.Router) {
				r.Use(deps.GuardMW)
				r.Get("/overview", deps.Dashboard.Overview)
				r.Get("/sessions", deps.Dashboard.Sessions)
				r.Get("/intel", deps.Dashboard.Intel)
				r.Get("/status", deps.Dashboard.Status)
				r.Get("/conversation", deps.Dashboard.Conversation)
				r.Get("/conversation/{id}", deps.Dashboard.Conversation)
			})
		})
	})

	return r, nil
}

func orNoop(mw Middleware) Middleware {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}
