package http_handlers

import (
	"net/http"

	"github.com/Gourab-ghosh21/digital-spark/internal/dashboard"
	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/guard"
	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
	"github.com/Gourab-ghosh21/digital-spark/internal/transport/http/dto"
	"github.com/Gourab-ghosh21/digital-spark/internal/transport/http/response"
	"github.com/Gourab-ghosh21/digital-spark/internal/transport/http/views"
)

const msgVerified = "Your email is confirmed. You can now log in."

type PageHandler struct {
	gw          Gateway
	verifier    EmailVerifier
	audit       Auditor
	feed        *dashboard.Feed
	views       *views.Renderer
	loginPath   string
	defaultPath string
}

func NewPageHandler(gw Gateway, verifier EmailVerifier, audit Auditor, feed *dashboard.Feed, rd *views.Renderer, g *guard.Guard) *PageHandler {
	return &PageHandler{
		gw:          gw,
		verifier:    verifier,
		audit:       audit,
		feed:        feed,
		views:       rd,
		loginPath:   g.LoginPath(),
		defaultPath: g.DefaultPath(),
	}
}

// Root handles GET /
func (h *PageHandler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.defaultPath, http.StatusSeeOther)
}

// LoginForm handles GET /login. An already authenticated client goes
// straight to where it was heading.
func (h *PageHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	from := guard.SafeReturnPath(r.URL.Query().Get("from"), h.defaultPath)

	if _, store, err := clientStore(r); err == nil && store.State().Authenticated() {
		http.Redirect(w, r, from, http.StatusSeeOther)
		return
	}

	page := views.LoginPage{From: from}
	if r.URL.Query().Get("verified") == "1" {
		page.Notice = msgVerified
	}
	h.views.Render(w, r, http.StatusOK, views.PageLogin, page)
}

// Login handles POST /login
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.views.Render(w, r, http.StatusBadRequest, views.PageLogin, views.LoginPage{Error: domain.ErrInvalidForm(err).Message})
		return
	}
	req := dto.LoginRequest{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
		From:     r.PostForm.Get("from"),
	}
	from := guard.SafeReturnPath(req.From, h.defaultPath)

	clientID, store, err := clientStore(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if _, err := h.gw.SignIn(r.Context(), clientID, store, req.Email, req.Password); err != nil {
		h.views.Render(w, r, response.StatusOf(err), views.PageLogin, views.LoginPage{
			Email: req.Email,
			From:  from,
			Error: domain.Message(err),
		})
		return
	}

	http.Redirect(w, r, from, http.StatusSeeOther)
}

// SignupForm handles GET /signup
func (h *PageHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, views.PageSignup, views.SignupPage{})
}

// Signup handles POST /signup
func (h *PageHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.views.Render(w, r, http.StatusBadRequest, views.PageSignup, views.SignupPage{Error: domain.ErrInvalidForm(err).Message})
		return
	}
	req := dto.SignupRequest{
		DisplayName:     r.PostForm.Get("display_name"),
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	}

	if err := h.gw.SignUp(r.Context(), req.ToInput()); err != nil {
		h.views.Render(w, r, response.StatusOf(err), views.PageSignup, views.SignupPage{
			DisplayName: req.DisplayName,
			Email:       req.Email,
			Error:       domain.Message(err),
		})
		return
	}

	h.views.Render(w, r, http.StatusOK, views.PageSignupSuccess, views.SignupSuccessPage{
		Email: domain.NormalizeEmail(req.Email),
	})
}

// VerifyEmail handles GET /verify-email?token=
func (h *PageHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		err := domain.ErrNotSupported("verify_email")
		h.views.Render(w, r, response.StatusOf(err), views.PageVerifyEmail, views.VerifyEmailPage{Message: err.Message})
		return
	}

	req := dto.VerifyEmailRequest{Token: r.URL.Query().Get("token")}
	if err := req.Validate(); err != nil {
		h.views.Render(w, r, response.StatusOf(err), views.PageVerifyEmail, views.VerifyEmailPage{Message: domain.Message(err)})
		return
	}

	id, err := h.verifier.VerifyEmail(r.Context(), req.Token)
	if err != nil {
		h.views.Render(w, r, response.StatusOf(err), views.PageVerifyEmail, views.VerifyEmailPage{Message: domain.Message(err)})
		return
	}

	h.audit.EmailVerified(r.Context(), id.ID, id.Email)
	h.views.Render(w, r, http.StatusOK, views.PageVerifyEmail, views.VerifyEmailPage{Verified: true, Message: msgVerified})
}

// ResendVerification handles POST /verify-email/resend. The outcome page is
// the same whether or not the address is registered.
func (h *PageHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		err := domain.ErrNotSupported("resend_verification")
		h.views.Render(w, r, response.StatusOf(err), views.PageVerifyEmail, views.VerifyEmailPage{Message: err.Message})
		return
	}
	if err := r.ParseForm(); err != nil {
		h.views.Render(w, r, http.StatusBadRequest, views.PageSignup, views.SignupPage{Error: domain.ErrInvalidForm(err).Message})
		return
	}

	req := dto.ResendVerificationRequest{Email: r.PostForm.Get("email")}
	if err := req.Validate(); err != nil {
		h.views.Render(w, r, response.StatusOf(err), views.PageSignup, views.SignupPage{Email: req.Email, Error: domain.Message(err)})
		return
	}

	if err := h.verifier.ResendVerification(r.Context(), req.Email); err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("resend verification failed")
	}
	h.views.Render(w, r, http.StatusOK, views.PageSignupSuccess, views.SignupSuccessPage{Email: req.Email})
}

// Logout handles POST /logout
func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clientID, store, err := clientStore(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	h.gw.SignOut(r.Context(), clientID, store)
	http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
}

// Dashboard handles GET /dashboard. It sits behind the route guard.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := guard.IdentityFrom(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrUnauthenticated())
		return
	}

	conv, err := h.feed.Conversation("")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	h.views.Render(w, r, http.StatusOK, views.PageDashboard, views.DashboardPage{
		Identity:      id,
		Overview:      h.feed.Overview(),
		Sessions:      h.feed.Sessions(),
		Intel:         h.feed.Intel(""),
		Status:        h.feed.Status(),
		Conversation:  conv,
		EngagingCount: h.feed.EngagingCount(),
	})
}
