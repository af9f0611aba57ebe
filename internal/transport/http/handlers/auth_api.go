package http_handlers

import (
	"net/http"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/guard"
	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
	"github.com/Gourab-ghosh21/digital-spark/internal/transport/http/dto"
	"github.com/Gourab-ghosh21/digital-spark/internal/transport/http/response"
)

// AuthHandler serves the JSON variants of sign-in, sign-up and sign-out.
type AuthHandler struct {
	gw          Gateway
	verifier    EmailVerifier
	audit       Auditor
	defaultPath string
}

func NewAuthHandler(gw Gateway, verifier EmailVerifier, audit Auditor, defaultPath string) *AuthHandler {
	return &AuthHandler{gw: gw, verifier: verifier, audit: audit, defaultPath: defaultPath}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	clientID, store, err := clientStore(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	id, err := h.gw.SignIn(r.Context(), clientID, store, req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, r, dto.LoginData{
		Identity: dto.NewIdentityView(id),
		Redirect: guard.SafeReturnPath(req.From, h.defaultPath),
	})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.gw.SignUp(r.Context(), req.ToInput()); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.WriteJSON(w, r, http.StatusAccepted, response.Envelope{Data: dto.StatusResponse{Status: "pending_verification"}})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clientID, store, err := clientStore(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	h.gw.SignOut(r.Context(), clientID, store)
	response.NoContent(w)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		response.WriteError(w, r, domain.ErrNotSupported("verify_email"))
		return
	}

	var req dto.VerifyEmailRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	id, err := h.verifier.VerifyEmail(r.Context(), req.Token)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	h.audit.EmailVerified(r.Context(), id.ID, id.Email)
	response.OK(w, r, dto.VerifiedData{Status: "verified", Identity: dto.NewIdentityView(id)})
}

// ResendVerification always answers 202 for a well-formed address.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		response.WriteError(w, r, domain.ErrNotSupported("resend_verification"))
		return
	}

	var req dto.ResendVerificationRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.verifier.ResendVerification(r.Context(), req.Email); err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("resend verification failed")
	}
	response.WriteJSON(w, r, http.StatusAccepted, response.Envelope{Data: dto.StatusResponse{Status: "ok"}})
}
