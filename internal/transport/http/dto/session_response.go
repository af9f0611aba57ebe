package dto

import (
	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/guard"
	"github.com/Gourab-ghosh21/digital-spark/internal/session"
)

type IdentityView struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

func NewIdentityView(id domain.Identity) IdentityView {
	return IdentityView{ID: id.ID, Email: id.Email, DisplayName: id.DisplayName}
}

// SessionView is the public snapshot of a client's Session Store.
type SessionView struct {
	Phase    string        `json:"phase"` // loading | authenticated | unauthenticated
	Loading  bool          `json:"loading"`
	Identity *IdentityView `json:"identity"`
}

func NewSessionView(st session.State) SessionView {
	v := SessionView{
		Phase:   guard.Evaluate(st).String(),
		Loading: st.Loading,
	}
	if !st.Loading && st.Identity != nil {
		iv := NewIdentityView(*st.Identity)
		v.Identity = &iv
	}
	return v
}

// LoginData is returned by the JSON sign-in. Redirect is the vetted return path.
type LoginData struct {
	Identity IdentityView `json:"identity"`
	Redirect string       `json:"redirect"`
}

type StatusResponse struct {
	Status string `json:"status"` // "ok" | "pending_verification" | "verified"
}

// VerifiedData is returned once an email link is confirmed.
type VerifiedData struct {
	Status   string       `json:"status"`
	Identity IdentityView `json:"identity"`
}
