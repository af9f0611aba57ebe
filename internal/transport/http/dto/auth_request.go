package dto

import (
	"strings"

	"github.com/Gourab-ghosh21/digital-spark/internal/application/gateway"
	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

// -------- Sign-in / sign-up --------

// LoginRequest is not validated here: empty fields fail in the gateway with
// the same message as a wrong password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	From     string `json:"from,omitempty"`
}

type SignupRequest struct {
	DisplayName     string `json:"display_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r SignupRequest) ToInput() gateway.SignUpInput {
	return gateway.SignUpInput{
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		DisplayName:     r.DisplayName,
	}
}

// -------- Email verification --------

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

func (r *ResendVerificationRequest) Validate() error {
	r.Email = domain.NormalizeEmail(r.Email)
	if r.Email == "" {
		return domain.ErrMissingField("email")
	}
	if !strings.Contains(r.Email, "@") {
		return domain.ErrInvalidEmail()
	}
	return nil
}

// VerifyEmailRequest comes from the JSON body or the ?token= link.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

func (q *VerifyEmailRequest) Validate() error {
	q.Token = strings.TrimSpace(q.Token)
	if q.Token == "" {
		return domain.ErrMissingField("token")
	}
	return nil
}
