package http_handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gourab-ghosh21/digital-spark/internal/application/gateway"
	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/session"
)

// Gateway is the slice of the auth gateway the handlers drive.
type Gateway interface {
	SignIn(ctx context.Context, clientID string, store gateway.Session, email, password string) (domain.Identity, error)
	SignUp(ctx context.Context, in gateway.SignUpInput) error
	SignOut(ctx context.Context, clientID string, store gateway.Session)
}

// EmailVerifier is implemented by providers that own email confirmation.
// It is nil when the provider handles verification itself.
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, token string) (domain.Identity, error)
	ResendVerification(ctx context.Context, email string) error
}

type Auditor interface {
	EmailVerified(ctx context.Context, operatorID, email string)
}

// clientStore returns the Session Store the client-session middleware attached.
func clientStore(r *http.Request) (string, *session.Store, error) {
	store, ok := session.FromContext(r.Context())
	if !ok {
		return "", nil, domain.ErrInternal(errors.New("no session store in request context"))
	}
	return session.ClientIDFromContext(r.Context()), store, nil
}
