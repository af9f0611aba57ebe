package local

import (
	"context"
	"time"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

type OperatorRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.Operator, error)
	GetByID(ctx context.Context, id string) (domain.Operator, error)
	Create(ctx context.Context, op domain.Operator) (domain.Operator, error)
	SetEmailVerified(ctx context.Context, id string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// SessionStore holds opaque provider sessions. Lookup returns domain.ErrSessionInvalid
// for unknown, expired or revoked tokens.
type SessionStore interface {
	Create(ctx context.Context, operatorID string, ttl time.Duration) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	RevokeAll(ctx context.Context, operatorID string) error
}

type VerifyTokenStore interface {
	Save(ctx context.Context, token, operatorID string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

// Notifier delivers verification links (RabbitMQ event, SMTP, or log).
type Notifier interface {
	SendVerifyEmail(ctx context.Context, msg domain.VerifyEmailMessage) error
}
