package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

// MinPasswordLength is the shortest access code accepted at sign-up.
const MinPasswordLength = 6

// AuditFunc receives gateway audit events. audit.Logger.Record satisfies it.
type AuditFunc func(ctx context.Context, action string, fields map[string]string)

type Config struct {
	// ClientSessionTTL caps how long a cookie stays bound to a provider credential.
	ClientSessionTTL time.Duration
}

// Service is the auth gateway: the only component that mutates a client's Session Store.
type Service struct {
	provider IdentityProvider
	sessions ClientSessionStore
	validate *validator.Validate

	clientTTL time.Duration
	audit     AuditFunc
	now       func() time.Time
}

func NewService(provider IdentityProvider, sessions ClientSessionStore, cfg Config) *Service {
	ttl := cfg.ClientSessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		provider:  provider,
		sessions:  sessions,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		clientTTL: ttl,
		audit:     func(context.Context, string, map[string]string) {},
		now:       time.Now,
	}
}

func (s *Service) WithAudit(fn AuditFunc) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func domainCode(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "non_domain_error"
}
