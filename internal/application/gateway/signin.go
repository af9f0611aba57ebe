package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
	"github.com/Gourab-ghosh21/digital-spark/internal/tracing"
)

// SignIn authenticates against the provider and binds the result to clientID.
// On success the store holds the identity; on any failure it holds none.
// Errors are returned as *domain.Error values.
func (s *Service) SignIn(ctx context.Context, clientID string, store Session, email, password string) (domain.Identity, error) {
	ctx, span := tracing.StartSpan(ctx, "gateway.SignIn")
	defer span.End()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Identity{}, s.failSignIn(ctx, clientID, store, email, domain.ErrInvalidCredentials())
	}

	ps, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return domain.Identity{}, s.failSignIn(ctx, clientID, store, email, asDomainError(err))
	}
	if !ps.Identity.Valid() {
		s.revoke(ctx, ps.Token)
		return domain.Identity{}, s.failSignIn(ctx, clientID, store, email, domain.ErrProviderUnavailable(errors.New("provider returned an incomplete identity")))
	}

	expires := s.now().Add(s.clientTTL)
	if !ps.ExpiresAt.IsZero() && ps.ExpiresAt.Before(expires) {
		expires = ps.ExpiresAt
	}
	ttl := expires.Sub(s.now())
	if ttl <= 0 {
		return domain.Identity{}, s.failSignIn(ctx, clientID, store, email, domain.ErrTokenExpired())
	}
	// A previous credential bound to this cookie is replaced, not leaked.
	prev, prevErr := s.sessions.Get(ctx, clientID)
	cs := domain.ClientSession{ID: clientID, ProviderToken: ps.Token, ExpiresAt: expires}
	if err := s.sessions.Save(ctx, cs, ttl); err != nil {
		s.revoke(ctx, ps.Token)
		return domain.Identity{}, s.failSignIn(ctx, clientID, store, email, asDomainError(err))
	}
	if prevErr == nil && prev.ProviderToken != ps.Token {
		s.revoke(ctx, prev.ProviderToken)
	}

	id := ps.Identity
	store.Resolve(&id)

	signInTotal.WithLabelValues("success").Inc()
	s.audit(ctx, "sign_in_success", map[string]string{
		"operator_id":    id.ID,
		"email":          id.Email,
		"client_session": clientID,
	})
	return id, nil
}

// failSignIn leaves the cookie with no identity and no stored credential, so a
// later resolve cannot bring back whoever was signed in before.
func (s *Service) failSignIn(ctx context.Context, clientID string, store Session, email string, err *domain.Error) error {
	store.Clear()
	s.release(ctx, clientID)

	signInTotal.WithLabelValues(err.Code).Inc()
	s.audit(ctx, "sign_in_failed", map[string]string{
		"email":  email,
		"reason": err.Code,
	})
	if err.Kind == domain.KindInfrastructure || err.Kind == domain.KindInternal {
		logger.Ctx(ctx).Warn().Err(err).Msg("sign-in failed on provider error")
	}
	return err
}

// revoke signs a provider credential out, logging instead of failing.
func (s *Service) revoke(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.provider.SignOut(ctx, token); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("provider sign-out failed")
	}
}

// asDomainError keeps domain errors as they are and treats anything else as a provider outage.
func asDomainError(err error) *domain.Error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}
	return domain.ErrProviderUnavailable(err)
}
