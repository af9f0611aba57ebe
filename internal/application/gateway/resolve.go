package gateway

import (
	"context"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
	"github.com/Gourab-ghosh21/digital-spark/internal/tracing"
)

// Resolve fetches the identity bound to clientID and settles the store with it.
// Missing, expired or rejected credentials settle to no identity with a nil
// error. Provider or storage failures also settle to no identity, and the
// error is carried on the future. Cancelling ctx aborts the fetch.
func (s *Service) Resolve(ctx context.Context, clientID string, store Session) *Future[*domain.Identity] {
	f := newFuture[*domain.Identity]()
	go func() {
		ctx, span := tracing.StartSpan(ctx, "gateway.Resolve")
		defer span.End()

		id, err := s.resolve(ctx, clientID)
		if store.Settle(id) {
			resolveTotal.WithLabelValues(resolveOutcome(id, err)).Inc()
		}
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("session resolve failed")
		}
		f.complete(id, err)
	}()
	return f
}

func (s *Service) resolve(ctx context.Context, clientID string) (*domain.Identity, error) {
	if clientID == "" {
		return nil, nil
	}
	cs, err := s.sessions.Get(ctx, clientID)
	if err != nil {
		if domain.Is(err, "client_session_not_found") {
			return nil, nil
		}
		return nil, err
	}
	if cs.Expired(s.now()) {
		s.forget(ctx, clientID)
		return nil, nil
	}

	id, err := s.provider.CurrentIdentity(ctx, cs.ProviderToken)
	if err != nil {
		if de := asDomainError(err); de.Kind == domain.KindAuth || de.Kind == domain.KindNotFound || de.Kind == domain.KindForbidden {
			s.forget(ctx, clientID)
			return nil, nil
		}
		return nil, err
	}
	if !id.Valid() {
		return nil, nil
	}
	return &id, nil
}

func (s *Service) forget(ctx context.Context, clientID string) {
	if err := s.sessions.Delete(ctx, clientID); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("stale client session delete failed")
	}
}

func resolveOutcome(id *domain.Identity, err error) string {
	switch {
	case err != nil:
		return "error"
	case id != nil:
		return "authenticated"
	default:
		return "anonymous"
	}
}
