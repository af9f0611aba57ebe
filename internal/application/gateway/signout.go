package gateway

import (
	"context"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
)

// SignOut clears the store first and unconditionally, then revokes the
// provider credential and forgets the client session. Cleanup failures are
// logged, never returned. Calling it again is harmless.
func (s *Service) SignOut(ctx context.Context, clientID string, store Session) {
	prev := store.State().Identity
	store.Clear()

	s.release(ctx, clientID)

	if prev != nil {
		s.audit(ctx, "sign_out", map[string]string{
			"operator_id":    prev.ID,
			"client_session": clientID,
		})
	}
}

// release revokes the credential bound to clientID and drops the binding.
func (s *Service) release(ctx context.Context, clientID string) {
	cs, err := s.sessions.Get(ctx, clientID)
	switch {
	case err == nil:
		s.revoke(ctx, cs.ProviderToken)
		if err := s.sessions.Delete(ctx, clientID); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("client session delete failed")
		}
	case !domain.Is(err, "client_session_not_found"):
		logger.Ctx(ctx).Warn().Err(err).Msg("client session lookup failed")
	}
}
