package memory

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

type providerEntry struct {
	operatorID string
	expiresAt  time.Time
}

// ProviderSessionStore is the in-process twin of the Redis provider session store.
type ProviderSessionStore struct {
	mu      sync.RWMutex
	byToken map[string]providerEntry
	byOp    map[string]map[string]struct{}
	now     func() time.Time
}

func NewProviderSessionStore() *ProviderSessionStore {
	return &ProviderSessionStore{
		byToken: make(map[string]providerEntry),
		byOp:    make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

func (s *ProviderSessionStore) Create(ctx context.Context, operatorID string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(operatorID) == "" {
		return "", domain.ErrMissingField("operator_id")
	}
	if ttl <= 0 {
		return "", domain.ErrMissingField("ttl")
	}
	tok, err := newOpaqueToken(32)
	if err != nil {
		return "", domain.ErrRandomFailed(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byToken[tok] = providerEntry{operatorID: operatorID, expiresAt: s.now().Add(ttl)}
	if s.byOp[operatorID] == nil {
		s.byOp[operatorID] = make(map[string]struct{})
	}
	s.byOp[operatorID][tok] = struct{}{}
	return tok, nil
}

func (s *ProviderSessionStore) Lookup(ctx context.Context, token string) (string, error) {
	s.mu.RLock()
	e, ok := s.byToken[token]
	s.mu.RUnlock()

	if !ok {
		return "", domain.ErrSessionInvalid()
	}
	if s.now().After(e.expiresAt) {
		_ = s.Revoke(ctx, token)
		return "", domain.ErrSessionInvalid()
	}
	return e.operatorID, nil
}

func (s *ProviderSessionStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.byToken[token]; ok {
		delete(s.byOp[e.operatorID], token)
		delete(s.byToken, token)
	}
	return nil
}

func (s *ProviderSessionStore) RevokeAll(ctx context.Context, operatorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for tok := range s.byOp[operatorID] {
		delete(s.byToken, tok)
	}
	delete(s.byOp, operatorID)
	return nil
}

func newOpaqueToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
