package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

type verifyEntry struct {
	operatorID string
	expiresAt  time.Time
}

type VerifyTokenStore struct {
	mu     sync.Mutex
	tokens map[string]verifyEntry
	now    func() time.Time
}

func NewVerifyTokenStore() *VerifyTokenStore {
	return &VerifyTokenStore{tokens: make(map[string]verifyEntry), now: time.Now}
}

func (s *VerifyTokenStore) Save(ctx context.Context, token, operatorID string, ttl time.Duration) error {
	if strings.TrimSpace(token) == "" {
		return domain.ErrMissingField("token")
	}
	if strings.TrimSpace(operatorID) == "" {
		return domain.ErrMissingField("operator_id")
	}
	if ttl <= 0 {
		return domain.ErrMissingField("ttl")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = verifyEntry{operatorID: operatorID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *VerifyTokenStore) Consume(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", domain.ErrMissingField("token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tokens[token]
	delete(s.tokens, token)
	if !ok || s.now().After(e.expiresAt) {
		return "", domain.ErrVerifyTokenNotFound()
	}
	return e.operatorID, nil
}
