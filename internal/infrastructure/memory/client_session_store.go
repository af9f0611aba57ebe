package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

type clientEntry struct {
	cs        domain.ClientSession
	expiresAt time.Time
}

// ClientSessionStore keeps cookie bindings in process. They do not survive a restart.
type ClientSessionStore struct {
	mu   sync.Mutex
	byID map[string]clientEntry
	now  func() time.Time
}

func NewClientSessionStore() *ClientSessionStore {
	return &ClientSessionStore{byID: make(map[string]clientEntry), now: time.Now}
}

func (s *ClientSessionStore) Save(ctx context.Context, cs domain.ClientSession, ttl time.Duration) error {
	if strings.TrimSpace(cs.ID) == "" {
		return domain.ErrMissingField("id")
	}
	if ttl <= 0 {
		return domain.ErrMissingField("ttl")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[cs.ID] = clientEntry{cs: cs, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *ClientSessionStore) Get(ctx context.Context, id string) (domain.ClientSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return domain.ClientSession{}, domain.ErrClientSessionNotFound()
	}
	if s.now().After(e.expiresAt) {
		delete(s.byID, id)
		return domain.ClientSession{}, domain.ErrClientSessionNotFound()
	}
	return e.cs, nil
}

func (s *ClientSessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
	return nil
}
