package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

// ClientSessionStore persists cookie -> provider credential bindings as JSON under cs:<id>.
type ClientSessionStore struct {
	rdb    *goredis.Client
	prefix string
}

func NewClientSessionStore(c *Client) *ClientSessionStore {
	return &ClientSessionStore{
		rdb:    rdbOf(c),
		prefix: "cs:",
	}
}

func (s *ClientSessionStore) Save(ctx context.Context, cs domain.ClientSession, ttl time.Duration) error {
	if strings.TrimSpace(cs.ID) == "" {
		return domain.ErrMissingField("id")
	}
	if ttl <= 0 {
		return domain.ErrMissingField("ttl")
	}
	if s.rdb == nil {
		return unavailable(errNotConfigured)
	}

	data, err := json.Marshal(cs)
	if err != nil {
		return domain.ErrInternal(fmt.Errorf("client session marshal: %w", err))
	}
	if err := s.rdb.Set(ctx, s.prefix+cs.ID, data, ttl).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *ClientSessionStore) Get(ctx context.Context, id string) (domain.ClientSession, error) {
	if strings.TrimSpace(id) == "" {
		return domain.ClientSession{}, domain.ErrClientSessionNotFound()
	}
	if s.rdb == nil {
		return domain.ClientSession{}, unavailable(errNotConfigured)
	}

	val, err := s.rdb.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.ClientSession{}, domain.ErrClientSessionNotFound()
		}
		return domain.ClientSession{}, unavailable(err)
	}

	var cs domain.ClientSession
	if err := json.Unmarshal(val, &cs); err != nil {
		// A corrupt entry is as good as none.
		_ = s.rdb.Del(ctx, s.prefix+id).Err()
		return domain.ClientSession{}, domain.ErrClientSessionNotFound()
	}
	return cs, nil
}

func (s *ClientSessionStore) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	if s.rdb == nil {
		return unavailable(errNotConfigured)
	}
	if err := s.rdb.Del(ctx, s.prefix+id).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}
