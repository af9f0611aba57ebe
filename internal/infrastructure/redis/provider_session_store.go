package redis

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

// ProviderSessionStore keeps the local provider's opaque sessions with per-operator versioning:
// - ps:<token> -> "<operator_id>:<ver>" with TTL
// - psver:<operator_id> -> <ver>
// - RevokeAll increments psver:<operator_id>
// - Lookup checks the token's ver == current psver:<operator_id>
type ProviderSessionStore struct {
	rdb *goredis.Client

	prefix    string
	verPrefix string

	tokenBytes int
}

func NewProviderSessionStore(c *Client) *ProviderSessionStore {
	return &ProviderSessionStore{
		rdb:        rdbOf(c),
		prefix:     "ps:",
		verPrefix:  "psver:",
		tokenBytes: 32,
	}
}

func (s *ProviderSessionStore) Create(ctx context.Context, operatorID string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(operatorID) == "" {
		return "", domain.ErrMissingField("operator_id")
	}
	if ttl <= 0 {
		return "", domain.ErrMissingField("ttl")
	}
	if s.rdb == nil {
		return "", unavailable(errNotConfigured)
	}

	ver, err := s.currentVersion(ctx, operatorID)
	if err != nil {
		return "", err
	}

	b := make([]byte, s.tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", domain.ErrRandomFailed(err)
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	val := fmt.Sprintf("%s:%d", operatorID, ver)
	if err := s.rdb.Set(ctx, s.prefix+token, val, ttl).Err(); err != nil {
		return "", unavailable(err)
	}
	return token, nil
}

func (s *ProviderSessionStore) Lookup(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrSessionInvalid()
	}
	if s.rdb == nil {
		return "", unavailable(errNotConfigured)
	}

	val, err := s.rdb.Get(ctx, s.prefix+token).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", domain.ErrSessionInvalid()
		}
		return "", unavailable(err)
	}

	id, tokVer, err := parseIDVer(val)
	if err != nil {
		return "", domain.ErrSessionInvalid()
	}
	curVer, err := s.currentVersion(ctx, id)
	if err != nil {
		return "", err
	}
	if tokVer != curVer {
		return "", domain.ErrSessionInvalid()
	}
	return id, nil
}

// Revoke is idempotent.
func (s *ProviderSessionStore) Revoke(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if s.rdb == nil {
		return unavailable(errNotConfigured)
	}
	if err := s.rdb.Del(ctx, s.prefix+token).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *ProviderSessionStore) RevokeAll(ctx context.Context, operatorID string) error {
	if strings.TrimSpace(operatorID) == "" {
		return domain.ErrMissingField("operator_id")
	}
	if s.rdb == nil {
		return unavailable(errNotConfigured)
	}
	if err := s.rdb.Incr(ctx, s.verPrefix+operatorID).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *ProviderSessionStore) currentVersion(ctx context.Context, operatorID string) (int64, error) {
	key := s.verPrefix + operatorID

	v, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		if n, perr := strconv.ParseInt(strings.TrimSpace(v), 10, 64); perr == nil {
			return n, nil
		}
	} else if !errors.Is(err, goredis.Nil) {
		return 0, unavailable(err)
	}

	// SETNX keeps a concurrent writer's value stable.
	_ = s.rdb.SetNX(ctx, key, "0", 0).Err()
	return 0, nil
}

func parseIDVer(s string) (id string, ver int64, err error) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return "", 0, fmt.Errorf("bad session value")
	}
	id = strings.TrimSpace(s[:i])
	if id == "" {
		return "", 0, fmt.Errorf("empty operator id")
	}
	ver, err = strconv.ParseInt(strings.TrimSpace(s[i+1:]), 10, 64)
	if err != nil {
		return "", 0, err
	}
	return id, ver, nil
}
