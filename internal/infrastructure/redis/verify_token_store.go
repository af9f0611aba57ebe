package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

// VerifyTokenStore keeps email-verification tokens: ott:verify_email:<token> -> operator id.
type VerifyTokenStore struct {
	rdb    *goredis.Client
	prefix string
}

func NewVerifyTokenStore(c *Client) *VerifyTokenStore {
	return &VerifyTokenStore{
		rdb:    rdbOf(c),
		prefix: "ott:verify_email:",
	}
}

func (s *VerifyTokenStore) Save(ctx context.Context, token, operatorID string, ttl time.Duration) error {
	token = strings.TrimSpace(token)
	operatorID = strings.TrimSpace(operatorID)
	if token == "" {
		return domain.ErrMissingField("token")
	}
	if operatorID == "" {
		return domain.ErrMissingField("operator_id")
	}
	if ttl <= 0 {
		return domain.ErrMissingField("ttl")
	}
	if s.rdb == nil {
		return unavailable(errNotConfigured)
	}
	if err := s.rdb.Set(ctx, s.prefix+token, operatorID, ttl).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// Consume atomically reads and deletes a token. Unknown, expired and already
// used tokens all yield verify_token_not_found.
func (s *VerifyTokenStore) Consume(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrMissingField("token")
	}
	if s.rdb == nil {
		return "", unavailable(errNotConfigured)
	}

	const lua = `
local v = redis.call("GET", KEYS[1])
if not v then
  return nil
end
redis.call("DEL", KEYS[1])
return v
`
	res, err := s.rdb.Eval(ctx, lua, []string{s.prefix + token}).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return "", unavailable(err)
	}
	id, ok := res.(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", domain.ErrVerifyTokenNotFound()
	}
	return id, nil
}
