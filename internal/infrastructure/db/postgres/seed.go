package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	Create(ctx context.Context, op domain.Operator) (domain.Operator, error)
}

type SeedOperator struct {
	Email       string
	Password    string
	DisplayName string
}

// Seed creates verified operators. Existing emails are skipped so it is restart safe.
func Seed(ctx context.Context, repo SeederRepo, hasher SeederHasher, seeds []SeedOperator) (created int, err error) {
	for _, s := range seeds {
		hash, err := hasher.Hash(s.Password)
		if err != nil {
			return created, err
		}

		_, err = repo.Create(ctx, domain.Operator{
			ID:            uuid.NewString(),
			Email:         s.Email,
			DisplayName:   s.DisplayName,
			PasswordHash:  hash,
			EmailVerified: true,
		})
		if domain.Is(err, "email_already_exists") {
			logger.Ctx(ctx).Debug().Str("email", s.Email).Msg("[seed] operator exists")
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}

	logger.Ctx(ctx).Info().Int("created", created).Msg("[seed] operators seeded")
	return created, nil
}
