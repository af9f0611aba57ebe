// Command tool administers local-provider operators and mints test tokens.
//
//	tool hash   -password <pw> [-cost 12]
//	tool seed   -email <e> -password <pw> [-name <n>] [-db $DB_ADDR]
//	tool token  -sub <id> -email <e> [-secret $AUTHAPI_JWT_SECRET] [-ttl 1h]
//	tool revoke -operator <id> [-redis $REDIS_ADDR]
//	tool lock   -operator <id> [-db $DB_ADDR] [-redis $REDIS_ADDR]
//	tool unlock -operator <id> [-db $DB_ADDR]
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Gourab-ghosh21/digital-spark/internal/config"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/db/postgres"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/redis"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/security"
	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
)

var errUsage = errors.New("usage: tool <hash|seed|token|revoke|lock|unlock> [flags]")

type deps struct {
	openDB   func(dsn string) (*sql.DB, error)
	newRedis func(addr string) *redis.Client
}

func defaultDeps() deps {
	return deps{
		openDB: config.NewDB,
		newRedis: func(addr string) *redis.Client {
			return redis.New(addr, os.Getenv("REDIS_PASSWORD"), 0)
		},
	}
}

func run(ctx context.Context, args []string, out io.Writer, d deps) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	switch cmd {
	case "hash":
		password := fs.String("password", "", "plain password")
		cost := fs.Int("cost", 12, "bcrypt cost")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *password == "" {
			return errors.New("hash: -password is required")
		}
		h, err := security.NewBcryptHasher(*cost).Hash(*password)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, h)
		return err

	case "seed":
		email := fs.String("email", "", "operator email")
		password := fs.String("password", "", "operator access code")
		name := fs.String("name", "", "display name")
		dsn := fs.String("db", os.Getenv("DB_ADDR"), "postgres DSN")
		cost := fs.Int("cost", 12, "bcrypt cost")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *email == "" || *password == "" {
			return errors.New("seed: -email and -password are required")
		}
		db, err := d.openDB(*dsn)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		defer db.Close()

		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		n, err := postgres.Seed(ctx, postgres.NewOperatorRepo(db), security.NewBcryptHasher(*cost), []postgres.SeedOperator{
			{Email: *email, Password: *password, DisplayName: *name},
		})
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		_, err = fmt.Fprintf(out, "created %d operator(s)\n", n)
		return err

	case "token":
		sub := fs.String("sub", "", "operator id")
		email := fs.String("email", "", "operator email")
		secret := fs.String("secret", os.Getenv("AUTHAPI_JWT_SECRET"), "HS256 secret")
		issuer := fs.String("issuer", "", "token issuer")
		role := fs.String("role", "operator", "role claim")
		ttl := fs.Duration("ttl", time.Hour, "token lifetime")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *sub == "" || *secret == "" {
			return errors.New("token: -sub and -secret are required")
		}
		tok, err := security.NewJWTSigner(*secret, *issuer).Sign(security.TokenClaims{
			OperatorID: *sub,
			Email:      *email,
			Role:       *role,
		}, *ttl)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, tok)
		return err

	case "revoke":
		op := fs.String("operator", "", "operator id")
		addr := fs.String("redis", os.Getenv("REDIS_ADDR"), "redis address")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := revokeAll(ctx, d, *addr, *op); err != nil {
			return fmt.Errorf("revoke: %w", err)
		}
		_, err := fmt.Fprintf(out, "revoked sessions of %s\n", *op)
		return err

	case "lock", "unlock":
		op := fs.String("operator", "", "operator id")
		dsn := fs.String("db", os.Getenv("DB_ADDR"), "postgres DSN")
		addr := fs.String("redis", os.Getenv("REDIS_ADDR"), "redis address")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if strings.TrimSpace(*op) == "" {
			return fmt.Errorf("%s: -operator is required", cmd)
		}
		db, err := d.openDB(*dsn)
		if err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
		defer db.Close()

		repo := postgres.NewOperatorRepo(db)
		if cmd == "unlock" {
			err = repo.Unlock(ctx, *op)
		} else {
			err = repo.Lock(ctx, *op)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}

		// a locked operator must not keep live sessions
		if cmd == "lock" && *addr != "" {
			if err := revokeAll(ctx, d, *addr, *op); err != nil {
				return fmt.Errorf("lock: %w", err)
			}
		}
		_, err = fmt.Fprintf(out, "%sed %s\n", cmd, *op)
		return err
	}

	return errUsage
}

func revokeAll(ctx context.Context, d deps, addr, operatorID string) error {
	if addr == "" {
		return errors.New("-redis is required")
	}
	c := d.newRedis(addr)
	defer c.Close()
	return redis.NewProviderSessionStore(c).RevokeAll(ctx, operatorID)
}

func main() {
	_ = godotenv.Load()
	logger.Init()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, defaultDeps()); err != nil {
		logger.Log.Error().Err(err).Msg("tool failed")
		os.Exit(1)
	}
}
