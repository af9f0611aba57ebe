package local

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
)

type Config struct {
	SessionTTL           time.Duration
	VerifyTokenTTL       time.Duration
	VerifyBaseURL        string
	RequireVerifiedEmail bool
}

// Provider is the self-hosted identity provider: operators, bcrypt hashes and
// opaque session tokens owned by the console itself.
type Provider struct {
	operators OperatorRepo
	hasher    PasswordHasher
	sessions  SessionStore
	verify    VerifyTokenStore
	notifier  Notifier

	cfg Config
	now func() time.Time
}

func New(operators OperatorRepo, hasher PasswordHasher, sessions SessionStore, verify VerifyTokenStore, notifier Notifier, cfg Config) *Provider {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	if cfg.VerifyTokenTTL <= 0 {
		cfg.VerifyTokenTTL = 24 * time.Hour
	}
	return &Provider{
		operators: operators,
		hasher:    hasher,
		sessions:  sessions,
		verify:    verify,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
	}
}

// SignIn never reveals whether the email exists. Lock and verification state
// are only reported once the password has matched.
func (p *Provider) SignIn(ctx context.Context, email, password string) (domain.ProviderSession, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return domain.ProviderSession{}, domain.ErrInvalidCredentials()
	}

	op, err := p.operators.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "operator_not_found") {
			return domain.ProviderSession{}, domain.ErrInvalidCredentials()
		}
		return domain.ProviderSession{}, err
	}
	if err := p.hasher.Compare(op.PasswordHash, password); err != nil {
		return domain.ProviderSession{}, domain.ErrInvalidCredentials()
	}
	if op.Locked {
		return domain.ProviderSession{}, domain.ErrAccountLocked()
	}
	if p.cfg.RequireVerifiedEmail && !op.EmailVerified {
		return domain.ProviderSession{}, domain.ErrEmailNotVerified()
	}

	token, err := p.sessions.Create(ctx, op.ID, p.cfg.SessionTTL)
	if err != nil {
		return domain.ProviderSession{}, err
	}
	return domain.ProviderSession{
		Identity:  op.Identity(),
		Token:     token,
		ExpiresAt: p.now().Add(p.cfg.SessionTTL),
	}, nil
}

// SignUp creates an unverified operator and sends the verification link.
// A delivery failure is logged; the operator can ask for a new link.
func (p *Provider) SignUp(ctx context.Context, reg domain.Registration) error {
	email := domain.NormalizeEmail(reg.Email)
	if email == "" {
		return domain.ErrMissingField("email")
	}
	if reg.Password == "" {
		return domain.ErrMissingField("password")
	}

	hash, err := p.hasher.Hash(reg.Password)
	if err != nil {
		return err
	}

	op, err := p.operators.Create(ctx, domain.Operator{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(reg.DisplayName),
		PasswordHash: hash,
		CreatedAt:    p.now(),
	})
	if err != nil {
		return err
	}

	if err := p.sendVerification(ctx, op); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("operator_id", op.ID).Msg("verification email not sent")
	}
	return nil
}

func (p *Provider) SignOut(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return p.sessions.Revoke(ctx, token)
}

func (p *Provider) CurrentIdentity(ctx context.Context, token string) (domain.Identity, error) {
	operatorID, err := p.sessions.Lookup(ctx, token)
	if err != nil {
		return domain.Identity{}, err
	}

	op, err := p.operators.GetByID(ctx, operatorID)
	if err != nil {
		if domain.Is(err, "operator_not_found") {
			return domain.Identity{}, domain.ErrSessionInvalid()
		}
		return domain.Identity{}, err
	}
	if op.Locked {
		return domain.Identity{}, domain.ErrAccountLocked()
	}
	return op.Identity(), nil
}

// VerifyEmail consumes a one-time token and marks the operator's address confirmed.
func (p *Provider) VerifyEmail(ctx context.Context, token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, domain.ErrMissingField("token")
	}

	operatorID, err := p.verify.Consume(ctx, token)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := p.operators.SetEmailVerified(ctx, operatorID); err != nil {
		return domain.Identity{}, err
	}

	op, err := p.operators.GetByID(ctx, operatorID)
	if err != nil {
		return domain.Identity{}, err
	}
	return op.Identity(), nil
}

// ResendVerification issues a fresh link. Unknown or already verified
// addresses succeed silently.
func (p *Provider) ResendVerification(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.ErrMissingField("email")
	}

	op, err := p.operators.GetByEmail(ctx, email)
	if err != nil || op.EmailVerified {
		return nil
	}
	return p.sendVerification(ctx, op)
}

// RevokeAll signs an operator out of every console session.
func (p *Provider) RevokeAll(ctx context.Context, operatorID string) error {
	return p.sessions.RevokeAll(ctx, operatorID)
}

func (p *Provider) sendVerification(ctx context.Context, op domain.Operator) error {
	token, err := newOpaqueToken(32)
	if err != nil {
		return domain.ErrRandomFailed(err)
	}
	if err := p.verify.Save(ctx, token, op.ID, p.cfg.VerifyTokenTTL); err != nil {
		return err
	}

	return p.notifier.SendVerifyEmail(ctx, domain.VerifyEmailMessage{
		OperatorID:  op.ID,
		Email:       op.Email,
		DisplayName: op.DisplayName,
		URL:         p.cfg.VerifyBaseURL + token,
	})
}

func newOpaqueToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
