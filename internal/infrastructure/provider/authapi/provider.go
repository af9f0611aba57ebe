package authapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/httpclient"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/security"
)

// TokenVerifier checks access tokens locally.
type TokenVerifier interface {
	Verify(token string) (security.TokenClaims, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Verifier is optional. Without it every CurrentIdentity call goes to /me.
	Verifier TokenVerifier
}

// Provider talks to an auth-service compatible REST API.
type Provider struct {
	client   *httpclient.Client
	verifier TokenVerifier
	now      func() time.Time
}

func New(cfg Config) *Provider {
	return &Provider{
		client: httpclient.New(strings.TrimRight(cfg.BaseURL, "/"), httpclient.Config{
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		}),
		verifier: cfg.Verifier,
		now:      time.Now,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
	Locked        bool   `json:"locked"`
}

type tokensView struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type authData struct {
	User   userView   `json:"user"`
	Tokens tokensView `json:"tokens"`
}

type meData struct {
	User userView `json:"user"`
}

func (u userView) identity() domain.Identity {
	return domain.Identity{ID: u.ID, Email: u.Email}
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (domain.ProviderSession, error) {
	var data authData
	err := p.client.DoJSON(ctx, http.MethodPost, "/auth/v1/login", nil, credentials{Email: email, Password: password}, &data)
	if err != nil {
		return domain.ProviderSession{}, mapError(err, true)
	}
	if data.Tokens.AccessToken == "" {
		return domain.ProviderSession{}, domain.ErrProviderUnavailable(errors.New("login response without access token"))
	}

	ps := domain.ProviderSession{Identity: data.User.identity(), Token: data.Tokens.AccessToken}
	if data.Tokens.ExpiresIn > 0 {
		ps.ExpiresAt = p.now().Add(time.Duration(data.Tokens.ExpiresIn) * time.Second)
	}
	return ps, nil
}

// SignUp registers the account, then asks the service to mail the verification link.
func (p *Provider) SignUp(ctx context.Context, reg domain.Registration) error {
	err := p.client.DoJSON(ctx, http.MethodPost, "/auth/v1/register", nil, credentials{Email: reg.Email, Password: reg.Password}, nil)
	if err != nil {
		return mapError(err, false)
	}

	body := map[string]string{"email": reg.Email}
	if err := p.client.DoJSON(ctx, http.MethodPost, "/auth/v1/verify-email/request", nil, body, nil); err != nil {
		return mapError(err, false)
	}
	return nil
}

func (p *Provider) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := p.client.DoJSON(ctx, http.MethodPost, "/auth/v1/logout", bearer(token), nil, nil)
	if err == nil {
		return nil
	}
	de := mapError(err, false)
	if de.Kind == domain.KindAuth {
		return nil
	}
	return de
}

func (p *Provider) CurrentIdentity(ctx context.Context, token string) (domain.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return domain.Identity{}, domain.ErrTokenInvalid()
	}

	if p.verifier != nil {
		claims, err := p.verifier.Verify(token)
		if err != nil {
			return domain.Identity{}, err
		}
		if claims.Email != "" {
			return domain.Identity{ID: claims.OperatorID, Email: claims.Email}, nil
		}
	}

	var data meData
	if err := p.client.DoJSON(ctx, http.MethodGet, "/auth/v1/me", bearer(token), nil, &data); err != nil {
		return domain.Identity{}, mapError(err, false)
	}
	if data.User.Locked {
		return domain.Identity{}, domain.ErrAccountLocked()
	}
	return data.User.identity(), nil
}

// mapError turns downstream failures into console errors. During sign-in any
// 401 or 404 becomes invalid credentials so the service cannot be used to probe accounts.
func mapError(err error, signIn bool) *domain.Error {
	var se *httpclient.StatusError
	if !errors.As(err, &se) {
		return domain.ErrProviderUnavailable(err)
	}

	switch se.Code {
	case "email_already_exists":
		return domain.ErrEmailAlreadyExists()
	case "email_not_verified":
		return domain.ErrEmailNotVerified()
	case "account_locked", "user_locked":
		return domain.ErrAccountLocked()
	case "token_expired":
		if !signIn {
			return domain.ErrTokenExpired()
		}
	}

	switch {
	case se.StatusCode == http.StatusUnauthorized, signIn && se.StatusCode == http.StatusNotFound:
		if signIn {
			return domain.ErrInvalidCredentials()
		}
		return domain.ErrSessionInvalid()
	case se.StatusCode == http.StatusForbidden:
		return domain.ErrAccountLocked()
	case se.StatusCode == http.StatusConflict:
		return domain.ErrEmailAlreadyExists()
	case se.StatusCode == http.StatusTooManyRequests:
		return domain.ErrRateLimited("identity_provider")
	case se.StatusCode >= 400 && se.StatusCode < 500:
		msg := se.Message
		if msg == "" {
			msg = "The identity provider rejected the request."
		}
		return domain.New(domain.KindValidation, se.Code, msg)
	default:
		return domain.ErrProviderUnavailable(err)
	}
}
