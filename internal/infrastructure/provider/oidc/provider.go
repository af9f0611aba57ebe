package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
)

type Config struct {
	IssuerURL            string
	ClientID             string
	ClientSecret         string
	RequireVerifiedEmail bool
	Timeout              time.Duration
}

// Provider signs operators in against an OpenID Connect realm (Keycloak style)
// with the resource-owner password grant. The stored credential is the raw ID token.
type Provider struct {
	oauth    *oauth2.Config
	verifier *gooidc.IDTokenVerifier
	client   *http.Client

	requireVerified bool
}

// New runs issuer discovery, so the realm must be reachable at boot.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.IssuerURL == "" || cfg.ClientID == "" {
		return nil, errors.New("oidc config missing issuer or client id")
	}
	client := newHTTPClient(cfg.Timeout)

	discovered, err := gooidc.NewProvider(gooidc.ClientContext(ctx, client), cfg.IssuerURL)
	if err != nil {
		return nil, domain.ErrProviderUnavailable(fmt.Errorf("oidc discovery: %w", err))
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     discovered.Endpoint(),
		Scopes:       []string{gooidc.ScopeOpenID, "email", "profile"},
	}
	verifier := discovered.Verifier(&gooidc.Config{ClientID: cfg.ClientID})
	return newProvider(oauthCfg, verifier, client, cfg.RequireVerifiedEmail), nil
}

func newProvider(oauthCfg *oauth2.Config, verifier *gooidc.IDTokenVerifier, client *http.Client, requireVerified bool) *Provider {
	return &Provider{oauth: oauthCfg, verifier: verifier, client: client, requireVerified: requireVerified}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)}
}

type idClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Username      string `json:"preferred_username"`
}

func (c idClaims) identity() domain.Identity {
	name := c.Name
	if name == "" {
		name = c.Username
	}
	return domain.Identity{ID: c.Subject, Email: c.Email, DisplayName: name}
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (domain.ProviderSession, error) {
	tok, err := p.oauth.PasswordCredentialsToken(p.clientCtx(ctx), email, password)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && (re.ErrorCode == "invalid_grant" || re.Response != nil && re.Response.StatusCode == http.StatusUnauthorized) {
			return domain.ProviderSession{}, domain.ErrInvalidCredentials()
		}
		return domain.ProviderSession{}, domain.ErrProviderUnavailable(err)
	}

	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return domain.ProviderSession{}, domain.ErrProviderUnavailable(errors.New("token response without id_token"))
	}

	idToken, claims, err := p.verify(ctx, raw)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("oidc id_token rejected at sign-in")
		return domain.ProviderSession{}, domain.ErrProviderUnavailable(err)
	}
	if p.requireVerified && !claims.EmailVerified {
		return domain.ProviderSession{}, domain.ErrEmailNotVerified()
	}

	return domain.ProviderSession{
		Identity:  claims.identity(),
		Token:     raw,
		ExpiresAt: idToken.Expiry,
	}, nil
}

// SignUp is handled by the realm's own registration flow.
func (p *Provider) SignUp(ctx context.Context, reg domain.Registration) error {
	return domain.ErrNotSupported("sign_up")
}

// SignOut is a no-op: ID tokens are self-contained and expire on their own.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	return nil
}

func (p *Provider) CurrentIdentity(ctx context.Context, token string) (domain.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return domain.Identity{}, domain.ErrTokenInvalid()
	}
	_, claims, err := p.verify(ctx, token)
	if err != nil {
		return domain.Identity{}, err
	}
	return claims.identity(), nil
}

func (p *Provider) verify(ctx context.Context, raw string) (*gooidc.IDToken, idClaims, error) {
	idToken, err := p.verifier.Verify(p.clientCtx(ctx), raw)
	if err != nil {
		var expired *gooidc.TokenExpiredError
		if errors.As(err, &expired) {
			return nil, idClaims{}, domain.ErrTokenExpired()
		}
		return nil, idClaims{}, domain.ErrTokenInvalid()
	}

	var claims idClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, idClaims{}, domain.ErrTokenInvalid()
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, idClaims{}, domain.ErrTokenInvalid()
	}
	return idToken, claims, nil
}

func (p *Provider) clientCtx(ctx context.Context) context.Context {
	if p.client == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, p.client)
}
