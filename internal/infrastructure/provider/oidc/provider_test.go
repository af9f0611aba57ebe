package oidc

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

const (
	testIssuer   = "https://sso.honeypot.local/realms/console"
	testClientID = "console"
)

type realm struct {
	key      *rsa.PrivateKey
	verified bool
}

func (r *realm) idToken(t *testing.T, ttl time.Duration, claims jwt.MapClaims) string {
	t.Helper()
	base := jwt.MapClaims{
		"iss":            testIssuer,
		"aud":            testClientID,
		"sub":            "kc-1",
		"email":          "analyst@honeypot.local",
		"email_verified": r.verified,
		"name":           "Analyst",
		"iat":            time.Now().Unix(),
		"exp":            time.Now().Add(ttl).Unix(),
	}
	for k, v := range claims {
		base[k] = v
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, base).SignedString(r.key)
	require.NoError(t, err)
	return s
}

func newTestProvider(t *testing.T, verified, requireVerified bool) (*Provider, *realm) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	rl := &realm{key: key, verified: verified}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		if r.Form.Get("grant_type") != "password" || r.Form.Get("password") != "secret1" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid user credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access",
			"token_type":   "Bearer",
			"expires_in":   300,
			"id_token":     rl.idToken(t, 5*time.Minute, nil),
		})
	}))
	t.Cleanup(srv.Close)

	keys := &gooidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	verifier := gooidc.NewVerifier(testIssuer, keys, &gooidc.Config{ClientID: testClientID})
	oauthCfg := &oauth2.Config{
		ClientID:     testClientID,
		ClientSecret: "s3cret",
		Endpoint:     oauth2.Endpoint{TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams},
	}
	return newProvider(oauthCfg, verifier, srv.Client(), requireVerified), rl
}

func TestSignIn_PasswordGrant(t *testing.T) {
	p, _ := newTestProvider(t, true, true)

	ps, err := p.SignIn(context.Background(), "analyst@honeypot.local", "secret1")
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{ID: "kc-1", Email: "analyst@honeypot.local", DisplayName: "Analyst"}, ps.Identity)
	assert.NotEmpty(t, ps.Token)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), ps.ExpiresAt, 5*time.Second)

	id, err := p.CurrentIdentity(context.Background(), ps.Token)
	require.NoError(t, err)
	assert.Equal(t, ps.Identity, id)
}

func TestSignIn_WrongPassword(t *testing.T) {
	p, _ := newTestProvider(t, true, true)

	_, err := p.SignIn(context.Background(), "analyst@honeypot.local", "nope")
	assert.True(t, domain.Is(err, "invalid_credentials"), "got %v", err)
}

func TestSignIn_UnverifiedEmail(t *testing.T) {
	p, _ := newTestProvider(t, false, true)

	_, err := p.SignIn(context.Background(), "analyst@honeypot.local", "secret1")
	assert.True(t, domain.Is(err, "email_not_verified"))

	p.requireVerified = false
	_, err = p.SignIn(context.Background(), "analyst@honeypot.local", "secret1")
	assert.NoError(t, err)
}

func TestCurrentIdentity_RejectsBadTokens(t *testing.T) {
	p, rl := newTestProvider(t, true, true)
	ctx := context.Background()

	_, err := p.CurrentIdentity(ctx, rl.idToken(t, -time.Minute, nil))
	assert.True(t, domain.Is(err, "token_expired"), "got %v", err)

	_, err = p.CurrentIdentity(ctx, rl.idToken(t, time.Minute, jwt.MapClaims{"aud": "someone-else"}))
	assert.True(t, domain.Is(err, "token_invalid"))

	_, err = p.CurrentIdentity(ctx, rl.idToken(t, time.Minute, jwt.MapClaims{"email": ""}))
	assert.True(t, domain.Is(err, "token_invalid"))

	_, err = p.CurrentIdentity(ctx, "")
	assert.True(t, domain.Is(err, "token_invalid"))
}

func TestSignUpAndSignOut(t *testing.T) {
	p, _ := newTestProvider(t, true, true)

	err := p.SignUp(context.Background(), domain.Registration{Email: "a@b.io", Password: "secret1"})
	assert.True(t, domain.Is(err, "not_supported"))
	assert.NoError(t, p.SignOut(context.Background(), "anything"))
}

func TestNew_RequiresIssuerAndClient(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}
