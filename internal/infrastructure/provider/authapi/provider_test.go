package authapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/httpclient"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/security"
)

// fakeAuthService mimics the auth-service /auth/v1 surface.
type fakeAuthService struct {
	mu         sync.Mutex
	users      map[string]string // email -> password
	verifyReqs []string
	loggedOut  []string
	meCalls    int
	token      string
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{"error": map[string]string{"code": code, "message": code}})
}

func (f *fakeAuthService) router() http.Handler {
	r := chi.NewRouter()
	r.Route("/auth/v1", func(r chi.Router) {
		r.Post("/register", func(w http.ResponseWriter, r *http.Request) {
			var c credentials
			_ = json.NewDecoder(r.Body).Decode(&c)
			f.mu.Lock()
			defer f.mu.Unlock()
			if _, ok := f.users[c.Email]; ok {
				writeErr(w, http.StatusConflict, "email_already_exists")
				return
			}
			f.users[c.Email] = c.Password
			writeJSON(w, http.StatusCreated, map[string]any{"data": map[string]any{}})
		})
		r.Post("/verify-email/request", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.mu.Lock()
			f.verifyReqs = append(f.verifyReqs, body["email"])
			f.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		})
		r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
			var c credentials
			_ = json.NewDecoder(r.Body).Decode(&c)
			f.mu.Lock()
			pw, ok := f.users[c.Email]
			f.mu.Unlock()
			if !ok || pw != c.Password {
				writeErr(w, http.StatusUnauthorized, "invalid_credentials")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"data": authData{
				User:   userView{ID: "u-1", Email: c.Email, Role: "user"},
				Tokens: tokensView{AccessToken: f.token, TokenType: "Bearer", ExpiresIn: 900},
			}})
		})
		r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.loggedOut = append(f.loggedOut, r.Header.Get("Authorization"))
			f.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.meCalls++
			f.mu.Unlock()
			if r.Header.Get("Authorization") != "Bearer "+f.token {
				writeErr(w, http.StatusUnauthorized, "token_invalid")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"data": meData{User: userView{ID: "u-1", Email: "a@b.io"}}})
		})
	})
	return r
}

func newServer(t *testing.T, token string) (*fakeAuthService, *httptest.Server) {
	t.Helper()
	f := &fakeAuthService{users: map[string]string{}, token: token}
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)
	return f, srv
}

func TestSignUp_RegistersAndRequestsVerification(t *testing.T) {
	f, srv := newServer(t, "tok")
	p := New(Config{BaseURL: srv.URL + "/", Timeout: time.Second})

	require.NoError(t, p.SignUp(context.Background(), domain.Registration{Email: "a@b.io", Password: "secret1"}))
	assert.Equal(t, []string{"a@b.io"}, f.verifyReqs)

	err := p.SignUp(context.Background(), domain.Registration{Email: "a@b.io", Password: "secret1"})
	assert.True(t, domain.Is(err, "email_already_exists"))
}

func TestSignIn_SuccessAndFailure(t *testing.T) {
	f, srv := newServer(t, "tok")
	f.users["a@b.io"] = "secret1"
	p := New(Config{BaseURL: srv.URL, Timeout: time.Second})

	ps, err := p.SignIn(context.Background(), "a@b.io", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok", ps.Token)
	assert.Equal(t, domain.Identity{ID: "u-1", Email: "a@b.io"}, ps.Identity)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), ps.ExpiresAt, 5*time.Second)

	_, err = p.SignIn(context.Background(), "a@b.io", "wrong")
	assert.True(t, domain.Is(err, "invalid_credentials"))
}

func TestCurrentIdentity_FallsBackToMe(t *testing.T) {
	f, srv := newServer(t, "tok")
	p := New(Config{BaseURL: srv.URL, Timeout: time.Second})

	id, err := p.CurrentIdentity(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "a@b.io", id.Email)

	_, err = p.CurrentIdentity(context.Background(), "other")
	assert.True(t, domain.Is(err, "session_invalid"))
	assert.Equal(t, 2, f.meCalls)
}

func TestCurrentIdentity_VerifiesLocallyWhenClaimsCarryEmail(t *testing.T) {
	signer := security.NewJWTSigner("secret", "auth-service")
	tok, err := signer.Sign(security.TokenClaims{OperatorID: "u-1", Email: "a@b.io"}, time.Minute)
	require.NoError(t, err)

	f, srv := newServer(t, tok)
	p := New(Config{BaseURL: srv.URL, Timeout: time.Second, Verifier: signer})

	id, err := p.CurrentIdentity(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.ID)
	assert.Equal(t, 0, f.meCalls, "valid token with email must not hit /me")

	expired, _ := signer.Sign(security.TokenClaims{OperatorID: "u-1"}, -time.Second)
	_, err = p.CurrentIdentity(context.Background(), expired)
	assert.True(t, domain.Is(err, "token_expired"))
	assert.Equal(t, 0, f.meCalls)
}

func TestCurrentIdentity_ClaimsWithoutEmailAskMe(t *testing.T) {
	signer := security.NewJWTSigner("secret", "auth-service")
	tok, _ := signer.Sign(security.TokenClaims{OperatorID: "u-1", Role: "user"}, time.Minute)

	f, srv := newServer(t, tok)
	p := New(Config{BaseURL: srv.URL, Timeout: time.Second, Verifier: signer})

	id, err := p.CurrentIdentity(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "a@b.io", id.Email)
	assert.Equal(t, 1, f.meCalls)
}

func TestSignOut_SendsBearer(t *testing.T) {
	f, srv := newServer(t, "tok")
	p := New(Config{BaseURL: srv.URL, Timeout: time.Second})

	require.NoError(t, p.SignOut(context.Background(), "tok"))
	require.NoError(t, p.SignOut(context.Background(), ""))
	assert.Equal(t, []string{"Bearer tok"}, f.loggedOut)
}

func TestProvider_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	p := New(Config{BaseURL: url, Timeout: time.Second})

	_, err := p.SignIn(context.Background(), "a@b.io", "x")
	assert.True(t, domain.Is(err, "provider_unavailable"))
}

func TestMapError(t *testing.T) {
	cases := []struct {
		status int
		code   string
		signIn bool
		want   string
	}{
		{http.StatusUnauthorized, "whatever", true, "invalid_credentials"},
		{http.StatusNotFound, "user_not_found", true, "invalid_credentials"},
		{http.StatusUnauthorized, "token_invalid", false, "session_invalid"},
		{http.StatusUnauthorized, "token_expired", false, "token_expired"},
		{http.StatusForbidden, "email_not_verified", true, "email_not_verified"},
		{http.StatusForbidden, "forbidden", true, "account_locked"},
		{http.StatusTooManyRequests, "rate_limited", true, "rate_limited"},
		{http.StatusBadRequest, "weak_password", false, "weak_password"},
		{http.StatusBadGateway, "downstream_error", false, "provider_unavailable"},
	}
	for _, tc := range cases {
		err := mapError(&httpclient.StatusError{StatusCode: tc.status, Code: tc.code}, tc.signIn)
		assert.Equal(t, tc.want, err.Code, "status=%d code=%s", tc.status, tc.code)
	}
}
