package http_handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/Gourab-ghosh21/digital-spark/internal/application/gateway"
	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/session"
)

type fakeGateway struct {
	mu        sync.Mutex
	identity  domain.Identity
	password  string
	signUpErr error
	signUps   []gateway.SignUpInput
	signOuts  int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		identity: domain.Identity{ID: "op-1", Email: "ana@example.com", DisplayName: "Ana"},
		password: "secret1",
	}
}

func (g *fakeGateway) SignIn(ctx context.Context, clientID string, store gateway.Session, email, password string) (domain.Identity, error) {
	if strings.TrimSpace(email) != g.identity.Email || password != g.password {
		store.Clear()
		return domain.Identity{}, domain.ErrInvalidCredentials()
	}
	id := g.identity
	store.Resolve(&id)
	return id, nil
}

func (g *fakeGateway) SignUp(ctx context.Context, in gateway.SignUpInput) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if in.Password != in.ConfirmPassword {
		return domain.ErrPasswordMismatch()
	}
	if g.signUpErr != nil {
		return g.signUpErr
	}
	g.signUps = append(g.signUps, in)
	return nil
}

func (g *fakeGateway) SignOut(ctx context.Context, clientID string, store gateway.Session) {
	g.mu.Lock()
	g.signOuts++
	g.mu.Unlock()
	store.Clear()
}

type fakeVerifier struct {
	mu      sync.Mutex
	tokens  map[string]domain.Identity
	resends []string
	err     error
}

func (v *fakeVerifier) VerifyEmail(ctx context.Context, token string) (domain.Identity, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id, ok := v.tokens[token]
	if !ok {
		return domain.Identity{}, domain.ErrVerifyTokenNotFound()
	}
	delete(v.tokens, token)
	return id, nil
}

func (v *fakeVerifier) ResendVerification(ctx context.Context, email string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resends = append(v.resends, email)
	return v.err
}

type fakeAuditor struct {
	verified []string
}

func (a *fakeAuditor) EmailVerified(ctx context.Context, operatorID, email string) {
	a.verified = append(a.verified, operatorID)
}

// withStore attaches a client session store the way the middleware does.
func withStore(req *http.Request, clientID string, store *session.Store) *http.Request {
	return req.WithContext(session.WithStore(req.Context(), clientID, store))
}

func settledStore(id *domain.Identity) *session.Store {
	s := session.NewStore()
	s.Resolve(id)
	return s
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// mustReadJSON decodes a {"data": ...} envelope into out.
func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	wrapped := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &wrapped); err != nil || len(wrapped.Data) == 0 {
		t.Fatalf("decode json failed; body=%s", string(raw))
	}
	if err := json.Unmarshal(wrapped.Data, out); err != nil {
		t.Fatalf("decode data failed; body=%s err=%v", string(raw), err)
	}
}

func errorCode(t *testing.T, r io.Reader) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code
}
