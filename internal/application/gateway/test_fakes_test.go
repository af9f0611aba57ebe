package gateway

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

/*
Fakes for ports
*/

type fakeProvider struct {
	mu sync.Mutex

	signInFn  func(email, password string) (domain.ProviderSession, error)
	currentFn func(token string) (domain.Identity, error)

	// injected errors
	signUpErr  error
	signOutErr error

	// record calls
	signInCalls  int
	signUpCalls  []domain.Registration
	signedOut    []string
	currentCalls int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		signInFn: func(email, password string) (domain.ProviderSession, error) {
			if email == "analyst@honeypot.local" && password == "correct-horse" {
				return domain.ProviderSession{
					Identity: domain.Identity{ID: "op-1", Email: email},
					Token:    "tok-1",
				}, nil
			}
			return domain.ProviderSession{}, domain.ErrInvalidCredentials()
		},
		currentFn: func(token string) (domain.Identity, error) {
			if token == "tok-1" {
				return domain.Identity{ID: "op-1", Email: "analyst@honeypot.local"}, nil
			}
			return domain.Identity{}, domain.ErrTokenInvalid()
		},
	}
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (domain.ProviderSession, error) {
	f.mu.Lock()
	f.signInCalls++
	fn := f.signInFn
	f.mu.Unlock()
	return fn(email, password)
}

func (f *fakeProvider) SignUp(ctx context.Context, reg domain.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signUpCalls = append(f.signUpCalls, reg)
	return f.signUpErr
}

func (f *fakeProvider) SignOut(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedOut = append(f.signedOut, token)
	return f.signOutErr
}

func (f *fakeProvider) CurrentIdentity(ctx context.Context, token string) (domain.Identity, error) {
	f.mu.Lock()
	f.currentCalls++
	fn := f.currentFn
	f.mu.Unlock()
	return fn(token)
}

type fakeClientSessions struct {
	mu sync.Mutex

	byID map[string]domain.ClientSession
	ttls map[string]time.Duration

	saveErr   error
	getErr    error
	deleteErr error
	deleted   []string
}

func newFakeClientSessions() *fakeClientSessions {
	return &fakeClientSessions{
		byID: map[string]domain.ClientSession{},
		ttls: map[string]time.Duration{},
	}
}

func (f *fakeClientSessions) Save(ctx context.Context, cs domain.ClientSession, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.byID[cs.ID] = cs
	f.ttls[cs.ID] = ttl
	return nil
}

func (f *fakeClientSessions) Get(ctx context.Context, id string) (domain.ClientSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return domain.ClientSession{}, f.getErr
	}
	cs, ok := f.byID[id]
	if !ok {
		return domain.ClientSession{}, domain.ErrClientSessionNotFound()
	}
	return cs, nil
}

func (f *fakeClientSessions) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byID, id)
	return nil
}

type auditEntry struct {
	action string
	fields map[string]string
}

func newSvcForTest(t *testing.T) (*Service, *fakeProvider, *fakeClientSessions, *[]auditEntry) {
	t.Helper()

	p := newFakeProvider()
	cs := newFakeClientSessions()
	var mu sync.Mutex
	var audits []auditEntry

	svc := NewService(p, cs, Config{ClientSessionTTL: time.Hour}).
		WithAudit(func(_ context.Context, action string, fields map[string]string) {
			mu.Lock()
			defer mu.Unlock()
			audits = append(audits, auditEntry{action: action, fields: fields})
		})
	return svc, p, cs, &audits
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}
