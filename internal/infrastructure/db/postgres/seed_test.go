package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

type fakeSeederHasher struct {
	err error
}

func (h fakeSeederHasher) Hash(pw string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "HASH(" + pw + ")", nil
}

type fakeSeederRepo struct {
	mu      sync.Mutex
	created []domain.Operator
	emails  map[string]bool
}

func (r *fakeSeederRepo) Create(ctx context.Context, op domain.Operator) (domain.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emails == nil {
		r.emails = map[string]bool{}
	}
	if r.emails[op.Email] {
		return domain.Operator{}, domain.ErrEmailAlreadyExists()
	}
	r.emails[op.Email] = true
	r.created = append(r.created, op)
	return op, nil
}

func TestSeed_CreatesVerifiedOperators(t *testing.T) {
	repo := &fakeSeederRepo{}
	seeds := []SeedOperator{
		{Email: "analyst@honeypot.local", Password: "s3cret!", DisplayName: "Analyst"},
		{Email: "lead@honeypot.local", Password: "s3cret!"},
	}

	n, err := Seed(context.Background(), repo, fakeSeederHasher{}, seeds)
	if err != nil {
		t.Fatalf("seed err: %v", err)
	}
	if n != 2 || len(repo.created) != 2 {
		t.Fatalf("expected 2 created, got %d", n)
	}
	for _, op := range repo.created {
		if !op.EmailVerified || op.ID == "" || op.PasswordHash != "HASH(s3cret!)" {
			t.Fatalf("unexpected operator: %+v", op)
		}
	}
}

func TestSeed_SkipsExisting(t *testing.T) {
	repo := &fakeSeederRepo{}
	seeds := []SeedOperator{{Email: "a@b.io", Password: "pw1234"}}

	_, _ = Seed(context.Background(), repo, fakeSeederHasher{}, seeds)
	n, err := Seed(context.Background(), repo, fakeSeederHasher{}, seeds)
	if err != nil || n != 0 {
		t.Fatalf("expected restart-safe seed, got n=%d err=%v", n, err)
	}
}

func TestSeed_HashErrorStops(t *testing.T) {
	boom := errors.New("boom")
	_, err := Seed(context.Background(), &fakeSeederRepo{}, fakeSeederHasher{err: boom}, []SeedOperator{{Email: "a@b.io", Password: "x"}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected hash error, got %v", err)
	}
}
