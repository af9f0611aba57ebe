package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestError_ErrorString_NoCause(t *testing.T) {
	err := New(KindAuth, "invalid_credentials", "invalid email or password")

	msg := err.Error()
	if msg == "" {
		t.Fatal("expected non-empty error string")
	}
}

func TestError_ErrorString_WithCause(t *testing.T) {
	root := errors.New("root cause")
	err := Wrap(KindInternal, "hash_failed", "hash failed", root)

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}
}

func TestWithMeta_AttachesMeta(t *testing.T) {
	err := ErrMissingField("email")

	if err.Meta["field"] != "email" {
		t.Fatalf("unexpected meta value: %+v", err.Meta)
	}
}

func TestIs_MatchesCode(t *testing.T) {
	err := ErrInvalidCredentials()

	if !Is(err, "invalid_credentials") {
		t.Fatalf("expected code match")
	}
	if Is(err, "something_else") {
		t.Fatalf("unexpected code match")
	}
	if Is(errors.New("plain"), "invalid_credentials") {
		t.Fatalf("plain errors must not match")
	}
}

func TestIs_WrappedDomainError(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrPasswordMismatch())

	if !Is(err, "password_mismatch") {
		t.Fatalf("expected wrapped code match")
	}
}

func TestMessage_VerbatimForDomainErrors(t *testing.T) {
	if got := Message(ErrPasswordMismatch()); got != "Access codes do not match." {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := Message(ErrWeakPassword(6)); got != "Access code must be at least 6 characters." {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := Message(ErrInvalidCredentials()); got != "Invalid credentials. Access denied." {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestMessage_HidesNonDomainDetails(t *testing.T) {
	got := Message(errors.New("dial tcp 10.0.0.1:5432: connection refused"))
	if got == "" || got == "dial tcp 10.0.0.1:5432: connection refused" {
		t.Fatalf("expected generic message, got %q", got)
	}
	if Message(nil) != "" {
		t.Fatalf("expected empty message for nil")
	}
}

func TestIdentity_Valid(t *testing.T) {
	if (Identity{}).Valid() {
		t.Fatalf("zero identity must be invalid")
	}
	if (Identity{ID: "op-1"}).Valid() {
		t.Fatalf("identity without email must be invalid")
	}
	if !(Identity{ID: "op-1", Email: "a@b.io"}).Valid() {
		t.Fatalf("expected valid identity")
	}
}

func TestClientSession_Expired(t *testing.T) {
	now := time.Now()

	if (ClientSession{}).Expired(now) {
		t.Fatalf("zero expiry means no expiry")
	}
	if !(ClientSession{ExpiresAt: now.Add(-time.Second)}).Expired(now) {
		t.Fatalf("expected expired")
	}
	if (ClientSession{ExpiresAt: now.Add(time.Minute)}).Expired(now) {
		t.Fatalf("expected not expired")
	}
}

func TestOperator_Identity(t *testing.T) {
	op := Operator{ID: "op-1", Email: "a@b.io", DisplayName: "Ana", PasswordHash: "x"}

	id := op.Identity()
	if id.ID != "op-1" || id.Email != "a@b.io" || id.DisplayName != "Ana" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}
