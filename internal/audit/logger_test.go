package audit

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	pkgctx "github.com/Gourab-ghosh21/digital-spark/internal/pkg/context"
)

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"analyst@honeypot.local": "an***@honeypot.local",
		"a@honeypot.local":       "a***@honeypot.local",
		"abc":                    "***",
		"no-at-sign":             "***",
	}
	for in, want := range cases {
		if got := maskEmail(in); got != want {
			t.Fatalf("maskEmail(%q)=%q want %q", in, got, want)
		}
	}
}

func TestSignInSucceeded_WritesMaskedFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf))

	ctx := pkgctx.WithRequestID(context.Background(), "req-7")
	l.SignInSucceeded(ctx, "op-1", "analyst@honeypot.local", "0123456789abcdef")

	out := buf.String()
	for _, want := range []string{
		`"audit":true`,
		`"action":"sign_in_success"`,
		`"email":"an***@honeypot.local"`,
		`"client_session":"01234567"`,
		`"request_id":"req-7"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
	if strings.Contains(out, "analyst@") {
		t.Fatalf("raw email leaked: %s", out)
	}
}

func TestRecord_DispatchesKnownAndUnknownActions(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf))

	l.Record(context.Background(), "sign_in_failed", map[string]string{"email": "analyst@honeypot.local", "reason": "invalid_credentials"})
	l.Record(context.Background(), "custom", map[string]string{"email": "analyst@honeypot.local"})

	out := buf.String()
	if !strings.Contains(out, `"action":"sign_in_failed"`) || !strings.Contains(out, `"reason":"invalid_credentials"`) {
		t.Fatalf("unexpected output: %s", out)
	}
	if !strings.Contains(out, `"action":"custom"`) || strings.Contains(out, "analyst@") {
		t.Fatalf("unexpected output: %s", out)
	}
}
