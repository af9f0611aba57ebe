package context

import (
	"context"
	"testing"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")

	if got := GetRequestID(ctx); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	//nolint:staticcheck
	if got := GetRequestID(nil); got != "" {
		t.Fatalf("expected empty for nil ctx, got %q", got)
	}
}
