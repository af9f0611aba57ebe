package config

import (
	"os"
	"testing"
	"time"
)

var allKeys = []string{
	"ENV", "HTTP_ADDR", "PUBLIC_ORIGIN", "ALLOWED_ORIGINS", "IDENTITY_PROVIDER", "DB_ADDR",
	"REDIS_ADDR", "RABBIT_URL", "VERIFY_EMAIL_BASE_URL", "REQUIRE_VERIFIED_EMAIL", "COOKIE_SECURE",
	"AUTHAPI_BASE_URL", "AUTHAPI_JWT_SECRET", "OIDC_ISSUER_URL", "OIDC_CLIENT_ID",
	"OIDC_CLIENT_SECRET", "STORE_IDLE_TTL", "CLIENT_SESSION_TTL", "AUTH_RATE_LIMIT", "BCRYPT_COST",
	"REDIS_PASSWORD", "REDIS_DB", "SESSION_RESOLVE_WAIT", "SERVICE_VERSION", "OTEL_EXPORTER_OTLP_ENDPOINT",
}

func setEnv(t *testing.T, k, v string) {
	t.Helper()
	old, ok := os.LookupEnv(k)
	os.Setenv(k, v)
	t.Cleanup(func() {
		if ok {
			os.Setenv(k, old)
		} else {
			os.Unsetenv(k)
		}
	})
}

func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		setEnv(t, k, "")
	}
}

func TestLoad_DevDefaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IdentityProvider != ProviderLocal {
		t.Fatalf("expected local provider, got %q", cfg.IdentityProvider)
	}
	if cfg.HTTPAddr != ":8080" || cfg.CookieSecure {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.VerifyEmailBaseURL != "http://localhost:8080/verify-email?token=" {
		t.Fatalf("unexpected verify url: %q", cfg.VerifyEmailBaseURL)
	}
	if !cfg.RequireVerifiedEmail {
		t.Fatalf("expected verified email required by default")
	}
	if cfg.StoreIdleTTL != 30*time.Minute || cfg.ClientSessionTTL != 12*time.Hour {
		t.Fatalf("unexpected ttl defaults: %v %v", cfg.StoreIdleTTL, cfg.ClientSessionTTL)
	}
}

func TestLoad_ProdRequiresDB(t *testing.T) {
	cleanEnv(t)
	setEnv(t, "ENV", "prod")

	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}

	setEnv(t, "DB_ADDR", "postgres://u:p@localhost:5432/console")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.CookieSecure {
		t.Fatalf("expected secure cookies outside dev")
	}
}

func TestLoad_InvalidDBAddr(t *testing.T) {
	cleanEnv(t)
	setEnv(t, "DB_ADDR", "mysql://localhost/db")

	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad_InvalidVerifyEmailURL(t *testing.T) {
	cleanEnv(t)
	setEnv(t, "VERIFY_EMAIL_BASE_URL", "https://x/verify")

	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad_AuthAPIRequiresBaseURL(t *testing.T) {
	cleanEnv(t)
	setEnv(t, "IDENTITY_PROVIDER", "authapi")

	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}

	setEnv(t, "AUTHAPI_BASE_URL", "http://auth:8080/")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AuthAPIBaseURL != "http://auth:8080" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.AuthAPIBaseURL)
	}
}

func TestLoad_OIDCRequiresClient(t *testing.T) {
	cleanEnv(t)
	setEnv(t, "IDENTITY_PROVIDER", "OIDC")
	setEnv(t, "OIDC_ISSUER_URL", "http://kc/realms/console")
	setEnv(t, "OIDC_CLIENT_ID", "console")

	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}

	setEnv(t, "OIDC_CLIENT_SECRET", "s3cret")
	if _, err := Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_UnknownProvider(t *testing.T) {
	cleanEnv(t)
	setEnv(t, "IDENTITY_PROVIDER", "ldap")

	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"STORE_IDLE_TTL":         "soon",
		"CLIENT_SESSION_TTL":     "-1h",
		"AUTH_RATE_LIMIT":        "many",
		"REQUIRE_VERIFIED_EMAIL": "maybe",
		"REDIS_DB":               "one",
		"SESSION_RESOLVE_WAIT":   "-5ms",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			cleanEnv(t)
			setEnv(t, k, v)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", k, v)
			}
		})
	}
}

func TestLoad_AllowedOriginsDeduplicated(t *testing.T) {
	cleanEnv(t)
	setEnv(t, "PUBLIC_ORIGIN", "https://console.example")
	setEnv(t, "ALLOWED_ORIGINS", "https://console.example/, https://ops.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://ops.example" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoad_ResolveWait(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ResolveWait != 250*time.Millisecond {
		t.Fatalf("unexpected default: %v", cfg.ResolveWait)
	}

	setEnv(t, "SESSION_RESOLVE_WAIT", "0s")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ResolveWait != 0 {
		t.Fatalf("expected wait disabled, got %v", cfg.ResolveWait)
	}
}
