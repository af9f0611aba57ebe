package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderLocal   = "local"
	ProviderAuthAPI = "authapi"
	ProviderOIDC    = "oidc"
)

type Config struct {
	// App
	Env      string // dev / staging / prod
	HTTPAddr string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Console sessions
	PublicOrigin     string
	AllowedOrigins   []string
	CookieSecure     bool
	ClientSessionTTL time.Duration
	StoreIdleTTL     time.Duration
	SweepInterval    time.Duration
	ResolveWait      time.Duration // how long a request waits for a fresh store to settle

	// Auth rate limiting (per IP, per window)
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// Identity provider selection
	IdentityProvider string

	// local provider
	DBAddr               string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	RabbitURL            string
	ProviderSessionTTL   time.Duration
	VerifyEmailBaseURL   string
	VerifyEmailTokenTTL  time.Duration
	RequireVerifiedEmail bool
	BcryptCost           int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// authapi provider
	AuthAPIBaseURL   string
	AuthAPIJWTSecret string
	AuthAPITimeout   time.Duration

	// oidc provider
	OIDCIssuerURL    string
	OIDCClientID     string
	OIDCClientSecret string

	// Observability
	ServiceVersion string
	OTLPEndpoint   string
}

func (c *Config) IsDev() bool { return c.Env == "dev" }

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first without overriding variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		PublicOrigin:     strings.TrimRight(getEnv("PUBLIC_ORIGIN", "http://localhost:8080"), "/"),
		IdentityProvider: strings.ToLower(getEnv("IDENTITY_PROVIDER", ProviderLocal)),
		DBAddr:           os.Getenv("DB_ADDR"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RabbitURL:        os.Getenv("RABBIT_URL"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:         getEnv("SMTP_FROM", "no-reply@honeypot.local"),
		AuthAPIBaseURL:   strings.TrimRight(os.Getenv("AUTHAPI_BASE_URL"), "/"),
		AuthAPIJWTSecret: os.Getenv("AUTHAPI_JWT_SECRET"),
		OIDCIssuerURL:    os.Getenv("OIDC_ISSUER_URL"),
		OIDCClientID:     os.Getenv("OIDC_CLIENT_ID"),
		OIDCClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
		ServiceVersion:   getEnv("SERVICE_VERSION", "dev"),
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	cfg.AllowedOrigins = []string{cfg.PublicOrigin}
	for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" && o != cfg.PublicOrigin {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	var err error
	if cfg.CookieSecure, err = getBool("COOKIE_SECURE", cfg.Env != "dev"); err != nil {
		return nil, err
	}
	if cfg.RequireVerifiedEmail, err = getBool("REQUIRE_VERIFIED_EMAIL", true); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 12); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = getInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.AuthRateLimit, err = getInt("AUTH_RATE_LIMIT", 10); err != nil {
		return nil, err
	}

	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"HTTP_READ_TIMEOUT", 10 * time.Second, &cfg.HTTPReadTimeout},
		{"HTTP_WRITE_TIMEOUT", 30 * time.Second, &cfg.HTTPWriteTimeout},
		{"HTTP_IDLE_TIMEOUT", time.Minute, &cfg.HTTPIdleTimeout},
		{"CLIENT_SESSION_TTL", 12 * time.Hour, &cfg.ClientSessionTTL},
		{"STORE_IDLE_TTL", 30 * time.Minute, &cfg.StoreIdleTTL},
		{"STORE_SWEEP_INTERVAL", time.Minute, &cfg.SweepInterval},
		{"AUTH_RATE_WINDOW", time.Minute, &cfg.AuthRateWindow},
		{"PROVIDER_SESSION_TTL", 12 * time.Hour, &cfg.ProviderSessionTTL},
		{"VERIFY_EMAIL_TOKEN_TTL", 24 * time.Hour, &cfg.VerifyEmailTokenTTL},
		{"AUTHAPI_TIMEOUT", 5 * time.Second, &cfg.AuthAPITimeout},
	}
	// zero disables the wait
	if cfg.ResolveWait, err = getDuration("SESSION_RESOLVE_WAIT", 250*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.ResolveWait < 0 {
		return nil, fmt.Errorf("SESSION_RESOLVE_WAIT must not be negative")
	}
	for _, d := range durations {
		v, err := getDuration(d.key, d.def)
		if err != nil {
			return nil, err
		}
		if v <= 0 {
			return nil, fmt.Errorf("%s must be positive", d.key)
		}
		*d.dst = v
	}

	if err := cfg.validateProvider(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateProvider fails fast on settings the selected identity provider cannot run without.
func (c *Config) validateProvider() error {
	switch c.IdentityProvider {
	case ProviderLocal:
		c.VerifyEmailBaseURL = getEnv("VERIFY_EMAIL_BASE_URL", c.PublicOrigin+"/verify-email?token=")
		if !strings.Contains(c.VerifyEmailBaseURL, "token=") {
			return fmt.Errorf("VERIFY_EMAIL_BASE_URL must contain `token=`")
		}
		if c.DBAddr != "" && !strings.HasPrefix(c.DBAddr, "postgres://") && !strings.HasPrefix(c.DBAddr, "postgresql://") {
			return fmt.Errorf("DB_ADDR must be a postgres:// URL")
		}
		if !c.IsDev() && c.DBAddr == "" {
			return fmt.Errorf("missing required env var: DB_ADDR")
		}
	case ProviderAuthAPI:
		if c.AuthAPIBaseURL == "" {
			return fmt.Errorf("missing required env var: AUTHAPI_BASE_URL")
		}
	case ProviderOIDC:
		for k, v := range map[string]string{
			"OIDC_ISSUER_URL":    c.OIDCIssuerURL,
			"OIDC_CLIENT_ID":     c.OIDCClientID,
			"OIDC_CLIENT_SECRET": c.OIDCClientSecret,
		} {
			if v == "" {
				return fmt.Errorf("missing required env var: %s", k)
			}
		}
	default:
		return fmt.Errorf("unknown IDENTITY_PROVIDER %q", c.IdentityProvider)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}
