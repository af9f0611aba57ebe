package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Gourab-ghosh21/digital-spark/internal/application/gateway"
	"github.com/Gourab-ghosh21/digital-spark/internal/audit"
	"github.com/Gourab-ghosh21/digital-spark/internal/config"
	"github.com/Gourab-ghosh21/digital-spark/internal/dashboard"
	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/guard"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/db/postgres"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/email"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/memory"
	rabbitmq_pub "github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/messaging/rabbitmq"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/provider/authapi"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/provider/local"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/provider/oidc"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/redis"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/security"
	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
	"github.com/Gourab-ghosh21/digital-spark/internal/session"
	"github.com/Gourab-ghosh21/digital-spark/internal/tracing"
	http_handlers "github.com/Gourab-ghosh21/digital-spark/internal/transport/http/handlers"
	"github.com/Gourab-ghosh21/digital-spark/internal/transport/http/middleware"
	"github.com/Gourab-ghosh21/digital-spark/internal/transport/http/router"
	"github.com/Gourab-ghosh21/digital-spark/internal/transport/http/views"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	// NewDB is only called when DB_ADDR is set.
	NewDB func(dsn string) (*sql.DB, error)

	NewRedis func(addr, password string, db int) RedisClient

	// NewPublisher is only called when RABBIT_URL is set.
	NewPublisher func(rabbitURL string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)

	// NewIdentityProvider overrides provider selection. Nil uses IDENTITY_PROVIDER.
	NewIdentityProvider func(ctx context.Context, cfg *config.Config) (gateway.IdentityProvider, error)

	// Registerer receives the session gauge. Nil means prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

// Publisher delivers verification links; *rabbitmq.Publisher satisfies it.
type Publisher interface {
	SendVerifyEmail(ctx context.Context, msg domain.VerifyEmailMessage) error
}

// devOperator is seeded into the local provider in dev so the console is usable out of the box.
var devOperator = postgres.SeedOperator{
	Email:       "analyst@honeypot.local",
	Password:    "honeypot",
	DisplayName: "Duty Analyst",
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 1) tracing
	tp, err := tracing.Init(context.Background(), tracing.Config{
		ServiceVersion: cfg.ServiceVersion,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Insecure:       cfg.IsDev(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("tracing: %w", err)
	}
	cleanupFns = append(cleanupFns, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	})
	if tp.Enabled() {
		logger.Log.Info().Str("endpoint", cfg.OTLPEndpoint).Msg("tracing enabled")
	}

	checks := map[string]http_handlers.Check{}

	// 2) db (optional; local provider falls back to memory)
	var db *sql.DB
	if cfg.DBAddr != "" && deps.NewDB != nil {
		db, err = deps.NewDB(cfg.DBAddr)
		if err != nil {
			return fail(fmt.Errorf("db: %w", err))
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })
		checks["db"] = db.PingContext
	}

	// 3) redis (best-effort)
	var redisCli *redis.Client
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			logger.Log.Warn().Err(err).Msg("redis unavailable; using in-memory stores")
			_ = c.Close()
		} else {
			logger.Log.Info().Msg("redis connected")
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			checks["redis"] = c.Ping
			redisCli, _ = c.(*redis.Client)
		}
	}

	// 4) client session mapping
	var clientSessions gateway.ClientSessionStore = memory.NewClientSessionStore()
	if redisCli != nil {
		clientSessions = redis.NewClientSessionStore(redisCli)
	}

	// 5) identity provider
	var (
		provider gateway.IdentityProvider
		verifier http_handlers.EmailVerifier
	)
	switch {
	case deps.NewIdentityProvider != nil:
		provider, err = deps.NewIdentityProvider(context.Background(), cfg)
		if err != nil {
			return fail(err)
		}
		if v, ok := provider.(http_handlers.EmailVerifier); ok {
			verifier = v
		}

	case cfg.IdentityProvider == config.ProviderAuthAPI:
		var v authapi.TokenVerifier
		if cfg.AuthAPIJWTSecret != "" {
			v = security.NewJWTSigner(cfg.AuthAPIJWTSecret, "")
		}
		provider = authapi.New(authapi.Config{
			BaseURL:  cfg.AuthAPIBaseURL,
			Timeout:  cfg.AuthAPITimeout,
			Verifier: v,
		})

	case cfg.IdentityProvider == config.ProviderOIDC:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		p, err := oidc.New(ctx, oidc.Config{
			IssuerURL:            cfg.OIDCIssuerURL,
			ClientID:             cfg.OIDCClientID,
			ClientSecret:         cfg.OIDCClientSecret,
			RequireVerifiedEmail: cfg.RequireVerifiedEmail,
		})
		cancel()
		if err != nil {
			return fail(fmt.Errorf("oidc: %w", err))
		}
		provider = p

	default:
		p, closers, err := newLocalProvider(cfg, deps, db, redisCli)
		cleanupFns = append(cleanupFns, closers...)
		if err != nil {
			return fail(err)
		}
		provider, verifier = p, p
	}
	logger.Log.Info().Str("provider", cfg.IdentityProvider).Msg("identity provider ready")

	// 6) gateway + audit
	auditLog := audit.New(logger.Log)
	gw := gateway.NewService(provider, clientSessions, gateway.Config{
		ClientSessionTTL: cfg.ClientSessionTTL,
	}).WithAudit(auditLog.Record)

	// 7) session registry
	registry := session.NewRegistry(cfg.StoreIdleTTL)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	cleanupFns = append(cleanupFns, stopSweep)
	go registry.Run(sweepCtx, cfg.SweepInterval, func(evicted int) {
		logger.Log.Debug().Int("evicted", evicted).Int("active", registry.Len()).Msg("session stores swept")
	})

	reg := deps.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := middleware.RegisterSessionGauge(reg, registry.Len); err != nil {
		return fail(fmt.Errorf("metrics: %w", err))
	}

	// 8) views, guard, handlers
	rd, err := views.New()
	if err != nil {
		return fail(fmt.Errorf("views: %w", err))
	}
	g := guard.New(guard.Config{Loading: rd.Loading()})
	feed := dashboard.NewFeed()

	pagesH := http_handlers.NewPageHandler(gw, verifier, auditLog, feed, rd, g)
	authH := http_handlers.NewAuthHandler(gw, verifier, auditLog, g.DefaultPath())
	sessionH := http_handlers.NewSessionHandler(registry, 0)
	dashH := http_handlers.NewDashboardHandler(feed)
	healthH := http_handlers.NewHealthHandler(checks)

	// rate limit (fail-open; httprate when redis is off)
	var fwLimiter middleware.RateLimiter
	if redisCli != nil {
		fwLimiter = redis.NewFixedWindowLimiter(redisCli)
	}
	rl := func(key string) router.Middleware {
		return middleware.RateLimit(fwLimiter, middleware.FixedWindowConfig{
			RouteKey: key,
			Limit:    cfg.AuthRateLimit,
			Window:   cfg.AuthRateWindow,
		})
	}

	// 9) router
	mux, err := deps.NewRouter(router.Deps{
		Health:    healthH,
		Pages:     pagesH,
		Auth:      authH,
		Session:   sessionH,
		Dashboard: dashH,
		Metrics:   promhttp.Handler(),

		Global: []router.Middleware{
			middleware.RequestID,
			chimw.RealIP,
			middleware.RequestLogger(logger.Log),
			chimw.Recoverer,
			middleware.SecurityHeaders(cfg.CookieSecure),
			middleware.Metrics,
			middleware.Tracing(tracing.ServiceName),
		},

		ClientSessionMW: middleware.ClientSession(middleware.ClientSessionConfig{
			Registry:    registry,
			Resolver:    gw,
			CookieTTL:   cfg.ClientSessionTTL,
			Secure:      cfg.CookieSecure,
			ResolveWait: cfg.ResolveWait,
		}),
		GuardMW:  g.Wrap,
		OriginMW: middleware.OriginCheck(cfg.AllowedOrigins),

		LoginLimitMW:  rl("auth.login"),
		SignupLimitMW: rl("auth.signup"),
		ResendLimitMW: rl("auth.verify_email.resend"),
	})
	if err != nil {
		return fail(err)
	}

	// 10) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

// newLocalProvider assembles the self-hosted provider. The returned closers
// must run even when an error is returned.
func newLocalProvider(cfg *config.Config, deps Deps, db *sql.DB, redisCli *redis.Client) (*local.Provider, []func(), error) {
	var closers []func()

	var operators interface {
		local.OperatorRepo
		postgres.SeederRepo
	}
	if db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := postgres.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			return nil, closers, fmt.Errorf("schema: %w", err)
		}
		operators = postgres.NewOperatorRepo(db)
	} else {
		logger.Log.Warn().Msg("DB_ADDR not set; operators are kept in memory")
		operators = memory.NewOperatorRepo()
	}

	var (
		sessions local.SessionStore     = memory.NewProviderSessionStore()
		verify   local.VerifyTokenStore = memory.NewVerifyTokenStore()
	)
	if redisCli != nil {
		sessions = redis.NewProviderSessionStore(redisCli)
		verify = redis.NewVerifyTokenStore(redisCli)
	}

	notifier, closer, err := newNotifier(cfg, deps)
	if closer != nil {
		closers = append(closers, closer)
	}
	if err != nil {
		return nil, closers, err
	}

	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	// seed (dev only)
	if cfg.IsDev() {
		if _, err := postgres.Seed(context.Background(), operators, hasher, []postgres.SeedOperator{devOperator}); err != nil {
			logger.Log.Warn().Err(err).Msg("dev seed failed")
		}
	}

	p := local.New(operators, hasher, sessions, verify, notifier, local.Config{
		SessionTTL:           cfg.ProviderSessionTTL,
		VerifyTokenTTL:       cfg.VerifyEmailTokenTTL,
		VerifyBaseURL:        cfg.VerifyEmailBaseURL,
		RequireVerifiedEmail: cfg.RequireVerifiedEmail,
	})
	return p, closers, nil
}

// newNotifier prefers the broker, then direct SMTP, then a log-only notifier.
// A broker that cannot be reached is fatal outside dev.
func newNotifier(cfg *config.Config, deps Deps) (local.Notifier, func(), error) {
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		pub, err := deps.NewPublisher(cfg.RabbitURL)
		switch {
		case err == nil:
			var closer func()
			if c, ok := pub.(interface{ Close() error }); ok {
				closer = func() { _ = c.Close() }
			}
			return pub, closer, nil
		case !cfg.IsDev():
			return nil, nil, fmt.Errorf("rabbitmq: %w", err)
		default:
			logger.Log.Warn().Err(err).Msg("rabbitmq unavailable; falling back")
		}
	}

	if cfg.SMTPHost != "" {
		return email.NewSMTPNotifier(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			Insecure: cfg.IsDev(),
		}, logger.Log), nil, nil
	}

	logger.Log.Warn().Msg("no mail transport configured; verification links are only logged")
	return memory.NewLogNotifier(), nil, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
