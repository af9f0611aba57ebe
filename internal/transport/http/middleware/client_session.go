package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/Gourab-ghosh21/digital-spark/internal/application/gateway"
	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/infrastructure/security"
	"github.com/Gourab-ghosh21/digital-spark/internal/session"
	"github.com/Gourab-ghosh21/digital-spark/internal/transport/http/response"
)

type SessionResolver interface {
	Resolve(ctx context.Context, clientID string, store gateway.Session) *gateway.Future[*domain.Identity]
}

type ClientSessionConfig struct {
	Registry  *session.Registry
	Resolver  SessionResolver
	CookieTTL time.Duration
	Secure    bool

	// ResolveTimeout bounds the background session fetch started for a new store.
	ResolveTimeout time.Duration
	// ResolveWait is how long a request waits for a loading store before the
	// handler sees it. Zero means the handler always sees the loading state first.
	ResolveWait time.Duration
}

// ClientSession attaches the caller's Session Store to the request context.
// A caller without a session cookie gets a fresh id. A store seen for the
// first time starts resolving in the background.
func ClientSession(cfg ClientSessionConfig) func(http.Handler) http.Handler {
	if cfg.ResolveTimeout <= 0 {
		cfg.ResolveTimeout = 5 * time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := security.ReadClientSession(r)
			if !ok {
				fresh, err := security.NewClientSessionID()
				if err != nil {
					response.WriteError(w, r, err)
					return
				}
				id = fresh
				security.SetClientSession(w, id, cfg.CookieTTL, cfg.Secure)
			}

			store, created := cfg.Registry.GetOrCreate(id)
			if created {
				startResolve(r.Context(), cfg, id, store)
			}

			if cfg.ResolveWait > 0 && store.State().Loading {
				wctx, cancel := context.WithTimeout(r.Context(), cfg.ResolveWait)
				_, _ = store.Wait(wctx)
				cancel()
			}

			next.ServeHTTP(w, r.WithContext(session.WithStore(r.Context(), id, store)))
		})
	}
}

// startResolve detaches from the request so a client that disconnects early
// still leaves its store settled.
func startResolve(parent context.Context, cfg ClientSessionConfig, id string, store *session.Store) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), cfg.ResolveTimeout)
	f := cfg.Resolver.Resolve(ctx, id, store)
	go func() {
		<-f.Done()
		cancel()
	}()
}
