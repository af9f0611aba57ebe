package gateway

import (
	"context"
	"time"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/session"
)

/*
IdentityProvider
----------------
The external identity service. Tokens it returns are opaque to the gateway
and only ever handed back to the same provider.
*/
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (domain.ProviderSession, error)
	SignUp(ctx context.Context, reg domain.Registration) error
	SignOut(ctx context.Context, token string) error
	CurrentIdentity(ctx context.Context, token string) (domain.Identity, error)
}

/*
ClientSessionStore
------------------
Maps a console cookie to the provider credential behind it so a client's
Session Store can be rebuilt after eviction or restart.
Get returns domain.ErrClientSessionNotFound when nothing is stored.
*/
type ClientSessionStore interface {
	Save(ctx context.Context, cs domain.ClientSession, ttl time.Duration) error
	Get(ctx context.Context, id string) (domain.ClientSession, error)
	Delete(ctx context.Context, id string) error
}

/*
Session
-------
The mutating side of a client's Session Store. Only the gateway holds it.
*/
type Session interface {
	State() session.State
	Resolve(id *domain.Identity)
	Settle(id *domain.Identity) bool
	Clear()
}

var _ Session = (*session.Store)(nil)
