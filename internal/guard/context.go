package guard

import (
	"context"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

type ctxKeyIdentity struct{}

func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity{}, id)
}

// IdentityFrom returns the identity set by Wrap for an authenticated request.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity{}).(domain.Identity)
	return id, ok
}
