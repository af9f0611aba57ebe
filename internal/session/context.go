package session

import "context"

type ctxKeyStore struct{}
type ctxKeyClientID struct{}

// WithStore attaches the client's store and session id to ctx.
func WithStore(ctx context.Context, clientID string, s *Store) context.Context {
	ctx = context.WithValue(ctx, ctxKeyClientID{}, clientID)
	return context.WithValue(ctx, ctxKeyStore{}, s)
}

func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(ctxKeyStore{}).(*Store)
	return s, ok && s != nil
}

func ClientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyClientID{}).(string)
	return id
}
