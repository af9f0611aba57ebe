package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/session"
)

func waitFuture(t *testing.T, f *Future[*domain.Identity]) (*domain.Identity, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	id, err := f.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("future did not complete")
	}
	return id, err
}

func TestResolve_BoundSession_SettlesWithIdentity(t *testing.T) {
	svc, _, sessions, _ := newSvcForTest(t)
	sessions.byID["client-1"] = domain.ClientSession{ID: "client-1", ProviderToken: "tok-1"}
	store := session.NewStore()

	id, err := waitFuture(t, svc.Resolve(context.Background(), "client-1", store))
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "op-1", id.ID)

	st := store.State()
	assert.False(t, st.Loading)
	require.NotNil(t, st.Identity)
	assert.Equal(t, "op-1", st.Identity.ID)
}

func TestResolve_UnknownClient_SettlesToNone(t *testing.T) {
	svc, p, _, _ := newSvcForTest(t)
	store := session.NewStore()

	id, err := waitFuture(t, svc.Resolve(context.Background(), "client-1", store))
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.False(t, store.State().Loading)
	assert.Nil(t, store.State().Identity)
	assert.Equal(t, 0, p.currentCalls)
}

func TestResolve_RejectedToken_ForgetsClientSession(t *testing.T) {
	svc, _, sessions, _ := newSvcForTest(t)
	sessions.byID["client-1"] = domain.ClientSession{ID: "client-1", ProviderToken: "tok-revoked"}
	store := session.NewStore()

	id, err := waitFuture(t, svc.Resolve(context.Background(), "client-1", store))
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Equal(t, []string{"client-1"}, sessions.deleted)
}

func TestResolve_ExpiredClientSession_SkipsProvider(t *testing.T) {
	svc, p, sessions, _ := newSvcForTest(t)
	sessions.byID["client-1"] = domain.ClientSession{
		ID:            "client-1",
		ProviderToken: "tok-1",
		ExpiresAt:     time.Now().Add(-time.Minute),
	}
	store := session.NewStore()

	id, err := waitFuture(t, svc.Resolve(context.Background(), "client-1", store))
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Equal(t, 0, p.currentCalls)
}

func TestResolve_ProviderError_CarriedOnFuture(t *testing.T) {
	svc, p, sessions, _ := newSvcForTest(t)
	sessions.byID["client-1"] = domain.ClientSession{ID: "client-1", ProviderToken: "tok-1"}
	p.currentFn = func(string) (domain.Identity, error) {
		return domain.Identity{}, domain.ErrProviderUnavailable(errors.New("timeout"))
	}
	store := session.NewStore()

	id, err := waitFuture(t, svc.Resolve(context.Background(), "client-1", store))
	requireErrCode(t, err, "provider_unavailable")
	assert.Nil(t, id)
	assert.False(t, store.State().Loading)
	assert.Nil(t, store.State().Identity)
	assert.Empty(t, sessions.deleted)
}

func TestResolve_DoesNotOverrideSettledStore(t *testing.T) {
	svc, _, sessions, _ := newSvcForTest(t)
	sessions.byID["client-1"] = domain.ClientSession{ID: "client-1", ProviderToken: "tok-1"}
	store := session.NewStore()
	store.Clear()

	_, err := waitFuture(t, svc.Resolve(context.Background(), "client-1", store))
	require.NoError(t, err)
	assert.Nil(t, store.State().Identity)
}

func TestResolve_CancelledContext_SettlesToNone(t *testing.T) {
	svc, p, sessions, _ := newSvcForTest(t)
	sessions.byID["client-1"] = domain.ClientSession{ID: "client-1", ProviderToken: "tok-1"}
	p.currentFn = func(string) (domain.Identity, error) {
		return domain.Identity{}, context.Canceled
	}
	store := session.NewStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := svc.Resolve(ctx, "client-1", store)

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("future did not complete")
	}
	_, err := f.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, store.State().Loading)
}

func TestFuture_WaitHonoursContext(t *testing.T) {
	f := newFuture[int]()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	f.complete(7, nil)
	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
