package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigil-iam/vigil/domain"
)

type stubDomainRepository struct {
	mu    sync.Mutex
	byID  map[string]*domain.Domain
	reads int
}

func newStubDomainRepository(domains ...*domain.Domain) *stubDomainRepository {
	byID := make(map[string]*domain.Domain, len(domains))
	for _, d := range domains {
		byID[d.ID] = d
	}
	return &stubDomainRepository{byID: byID}
}

func (r *stubDomainRepository) FindByID(_ context.Context, id string) (*domain.Domain, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (r *stubDomainRepository) FindAll(context.Context) ([]*domain.Domain, error) {
	return nil, nil
}

func (r *stubDomainRepository) Create(_ context.Context, d *domain.Domain) (*domain.Domain, error) {
	return r.Update(context.Background(), d)
}

func (r *stubDomainRepository) Update(_ context.Context, d *domain.Domain) (*domain.Domain, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[d.ID] = d
	return d, nil
}

func (r *stubDomainRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *stubDomainRepository) readCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

func newNotifierForTest(t *testing.T, repo *stubDomainRepository) *Notifier {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	n := NewNotifier(client, repo, "vigil")
	t.Cleanup(n.Close)
	return n
}

func TestNotifier_PublishSubscribeRoundtrip(t *testing.T) {
	repo := newStubDomainRepository(&domain.Domain{ID: "d1"})
	n := newNotifierForTest(t, repo)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, stop := n.Subscribe(ctx, "d1")
	defer stop()

	// let the subscription settle before publishing
	time.Sleep(50 * time.Millisecond)

	sent := domain.NewEvent(domain.EventTypeClient, "c1", "d1", domain.EventActionCreate)
	require.NoError(t, n.Publish(ctx, sent))

	select {
	case got := <-events:
		assert.Equal(t, domain.EventTypeClient, got.Type)
		assert.Equal(t, "c1", got.Payload.ID)
		assert.Equal(t, "d1", got.Payload.Domain)
		assert.Equal(t, domain.EventActionCreate, got.Payload.Action)
	case <-ctx.Done():
		t.Fatal("no event received")
	}
}

func TestNotifier_SubscribeIsScopedToDomain(t *testing.T) {
	repo := newStubDomainRepository(&domain.Domain{ID: "d1"}, &domain.Domain{ID: "d2"})
	n := newNotifierForTest(t, repo)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, stop := n.Subscribe(ctx, "d1")
	defer stop()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, n.Publish(ctx, domain.NewEvent(domain.EventTypeScope, "s1", "d2", domain.EventActionDelete)))
	require.NoError(t, n.Publish(ctx, domain.NewEvent(domain.EventTypeScope, "s2", "d1", domain.EventActionDelete)))

	select {
	case got := <-events:
		assert.Equal(t, "s2", got.Payload.ID)
	case <-ctx.Done():
		t.Fatal("no event received")
	}
}

func TestNotifier_Domain_CachesSnapshot(t *testing.T) {
	repo := newStubDomainRepository(&domain.Domain{ID: "d1", Name: "v1"})
	n := newNotifierForTest(t, repo)
	ctx := context.Background()

	first, err := n.Domain(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "v1", first.Name)

	second, err := n.Domain(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "v1", second.Name)
	assert.Equal(t, 1, repo.readCount())
}

func TestNotifier_Reload_ReturnsFreshSnapshot(t *testing.T) {
	repo := newStubDomainRepository(&domain.Domain{ID: "d1", Name: "v1"})
	n := newNotifierForTest(t, repo)
	ctx := context.Background()

	cached, err := n.Domain(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "v1", cached.Name)

	_, err = repo.Update(ctx, &domain.Domain{ID: "d1", Name: "v2"})
	require.NoError(t, err)

	reloaded, err := n.Reload(ctx, "d1", domain.NewEvent(domain.EventTypeClient, "c1", "d1", domain.EventActionUpdate))
	require.NoError(t, err)
	assert.Equal(t, "v2", reloaded.Name)

	// subsequent cached reads see the refreshed snapshot
	after, err := n.Domain(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "v2", after.Name)
}

func TestNotifier_Reload_UnknownDomain(t *testing.T) {
	repo := newStubDomainRepository()
	n := newNotifierForTest(t, repo)

	_, err := n.Reload(context.Background(), "missing", domain.NewEvent(domain.EventTypeClient, "c1", "missing", domain.EventActionCreate))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
