// Package redis implements the change notifier over Redis pub/sub. Every
// domain has its own event channel; gateway nodes subscribe to the domains
// they serve and drop their in-memory caches when an event arrives.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/vigil-iam/vigil/domain"
)

// Snapshots older than this are re-read from the metadata store.
const domainSnapshotTTL = time.Minute

// Notifier publishes change events and serves domain snapshots. Reload
// invalidates the cached snapshot before re-reading it, so the returned
// domain reflects the state after the mutation the event is about.
type Notifier struct {
	client  redis.UniversalClient
	domains domain.DomainRepository
	cache   *ttlcache.Cache[string, *domain.Domain]
	prefix  string
}

// NewNotifier creates a notifier publishing under the given key prefix.
func NewNotifier(client redis.UniversalClient, domains domain.DomainRepository, prefix string) *Notifier {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *domain.Domain](domainSnapshotTTL),
	)
	go cache.Start()

	return &Notifier{
		client:  client,
		domains: domains,
		cache:   cache,
		prefix:  prefix,
	}
}

func (n *Notifier) channel(domainID string) string {
	return fmt.Sprintf("%s:domains:%s:events", n.prefix, domainID)
}

// Publish announces a change event on the domain's channel. The ack is the
// Redis publish confirmation; delivery to subscribers is fire-and-forget.
func (n *Notifier) Publish(ctx context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	return n.client.Publish(ctx, n.channel(event.Payload.Domain), payload).Err()
}

// Reload publishes the event, drops the cached snapshot of the domain and
// returns a freshly loaded one.
func (n *Notifier) Reload(ctx context.Context, domainID string, event *domain.Event) (*domain.Domain, error) {
	if err := n.Publish(ctx, event); err != nil {
		return nil, err
	}

	n.cache.Delete(domainID)
	d, err := n.domains.FindByID(ctx, domainID)
	if err != nil {
		return nil, err
	}
	n.cache.Set(domainID, d, ttlcache.DefaultTTL)
	return d, nil
}

// Domain returns the cached snapshot of a domain, loading it on a miss.
func (n *Notifier) Domain(ctx context.Context, domainID string) (*domain.Domain, error) {
	if item := n.cache.Get(domainID); item != nil {
		return item.Value(), nil
	}
	d, err := n.domains.FindByID(ctx, domainID)
	if err != nil {
		return nil, err
	}
	n.cache.Set(domainID, d, ttlcache.DefaultTTL)
	return d, nil
}

// Subscribe delivers the change events of one domain until stop is called.
// Malformed payloads are logged and skipped.
func (n *Notifier) Subscribe(ctx context.Context, domainID string) (<-chan *domain.Event, func()) {
	sub := n.client.Subscribe(ctx, n.channel(domainID))
	events := make(chan *domain.Event)

	go func() {
		defer close(events)
		for msg := range sub.Channel() {
			var event domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Str("domain", domainID).Msg("dropping malformed change event")
				continue
			}
			select {
			case events <- &event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, func() { _ = sub.Close() }
}

// Close stops the snapshot cache janitor.
func (n *Notifier) Close() {
	n.cache.Stop()
}
