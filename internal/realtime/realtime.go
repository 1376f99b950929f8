// Package realtime propagates collection-changed events between server
// instances and open browser sessions. Consumers react by re-fetching the
// whole affected collection rather than applying an incremental patch:
// simpler, idempotent, and eventually consistent even if events coalesce.
package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Publisher announces that a collection changed.
type Publisher interface {
	PublishChanged(ctx context.Context, collection string)
}

// channelFor returns the pub/sub channel name for a collection.
func channelFor(collection string) string {
	return "opsdesk:changed:" + collection
}

// RedisPublisher fans collection-changed events out over Redis pub/sub.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a publisher over an existing Redis client.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// PublishChanged is best-effort: the write that triggered it has already
// committed, so a lost event only delays the next re-fetch.
func (p *RedisPublisher) PublishChanged(ctx context.Context, collection string) {
	if err := p.client.Publish(ctx, channelFor(collection), collection).Err(); err != nil {
		slog.Error("publish collection change", "error", err, "collection", collection)
	}
}

// NopPublisher discards events. Used when Redis is not configured.
type NopPublisher struct{}

// PublishChanged does nothing.
func (NopPublisher) PublishChanged(context.Context, string) {}

// Subscription is a live watch on one collection.
type Subscription struct {
	pubsub    *redis.PubSub
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Subscribe watches a collection and invokes onChange for every event until
// the context is cancelled or Close is called; either way the underlying
// pub/sub connection is released. onChange is expected to re-fetch the
// collection; running it twice for one logical change is harmless.
func Subscribe(ctx context.Context, client *redis.Client, collection string, onChange func()) (*Subscription, error) {
	pubsub := client.Subscribe(ctx, channelFor(collection))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", collection, err)
	}

	sub := &Subscription{pubsub: pubsub, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				sub.close()
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				onChange()
			}
		}
	}()
	return sub, nil
}

// close releases the pub/sub connection exactly once.
func (s *Subscription) close() error {
	s.closeOnce.Do(func() { s.closeErr = s.pubsub.Close() })
	return s.closeErr
}

// Close stops the subscription and waits for the delivery goroutine to exit.
// Safe to call after context cancellation has already ended the watch.
func (s *Subscription) Close() error {
	err := s.close()
	<-s.done
	return err
}
