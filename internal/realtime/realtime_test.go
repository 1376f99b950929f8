package realtime

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelFor(t *testing.T) {
	assert.Equal(t, "opsdesk:changed:bookings", channelFor("bookings"))
	assert.Equal(t, "opsdesk:changed:complaints", channelFor("complaints"))
}

func TestNopPublisher(t *testing.T) {
	// Must be safe to call with a nil-value receiver and any input.
	NopPublisher{}.PublishChanged(context.Background(), "bookings")
}

// redisClient connects to REDIS_URL or skips the test, the same way the
// database suites gate on DATABASE_URL.
func redisClient(t *testing.T) *redis.Client {
	t.Helper()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

// TestPublishSubscribe: every published change event reaches the subscriber,
// which reacts by re-fetching; re-fetching once per event is idempotent, so
// duplicate deliveries are acceptable and missing ones are not.
func TestPublishSubscribe(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()

	refetched := make(chan struct{}, 8)
	sub, err := Subscribe(ctx, client, "bookings", func() {
		refetched <- struct{}{}
	})
	require.NoError(t, err)
	defer sub.Close()

	publisher := NewRedisPublisher(client)
	publisher.PublishChanged(ctx, "bookings")
	publisher.PublishChanged(ctx, "bookings")

	for i := 0; i < 2; i++ {
		select {
		case <-refetched:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for change event")
		}
	}
}

// TestSubscribeIgnoresOtherCollections: a bookings watcher must not react to
// complaint changes.
func TestSubscribeIgnoresOtherCollections(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()

	refetched := make(chan struct{}, 1)
	sub, err := Subscribe(ctx, client, "bookings", func() {
		refetched <- struct{}{}
	})
	require.NoError(t, err)
	defer sub.Close()

	NewRedisPublisher(client).PublishChanged(ctx, "complaints")

	select {
	case <-refetched:
		t.Fatal("received change event for a different collection")
	case <-time.After(500 * time.Millisecond):
	}
}

// TestSubscribeStopsOnContextCancel: cancelling the context ends the watch
// and releases the pub/sub connection; Close afterwards is still safe.
func TestSubscribeStopsOnContextCancel(t *testing.T) {
	client := redisClient(t)
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := Subscribe(ctx, client, "complaints", func() {})
	require.NoError(t, err)

	cancel()

	closed := make(chan error, 1)
	go func() { closed <- sub.Close() }()

	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("subscription did not stop after context cancellation")
	}
}
