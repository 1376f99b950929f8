// Package notify delivers user-visible notifications to open browser
// sessions. The coordinators emit exactly one notification per audited field
// change plus one for the overall outcome; errors surface as a single
// notification of kind "error".
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Kind classifies a notification for the UI.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Notification is one message shown to the user.
type Notification struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Kind    Kind      `json:"kind"`
	At      time.Time `json:"at"`
}

// Sink receives notifications. Implementations must not block the caller
// beyond a normal network round trip.
type Sink interface {
	Notify(ctx context.Context, n Notification)
}

// notificationsChannel is the Redis pub/sub channel browser sessions listen on.
const notificationsChannel = "opsdesk:notifications"

// RedisSink publishes notifications to Redis for fan-out to browser sessions.
type RedisSink struct {
	client *redis.Client
}

// NewRedisSink creates a sink over an existing Redis client.
func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

// Notify publishes the notification as JSON. Delivery is best-effort: a
// failed publish is logged, never propagated, since the mutation it reports
// has already been persisted.
func (s *RedisSink) Notify(ctx context.Context, n Notification) {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	payload, err := json.Marshal(n)
	if err != nil {
		slog.Error("marshal notification", "error", err)
		return
	}
	if err := s.client.Publish(ctx, notificationsChannel, payload).Err(); err != nil {
		slog.Error("publish notification", "error", err, "title", n.Title)
	}
}

// LogSink writes notifications to the structured log. Used when Redis is
// not configured.
type LogSink struct{}

// Notify logs the notification at the level matching its kind.
func (LogSink) Notify(_ context.Context, n Notification) {
	msg := fmt.Sprintf("%s: %s", n.Title, n.Message)
	switch n.Kind {
	case KindError:
		slog.Error("notification", "detail", msg)
	case KindWarning:
		slog.Warn("notification", "detail", msg)
	default:
		slog.Info("notification", "detail", msg)
	}
}
