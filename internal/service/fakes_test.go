package service_test

import (
	"context"
	"sync"

	"github.com/realtydesk/opsdesk/internal/metrics"
	"github.com/realtydesk/opsdesk/internal/notify"
)

// testMetrics is shared across suites; prometheus collectors register on
// the default registry once per test binary.
var testMetrics = metrics.New()

// recordingSink captures notifications for assertions.
type recordingSink struct {
	mu            sync.Mutex
	notifications []notify.Notification
}

func (s *recordingSink) Notify(_ context.Context, n notify.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
}

func (s *recordingSink) all() []notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

func (s *recordingSink) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
}

// recordingPublisher captures realtime collection-changed events.
type recordingPublisher struct {
	mu          sync.Mutex
	collections []string
}

func (p *recordingPublisher) PublishChanged(_ context.Context, collection string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.collections = append(p.collections, collection)
}

func (p *recordingPublisher) all() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.collections))
	copy(out, p.collections)
	return out
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.collections = nil
}
