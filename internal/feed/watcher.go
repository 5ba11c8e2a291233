package feed

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/gridfan/paddock/pkg/logging"
)

// Notifier delivers insert notifications for backing tables
type Notifier interface {
	// SubscribeInserts invokes fn with the table name on every insert into
	// one of the given tables, until the returned teardown is called.
	SubscribeInserts(ctx context.Context, tables []string, fn func(table string)) (func() error, error)
}

// Watcher turns insert notifications on the threads and reposts tables into
// a single "new content available" boolean. It never mutates feed items; the
// pushed payload lacks the joins needed to build a valid item, so consuming
// the signal means running a full refresh.
type Watcher struct {
	notifier Notifier
	logger   *zap.Logger
	flag     atomic.Bool
	teardown func() error
}

// NewWatcher creates a watcher over the given notifier
func NewWatcher(n Notifier) *Watcher {
	return &Watcher{
		notifier: n,
		logger:   logging.WithComponent("feed-watcher"),
	}
}

// Start subscribes to insert notifications
func (w *Watcher) Start(ctx context.Context) error {
	teardown, err := w.notifier.SubscribeInserts(ctx, []string{"threads", "reposts"}, func(table string) {
		w.flag.Store(true)
	})
	if err != nil {
		return err
	}
	w.teardown = teardown
	return nil
}

// Stop tears down the subscription
func (w *Watcher) Stop() error {
	if w.teardown == nil {
		return nil
	}
	return w.teardown()
}

// HasNewContent reports whether an insert arrived since the last Clear
func (w *Watcher) HasNewContent() bool {
	return w.flag.Load()
}

// Clear resets the signal. Called on the explicit user action that triggers
// a refresh, never automatically.
func (w *Watcher) Clear() {
	w.flag.Store(false)
}
