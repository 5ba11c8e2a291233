// Package realtime carries insert notifications between writers and feed
// watchers over Redis pub/sub. The payload is just the table name; the
// pushed event lacks the joins needed to build a feed item, so consumers
// treat it as a refresh signal only.
package realtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/gridfan/paddock/pkg/config"
	"github.com/gridfan/paddock/pkg/logging"
)

const channelPrefix = "paddock:inserts:"

// Bus publishes and subscribes to insert notifications. A nil Bus (Redis
// disabled) is safe to use; publishes become no-ops and subscriptions
// never fire.
type Bus struct {
	client *redis.Client
	logger *zap.Logger
}

// New creates a notification bus over Redis
func New(cfg *config.RedisConfig) (*Bus, error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Realtime notifications disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Bus{
		client: client,
		logger: logging.WithComponent("realtime"),
	}, nil
}

// PublishInsert announces an insert into the given table
func (b *Bus) PublishInsert(ctx context.Context, table string) error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Publish(ctx, channelPrefix+table, "insert").Err()
}

// SubscribeInserts implements feed.Notifier. fn is invoked with the table
// name for every insert until the returned teardown is called.
func (b *Bus) SubscribeInserts(ctx context.Context, tables []string, fn func(table string)) (func() error, error) {
	if b == nil || b.client == nil {
		return func() error { return nil }, nil
	}

	channels := make([]string, 0, len(tables))
	for _, t := range tables {
		channels = append(channels, channelPrefix+t)
	}

	sub := b.client.Subscribe(ctx, channels...)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	go func() {
		for msg := range sub.Channel() {
			fn(strings.TrimPrefix(msg.Channel, channelPrefix))
		}
	}()

	return sub.Close, nil
}

// Close closes the bus connection
func (b *Bus) Close() error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Close()
}
