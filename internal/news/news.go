package news

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/gridfan/paddock/internal/cache"
	"github.com/gridfan/paddock/pkg/config"
	"github.com/gridfan/paddock/pkg/logging"
	"github.com/gridfan/paddock/pkg/telemetry"
)

// Item is a normalized news article from one of the configured RSS feeds
type Item struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	Summary     string    `json:"summary,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Aggregator fetches the configured RSS feeds and merges them into one
// reverse-chronological list. A feed that fails to fetch is logged and
// skipped; the remaining sources still produce a result.
type Aggregator struct {
	parser *gofeed.Parser
	feeds  []string
	cache  *cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewAggregator creates a news aggregator
func NewAggregator(cfg *config.NewsConfig, redisCache *cache.Cache) *Aggregator {
	return &Aggregator{
		parser: gofeed.NewParser(),
		feeds:  cfg.Feeds,
		cache:  redisCache,
		ttl:    cfg.CacheTTL,
		logger: logging.WithComponent("news-aggregator"),
	}
}

// Latest returns up to limit articles across all sources, newest first
func (a *Aggregator) Latest(ctx context.Context, limit int) ([]Item, error) {
	ctx, span := telemetry.StartSpan(ctx, "news.latest")
	defer span.End()

	cacheKey := cache.HashKey("news_latest", strconv.Itoa(limit))
	if a.cache != nil {
		var cached []Item
		if err := a.cache.GetJSON(cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var (
		mu    sync.Mutex
		items []Item
		wg    sync.WaitGroup
	)

	for _, url := range a.feeds {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			parsed, err := a.parser.ParseURLWithContext(url, ctx)
			if err != nil {
				a.logger.Warn("feed fetch failed", zap.String("url", url), zap.Error(err))
				return
			}
			batch := make([]Item, 0, len(parsed.Items))
			for _, it := range parsed.Items {
				batch = append(batch, normalizeItem(parsed.Title, it))
			}
			mu.Lock()
			items = append(items, batch...)
			mu.Unlock()
		}(url)
	}
	wg.Wait()

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	if a.cache != nil && len(items) > 0 {
		if err := a.cache.SetJSON(cacheKey, items, a.ttl); err != nil && err != cache.ErrCacheDisabled {
			a.logger.Warn("news cache write failed", zap.Error(err))
		}
	}

	return items, nil
}

// normalizeItem shapes a raw RSS item. Publication time falls back through
// updated time to zero; image comes from the channel image or the first
// image enclosure.
func normalizeItem(source string, it *gofeed.Item) Item {
	item := Item{
		Title:   it.Title,
		Link:    it.Link,
		Source:  source,
		Summary: strings.TrimSpace(it.Description),
	}

	if it.PublishedParsed != nil {
		item.PublishedAt = *it.PublishedParsed
	} else if it.UpdatedParsed != nil {
		item.PublishedAt = *it.UpdatedParsed
	}

	if it.Image != nil && it.Image.URL != "" {
		item.ImageURL = it.Image.URL
	} else {
		for _, enc := range it.Enclosures {
			if strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
				item.ImageURL = enc.URL
				break
			}
		}
	}

	return item
}
