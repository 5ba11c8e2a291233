package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/gridfan/paddock/internal/auth"
	"github.com/gridfan/paddock/pkg/logging"
	"github.com/gridfan/paddock/pkg/telemetry"
)

// Page is one merged, annotated feed page
type Page struct {
	Items   []Item `json:"items"`
	HasMore bool   `json:"has_more"`
}

// Service runs the page pipeline: per-kind fetch, merge, annotate. It is
// stateless; pagination state lives in Controller instances.
type Service struct {
	gw     Gateway
	logger *zap.Logger
}

// NewService creates a feed service over the given gateway
func NewService(gw Gateway) *Service {
	return &Service{
		gw:     gw,
		logger: logging.WithComponent("feed-service"),
	}
}

// Gateway returns the underlying gateway
func (s *Service) Gateway() Gateway {
	return s.gw
}

// FetchPage fetches and assembles one feed page. limit is the merged page
// size; each backing kind is fetched with limit+1 rows at the same offset so
// that hasMore can be determined without a count query. The thread and repost
// fetches run concurrently and both complete before the merge; annotation
// runs strictly after the merge.
func (s *Service) FetchPage(ctx context.Context, variant Variant, sess *auth.Session, offset, limit int, search string) (Page, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.fetch_page")
	defer span.End()

	q := PageQuery{Offset: offset, Limit: limit + 1}

	switch variant {
	case VariantForYou:
	case VariantFollowing:
		if sess == nil {
			return Page{}, ErrSessionRequired
		}
		ids, err := s.gw.FollowingIDs(ctx, sess.UserID)
		if err != nil {
			return Page{}, fmt.Errorf("following ids: %w", err)
		}
		if len(ids) == 0 {
			return Page{}, nil
		}
		q.AuthorIDs = ids
	case VariantBookmarks:
		if sess == nil {
			return Page{}, ErrSessionRequired
		}
		q.BookmarkedBy = sess.UserID
	case VariantSearch:
		q.Search = strings.TrimSpace(search)
		if q.Search == "" {
			return Page{}, nil
		}
	default:
		return Page{}, ErrUnknownVariant
	}

	var (
		threadRows []ThreadRow
		repostRows []RepostRow
		threadErr  error
		repostErr  error
		wg         sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		threadRows, threadErr = s.gw.ThreadPage(ctx, q)
	}()

	// The bookmarks feed is thread-only; reposts carry no bookmark state
	if variant != VariantBookmarks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repostRows, repostErr = s.gw.RepostPage(ctx, q)
		}()
	}

	wg.Wait()

	if threadErr != nil {
		return Page{}, fmt.Errorf("thread page: %w", threadErr)
	}
	if repostErr != nil {
		return Page{}, fmt.Errorf("repost page: %w", repostErr)
	}

	threadItems := make([]Item, 0, len(threadRows))
	for _, row := range threadRows {
		threadItems = append(threadItems, NewThreadItem(row))
	}
	repostItems := make([]Item, 0, len(repostRows))
	for _, row := range repostRows {
		repostItems = append(repostItems, NewRepostItem(row))
	}

	items, hasMore := MergePage(threadItems, repostItems, limit)

	items, err := s.annotate(ctx, items, sess)
	if err != nil {
		return Page{}, fmt.Errorf("annotate: %w", err)
	}

	return Page{Items: items, HasMore: hasMore}, nil
}
