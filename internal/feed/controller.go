package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/gridfan/paddock/internal/auth"
	"github.com/gridfan/paddock/pkg/logging"
)

// PaginationState tracks the in-memory feed for one variant. Offset addresses
// the per-kind backing queries, not the merged sequence.
type PaginationState struct {
	Items            []Item
	Offset           int
	HasMore          bool
	IsLoadingInitial bool
	IsLoadingMore    bool
}

// Controller owns the pagination state of a single feed variant and drives
// incremental loads through well-defined transitions. A load that resolves
// after a newer initial load superseded it is discarded via the generation
// counter instead of clobbering newer state.
type Controller struct {
	svc     *Service
	variant Variant
	limit   int
	logger  *zap.Logger

	mu         sync.Mutex
	st         PaginationState
	gen        uint64
	sess       *auth.Session
	search     string
	deleteHook func(id int64, kind Kind)

	writes sync.WaitGroup
}

// NewController creates an empty controller for one feed variant
func NewController(svc *Service, variant Variant, pageSize int) *Controller {
	return &Controller{
		svc:     svc,
		variant: variant,
		limit:   pageSize,
		logger:  logging.WithComponent("feed-controller").With(zap.String("variant", string(variant))),
	}
}

// SetSession sets the authenticated session and resets the feed; pagination
// state never survives a login or logout.
func (c *Controller) SetSession(sess *auth.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess = sess
	c.resetLocked()
}

// SetSearch sets the search query for the search variant and resets the feed
func (c *Controller) SetSearch(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = query
	c.resetLocked()
}

// SetDeleteHook registers a callback invoked after an item is removed from
// the feed, so an open detail view of that item can close.
func (c *Controller) SetDeleteHook(fn func(id int64, kind Kind)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteHook = fn
}

// Reset clears the pagination state and invalidates in-flight loads
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.gen++
	c.st = PaginationState{}
}

// State returns a snapshot of the pagination state. The items slice is
// copied; callers never share the controller's backing array.
func (c *Controller) State() PaginationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := c.st
	snapshot.Items = append([]Item(nil), c.st.Items...)
	return snapshot
}

// Items returns a copy of the current feed items in feed order
func (c *Controller) Items() []Item {
	return c.State().Items
}

// HasMore reports whether another page is expected
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.HasMore
}

// LoadInitial replaces the feed with the first page. It always proceeds and
// supersedes any in-flight load: the generation bump makes a slower, older
// resolution a no-op.
func (c *Controller) LoadInitial(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.st.IsLoadingInitial = true
	c.st.IsLoadingMore = false
	sess, search := c.sess, c.search
	c.mu.Unlock()

	page, err := c.svc.FetchPage(ctx, c.variant, sess, 0, c.limit, search)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// Superseded by a newer refresh or reset; discard
		return nil
	}
	c.st.IsLoadingInitial = false
	if err != nil {
		c.logger.Warn("initial load failed", zap.Error(err))
		c.st.Items = nil
		c.st.Offset = 0
		return err
	}
	c.st.Items = page.Items
	c.st.HasMore = page.HasMore
	c.st.Offset = c.limit
	return nil
}

// LoadMore appends the next page. A concurrent LoadMore while one is already
// in flight is dropped silently, so fast repeated scroll triggers cannot
// append the same page twice.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.st.IsLoadingMore || c.st.IsLoadingInitial {
		c.mu.Unlock()
		return nil
	}
	if !c.st.HasMore {
		c.mu.Unlock()
		return nil
	}
	c.st.IsLoadingMore = true
	gen := c.gen
	offset := c.st.Offset
	sess, search := c.sess, c.search
	c.mu.Unlock()

	page, err := c.svc.FetchPage(ctx, c.variant, sess, offset, c.limit, search)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.st.IsLoadingMore = false
	if err != nil {
		// Prior items stay untouched; the next scroll retries
		c.logger.Warn("load more failed", zap.Error(err))
		return err
	}
	// Merge across old and new, not just within the new page, so an item
	// surfacing in two pages cannot appear twice
	c.st.Items = Merge(c.st.Items, page.Items)
	c.st.HasMore = page.HasMore
	c.st.Offset += c.limit
	return nil
}

// Wait blocks until all outstanding fire-and-forget remote writes finish.
// Used by graceful shutdown and tests.
func (c *Controller) Wait() {
	c.writes.Wait()
}
