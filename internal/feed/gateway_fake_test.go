package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// fakeGateway is an in-memory Gateway with call counting, so tests can
// assert how many fetches a load issued and whether membership lookups were
// batched or skipped.
type fakeGateway struct {
	mu sync.Mutex

	threads []ThreadRow
	reposts []RepostRow

	likedThreads      map[int64]bool
	likedReposts      map[int64]bool
	bookmarkedThreads map[int64]bool
	following         []string

	threadErr error
	repostErr error
	writeErr  error

	// When set, ThreadPage blocks until the channel closes. Used to hold a
	// load in flight.
	gate chan struct{}

	threadPageCalls int
	repostPageCalls int
	membershipCalls int

	lastThreadQuery PageQuery
	lastRepostQuery PageQuery

	likeInserts     []string
	likeDeletes     []string
	bookmarkInserts []int64
	bookmarkDeletes []int64
	threadInserts   []string
	repostInserts   []int64
	threadDeletes   []int64
	repostDeletes   []int64
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		likedThreads:      map[int64]bool{},
		likedReposts:      map[int64]bool{},
		bookmarkedThreads: map[int64]bool{},
	}
}

func (f *fakeGateway) ThreadPage(ctx context.Context, q PageQuery) ([]ThreadRow, error) {
	f.mu.Lock()
	f.threadPageCalls++
	f.lastThreadQuery = q
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.threadErr != nil {
		return nil, f.threadErr
	}

	matched := make([]ThreadRow, 0, len(f.threads))
	for _, row := range f.threads {
		if len(q.AuthorIDs) > 0 && !contains(q.AuthorIDs, row.UserID) {
			continue
		}
		if q.BookmarkedBy != "" && !f.bookmarkedThreads[row.ID] {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(row.Content), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, row)
	}
	return pageOf(matched, q.Offset, q.Limit), nil
}

func (f *fakeGateway) RepostPage(ctx context.Context, q PageQuery) ([]RepostRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.repostPageCalls++
	f.lastRepostQuery = q
	if f.repostErr != nil {
		return nil, f.repostErr
	}

	matched := make([]RepostRow, 0, len(f.reposts))
	for _, row := range f.reposts {
		if len(q.AuthorIDs) > 0 && !contains(q.AuthorIDs, row.UserID) {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(row.Content), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, row)
	}
	return pageOf(matched, q.Offset, q.Limit), nil
}

func (f *fakeGateway) LikedThreadIDs(ctx context.Context, userID string, ids []int64) (map[int64]bool, error) {
	return f.membership(f.likedThreads, ids), nil
}

func (f *fakeGateway) LikedRepostIDs(ctx context.Context, userID string, ids []int64) (map[int64]bool, error) {
	return f.membership(f.likedReposts, ids), nil
}

func (f *fakeGateway) BookmarkedThreadIDs(ctx context.Context, userID string, ids []int64) (map[int64]bool, error) {
	return f.membership(f.bookmarkedThreads, ids), nil
}

func (f *fakeGateway) membership(set map[int64]bool, ids []int64) map[int64]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.membershipCalls++
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if set[id] {
			out[id] = true
		}
	}
	return out
}

func (f *fakeGateway) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.following...), nil
}

func (f *fakeGateway) InsertLike(ctx context.Context, userID string, id int64, kind Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likeInserts = append(f.likeInserts, fmt.Sprintf("%s-%d", kind, id))
	return f.writeErr
}

func (f *fakeGateway) DeleteLike(ctx context.Context, userID string, id int64, kind Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likeDeletes = append(f.likeDeletes, fmt.Sprintf("%s-%d", kind, id))
	return f.writeErr
}

func (f *fakeGateway) InsertBookmark(ctx context.Context, userID string, threadID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookmarkInserts = append(f.bookmarkInserts, threadID)
	return f.writeErr
}

func (f *fakeGateway) DeleteBookmark(ctx context.Context, userID string, threadID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookmarkDeletes = append(f.bookmarkDeletes, threadID)
	return f.writeErr
}

func (f *fakeGateway) InsertThread(ctx context.Context, userID, content, imageURL string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.threadInserts = append(f.threadInserts, content)
	return int64(len(f.threadInserts)) + 1000, f.writeErr
}

func (f *fakeGateway) InsertRepost(ctx context.Context, userID string, threadID int64, content, imageURL string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.repostInserts = append(f.repostInserts, threadID)
	return int64(len(f.repostInserts)) + 2000, f.writeErr
}

func (f *fakeGateway) DeleteThread(ctx context.Context, userID string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.threadDeletes = append(f.threadDeletes, id)
	return f.writeErr
}

func (f *fakeGateway) DeleteRepost(ctx context.Context, userID string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.repostDeletes = append(f.repostDeletes, id)
	return f.writeErr
}

func (f *fakeGateway) counts() (threadPages, repostPages, memberships int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.threadPageCalls, f.repostPageCalls, f.membershipCalls
}

func pageOf[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return append([]T(nil), rows[offset:end]...)
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
