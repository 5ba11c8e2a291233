package feed

import (
	"context"
	"errors"
)

// Variant names an independent pagination context
type Variant string

const (
	VariantForYou    Variant = "for-you"
	VariantFollowing Variant = "following"
	VariantBookmarks Variant = "bookmarks"
	VariantSearch    Variant = "search"
)

var (
	// ErrSessionRequired is returned for operations that only make sense
	// with an authenticated session (following feed, bookmarks, mutations)
	ErrSessionRequired = errors.New("session required")

	// ErrUnknownVariant is returned for a variant name outside the four
	// pagination contexts
	ErrUnknownVariant = errors.New("unknown feed variant")
)

// ParseVariant maps a wire name to a Variant
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantForYou, VariantFollowing, VariantBookmarks, VariantSearch:
		return Variant(s), nil
	}
	return "", ErrUnknownVariant
}

// PageQuery describes one per-kind page fetch against a backing table.
// Offset and Limit address the per-kind query, not the merged sequence;
// callers over-fetch by one row to detect whether more rows exist.
type PageQuery struct {
	Offset int
	Limit  int

	// AuthorIDs restricts rows to these authors (following feed)
	AuthorIDs []string

	// BookmarkedBy restricts thread rows to those bookmarked by the user
	BookmarkedBy string

	// Search is a case-insensitive substring match on content
	Search string
}

// Gateway is the remote data surface the feed core consumes. Implementations
// live outside this package; the core never talks to storage directly.
type Gateway interface {
	// ThreadPage returns thread rows with joined profile and like/reply
	// count aggregates, ordered by created_at descending.
	ThreadPage(ctx context.Context, q PageQuery) ([]ThreadRow, error)

	// RepostPage returns repost rows with joined profile, repost-scoped
	// count aggregates and the embedded original thread row, ordered by
	// created_at descending.
	RepostPage(ctx context.Context, q PageQuery) ([]RepostRow, error)

	// LikedThreadIDs reports which of the given thread ids the user has
	// liked, as one batched query.
	LikedThreadIDs(ctx context.Context, userID string, threadIDs []int64) (map[int64]bool, error)

	// LikedRepostIDs reports which of the given repost ids the user has
	// liked, as one batched query.
	LikedRepostIDs(ctx context.Context, userID string, repostIDs []int64) (map[int64]bool, error)

	// BookmarkedThreadIDs reports which of the given thread ids the user
	// has bookmarked. Bookmarks are thread-only.
	BookmarkedThreadIDs(ctx context.Context, userID string, threadIDs []int64) (map[int64]bool, error)

	// FollowingIDs returns the user ids the given user follows
	FollowingIDs(ctx context.Context, userID string) ([]string, error)

	InsertLike(ctx context.Context, userID string, id int64, kind Kind) error
	DeleteLike(ctx context.Context, userID string, id int64, kind Kind) error
	InsertBookmark(ctx context.Context, userID string, threadID int64) error
	DeleteBookmark(ctx context.Context, userID string, threadID int64) error

	InsertThread(ctx context.Context, userID, content, imageURL string) (int64, error)
	InsertRepost(ctx context.Context, userID string, threadID int64, content, imageURL string) (int64, error)
	DeleteThread(ctx context.Context, userID string, id int64) error
	DeleteRepost(ctx context.Context, userID string, id int64) error
}
