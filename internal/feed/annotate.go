package feed

import (
	"context"

	"github.com/gridfan/paddock/internal/auth"
)

// annotate attaches the session's like/bookmark state to each item. With no
// session every flag is forced false and no gateway call is issued. With a
// session the membership lookups are batched per kind, so the request count
// is bounded by page count rather than item count.
func (s *Service) annotate(ctx context.Context, items []Item, sess *auth.Session) ([]Item, error) {
	if sess == nil {
		for i := range items {
			items[i].IsLiked = false
			items[i].IsBookmarked = false
		}
		return items, nil
	}

	var threadIDs, repostIDs []int64
	for _, item := range items {
		switch item.Kind {
		case KindThread:
			threadIDs = append(threadIDs, item.ID)
		case KindRepost:
			repostIDs = append(repostIDs, item.ID)
		}
	}

	likedThreads := map[int64]bool{}
	likedReposts := map[int64]bool{}
	bookmarked := map[int64]bool{}

	var err error
	if len(threadIDs) > 0 {
		if likedThreads, err = s.gw.LikedThreadIDs(ctx, sess.UserID, threadIDs); err != nil {
			return nil, err
		}
		if bookmarked, err = s.gw.BookmarkedThreadIDs(ctx, sess.UserID, threadIDs); err != nil {
			return nil, err
		}
	}
	if len(repostIDs) > 0 {
		if likedReposts, err = s.gw.LikedRepostIDs(ctx, sess.UserID, repostIDs); err != nil {
			return nil, err
		}
	}

	for i := range items {
		switch items[i].Kind {
		case KindThread:
			items[i].IsLiked = likedThreads[items[i].ID]
			items[i].IsBookmarked = bookmarked[items[i].ID]
		case KindRepost:
			items[i].IsLiked = likedReposts[items[i].ID]
			items[i].IsBookmarked = false
		}
	}

	return items, nil
}
