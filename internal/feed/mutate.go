package feed

import (
	"context"

	"go.uber.org/zap"
)

// ToggleLikeItems returns a copy of items with the like state of the matching
// item flipped and its like count moved by one in the same direction, never
// below zero. changed reports whether a matching item was found, nowLiked its
// new state.
func ToggleLikeItems(items []Item, id int64, kind Kind) (out []Item, changed, nowLiked bool) {
	out = append([]Item(nil), items...)
	for i := range out {
		if out[i].ID != id || out[i].Kind != kind {
			continue
		}
		out[i].IsLiked = !out[i].IsLiked
		if out[i].IsLiked {
			out[i].LikeCount++
		} else if out[i].LikeCount > 0 {
			out[i].LikeCount--
		}
		return out, true, out[i].IsLiked
	}
	return out, false, false
}

// ToggleBookmarkItems returns a copy of items with the bookmark state of the
// matching thread flipped. Reposts carry no bookmark state, so only thread
// items can match; a repost id passed here is a no-op.
func ToggleBookmarkItems(items []Item, threadID int64) (out []Item, changed, nowBookmarked bool) {
	out = append([]Item(nil), items...)
	for i := range out {
		if out[i].ID != threadID || out[i].Kind != KindThread {
			continue
		}
		out[i].IsBookmarked = !out[i].IsBookmarked
		return out, true, out[i].IsBookmarked
	}
	return out, false, false
}

// RemoveItem returns a copy of items without the item matching id and kind
func RemoveItem(items []Item, id int64, kind Kind) (out []Item, removed bool) {
	out = make([]Item, 0, len(items))
	for _, item := range items {
		if item.ID == id && item.Kind == kind {
			removed = true
			continue
		}
		out = append(out, item)
	}
	return out, removed
}

// ToggleLike applies the optimistic like transition and issues the remote
// write without awaiting it. A failed write is logged and the optimistic
// state stays in place; server state wins on the next refresh. (Recorded as
// an open question in DESIGN.md.)
func (c *Controller) ToggleLike(ctx context.Context, id int64, kind Kind) error {
	c.mu.Lock()
	sess := c.sess
	if sess == nil {
		c.mu.Unlock()
		return ErrSessionRequired
	}
	items, changed, nowLiked := ToggleLikeItems(c.st.Items, id, kind)
	if !changed {
		c.mu.Unlock()
		return nil
	}
	c.st.Items = items
	c.mu.Unlock()

	c.writes.Add(1)
	go func() {
		defer c.writes.Done()
		var err error
		if nowLiked {
			err = c.svc.gw.InsertLike(context.Background(), sess.UserID, id, kind)
		} else {
			err = c.svc.gw.DeleteLike(context.Background(), sess.UserID, id, kind)
		}
		if err != nil {
			c.logger.Warn("like write failed",
				zap.Int64("id", id),
				zap.String("kind", string(kind)),
				zap.Error(err))
		}
	}()
	return nil
}

// ToggleBookmark applies the optimistic bookmark transition for a thread and
// issues the remote write without awaiting it. Bookmarks are thread-only.
func (c *Controller) ToggleBookmark(ctx context.Context, threadID int64) error {
	c.mu.Lock()
	sess := c.sess
	if sess == nil {
		c.mu.Unlock()
		return ErrSessionRequired
	}
	items, changed, nowBookmarked := ToggleBookmarkItems(c.st.Items, threadID)
	if !changed {
		c.mu.Unlock()
		return nil
	}
	c.st.Items = items
	c.mu.Unlock()

	c.writes.Add(1)
	go func() {
		defer c.writes.Done()
		var err error
		if nowBookmarked {
			err = c.svc.gw.InsertBookmark(context.Background(), sess.UserID, threadID)
		} else {
			err = c.svc.gw.DeleteBookmark(context.Background(), sess.UserID, threadID)
		}
		if err != nil {
			c.logger.Warn("bookmark write failed",
				zap.Int64("thread_id", threadID),
				zap.Error(err))
		}
	}()
	return nil
}

// Delete removes an item after explicit confirmation. Declining aborts with
// no state change and no error. The remote delete is awaited; the delete
// hook fires so an open detail view of the item can close.
func (c *Controller) Delete(ctx context.Context, id int64, kind Kind, confirm func() bool) (bool, error) {
	if confirm == nil || !confirm() {
		return false, nil
	}

	c.mu.Lock()
	sess := c.sess
	if sess == nil {
		c.mu.Unlock()
		return false, ErrSessionRequired
	}
	items, removed := RemoveItem(c.st.Items, id, kind)
	c.st.Items = items
	hook := c.deleteHook
	c.mu.Unlock()

	if removed && hook != nil {
		hook(id, kind)
	}

	var err error
	switch kind {
	case KindRepost:
		err = c.svc.gw.DeleteRepost(ctx, sess.UserID, id)
	default:
		err = c.svc.gw.DeleteThread(ctx, sess.UserID, id)
	}
	if err != nil {
		c.logger.Warn("delete write failed",
			zap.Int64("id", id),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
	return removed, err
}

// CreateThread inserts a new thread and refreshes the feed with a full
// initial load. No local splice: the new item's engagement shape has to come
// from the backend.
func (c *Controller) CreateThread(ctx context.Context, content, imageURL string) error {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return ErrSessionRequired
	}
	if _, err := c.svc.gw.InsertThread(ctx, sess.UserID, content, imageURL); err != nil {
		return err
	}
	return c.LoadInitial(ctx)
}

// CreateRepost inserts a repost of an existing thread, optionally with added
// commentary, and refreshes the feed.
func (c *Controller) CreateRepost(ctx context.Context, threadID int64, content, imageURL string) error {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return ErrSessionRequired
	}
	if _, err := c.svc.gw.InsertRepost(ctx, sess.UserID, threadID, content, imageURL); err != nil {
		return err
	}
	return c.LoadInitial(ctx)
}
