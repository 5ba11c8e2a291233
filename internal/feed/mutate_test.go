package feed

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestToggleLikeItems(t *testing.T) {
	items := []Item{
		{ID: 1, Kind: KindThread, LikeCount: 2, IsLiked: false},
		{ID: 1, Kind: KindRepost, LikeCount: 5, IsLiked: true},
	}

	out, changed, nowLiked := ToggleLikeItems(items, 1, KindThread)
	if !changed || !nowLiked {
		t.Fatalf("changed=%v nowLiked=%v, want true/true", changed, nowLiked)
	}
	if out[0].LikeCount != 3 || !out[0].IsLiked {
		t.Fatalf("thread after like = %d/%v, want 3/true", out[0].LikeCount, out[0].IsLiked)
	}
	// The repost sharing the numeric id is untouched.
	if out[1].LikeCount != 5 || !out[1].IsLiked {
		t.Fatalf("repost was modified: %d/%v", out[1].LikeCount, out[1].IsLiked)
	}
	// Input slice untouched.
	if items[0].IsLiked {
		t.Fatal("ToggleLikeItems mutated its input")
	}
}

func TestToggleLikeItemsTwiceRestoresState(t *testing.T) {
	items := []Item{{ID: 3, Kind: KindRepost, LikeCount: 7, IsLiked: false}}

	once, _, _ := ToggleLikeItems(items, 3, KindRepost)
	twice, _, nowLiked := ToggleLikeItems(once, 3, KindRepost)

	if nowLiked {
		t.Fatal("nowLiked = true after un-like")
	}
	if !reflect.DeepEqual(twice, items) {
		t.Fatalf("double toggle = %+v, want original %+v", twice, items)
	}
}

func TestToggleLikeItemsNeverGoesNegative(t *testing.T) {
	// Inconsistent backend state: flagged as liked but count already zero.
	items := []Item{{ID: 1, Kind: KindThread, LikeCount: 0, IsLiked: true}}

	out, _, nowLiked := ToggleLikeItems(items, 1, KindThread)

	if nowLiked {
		t.Fatal("nowLiked = true, want false")
	}
	if out[0].LikeCount != 0 {
		t.Fatalf("LikeCount = %d, want clamped 0", out[0].LikeCount)
	}
}

func TestToggleLikeItemsNoMatch(t *testing.T) {
	items := []Item{{ID: 1, Kind: KindThread}}

	out, changed, _ := ToggleLikeItems(items, 99, KindThread)
	if changed {
		t.Fatal("changed = true for an absent item")
	}
	if !reflect.DeepEqual(out, items) {
		t.Fatal("items changed despite no match")
	}
}

func TestToggleBookmarkItems(t *testing.T) {
	items := []Item{
		{ID: 1, Kind: KindThread, IsBookmarked: false},
		{ID: 2, Kind: KindRepost, IsBookmarked: false},
	}

	out, changed, nowBookmarked := ToggleBookmarkItems(items, 1)
	if !changed || !nowBookmarked {
		t.Fatalf("changed=%v nowBookmarked=%v, want true/true", changed, nowBookmarked)
	}
	if !out[0].IsBookmarked {
		t.Fatal("thread not bookmarked")
	}

	// Reposts carry no bookmark state; an id matching a repost is a no-op.
	out, changed, _ = ToggleBookmarkItems(items, 2)
	if changed {
		t.Fatal("changed = true for a repost id")
	}
	if out[1].IsBookmarked {
		t.Fatal("repost acquired bookmark state")
	}
}

func TestRemoveItem(t *testing.T) {
	items := []Item{
		{ID: 1, Kind: KindThread},
		{ID: 1, Kind: KindRepost},
		{ID: 2, Kind: KindThread},
	}

	out, removed := RemoveItem(items, 1, KindRepost)
	if !removed {
		t.Fatal("removed = false")
	}
	want := []string{"thread-1", "thread-2"}
	if !reflect.DeepEqual(uniqueIDs(out), want) {
		t.Fatalf("items = %v, want %v", uniqueIDs(out), want)
	}

	if _, removed := RemoveItem(items, 99, KindThread); removed {
		t.Fatal("removed = true for an absent item")
	}
}

func loadedController(t *testing.T, gw *fakeGateway) *Controller {
	t.Helper()
	c := NewController(NewService(gw), VariantForYou, 10)
	c.SetSession(testSession())
	if err := c.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	return c
}

func TestControllerToggleLike(t *testing.T) {
	gw := newFakeGateway()
	gw.threads = []ThreadRow{fakeThreadRow(1, "a", 10)}
	c := loadedController(t, gw)

	if err := c.ToggleLike(context.Background(), 1, KindThread); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}

	// Optimistic state is visible immediately.
	if items := c.Items(); !items[0].IsLiked || items[0].LikeCount != 1 {
		t.Fatalf("optimistic state = %v/%d, want liked/1", items[0].IsLiked, items[0].LikeCount)
	}

	c.Wait()
	gw.mu.Lock()
	inserts := append([]string(nil), gw.likeInserts...)
	gw.mu.Unlock()
	if !reflect.DeepEqual(inserts, []string{"thread-1"}) {
		t.Fatalf("remote like inserts = %v, want [thread-1]", inserts)
	}

	// Un-like issues the delete.
	if err := c.ToggleLike(context.Background(), 1, KindThread); err != nil {
		t.Fatalf("un-like: %v", err)
	}
	c.Wait()
	gw.mu.Lock()
	deletes := append([]string(nil), gw.likeDeletes...)
	gw.mu.Unlock()
	if !reflect.DeepEqual(deletes, []string{"thread-1"}) {
		t.Fatalf("remote like deletes = %v, want [thread-1]", deletes)
	}
}

func TestControllerToggleLikeKeepsOptimisticStateOnWriteFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.threads = []ThreadRow{fakeThreadRow(1, "a", 10)}
	gw.writeErr = errors.New("write refused")
	c := loadedController(t, gw)

	if err := c.ToggleLike(context.Background(), 1, KindThread); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	c.Wait()

	// No rollback: the optimistic state stays until the next refresh.
	if items := c.Items(); !items[0].IsLiked {
		t.Fatal("optimistic like rolled back on write failure")
	}
}

func TestControllerToggleLikeRequiresSession(t *testing.T) {
	c := NewController(NewService(newFakeGateway()), VariantForYou, 10)

	if err := c.ToggleLike(context.Background(), 1, KindThread); !errors.Is(err, ErrSessionRequired) {
		t.Fatalf("err = %v, want ErrSessionRequired", err)
	}
}

func TestControllerToggleBookmark(t *testing.T) {
	gw := newFakeGateway()
	gw.threads = []ThreadRow{fakeThreadRow(1, "a", 10)}
	gw.reposts = []RepostRow{fakeRepostRow(2, "b", 1, 5)}
	c := loadedController(t, gw)

	if err := c.ToggleBookmark(context.Background(), 1); err != nil {
		t.Fatalf("ToggleBookmark: %v", err)
	}
	c.Wait()

	gw.mu.Lock()
	inserts := append([]int64(nil), gw.bookmarkInserts...)
	gw.mu.Unlock()
	if !reflect.DeepEqual(inserts, []int64{1}) {
		t.Fatalf("bookmark inserts = %v, want [1]", inserts)
	}

	// A repost id is a no-op: no state change, no remote write.
	if err := c.ToggleBookmark(context.Background(), 2); err != nil {
		t.Fatalf("ToggleBookmark(repost id): %v", err)
	}
	c.Wait()

	gw.mu.Lock()
	extra := len(gw.bookmarkInserts) + len(gw.bookmarkDeletes)
	gw.mu.Unlock()
	if extra != 1 {
		t.Fatalf("bookmark writes = %d, want only the original insert", extra)
	}
}

func TestControllerDeleteDeclined(t *testing.T) {
	gw := newFakeGateway()
	gw.threads = []ThreadRow{fakeThreadRow(1, "a", 10)}
	c := loadedController(t, gw)

	removed, err := c.Delete(context.Background(), 1, KindThread, func() bool { return false })
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed {
		t.Fatal("removed = true after declined confirmation")
	}
	if len(c.Items()) != 1 {
		t.Fatal("item vanished despite declined confirmation")
	}
	gw.mu.Lock()
	deletes := len(gw.threadDeletes)
	gw.mu.Unlock()
	if deletes != 0 {
		t.Fatal("remote delete issued despite declined confirmation")
	}
}

func TestControllerDeleteConfirmed(t *testing.T) {
	gw := newFakeGateway()
	gw.threads = []ThreadRow{fakeThreadRow(1, "a", 10)}
	gw.reposts = []RepostRow{fakeRepostRow(2, "b", 1, 5)}
	c := loadedController(t, gw)

	var hookID int64
	var hookKind Kind
	c.SetDeleteHook(func(id int64, kind Kind) {
		hookID, hookKind = id, kind
	})

	removed, err := c.Delete(context.Background(), 2, KindRepost, func() bool { return true })
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !removed {
		t.Fatal("removed = false")
	}

	want := []string{"thread-1"}
	if !reflect.DeepEqual(uniqueIDs(c.Items()), want) {
		t.Fatalf("items = %v, want %v", uniqueIDs(c.Items()), want)
	}
	if hookID != 2 || hookKind != KindRepost {
		t.Fatalf("delete hook got %d/%s, want 2/repost", hookID, hookKind)
	}

	gw.mu.Lock()
	repostDeletes := append([]int64(nil), gw.repostDeletes...)
	gw.mu.Unlock()
	if !reflect.DeepEqual(repostDeletes, []int64{2}) {
		t.Fatalf("remote repost deletes = %v, want [2]", repostDeletes)
	}
}

func TestControllerCreateThreadRefreshes(t *testing.T) {
	gw := newFakeGateway()
	gw.threads = []ThreadRow{fakeThreadRow(1, "a", 60)}
	c := loadedController(t, gw)
	threadPagesBefore, _, _ := gw.counts()

	gw.mu.Lock()
	gw.threads = append([]ThreadRow{fakeThreadRow(2, "user-1", 1)}, gw.threads...)
	gw.mu.Unlock()

	if err := c.CreateThread(context.Background(), "Lights out and away we go", ""); err != nil {
		t.Fatalf("CreateThread: %v", err)
	}

	gw.mu.Lock()
	inserts := append([]string(nil), gw.threadInserts...)
	gw.mu.Unlock()
	if !reflect.DeepEqual(inserts, []string{"Lights out and away we go"}) {
		t.Fatalf("thread inserts = %v", inserts)
	}

	// The create triggers a full refresh, not a local splice.
	if threadPages, _, _ := gw.counts(); threadPages != threadPagesBefore+1 {
		t.Fatalf("thread fetches = %d, want one refresh after create", threadPages-threadPagesBefore)
	}
	want := []string{"thread-2", "thread-1"}
	if !reflect.DeepEqual(uniqueIDs(c.Items()), want) {
		t.Fatalf("items = %v, want %v", uniqueIDs(c.Items()), want)
	}
}

func TestControllerCreateRepostRefreshes(t *testing.T) {
	gw := newFakeGateway()
	gw.threads = []ThreadRow{fakeThreadRow(1, "a", 60)}
	c := loadedController(t, gw)

	if err := c.CreateRepost(context.Background(), 1, "Had to share this", ""); err != nil {
		t.Fatalf("CreateRepost: %v", err)
	}

	gw.mu.Lock()
	inserts := append([]int64(nil), gw.repostInserts...)
	gw.mu.Unlock()
	if !reflect.DeepEqual(inserts, []int64{1}) {
		t.Fatalf("repost inserts = %v, want [1]", inserts)
	}
}

func TestControllerCreateRequiresSession(t *testing.T) {
	c := NewController(NewService(newFakeGateway()), VariantForYou, 10)

	if err := c.CreateThread(context.Background(), "hi", ""); !errors.Is(err, ErrSessionRequired) {
		t.Fatalf("CreateThread err = %v, want ErrSessionRequired", err)
	}
	if err := c.CreateRepost(context.Background(), 1, "", ""); !errors.Is(err, ErrSessionRequired) {
		t.Fatalf("CreateRepost err = %v, want ErrSessionRequired", err)
	}
}
