package feed

import (
	"fmt"
	"time"
)

// Kind discriminates the two item variants sharing one timeline
type Kind string

const (
	KindThread Kind = "thread"
	KindRepost Kind = "repost"
)

// AnonymousUsername is shown when the profile join is missing (deleted or
// unavailable user). A missing profile is never an error.
const AnonymousUsername = "Anonymous"

// Author is the denormalized profile attached to an item
type Author struct {
	Username     string `json:"username"`
	AvatarURL    string `json:"avatar_url"`
	FavoriteTeam string `json:"favorite_team"`
}

// Item is the canonical feed item. IDs are unique per source table only; the
// unique id derived from kind and id is the deduplication and list identity
// key within a feed.
type Item struct {
	ID           int64     `json:"id"`
	Kind         Kind      `json:"kind"`
	AuthorID     string    `json:"author_id"`
	Author       Author    `json:"author"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LikeCount    int       `json:"like_count"`
	ReplyCount   int       `json:"reply_count"`
	IsLiked      bool      `json:"is_liked"`
	IsBookmarked bool      `json:"is_bookmarked"`

	// Original is set for reposts only: the thread being reposted. The
	// repost's own Content/ImageURL are the reposting user's commentary,
	// distinct from the original thread's.
	Original *Item `json:"original,omitempty"`
}

// UniqueID returns the globally unique key of the item within a feed
func (i Item) UniqueID() string {
	return fmt.Sprintf("%s-%d", i.Kind, i.ID)
}

// ProfileRow is the joined profile sub-object of a raw row. Nil when the
// profile is missing.
type ProfileRow struct {
	Username     string
	AvatarURL    string
	FavoriteTeam string
}

// ThreadRow is a raw thread row with its joined profile and count aggregates
type ThreadRow struct {
	ID         int64
	UserID     string
	Content    string
	ImageURL   string
	CreatedAt  time.Time
	LikeCount  int
	ReplyCount int
	Author     *ProfileRow
}

// RepostRow is a raw repost row. LikeCount and ReplyCount come from the
// repost-scoped aggregates (likes by repost_id, repost_replies), which are
// separate counters from the original thread's own counts.
type RepostRow struct {
	ID         int64
	UserID     string
	ThreadID   int64
	Content    string
	ImageURL   string
	CreatedAt  time.Time
	LikeCount  int
	ReplyCount int
	Author     *ProfileRow
	Original   *ThreadRow
}

// NewThreadItem normalizes a raw thread row into a feed item
func NewThreadItem(row ThreadRow) Item {
	return Item{
		ID:         row.ID,
		Kind:       KindThread,
		AuthorID:   row.UserID,
		Author:     authorFromProfile(row.Author),
		Content:    row.Content,
		ImageURL:   row.ImageURL,
		CreatedAt:  row.CreatedAt,
		LikeCount:  clampCount(row.LikeCount),
		ReplyCount: clampCount(row.ReplyCount),
	}
}

// NewRepostItem normalizes a raw repost row into a feed item
func NewRepostItem(row RepostRow) Item {
	item := Item{
		ID:         row.ID,
		Kind:       KindRepost,
		AuthorID:   row.UserID,
		Author:     authorFromProfile(row.Author),
		Content:    row.Content,
		ImageURL:   row.ImageURL,
		CreatedAt:  row.CreatedAt,
		LikeCount:  clampCount(row.LikeCount),
		ReplyCount: clampCount(row.ReplyCount),
	}
	if row.Original != nil {
		original := NewThreadItem(*row.Original)
		item.Original = &original
	}
	return item
}

func authorFromProfile(p *ProfileRow) Author {
	if p == nil {
		return Author{Username: AnonymousUsername}
	}
	username := p.Username
	if username == "" {
		username = AnonymousUsername
	}
	return Author{
		Username:     username,
		AvatarURL:    p.AvatarURL,
		FavoriteTeam: p.FavoriteTeam,
	}
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
