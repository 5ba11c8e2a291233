package models

import (
	"database/sql"
	"time"
)

// Like represents a like on either a thread or a repost. Exactly one of
// ThreadID and RepostID is set.
type Like struct {
	ID        int64         `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    string        `gorm:"type:uuid;not null;index;column:user_id"`
	ThreadID  sql.NullInt64 `gorm:"index;column:thread_id"`
	RepostID  sql.NullInt64 `gorm:"index;column:repost_id"`
	CreatedAt time.Time     `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "likes"
}

// Bookmark represents a saved thread. Bookmarks apply to threads only; a
// repost is never bookmarkable.
type Bookmark struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    string    `gorm:"type:uuid;not null;index;column:user_id"`
	ThreadID  int64     `gorm:"not null;index;column:thread_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Bookmark
func (Bookmark) TableName() string {
	return "bookmarks"
}
