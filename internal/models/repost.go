package models

import "time"

// Repost represents a user-authored share of an existing thread, optionally
// with added commentary. A repost's engagement counters are independent of the
// thread it reposts.
type Repost struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    string    `gorm:"type:uuid;not null;index;column:user_id"`
	ThreadID  int64     `gorm:"not null;index;column:thread_id"`
	Content   string    `gorm:"type:text;column:content"`
	ImageURL  string    `gorm:"type:text;column:image_url"`
	CreatedAt time.Time `gorm:"not null;index:idx_reposts_created_at,sort:desc;column:created_at"`

	// Relationships
	Author *Profile `gorm:"foreignKey:UserID;references:UserID"`
	Thread *Thread  `gorm:"foreignKey:ThreadID;references:ID"`
}

// TableName specifies the table name for Repost
func (Repost) TableName() string {
	return "reposts"
}

// RepostReply represents a reply to a repost, tracked separately from thread
// replies
type RepostReply struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	RepostID  int64     `gorm:"not null;index;column:repost_id"`
	UserID    string    `gorm:"type:uuid;not null;column:user_id"`
	Content   string    `gorm:"type:text;not null;column:content"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	Author *Profile `gorm:"foreignKey:UserID;references:UserID"`
}

// TableName specifies the table name for RepostReply
func (RepostReply) TableName() string {
	return "repost_replies"
}
