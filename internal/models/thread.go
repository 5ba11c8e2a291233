package models

import "time"

// Thread represents an original top-level post
type Thread struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    string    `gorm:"type:uuid;not null;index;column:user_id"`
	Content   string    `gorm:"type:text;column:content"`
	ImageURL  string    `gorm:"type:text;column:image_url"`
	CreatedAt time.Time `gorm:"not null;index:idx_threads_created_at,sort:desc;column:created_at"`

	// Relationships
	Author *Profile `gorm:"foreignKey:UserID;references:UserID"`
}

// TableName specifies the table name for Thread
func (Thread) TableName() string {
	return "threads"
}

// Reply represents a reply to a thread
type Reply struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ThreadID  int64     `gorm:"not null;index;column:thread_id"`
	UserID    string    `gorm:"type:uuid;not null;column:user_id"`
	Content   string    `gorm:"type:text;not null;column:content"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	Author *Profile `gorm:"foreignKey:UserID;references:UserID"`
}

// TableName specifies the table name for Reply
func (Reply) TableName() string {
	return "replies"
}
