package models

import "time"

// Follow represents a follower relationship between two users
type Follow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	FollowerID  string    `gorm:"type:uuid;not null;index;column:follower_id"`
	FollowingID string    `gorm:"type:uuid;not null;index;column:following_id"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}
