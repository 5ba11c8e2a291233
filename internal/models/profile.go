package models

import "time"

// Profile represents a user profile row, keyed by the auth provider's user id
type Profile struct {
	UserID       string    `gorm:"type:uuid;primaryKey;column:user_id"`
	Username     string    `gorm:"type:varchar(32);not null;column:username"`
	AvatarURL    string    `gorm:"type:text;column:avatar_url"`
	FavoriteTeam string    `gorm:"type:varchar(64);column:favorite_team"`
	CreatedAt    time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}
