package story

import (
	"time"

	"engagement-service/internal/user"
)

type Story struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;index" json:"user_id"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

type StoryView struct {
	ID        uint64       `json:"id"`
	User      user.Profile `json:"user"`
	ImageURL  string       `json:"image_url"`
	CreatedAt time.Time    `json:"created_at"`
}
