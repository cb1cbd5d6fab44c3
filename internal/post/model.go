package post

import (
	"time"

	"engagement-service/internal/poll"
	"engagement-service/internal/user"
)

const (
	MaxPostLen    = 500
	MaxCommentLen = 300
)

type Post struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	AuthorID  string    `gorm:"size:64;index" json:"author_id"`
	Content   string    `gorm:"size:500" json:"content"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"index" json:"post_id"`
	AuthorID  string    `gorm:"size:64;index" json:"author_id"`
	Content   string    `gorm:"size:300" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type PostView struct {
	ID        uint64       `json:"id"`
	Author    user.Profile `json:"author"`
	Content   string       `json:"content"`
	ImageURL  string       `json:"image_url"`
	Likes     int64        `json:"likes"`
	Comments  int64        `json:"comments"`
	Poll      *poll.View   `json:"poll,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type CommentView struct {
	ID        uint64       `json:"id"`
	PostID    uint64       `json:"post_id"`
	Author    user.Profile `json:"author"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
}
