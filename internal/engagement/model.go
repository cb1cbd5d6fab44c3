package engagement

import "time"

type Kind string

const (
	KindPostLike    Kind = "post-like"
	KindCommentLike Kind = "comment-like"
	KindSave        Kind = "save"
)

type PostLike struct {
	PostID    uint64    `gorm:"primaryKey" json:"post_id"`
	UserID    string    `gorm:"primaryKey;size:64" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentLike struct {
	CommentID uint64    `gorm:"primaryKey" json:"comment_id"`
	UserID    string    `gorm:"primaryKey;size:64" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedPost is a toggle over pair existence rather than set membership.
type SavedPost struct {
	UserID    string    `gorm:"primaryKey;size:64" json:"user_id"`
	PostID    uint64    `gorm:"primaryKey" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	StateAdded   = "added"
	StateRemoved = "removed"
)

type ToggleResult struct {
	State string `json:"state"`
	Count int64  `json:"count"`
}
