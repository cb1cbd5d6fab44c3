package notification

import "time"

type Kind string

const (
	KindCommentPosted         Kind = "comment-posted"
	KindCommentLiked          Kind = "comment-liked"
	KindFriendRequestSent     Kind = "friend-request-sent"
	KindFriendRequestAccepted Kind = "friend-request-accepted"
)

type Notification struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	SenderID   string    `gorm:"size:64;index" json:"sender_id"`
	ReceiverID string    `gorm:"size:64;index" json:"receiver_id"`
	Kind       Kind      `gorm:"size:32" json:"kind"`
	Message    string    `json:"message"`
	Target     string    `json:"target"`
	Read       bool      `gorm:"default:false" json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Event is a successful state change in friendship/engagement/comments that
// may fan out into one persisted notification for the counterpart.
type Event struct {
	Kind           Kind
	ActorID        string
	SubjectOwnerID string
	PostID         uint64
}
