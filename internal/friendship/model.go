package friendship

import (
	"time"

	"engagement-service/internal/user"
)

// FriendRequest existence is the pending state: accept, reject and cancel all
// remove the row. The unique pair index keeps at most one pending request per
// ordered (sender, receiver) pair.
type FriendRequest struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	SenderID   string    `gorm:"size:64;uniqueIndex:idx_request_pair" json:"sender_id"`
	ReceiverID string    `gorm:"size:64;uniqueIndex:idx_request_pair" json:"receiver_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Friendship rows are written in directional pairs: accepting a request
// creates (A,B) and (B,A).
type Friendship struct {
	UserID    string    `gorm:"primaryKey;size:64" json:"user_id"`
	FriendID  string    `gorm:"primaryKey;size:64" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

type RequestView struct {
	ID        uint64       `json:"id"`
	User      user.Profile `json:"user"`
	CreatedAt time.Time    `json:"created_at"`
}
