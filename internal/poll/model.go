package poll

import (
	"time"

	"engagement-service/internal/user"
)

type Poll struct {
	PostID  uint64    `gorm:"primaryKey" json:"post_id"`
	EndDate time.Time `json:"end_date"`
	Active  bool      `json:"active"`
}

type PollOption struct {
	ID       uint64 `gorm:"primaryKey" json:"id"`
	PostID   uint64 `gorm:"index" json:"post_id"`
	Position int    `json:"position"`
	Text     string `gorm:"size:256" json:"text"`
}

// PollVote holds one row per (poll, user): the composite key makes the
// single-active-vote invariant structural, and a vote switch is an upsert of
// the option column.
type PollVote struct {
	PostID    uint64    `gorm:"primaryKey" json:"post_id"`
	UserID    string    `gorm:"primaryKey;size:64" json:"user_id"`
	OptionID  uint64    `gorm:"index" json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OptionView struct {
	ID     uint64         `json:"id"`
	Text   string         `json:"text"`
	Voters []user.Profile `json:"voters"`
}

type View struct {
	PostID  uint64       `json:"post_id"`
	Active  bool         `json:"active"`
	EndDate time.Time    `json:"end_date"`
	Options []OptionView `json:"options"`
}

type OptionResult struct {
	ID         uint64 `json:"id"`
	Text       string `json:"text"`
	Votes      int64  `json:"votes"`
	Percentage int    `json:"percentage"`
}

type Results struct {
	PostID     uint64         `json:"post_id"`
	Active     bool           `json:"active"`
	EndDate    time.Time      `json:"end_date"`
	TotalVotes int64          `json:"total_votes"`
	Options    []OptionResult `json:"options"`
}
