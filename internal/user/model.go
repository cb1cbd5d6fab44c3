package user

import "time"

type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:64" json:"username"`
	Name      string    `gorm:"size:128" json:"name"`
	Password  string    `json:"-"`
	AvatarURL string    `json:"avatar_url"`
	CoverURL  string    `json:"cover_url"`
	Bio       string    `gorm:"size:512" json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is the lightweight projection embedded in friend lists, poll
// voter lists and notifications.
type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, Name: u.Name, AvatarURL: u.AvatarURL}
}
