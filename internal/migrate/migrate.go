package migrate

import (
	"engagement-service/internal/engagement"
	"engagement-service/internal/friendship"
	"engagement-service/internal/notification"
	"engagement-service/internal/poll"
	"engagement-service/internal/post"
	"engagement-service/internal/shared/db"
	"engagement-service/internal/story"
	"engagement-service/internal/user"
)

func AutoMigrateAll(store *db.Store) error {
	return store.DB.AutoMigrate(
		&user.User{},
		&friendship.FriendRequest{}, &friendship.Friendship{},
		&post.Post{}, &post.Comment{},
		&engagement.PostLike{}, &engagement.CommentLike{}, &engagement.SavedPost{},
		&poll.Poll{}, &poll.PollOption{}, &poll.PollVote{},
		&notification.Notification{},
		&story.Story{},
	)
}
