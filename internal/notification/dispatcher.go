package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"engagement-service/internal/kafka"
	"engagement-service/internal/user"
)

// Dispatcher fans a state change out into at most one persisted notification.
// It is a best-effort side channel: Dispatch never reports failure to the
// caller, so a notification write can never fail the triggering action.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event)
}

type ProfileSource interface {
	ProfilesByIDs(ctx context.Context, ids []string) ([]user.Profile, error)
}

type dispatcher struct {
	repo     Repository
	profiles ProfileSource
	events   kafka.Writer
}

// NewDispatcher builds the fan-out boundary. events may be nil when no broker
// is configured.
func NewDispatcher(repo Repository, profiles ProfileSource, events kafka.Writer) Dispatcher {
	return &dispatcher{repo: repo, profiles: profiles, events: events}
}

func (d *dispatcher) Dispatch(ctx context.Context, ev Event) {
	if ev.ActorID == "" || ev.SubjectOwnerID == "" {
		return
	}
	if ev.ActorID == ev.SubjectOwnerID {
		// acting on your own content never notifies
		return
	}

	message, target, ok := d.render(ctx, ev)
	if !ok {
		log.Printf("[notify] unknown event kind %q dropped", ev.Kind)
		return
	}

	n := &Notification{
		SenderID:   ev.ActorID,
		ReceiverID: ev.SubjectOwnerID,
		Kind:       ev.Kind,
		Message:    message,
		Target:     target,
		CreatedAt:  time.Now().UTC(),
	}
	if err := d.repo.Create(ctx, n); err != nil {
		log.Printf("[notify] dropped %s for %s: %v", ev.Kind, ev.SubjectOwnerID, err)
		return
	}

	if d.events != nil {
		if err := d.events.WriteJSON(ctx, n.ReceiverID, n); err != nil {
			log.Printf("[notify] kafka publish failed: %v", err)
		}
	}
}

func (d *dispatcher) render(ctx context.Context, ev Event) (message, target string, ok bool) {
	name := d.actorName(ctx, ev.ActorID)
	switch ev.Kind {
	case KindCommentPosted:
		return fmt.Sprintf("%s commented on your post", name), fmt.Sprintf("/posts/%d", ev.PostID), true
	case KindCommentLiked:
		return fmt.Sprintf("%s liked your comment", name), fmt.Sprintf("/posts/%d", ev.PostID), true
	case KindFriendRequestSent:
		return fmt.Sprintf("%s sent you a friend request", name), fmt.Sprintf("/profile/%s", ev.ActorID), true
	case KindFriendRequestAccepted:
		return fmt.Sprintf("%s accepted your friend request", name), fmt.Sprintf("/profile/%s", ev.ActorID), true
	}
	return "", "", false
}

func (d *dispatcher) actorName(ctx context.Context, actorID string) string {
	if d.profiles != nil {
		if ps, err := d.profiles.ProfilesByIDs(ctx, []string{actorID}); err == nil && len(ps) == 1 {
			if ps[0].Name != "" {
				return ps[0].Name
			}
			return ps[0].Username
		}
	}
	return "Someone"
}
