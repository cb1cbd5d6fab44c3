package engagement

import (
	"context"

	"engagement-service/internal/apperr"
	"engagement-service/internal/notification"
	"engagement-service/internal/post"
	"engagement-service/internal/user"
)

type Service interface {
	Toggle(ctx context.Context, actorID string, kind Kind, targetID uint64) (*ToggleResult, error)
	SavedPosts(ctx context.Context, userID string) ([]post.PostView, error)
	PostLikers(ctx context.Context, postID uint64) ([]user.Profile, error)
}

// TargetSource resolves toggle targets to their owners. Empty owner means the
// target does not exist.
type TargetSource interface {
	PostAuthor(ctx context.Context, id uint64) (string, error)
	CommentAuthor(ctx context.Context, id uint64) (authorID string, postID uint64, err error)
}

type PostViews interface {
	ViewsByIDs(ctx context.Context, ids []uint64) ([]post.PostView, error)
}

type ProfileSource interface {
	ProfilesByIDs(ctx context.Context, ids []string) ([]user.Profile, error)
}

type service struct {
	repo     Repository
	targets  TargetSource
	views    PostViews
	profiles ProfileSource
	dispatch notification.Dispatcher
}

func NewService(r Repository, targets TargetSource, views PostViews, profiles ProfileSource, d notification.Dispatcher) Service {
	return &service{repo: r, targets: targets, views: views, profiles: profiles, dispatch: d}
}

// Toggle flips the actor's membership on the target. Add first: when the
// insert hits the existing row it affects nothing, and the toggle removes
// instead, so two racing calls can never both observe "added".
func (s *service) Toggle(ctx context.Context, actorID string, kind Kind, targetID uint64) (*ToggleResult, error) {
	switch kind {
	case KindPostLike:
		return s.togglePostLike(ctx, actorID, targetID)
	case KindCommentLike:
		return s.toggleCommentLike(ctx, actorID, targetID)
	case KindSave:
		return s.toggleSaved(ctx, actorID, targetID)
	}
	return nil, apperr.InvalidState("unknown_kind", "unknown toggle kind")
}

func (s *service) togglePostLike(ctx context.Context, actorID string, postID uint64) (*ToggleResult, error) {
	author, err := s.targets.PostAuthor(ctx, postID)
	if err != nil {
		return nil, err
	}
	if author == "" {
		return nil, apperr.NotFound("post_not_found", "post not found")
	}

	state := StateAdded
	added, err := s.repo.AddPostLike(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}
	if !added {
		if _, err := s.repo.RemovePostLike(ctx, postID, actorID); err != nil {
			return nil, err
		}
		state = StateRemoved
	}
	// post likes intentionally do not notify

	count, err := s.repo.PostLikeCount(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{State: state, Count: count}, nil
}

func (s *service) toggleCommentLike(ctx context.Context, actorID string, commentID uint64) (*ToggleResult, error) {
	author, postID, err := s.targets.CommentAuthor(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if author == "" {
		return nil, apperr.NotFound("comment_not_found", "comment not found")
	}

	state := StateAdded
	added, err := s.repo.AddCommentLike(ctx, commentID, actorID)
	if err != nil {
		return nil, err
	}
	if !added {
		if _, err := s.repo.RemoveCommentLike(ctx, commentID, actorID); err != nil {
			return nil, err
		}
		state = StateRemoved
	}

	if state == StateAdded && actorID != author {
		s.dispatch.Dispatch(ctx, notification.Event{
			Kind:           notification.KindCommentLiked,
			ActorID:        actorID,
			SubjectOwnerID: author,
			PostID:         postID,
		})
	}

	count, err := s.repo.CommentLikeCount(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{State: state, Count: count}, nil
}

func (s *service) toggleSaved(ctx context.Context, actorID string, postID uint64) (*ToggleResult, error) {
	author, err := s.targets.PostAuthor(ctx, postID)
	if err != nil {
		return nil, err
	}
	if author == "" {
		return nil, apperr.NotFound("post_not_found", "post not found")
	}

	state := StateAdded
	added, err := s.repo.AddSaved(ctx, actorID, postID)
	if err != nil {
		return nil, err
	}
	if !added {
		if _, err := s.repo.RemoveSaved(ctx, actorID, postID); err != nil {
			return nil, err
		}
		state = StateRemoved
	}

	ids, err := s.repo.SavedPostIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{State: state, Count: int64(len(ids))}, nil
}

func (s *service) SavedPosts(ctx context.Context, userID string) ([]post.PostView, error) {
	ids, err := s.repo.SavedPostIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views.ViewsByIDs(ctx, ids)
}

func (s *service) PostLikers(ctx context.Context, postID uint64) ([]user.Profile, error) {
	author, err := s.targets.PostAuthor(ctx, postID)
	if err != nil {
		return nil, err
	}
	if author == "" {
		return nil, apperr.NotFound("post_not_found", "post not found")
	}
	ids, err := s.repo.PostLikers(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.profiles.ProfilesByIDs(ctx, ids)
}
