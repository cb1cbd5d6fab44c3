package post

import (
	"context"
	"strings"
	"time"

	"engagement-service/internal/apperr"
	"engagement-service/internal/notification"
	"engagement-service/internal/poll"
	"engagement-service/internal/user"
)

type Service interface {
	Create(ctx context.Context, authorID string, req CreatePostRequest) (*PostView, error)
	Get(ctx context.Context, id uint64) (*PostView, error)
	List(ctx context.Context, limit, offset int) ([]PostView, error)
	ViewsByIDs(ctx context.Context, ids []uint64) ([]PostView, error)
	Delete(ctx context.Context, callerID string, id uint64) error

	CreateComment(ctx context.Context, authorID string, postID uint64, content string) (*CommentView, error)
	Comments(ctx context.Context, postID uint64) ([]CommentView, error)
	DeleteComment(ctx context.Context, callerID string, id uint64) error
}

type ProfileSource interface {
	ProfilesByIDs(ctx context.Context, ids []string) ([]user.Profile, error)
}

// Engagements is the slice of the engagement store posts depend on: like
// counts for views, and purging engagement rows when content goes away.
type Engagements interface {
	PostLikeCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
	PurgePost(ctx context.Context, postID uint64, commentIDs []uint64) error
	PurgeComments(ctx context.Context, commentIDs []uint64) error
}

type service struct {
	repo     Repository
	polls    poll.Service
	profiles ProfileSource
	engage   Engagements
	dispatch notification.Dispatcher
}

func NewService(r Repository, polls poll.Service, profiles ProfileSource, engage Engagements, d notification.Dispatcher) Service {
	return &service{repo: r, polls: polls, profiles: profiles, engage: engage, dispatch: d}
}

func (s *service) Create(ctx context.Context, authorID string, req CreatePostRequest) (*PostView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && req.ImageURL == "" && len(req.PollOptions) == 0 {
		return nil, apperr.InvalidState("post_empty", "post needs content, an image or a poll")
	}
	if len(content) > MaxPostLen {
		return nil, apperr.InvalidState("content_too_long", "post content exceeds limit")
	}

	p := &Post{
		AuthorID:  authorID,
		Content:   content,
		ImageURL:  req.ImageURL,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	if len(req.PollOptions) > 0 {
		if err := s.polls.CreateForPost(ctx, p.ID, req.PollOptions, req.PollDurationHours); err != nil {
			// the post must not outlive a failed poll creation
			_, _ = s.repo.Delete(ctx, authorID, p.ID)
			return nil, err
		}
	}
	return s.Get(ctx, p.ID)
}

func (s *service) Get(ctx context.Context, id uint64) (*PostView, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("post_not_found", "post not found")
	}
	views, err := s.assemble(ctx, []Post{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]PostView, error) {
	posts, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, posts)
}

func (s *service) ViewsByIDs(ctx context.Context, ids []uint64) ([]PostView, error) {
	posts, err := s.repo.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, posts)
}

func (s *service) Delete(ctx context.Context, callerID string, id uint64) error {
	commentIDs, err := s.repo.CommentIDs(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, callerID, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("post_not_found", "post not found")
	}
	// comments, likes, saves and the poll go with the post
	if err := s.engage.PurgePost(ctx, id, commentIDs); err != nil {
		return err
	}
	if err := s.repo.DeleteComments(ctx, id); err != nil {
		return err
	}
	return s.polls.DeleteForPost(ctx, id)
}

func (s *service) CreateComment(ctx context.Context, authorID string, postID uint64, content string) (*CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidState("comment_empty", "comment cannot be empty")
	}
	if len(content) > MaxCommentLen {
		return nil, apperr.InvalidState("content_too_long", "comment content exceeds limit")
	}
	p, err := s.repo.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("post_not_found", "post not found")
	}

	c := &Comment{PostID: postID, AuthorID: authorID, Content: content, CreatedAt: time.Now().UTC()}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	s.dispatch.Dispatch(ctx, notification.Event{
		Kind:           notification.KindCommentPosted,
		ActorID:        authorID,
		SubjectOwnerID: p.AuthorID,
		PostID:         postID,
	})

	views, err := s.commentViews(ctx, []Comment{*c})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *service) Comments(ctx context.Context, postID uint64) ([]CommentView, error) {
	p, err := s.repo.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("post_not_found", "post not found")
	}
	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.commentViews(ctx, comments)
}

func (s *service) DeleteComment(ctx context.Context, callerID string, id uint64) error {
	ok, err := s.repo.DeleteComment(ctx, callerID, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("comment_not_found", "comment not found")
	}
	return s.engage.PurgeComments(ctx, []uint64{id})
}

func (s *service) assemble(ctx context.Context, posts []Post) ([]PostView, error) {
	ids := make([]uint64, 0, len(posts))
	authorIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
		authorIDs = append(authorIDs, p.AuthorID)
	}

	profiles, err := s.profiles.ProfilesByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	byAuthor := make(map[string]user.Profile, len(profiles))
	for _, pr := range profiles {
		byAuthor[pr.ID] = pr
	}

	likeCounts, err := s.engage.PostLikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.repo.CommentCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	pollViews, err := s.polls.ViewsForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostView{
			ID:        p.ID,
			Author:    byAuthor[p.AuthorID],
			Content:   p.Content,
			ImageURL:  p.ImageURL,
			Likes:     likeCounts[p.ID],
			Comments:  commentCounts[p.ID],
			Poll:      pollViews[p.ID],
			CreatedAt: p.CreatedAt,
		})
	}
	return out, nil
}

func (s *service) commentViews(ctx context.Context, comments []Comment) ([]CommentView, error) {
	authorIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	profiles, err := s.profiles.ProfilesByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	byAuthor := make(map[string]user.Profile, len(profiles))
	for _, pr := range profiles {
		byAuthor[pr.ID] = pr
	}
	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentView{
			ID:        c.ID,
			PostID:    c.PostID,
			Author:    byAuthor[c.AuthorID],
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return out, nil
}
