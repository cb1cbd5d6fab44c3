package story

import (
	"context"
	"time"

	"engagement-service/internal/apperr"
	"engagement-service/internal/user"
)

type Service interface {
	Create(ctx context.Context, userID, imageURL string) (*Story, error)
	ListActive(ctx context.Context) ([]StoryView, error)
	Delete(ctx context.Context, userID string, id uint64) error
	Sweep(ctx context.Context) (int64, error)
}

type ProfileSource interface {
	ProfilesByIDs(ctx context.Context, ids []string) ([]user.Profile, error)
}

type service struct {
	repo     Repository
	profiles ProfileSource
	ttl      time.Duration
	now      func() time.Time
}

func NewService(r Repository, profiles ProfileSource, ttlHours int) Service {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &service{
		repo:     r,
		profiles: profiles,
		ttl:      time.Duration(ttlHours) * time.Hour,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, userID, imageURL string) (*Story, error) {
	if imageURL == "" {
		return nil, apperr.InvalidState("story_empty", "story needs an image")
	}
	st := &Story{UserID: userID, ImageURL: imageURL, CreatedAt: s.now().UTC()}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// ListActive applies the TTL as a read-time filter; stale rows stay until the
// sweep removes them.
func (s *service) ListActive(ctx context.Context) ([]StoryView, error) {
	stories, err := s.repo.ListSince(ctx, s.now().UTC().Add(-s.ttl))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(stories))
	for _, st := range stories {
		ids = append(ids, st.UserID)
	}
	profiles, err := s.profiles.ProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]user.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	out := make([]StoryView, 0, len(stories))
	for _, st := range stories {
		out = append(out, StoryView{
			ID:        st.ID,
			User:      byID[st.UserID],
			ImageURL:  st.ImageURL,
			CreatedAt: st.CreatedAt,
		})
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, userID string, id uint64) error {
	ok, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("story_not_found", "story not found")
	}
	return nil
}

func (s *service) Sweep(ctx context.Context) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, s.now().UTC().Add(-s.ttl))
}
