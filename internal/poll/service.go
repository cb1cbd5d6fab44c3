package poll

import (
	"context"
	"math"
	"strings"
	"time"

	"engagement-service/internal/apperr"
	"engagement-service/internal/user"
)

type Service interface {
	CreateForPost(ctx context.Context, postID uint64, optionTexts []string, durationHours int) error
	Vote(ctx context.Context, userID string, postID, optionID uint64) (*View, error)
	Results(ctx context.Context, postID uint64) (*Results, error)
	ViewsForPosts(ctx context.Context, postIDs []uint64) (map[uint64]*View, error)
	DeleteForPost(ctx context.Context, postID uint64) error
}

type ProfileSource interface {
	ProfilesByIDs(ctx context.Context, ids []string) ([]user.Profile, error)
}

type service struct {
	repo         Repository
	profiles     ProfileSource
	defaultHours int
	now          func() time.Time
}

func NewService(r Repository, profiles ProfileSource, defaultHours int) Service {
	if defaultHours <= 0 {
		defaultHours = 24
	}
	return &service{repo: r, profiles: profiles, defaultHours: defaultHours, now: time.Now}
}

func (s *service) CreateForPost(ctx context.Context, postID uint64, optionTexts []string, durationHours int) error {
	texts := make([]string, 0, len(optionTexts))
	for _, t := range optionTexts {
		if t = strings.TrimSpace(t); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) < 2 {
		return apperr.InvalidState("poll_options_invalid", "a poll needs at least two non-empty options")
	}
	if durationHours <= 0 {
		durationHours = s.defaultHours
	}

	p := &Poll{
		PostID:  postID,
		EndDate: s.now().UTC().Add(time.Duration(durationHours) * time.Hour),
		Active:  true,
	}
	options := make([]PollOption, 0, len(texts))
	for i, t := range texts {
		options = append(options, PollOption{PostID: postID, Position: i, Text: t})
	}
	return s.repo.Create(ctx, p, options)
}

func (s *service) Vote(ctx context.Context, userID string, postID, optionID uint64) (*View, error) {
	p, err := s.repo.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("poll_not_found", "post has no poll")
	}
	if !p.Active {
		return nil, apperr.InvalidState("poll_inactive", "poll is no longer active")
	}
	if !s.now().Before(p.EndDate) {
		if err := s.repo.Deactivate(ctx, postID); err != nil {
			return nil, err
		}
		return nil, apperr.InvalidState("poll_expired", "poll has expired")
	}

	options, err := s.repo.Options(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !hasOption(options, optionID) {
		return nil, apperr.InvalidState("option_not_found", "poll option not found")
	}

	if err := s.repo.UpsertVote(ctx, postID, userID, optionID); err != nil {
		return nil, err
	}
	return s.view(ctx, p, options)
}

func (s *service) Results(ctx context.Context, postID uint64) (*Results, error) {
	p, err := s.repo.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("poll_not_found", "post has no poll")
	}
	if p.Active && !s.now().Before(p.EndDate) {
		if err := s.repo.Deactivate(ctx, postID); err != nil {
			return nil, err
		}
		p.Active = false
	}

	options, err := s.repo.Options(ctx, postID)
	if err != nil {
		return nil, err
	}
	votes, err := s.repo.Votes(ctx, postID)
	if err != nil {
		return nil, err
	}

	perOption := make(map[uint64]int64, len(options))
	for _, v := range votes {
		perOption[v.OptionID]++
	}
	total := int64(len(votes))

	res := &Results{
		PostID:     postID,
		Active:     p.Active,
		EndDate:    p.EndDate,
		TotalVotes: total,
		Options:    make([]OptionResult, 0, len(options)),
	}
	for _, o := range options {
		res.Options = append(res.Options, OptionResult{
			ID:         o.ID,
			Text:       o.Text,
			Votes:      perOption[o.ID],
			Percentage: percentage(perOption[o.ID], total),
		})
	}
	return res, nil
}

// ViewsForPosts resolves polls for a post listing, flipping and persisting
// active=false for any poll whose deadline has passed.
func (s *service) ViewsForPosts(ctx context.Context, postIDs []uint64) (map[uint64]*View, error) {
	polls, err := s.repo.ForPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[uint64]*View, len(polls))
	for i := range polls {
		p := polls[i]
		if p.Active && !s.now().Before(p.EndDate) {
			if err := s.repo.Deactivate(ctx, p.PostID); err != nil {
				return nil, err
			}
			p.Active = false
		}
		options, err := s.repo.Options(ctx, p.PostID)
		if err != nil {
			return nil, err
		}
		v, err := s.view(ctx, &p, options)
		if err != nil {
			return nil, err
		}
		out[p.PostID] = v
	}
	return out, nil
}

func (s *service) DeleteForPost(ctx context.Context, postID uint64) error {
	return s.repo.DeleteForPost(ctx, postID)
}

func (s *service) view(ctx context.Context, p *Poll, options []PollOption) (*View, error) {
	votes, err := s.repo.Votes(ctx, p.PostID)
	if err != nil {
		return nil, err
	}
	voterIDs := make([]string, 0, len(votes))
	byOption := make(map[uint64][]string, len(options))
	for _, v := range votes {
		voterIDs = append(voterIDs, v.UserID)
		byOption[v.OptionID] = append(byOption[v.OptionID], v.UserID)
	}
	profiles, err := s.profiles.ProfilesByIDs(ctx, voterIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]user.Profile, len(profiles))
	for _, pr := range profiles {
		byID[pr.ID] = pr
	}

	view := &View{
		PostID:  p.PostID,
		Active:  p.Active,
		EndDate: p.EndDate,
		Options: make([]OptionView, 0, len(options)),
	}
	for _, o := range options {
		ov := OptionView{ID: o.ID, Text: o.Text, Voters: []user.Profile{}}
		for _, uid := range byOption[o.ID] {
			if pr, ok := byID[uid]; ok {
				ov.Voters = append(ov.Voters, pr)
			}
		}
		view.Options = append(view.Options, ov)
	}
	return view, nil
}

func hasOption(options []PollOption, id uint64) bool {
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}

func percentage(votes, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}
