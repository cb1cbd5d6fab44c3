package notification

import (
	"context"

	"engagement-service/internal/apperr"
)

type Service interface {
	ListFor(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID string, id uint64) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, id uint64) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type service struct{ repo Repository }

func NewService(r Repository) Service { return &service{repo: r} }

func (s *service) ListFor(ctx context.Context, userID string, limit int) ([]Notification, error) {
	return s.repo.ListFor(ctx, userID, limit)
}

func (s *service) MarkRead(ctx context.Context, userID string, id uint64) error {
	ok, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("notification_not_found", "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID string, id uint64) error {
	ok, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("notification_not_found", "notification not found")
	}
	return nil
}

func (s *service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}
