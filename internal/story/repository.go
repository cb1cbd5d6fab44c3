package story

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, s *Story) error
	ListSince(ctx context.Context, cutoff time.Time) ([]Story, error)
	Delete(ctx context.Context, userID string, id uint64) (bool, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Story) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) ListSince(ctx context.Context, cutoff time.Time) ([]Story, error) {
	var out []Story
	err := r.db.WithContext(ctx).
		Where("created_at > ?", cutoff).Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) Delete(ctx context.Context, userID string, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Delete(&Story{}, "id = ? AND user_id = ?", id, userID)
	return res.RowsAffected > 0, res.Error
}

// DeleteOlderThan is the stateless bulk delete behind the sweep endpoint.
func (r *repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Delete(&Story{}, "created_at <= ?", cutoff)
	return res.RowsAffected, res.Error
}
