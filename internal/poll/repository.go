package poll

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, p *Poll, options []PollOption) error
	Get(ctx context.Context, postID uint64) (*Poll, error)
	Options(ctx context.Context, postID uint64) ([]PollOption, error)
	Deactivate(ctx context.Context, postID uint64) error
	UpsertVote(ctx context.Context, postID uint64, userID string, optionID uint64) error
	Votes(ctx context.Context, postID uint64) ([]PollVote, error)
	ForPosts(ctx context.Context, postIDs []uint64) ([]Poll, error)
	DeleteForPost(ctx context.Context, postID uint64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Poll, options []PollOption) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Create(&options).Error
	})
}

func (r *repository) Get(ctx context.Context, postID uint64) (*Poll, error) {
	var p Poll
	if err := r.db.WithContext(ctx).First(&p, "post_id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Options(ctx context.Context, postID uint64) ([]PollOption, error) {
	var out []PollOption
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).Order("position ASC").Find(&out).Error
	return out, err
}

func (r *repository) Deactivate(ctx context.Context, postID uint64) error {
	return r.db.WithContext(ctx).Model(&Poll{}).
		Where("post_id = ?", postID).
		Update("active", false).Error
}

// UpsertVote is the store's atomic set primitive for voting: a single
// ON CONFLICT DO UPDATE moves the caller's vote without a read-modify-write
// round trip, so concurrent votes by one user cannot produce two memberships.
func (r *repository) UpsertVote(ctx context.Context, postID uint64, userID string, optionID uint64) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{"option_id": optionID, "updated_at": now}),
	}).Create(&PollVote{
		PostID:    postID,
		UserID:    userID,
		OptionID:  optionID,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
}

func (r *repository) Votes(ctx context.Context, postID uint64) ([]PollVote, error) {
	var out []PollVote
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Find(&out).Error
	return out, err
}

func (r *repository) ForPosts(ctx context.Context, postIDs []uint64) ([]Poll, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var out []Poll
	err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&out).Error
	return out, err
}

func (r *repository) DeleteForPost(ctx context.Context, postID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&PollVote{}, "post_id = ?", postID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&PollOption{}, "post_id = ?", postID).Error; err != nil {
			return err
		}
		return tx.Delete(&Poll{}, "post_id = ?", postID).Error
	})
}
