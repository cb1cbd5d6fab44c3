package post

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, p *Post) error
	Get(ctx context.Context, id uint64) (*Post, error)
	List(ctx context.Context, limit, offset int) ([]Post, error)
	ByIDs(ctx context.Context, ids []uint64) ([]Post, error)
	Delete(ctx context.Context, authorID string, id uint64) (bool, error)

	CreateComment(ctx context.Context, c *Comment) error
	GetComment(ctx context.Context, id uint64) (*Comment, error)
	ListComments(ctx context.Context, postID uint64) ([]Comment, error)
	DeleteComment(ctx context.Context, authorID string, id uint64) (bool, error)
	DeleteComments(ctx context.Context, postID uint64) error
	CommentIDs(ctx context.Context, postID uint64) ([]uint64, error)
	CommentCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)

	PostAuthor(ctx context.Context, id uint64) (string, error)
	CommentAuthor(ctx context.Context, id uint64) (authorID string, postID uint64, err error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) Get(ctx context.Context, id uint64) (*Post, error) {
	var p Post
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var out []Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *repository) ByIDs(ctx context.Context, ids []uint64) ([]Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []Post
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) Delete(ctx context.Context, authorID string, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Delete(&Post{}, "id = ? AND author_id = ?", id, authorID)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) CreateComment(ctx context.Context, c *Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) GetComment(ctx context.Context, id uint64) (*Comment, error) {
	var c Comment
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListComments(ctx context.Context, postID uint64) ([]Comment, error) {
	var out []Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) DeleteComment(ctx context.Context, authorID string, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Delete(&Comment{}, "id = ? AND author_id = ?", id, authorID)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) DeleteComments(ctx context.Context, postID uint64) error {
	return r.db.WithContext(ctx).Delete(&Comment{}, "post_id = ?", postID).Error
}

func (r *repository) CommentIDs(ctx context.Context, postID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&Comment{}).
		Where("post_id = ?", postID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) CommentCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PostID uint64
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&Comment{}).
		Select("post_id, count(*) as n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PostID] = row.N
	}
	return out, nil
}

func (r *repository) PostAuthor(ctx context.Context, id uint64) (string, error) {
	p, err := r.Get(ctx, id)
	if err != nil || p == nil {
		return "", err
	}
	return p.AuthorID, nil
}

func (r *repository) CommentAuthor(ctx context.Context, id uint64) (string, uint64, error) {
	c, err := r.GetComment(ctx, id)
	if err != nil || c == nil {
		return "", 0, err
	}
	return c.AuthorID, c.PostID, nil
}
