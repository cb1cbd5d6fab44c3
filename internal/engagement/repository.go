package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	AddPostLike(ctx context.Context, postID uint64, userID string) (bool, error)
	RemovePostLike(ctx context.Context, postID uint64, userID string) (bool, error)
	PostLikeCount(ctx context.Context, postID uint64) (int64, error)
	PostLikeCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
	PostLikers(ctx context.Context, postID uint64) ([]string, error)

	AddCommentLike(ctx context.Context, commentID uint64, userID string) (bool, error)
	RemoveCommentLike(ctx context.Context, commentID uint64, userID string) (bool, error)
	CommentLikeCount(ctx context.Context, commentID uint64) (int64, error)

	AddSaved(ctx context.Context, userID string, postID uint64) (bool, error)
	RemoveSaved(ctx context.Context, userID string, postID uint64) (bool, error)
	SavedPostIDs(ctx context.Context, userID string) ([]uint64, error)

	PurgePost(ctx context.Context, postID uint64, commentIDs []uint64) error
	PurgeComments(ctx context.Context, commentIDs []uint64) error
}

// counters is the slice of redis the like cache touches; *redis.Client
// satisfies it.
type counters interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Decr(ctx context.Context, key string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// adjustCounter applies delta to the cached counter and reseeds it from the
// table whenever the cached value cannot be trusted: a cold key seeds at the
// delta instead of the real count, and a negative value means the cache
// drifted.
func adjustCounter(ctx context.Context, rdb counters, key string, delta int64, count func() (int64, error)) {
	var n int64
	var err error
	if delta > 0 {
		n, err = rdb.Incr(ctx, key).Result()
	} else {
		n, err = rdb.Decr(ctx, key).Result()
	}
	if err != nil {
		return
	}
	if (delta > 0 && n <= 1) || n < 0 {
		if real, cerr := count(); cerr == nil {
			_ = rdb.Set(ctx, key, real, 0).Err()
		}
	}
}

type repository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewRepository(db *gorm.DB, rdb *redis.Client) Repository {
	return &repository{db: db, rdb: rdb}
}

func likeKey(postID uint64) string { return fmt.Sprintf("eng:likes:post:%d", postID) }

// AddPostLike is the toggle's atomic set-add: a conflicting insert affects
// zero rows, which tells the caller the membership already existed.
func (r *repository) AddPostLike(ctx context.Context, postID uint64, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&PostLike{PostID: postID, UserID: userID})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 && r.rdb != nil {
		adjustCounter(ctx, r.rdb, likeKey(postID), 1, func() (int64, error) {
			return r.dbPostLikeCount(ctx, postID)
		})
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) RemovePostLike(ctx context.Context, postID uint64, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Delete(&PostLike{}, "post_id = ? AND user_id = ?", postID, userID)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 && r.rdb != nil {
		adjustCounter(ctx, r.rdb, likeKey(postID), -1, func() (int64, error) {
			return r.dbPostLikeCount(ctx, postID)
		})
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) PostLikeCount(ctx context.Context, postID uint64) (int64, error) {
	if r.rdb != nil {
		if val, err := r.rdb.Get(ctx, likeKey(postID)).Int64(); err == nil {
			return val, nil
		}
	}
	count, err := r.dbPostLikeCount(ctx, postID)
	if err != nil {
		return 0, err
	}
	if r.rdb != nil {
		_ = r.rdb.Set(ctx, likeKey(postID), count, 0).Err()
	}
	return count, nil
}

func (r *repository) dbPostLikeCount(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&PostLike{}).
		Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (r *repository) PostLikeCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PostID uint64
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&PostLike{}).
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

func (r *repository) PostLikers(ctx context.Context, postID uint64) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&PostLike{}).
		Where("post_id = ?", postID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *repository) AddCommentLike(ctx context.Context, commentID uint64, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&CommentLike{CommentID: commentID, UserID: userID})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) RemoveCommentLike(ctx context.Context, commentID uint64, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Delete(&CommentLike{}, "comment_id = ? AND user_id = ?", commentID, userID)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) CommentLikeCount(ctx context.Context, commentID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&CommentLike{}).
		Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}

func (r *repository) AddSaved(ctx context.Context, userID string, postID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&SavedPost{UserID: userID, PostID: postID})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) RemoveSaved(ctx context.Context, userID string, postID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Delete(&SavedPost{}, "user_id = ? AND post_id = ?", userID, postID)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) SavedPostIDs(ctx context.Context, userID string) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&SavedPost{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("post_id", &ids).Error
	return ids, err
}

// PurgePost removes every engagement row tied to a deleted post: its likes,
// its saves, and the likes of its comments.
func (r *repository) PurgePost(ctx context.Context, postID uint64, commentIDs []uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&PostLike{}, "post_id = ?", postID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&SavedPost{}, "post_id = ?", postID).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Delete(&CommentLike{}, "comment_id IN ?", commentIDs).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if r.rdb != nil {
		_ = r.rdb.Del(ctx, likeKey(postID)).Err()
	}
	return nil
}

func (r *repository) PurgeComments(ctx context.Context, commentIDs []uint64) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Delete(&CommentLike{}, "comment_id IN ?", commentIDs).Error
}
