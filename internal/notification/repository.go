package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListFor(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID string, id uint64) (bool, error)
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, id uint64) (bool, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type repository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewRepository(db *gorm.DB, rdb *redis.Client) Repository {
	return &repository{db: db, rdb: rdb}
}

func unreadKey(userID string) string { return fmt.Sprintf("ntf:unread:%s", userID) }

func (r *repository) Create(ctx context.Context, n *Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return err
	}
	if r.rdb != nil {
		n2, _ := r.rdb.Incr(ctx, unreadKey(n.ReceiverID)).Result()
		if n2 <= 1 {
			r.backfillUnread(ctx, n.ReceiverID)
		}
	}
	return nil
}

func (r *repository) ListFor(ctx context.Context, userID string, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []Notification
	err := r.db.WithContext(ctx).
		Where("receiver_id = ?", userID).
		Order("created_at DESC").Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *repository) MarkRead(ctx context.Context, userID string, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND receiver_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 && r.rdb != nil {
		_ = r.rdb.Del(ctx, unreadKey(userID)).Err()
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) MarkAllRead(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("receiver_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		return err
	}
	if r.rdb != nil {
		_ = r.rdb.Set(ctx, unreadKey(userID), 0, 0).Err()
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, userID string, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ?", id, userID).
		Delete(&Notification{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 && r.rdb != nil {
		_ = r.rdb.Del(ctx, unreadKey(userID)).Err()
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if r.rdb != nil {
		if val, err := r.rdb.Get(ctx, unreadKey(userID)).Int64(); err == nil {
			return val, nil
		}
	}
	return r.backfillUnread(ctx, userID)
}

func (r *repository) backfillUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("receiver_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	if r.rdb != nil {
		_ = r.rdb.Set(ctx, unreadKey(userID), count, 0).Err()
	}
	return count, nil
}
