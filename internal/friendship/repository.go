package friendship

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateRequest(ctx context.Context, req *FriendRequest) error
	GetRequest(ctx context.Context, id uint64) (*FriendRequest, error)
	GetRequestByPair(ctx context.Context, senderID, receiverID string) (*FriendRequest, error)
	DeleteRequest(ctx context.Context, id uint64) error
	DeleteRequestByPair(ctx context.Context, senderID, receiverID string) error
	RequestsSentBy(ctx context.Context, userID string) ([]FriendRequest, error)
	RequestsReceivedBy(ctx context.Context, userID string) ([]FriendRequest, error)

	AddFriend(ctx context.Context, userID, friendID string) error
	RemoveFriend(ctx context.Context, userID, friendID string) error
	AreFriends(ctx context.Context, userID, friendID string) (bool, error)
	FriendIDs(ctx context.Context, userID string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRequest(ctx context.Context, req *FriendRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) GetRequest(ctx context.Context, id uint64) (*FriendRequest, error) {
	var req FriendRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *repository) GetRequestByPair(ctx context.Context, senderID, receiverID string) (*FriendRequest, error) {
	var req FriendRequest
	err := r.db.WithContext(ctx).
		First(&req, "sender_id = ? AND receiver_id = ?", senderID, receiverID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *repository) DeleteRequest(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&FriendRequest{}, "id = ?", id).Error
}

func (r *repository) DeleteRequestByPair(ctx context.Context, senderID, receiverID string) error {
	return r.db.WithContext(ctx).
		Delete(&FriendRequest{}, "sender_id = ? AND receiver_id = ?", senderID, receiverID).Error
}

func (r *repository) RequestsSentBy(ctx context.Context, userID string) ([]FriendRequest, error) {
	var out []FriendRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repository) RequestsReceivedBy(ctx context.Context, userID string) ([]FriendRequest, error) {
	var out []FriendRequest
	err := r.db.WithContext(ctx).
		Where("receiver_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

// AddFriend inserts one direction of the relation. Re-accepting is harmless:
// the conflict clause makes the insert idempotent.
func (r *repository) AddFriend(ctx context.Context, userID, friendID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Friendship{UserID: userID, FriendID: friendID}).Error
}

func (r *repository) RemoveFriend(ctx context.Context, userID, friendID string) error {
	return r.db.WithContext(ctx).
		Delete(&Friendship{}, "user_id = ? AND friend_id = ?", userID, friendID).Error
}

func (r *repository) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&Friendship{}).
		Where("user_id = ?", userID).
		Pluck("friend_id", &ids).Error
	return ids, err
}
