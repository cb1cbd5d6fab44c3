package user

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ProfilesByIDs(ctx context.Context, ids []string) ([]Profile, error)
	Search(ctx context.Context, query string, limit int) ([]Profile, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) ProfilesByIDs(ctx context.Context, ids []string) ([]Profile, error) {
	if len(ids) == 0 {
		return []Profile{}, nil
	}
	var users []User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	out := make([]Profile, 0, len(users))
	for i := range users {
		out = append(out, users[i].Profile())
	}
	return out, nil
}

func (r *repository) Search(ctx context.Context, query string, limit int) ([]Profile, error) {
	if limit <= 0 {
		limit = 20
	}
	var users []User
	q := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("username ILIKE ? OR name ILIKE ?", q, q).
		Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	out := make([]Profile, 0, len(users))
	for i := range users {
		out = append(out, users[i].Profile())
	}
	return out, nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
