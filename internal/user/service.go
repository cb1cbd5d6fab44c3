package user

import (
	"context"
	"strings"
	"time"

	"engagement-service/internal/apperr"
	"engagement-service/internal/shared/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, username, name, password string) (*AuthResponse, error)
	Login(ctx context.Context, username, password string) (*AuthResponse, error)
	Get(ctx context.Context, id string) (*User, error)
	Search(ctx context.Context, query string, limit int) ([]Profile, error)
}

type service struct {
	repo   Repository
	signer *jwt.Signer
}

func NewService(r Repository, signer *jwt.Signer) Service {
	return &service{repo: r, signer: signer}
}

func (s *service) Register(ctx context.Context, username, name, password string) (*AuthResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 6 {
		return nil, apperr.InvalidState("bad_credentials", "username required and password must be at least 6 chars")
	}
	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("username_taken", "username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:        uuid.NewString(),
		Username:  username,
		Name:      name,
		Password:  string(hash),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	tok, err := s.signer.Sign(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{UserID: u.ID, Token: tok}, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user_not_found", "user not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, apperr.InvalidState("bad_credentials", "wrong password")
	}
	tok, err := s.signer.Sign(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{UserID: u.ID, Token: tok}, nil
}

func (s *service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user_not_found", "user not found")
	}
	return u, nil
}

func (s *service) Search(ctx context.Context, query string, limit int) ([]Profile, error) {
	return s.repo.Search(ctx, query, limit)
}
