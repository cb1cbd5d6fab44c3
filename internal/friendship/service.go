package friendship

import (
	"context"
	"time"

	"engagement-service/internal/apperr"
	"engagement-service/internal/notification"
	"engagement-service/internal/user"
)

type Service interface {
	SendRequest(ctx context.Context, senderID, receiverID string) (*FriendRequest, error)
	AcceptRequest(ctx context.Context, callerID string, requestID uint64) error
	RejectRequest(ctx context.Context, callerID string, requestID uint64) error
	CancelRequest(ctx context.Context, callerID string, requestID uint64) error
	Unfriend(ctx context.Context, callerID, otherID string) error
	SentRequests(ctx context.Context, userID string) ([]RequestView, error)
	ReceivedRequests(ctx context.Context, userID string) ([]RequestView, error)
	FriendsOf(ctx context.Context, userID string) ([]user.Profile, error)
}

type UserSource interface {
	Exists(ctx context.Context, id string) (bool, error)
	ProfilesByIDs(ctx context.Context, ids []string) ([]user.Profile, error)
}

type service struct {
	repo     Repository
	users    UserSource
	dispatch notification.Dispatcher
}

func NewService(r Repository, users UserSource, d notification.Dispatcher) Service {
	return &service{repo: r, users: users, dispatch: d}
}

// SendRequest checks only the exact (sender, receiver) direction: two users
// may hold opposite-direction pending requests at the same time, and
// AcceptRequest collapses the pair.
func (s *service) SendRequest(ctx context.Context, senderID, receiverID string) (*FriendRequest, error) {
	if senderID == receiverID {
		return nil, apperr.SelfReference("self_request", "cannot send a friend request to yourself")
	}
	ok, err := s.users.Exists(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("user_not_found", "user not found")
	}
	existing, err := s.repo.GetRequestByPair(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("duplicate_request", "friend request already sent")
	}

	req := &FriendRequest{SenderID: senderID, ReceiverID: receiverID, CreatedAt: time.Now().UTC()}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	s.dispatch.Dispatch(ctx, notification.Event{
		Kind:           notification.KindFriendRequestSent,
		ActorID:        senderID,
		SubjectOwnerID: receiverID,
	})
	return req, nil
}

// AcceptRequest writes both directions of the relation sequentially; there is
// no cross-row transaction, so a failure between the two inserts leaves a
// one-sided window the next accept repairs.
func (s *service) AcceptRequest(ctx context.Context, callerID string, requestID uint64) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil || req.ReceiverID != callerID {
		return apperr.NotFound("request_not_found", "friend request not found")
	}

	if err := s.repo.AddFriend(ctx, req.SenderID, req.ReceiverID); err != nil {
		return err
	}
	if err := s.repo.AddFriend(ctx, req.ReceiverID, req.SenderID); err != nil {
		return err
	}
	if err := s.repo.DeleteRequest(ctx, requestID); err != nil {
		return err
	}
	// collapse a mutual pending request, if the other user sent one too
	if err := s.repo.DeleteRequestByPair(ctx, req.ReceiverID, req.SenderID); err != nil {
		return err
	}

	s.dispatch.Dispatch(ctx, notification.Event{
		Kind:           notification.KindFriendRequestAccepted,
		ActorID:        callerID,
		SubjectOwnerID: req.SenderID,
	})
	return nil
}

func (s *service) RejectRequest(ctx context.Context, callerID string, requestID uint64) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil || req.ReceiverID != callerID {
		return apperr.NotFound("request_not_found", "friend request not found")
	}
	return s.repo.DeleteRequest(ctx, requestID)
}

func (s *service) CancelRequest(ctx context.Context, callerID string, requestID uint64) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil || req.SenderID != callerID {
		return apperr.NotFound("request_not_found", "friend request not found")
	}
	return s.repo.DeleteRequest(ctx, requestID)
}

// Unfriend succeeds as a no-op when the two were never friends; only unknown
// user ids are an error.
func (s *service) Unfriend(ctx context.Context, callerID, otherID string) error {
	for _, id := range []string{callerID, otherID} {
		ok, err := s.users.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("user_not_found", "user not found")
		}
	}
	if err := s.repo.RemoveFriend(ctx, callerID, otherID); err != nil {
		return err
	}
	return s.repo.RemoveFriend(ctx, otherID, callerID)
}

func (s *service) SentRequests(ctx context.Context, userID string) ([]RequestView, error) {
	reqs, err := s.repo.RequestsSentBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, reqs, func(r FriendRequest) string { return r.ReceiverID })
}

func (s *service) ReceivedRequests(ctx context.Context, userID string) ([]RequestView, error) {
	reqs, err := s.repo.RequestsReceivedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, reqs, func(r FriendRequest) string { return r.SenderID })
}

func (s *service) FriendsOf(ctx context.Context, userID string) ([]user.Profile, error) {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("user_not_found", "user not found")
	}
	ids, err := s.repo.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.users.ProfilesByIDs(ctx, ids)
}

func (s *service) views(ctx context.Context, reqs []FriendRequest, counterpart func(FriendRequest) string) ([]RequestView, error) {
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, counterpart(r))
	}
	profiles, err := s.users.ProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]user.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	out := make([]RequestView, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, RequestView{ID: r.ID, User: byID[counterpart(r)], CreatedAt: r.CreatedAt})
	}
	return out, nil
}
