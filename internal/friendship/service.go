package friendship

import (
	"context"
	"time"

	"billshare/pkg/apperror"
)

// Common errors
var (
	ErrFriendshipNotFound = apperror.New(apperror.NotFound, "friendship not found")
	ErrSelfFriendship     = apperror.New(apperror.Validation, "cannot send a friend request to yourself")
	ErrAlreadyFriends     = apperror.New(apperror.Validation, "users are already friends")
	ErrRequestPending     = apperror.New(apperror.Validation, "a friend request is already pending")
	ErrBlocked            = apperror.New(apperror.Permission, "cannot send a friend request to this user")
	ErrNotRequested       = apperror.New(apperror.Permission, "only the requested user can respond")
	ErrNotPending         = apperror.New(apperror.IllegalTransition, "this request has already been responded to")
	ErrNotFriends         = apperror.New(apperror.Validation, "users are not friends")
)

// Store is the persistence surface the service needs
type Store interface {
	Create(ctx context.Context, f *Friendship) (*Friendship, error)
	GetByID(ctx context.Context, id int64) (*Friendship, error)
	// GetBetween finds the row for the unordered pair, either direction
	GetBetween(ctx context.Context, a, b int64) (*Friendship, error)
	UpdateStatus(ctx context.Context, id int64, status Status, respondedAt time.Time) (*Friendship, error)
	ListByUser(ctx context.Context, userID int64, status Status) ([]*Friendship, error)
	ListIncomingPending(ctx context.Context, userID int64) ([]*Friendship, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles friendship business logic
type Service struct {
	repo Store
	now  func() time.Time
}

// NewService creates a new friendship service
func NewService(repo Store) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Request sends a friend request. The outcome depends on what already
// exists for the pair: nothing or a rejected row allows a fresh
// request, a pending or accepted row rejects it, a block refuses it.
func (s *Service) Request(ctx context.Context, requesterID, requestedID int64) (*Friendship, error) {
	if requesterID == requestedID {
		return nil, ErrSelfFriendship
	}

	existing, err := s.repo.GetBetween(ctx, requesterID, requestedID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case StatusAccepted:
			return nil, ErrAlreadyFriends
		case StatusPending:
			return nil, ErrRequestPending
		case StatusBlocked:
			return nil, ErrBlocked
		case StatusRejected:
			// a rejected pair can try again; drop the stale row
			if err := s.repo.Delete(ctx, existing.ID); err != nil {
				return nil, err
			}
		}
	}

	return s.repo.Create(ctx, &Friendship{
		RequesterID: requesterID,
		RequestedID: requestedID,
		Status:      StatusPending,
	})
}

// Respond accepts or rejects a pending request. Only the requested user
// can respond, and only while the request is pending.
func (s *Service) Respond(ctx context.Context, id, actorID int64, accept bool) (*Friendship, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFriendshipNotFound
	}
	if f.RequestedID != actorID {
		return nil, ErrNotRequested
	}
	if f.Status != StatusPending {
		return nil, ErrNotPending
	}

	status := StatusRejected
	if accept {
		status = StatusAccepted
	}
	return s.repo.UpdateStatus(ctx, id, status, s.now())
}

// ListFriends retrieves the user's accepted friendships
func (s *Service) ListFriends(ctx context.Context, userID int64) ([]*Friendship, error) {
	return s.repo.ListByUser(ctx, userID, StatusAccepted)
}

// ListPending retrieves requests awaiting the user's response
func (s *Service) ListPending(ctx context.Context, userID int64) ([]*Friendship, error) {
	return s.repo.ListIncomingPending(ctx, userID)
}

// Remove ends an accepted friendship
func (s *Service) Remove(ctx context.Context, userID, friendID int64) error {
	f, err := s.repo.GetBetween(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if f == nil || f.Status != StatusAccepted {
		return ErrNotFriends
	}
	return s.repo.Delete(ctx, f.ID)
}

// Block prevents the target from sending requests. Any existing row
// for the pair is replaced.
func (s *Service) Block(ctx context.Context, actorID, targetID int64) (*Friendship, error) {
	if actorID == targetID {
		return nil, ErrSelfFriendship
	}

	existing, err := s.repo.GetBetween(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	return s.repo.Create(ctx, &Friendship{
		RequesterID: actorID,
		RequestedID: targetID,
		Status:      StatusBlocked,
	})
}

// AreConnected reports whether the two users have an accepted
// friendship. Group membership changes are gated on it.
func (s *Service) AreConnected(ctx context.Context, a, b int64) (bool, error) {
	if a == b {
		return true, nil
	}
	f, err := s.repo.GetBetween(ctx, a, b)
	if err != nil {
		return false, err
	}
	return f != nil && f.Status == StatusAccepted, nil
}
