package invite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"billshare/internal/bill"
	"billshare/internal/user"
	"billshare/pkg/apperror"
)

const defaultExpiryDays = 7

// Common errors
var (
	ErrInviteNotFound   = apperror.New(apperror.NotFound, "invite not found")
	ErrNotInviteCreator = apperror.New(apperror.Permission, "only the bill creator can manage invites")
	ErrInviteNotPending = apperror.New(apperror.IllegalTransition, "this invite has already been resolved")
	ErrInviteExpired    = apperror.New(apperror.Validation, "this invite has expired")
	ErrDuplicateInvite  = apperror.New(apperror.Validation, "a pending invite already exists for this email")
	ErrSelfInvite       = apperror.New(apperror.Validation, "cannot invite yourself to your own bill")
)

// Bills is the slice of the bill service the invite flow needs
type Bills interface {
	GetByID(ctx context.Context, id int64) (*bill.BillWithObligations, error)
}

// Users resolves invitee emails to accounts
type Users interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// Store is the persistence surface the service needs
type Store interface {
	Create(ctx context.Context, i *Invite) (*Invite, error)
	GetByID(ctx context.Context, id int64) (*Invite, error)
	GetByToken(ctx context.Context, token string) (*Invite, error)
	HasPending(ctx context.Context, billID int64, email string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status Status, acceptedBy *int64, acceptedAt *time.Time) (*Invite, error)
	ListByBill(ctx context.Context, billID int64) ([]*Invite, error)
	ExpirePending(ctx context.Context, before time.Time) (int64, error)
}

// Service handles bill invite business logic
type Service struct {
	repo  Store
	bills Bills
	users Users
	now   func() time.Time
}

// NewService creates a new invite service with dependencies injected
func NewService(repo Store, bills Bills, users Users) *Service {
	return &Service{repo: repo, bills: bills, users: users, now: time.Now}
}

// Create issues a tokened invite for the bill (bill creator only)
func (s *Service) Create(ctx context.Context, actorID int64, req *CreateInviteRequest) (*Invite, error) {
	if req.Email == "" {
		return nil, apperror.New(apperror.Validation, "email is required")
	}

	b, err := s.bills.GetByID(ctx, req.BillID)
	if err != nil {
		return nil, err
	}
	if b.Bill.CreatorID != actorID {
		return nil, ErrNotInviteCreator
	}

	invitee, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if invitee != nil && invitee.ID == actorID {
		return nil, ErrSelfInvite
	}

	pending, err := s.repo.HasPending(ctx, req.BillID, req.Email)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrDuplicateInvite
	}

	days := req.ExpiryDays
	if days <= 0 {
		days = defaultExpiryDays
	}

	return s.repo.Create(ctx, &Invite{
		BillID:    req.BillID,
		CreatorID: actorID,
		Email:     req.Email,
		Token:     uuid.NewString(),
		Status:    StatusPending,
		ExpiresAt: s.now().AddDate(0, 0, days),
	})
}

// GetByToken looks up an invite by its token. A pending invite past its
// deadline is flipped to EXPIRED before it is returned.
func (s *Service) GetByToken(ctx context.Context, token string) (*Invite, error) {
	i, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, ErrInviteNotFound
	}
	if i.Status == StatusPending && i.Expired(s.now()) {
		return s.repo.UpdateStatus(ctx, i.ID, StatusExpired, nil, nil)
	}
	return i, nil
}

// Accept resolves a pending invite in the actor's favor
func (s *Service) Accept(ctx context.Context, token string, actorID int64) (*Invite, error) {
	i, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, ErrInviteNotFound
	}
	if i.Status != StatusPending {
		return nil, ErrInviteNotPending
	}
	if i.Expired(s.now()) {
		if _, err := s.repo.UpdateStatus(ctx, i.ID, StatusExpired, nil, nil); err != nil {
			return nil, err
		}
		return nil, ErrInviteExpired
	}

	acceptedAt := s.now()
	return s.repo.UpdateStatus(ctx, i.ID, StatusAccepted, &actorID, &acceptedAt)
}

// Cancel withdraws a pending invite (bill creator only)
func (s *Service) Cancel(ctx context.Context, id, actorID int64) (*Invite, error) {
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, ErrInviteNotFound
	}
	if i.CreatorID != actorID {
		return nil, ErrNotInviteCreator
	}
	if i.Status != StatusPending {
		return nil, ErrInviteNotPending
	}
	return s.repo.UpdateStatus(ctx, id, StatusCancelled, nil, nil)
}

// ListByBill retrieves the invites of a bill (bill creator only)
func (s *Service) ListByBill(ctx context.Context, billID, actorID int64) ([]*Invite, error) {
	b, err := s.bills.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if b.Bill.CreatorID != actorID {
		return nil, ErrNotInviteCreator
	}
	return s.repo.ListByBill(ctx, billID)
}

// MarkExpired flips every pending invite past its deadline to EXPIRED.
// It is the entry point for an external scheduler sweep.
func (s *Service) MarkExpired(ctx context.Context) (int64, error) {
	return s.repo.ExpirePending(ctx, s.now())
}
