package debt

import (
	"context"
	"time"

	"billshare/internal/event"
	"billshare/pkg/apperror"
)

// Common errors
var (
	ErrDebtNotFound    = apperror.New(apperror.NotFound, "debt not found")
	ErrNotParticipant  = apperror.New(apperror.Permission, "only the debtor or the creditor can perform this action")
	ErrNotCreditor     = apperror.New(apperror.Permission, "only the creditor can perform this action")
	ErrDebtAlreadyPaid = apperror.New(apperror.AlreadySettled, "this debt has already been settled")
)

// Store is the persistence surface the service needs
type Store interface {
	Create(ctx context.Context, d *Debt) (*Debt, error)
	GetByID(ctx context.Context, id int64) (*Debt, error)
	MarkPaid(ctx context.Context, id int64, method *string, paidAt time.Time) (*Debt, error)
	ListByDebtor(ctx context.Context, debtorID int64, paid *bool) ([]*Debt, error)
	ListByCreditor(ctx context.Context, creditorID int64, paid *bool) ([]*Debt, error)
	ListForUser(ctx context.Context, userID int64, paid *bool) ([]*Debt, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles direct debt business logic
type Service struct {
	repo Store
	bus  *event.Bus
	now  func() time.Time
}

// NewService creates a new debt service with dependencies injected
func NewService(repo Store, bus *event.Bus) *Service {
	return &Service{repo: repo, bus: bus, now: time.Now}
}

// Create records a debt owed to the authenticated creditor
func (s *Service) Create(ctx context.Context, creditorID int64, req *CreateDebtRequest) (*Debt, error) {
	if req.Description == "" {
		return nil, apperror.New(apperror.Validation, "description is required")
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.New(apperror.Validation, "amount must be positive")
	}
	if req.DebtorID == creditorID {
		return nil, apperror.New(apperror.Validation, "debtor and creditor must be different users")
	}

	return s.repo.Create(ctx, &Debt{
		DebtorID:    req.DebtorID,
		CreditorID:  creditorID,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
	})
}

// GetByID retrieves a debt visible to either party
func (s *Service) GetByID(ctx context.Context, id, actorID int64) (*Debt, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDebtNotFound
	}
	if d.DebtorID != actorID && d.CreditorID != actorID {
		return nil, ErrNotParticipant
	}
	return d, nil
}

// MarkPaid settles the debt. Either party can record the settlement;
// re-marking a settled debt fails and leaves its metadata untouched.
func (s *Service) MarkPaid(ctx context.Context, id, actorID int64, req *MarkPaidRequest) (*Debt, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDebtNotFound
	}
	if d.DebtorID != actorID && d.CreditorID != actorID {
		return nil, ErrNotParticipant
	}
	if d.Paid {
		return nil, ErrDebtAlreadyPaid
	}

	paidAt := s.now()
	var method *string
	if req != nil {
		method = req.PaymentMethod
		if req.PaidAt != nil {
			paidAt = *req.PaidAt
		}
	}

	updated, err := s.repo.MarkPaid(ctx, id, method, paidAt)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.Event{
		Type:        event.TypeDebtPaid,
		DebtID:      d.ID,
		ActorID:     actorID,
		CreatorID:   d.CreditorID,
		OwerIDs:     []int64{d.DebtorID},
		Amount:      d.Amount,
		Description: d.Description,
	})

	return updated, nil
}

// ListOwedBy retrieves debts where the user is the debtor
func (s *Service) ListOwedBy(ctx context.Context, debtorID int64, paid *bool) ([]*Debt, error) {
	return s.repo.ListByDebtor(ctx, debtorID, paid)
}

// ListOwedTo retrieves debts where the user is the creditor
func (s *Service) ListOwedTo(ctx context.Context, creditorID int64, paid *bool) ([]*Debt, error) {
	return s.repo.ListByCreditor(ctx, creditorID, paid)
}

// ListForUser retrieves debts where the user is on either side
func (s *Service) ListForUser(ctx context.Context, userID int64, paid *bool) ([]*Debt, error) {
	return s.repo.ListForUser(ctx, userID, paid)
}

// Delete removes a debt (creditor only)
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return ErrDebtNotFound
	}
	if d.CreditorID != actorID {
		return ErrNotCreditor
	}
	return s.repo.Delete(ctx, id)
}
