package bill

import (
	"context"
	"time"

	"billshare/internal/bill/split"
	"billshare/internal/event"
	"billshare/pkg/apperror"
)

// Common errors
var (
	ErrBillNotFound       = apperror.New(apperror.NotFound, "bill not found")
	ErrObligationNotFound = apperror.New(apperror.NotFound, "obligation not found")
	ErrNotCreator         = apperror.New(apperror.Permission, "only the bill creator can perform this action")
	ErrNotOwer            = apperror.New(apperror.Permission, "only the ower can mark their share as paid")
	ErrAlreadyPaid        = apperror.New(apperror.AlreadySettled, "this share has already been marked as paid")
	ErrBillAlreadyPaid    = apperror.New(apperror.IllegalTransition, "cannot mark a paid bill as overdue")
	ErrBillNotPastDue     = apperror.New(apperror.Validation, "bill is not past its due date")
)

// Store is the persistence surface the service needs. Multi-row writes
// (allocation, re-split, mark-paid plus bill status) must be atomic.
type Store interface {
	CreateWithObligations(ctx context.Context, b *Bill, shares []split.Share) (*BillWithObligations, error)
	GetByID(ctx context.Context, id int64) (*Bill, error)
	GetObligations(ctx context.Context, billID int64) ([]*Obligation, error)
	GetObligationByID(ctx context.Context, id int64) (*Obligation, error)
	ReplaceObligations(ctx context.Context, billID int64, shares []split.Share, status Status) (*BillWithObligations, error)
	MarkObligationPaid(ctx context.Context, obligationID int64, method *string, paidAt time.Time, billStatus Status, billPaid bool) (*Obligation, error)
	UpdateBill(ctx context.Context, id int64, req *UpdateBillRequest) (*Bill, error)
	SetBillStatus(ctx context.Context, id int64, status Status, paid bool) (*Bill, error)
	ListRelatedToUser(ctx context.Context, userID int64, filter *ListFilter) ([]*Bill, error)
	ListByGroup(ctx context.Context, groupID int64, paid *bool) ([]*Bill, error)
	ListPastDueUnpaid(ctx context.Context, before time.Time) ([]*Bill, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles bill business logic. All writes that touch one bill's
// obligation set go through the per-bill lock, which is what keeps the
// "all obligations paid -> bill paid" check race free.
type Service struct {
	repo         Store
	splitFactory *split.Factory
	bus          *event.Bus
	locks        *billLocks
	now          func() time.Time
}

// NewService creates a new bill service with dependencies injected
func NewService(repo Store, splitFactory *split.Factory, bus *event.Bus) *Service {
	return &Service{
		repo:         repo,
		splitFactory: splitFactory,
		bus:          bus,
		locks:        newBillLocks(),
		now:          time.Now,
	}
}

// Create allocates the bill across its participants and persists the bill
// and its obligations as one unit
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateBillRequest) (*BillWithObligations, error) {
	if req.Description == "" {
		return nil, apperror.New(apperror.Validation, "description is required")
	}

	strategy, err := s.splitFactory.CreateFromString(req.SplitType)
	if err != nil {
		return nil, err
	}

	shares, err := strategy.Calculate(req.Amount, req.Participants)
	if err != nil {
		return nil, err
	}

	b := &Bill{
		GroupID:     req.GroupID,
		CreatorID:   creatorID,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
		Status:      StatusPending,
		SplitType:   strategy.Type(),
	}

	result, err := s.repo.CreateWithObligations(ctx, b, shares)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.Event{
		Type:        event.TypeBillCreated,
		BillID:      result.Bill.ID,
		ActorID:     creatorID,
		CreatorID:   creatorID,
		OwerIDs:     owerIDs(result.Obligations, false),
		Amount:      result.Bill.Amount,
		Description: result.Bill.Description,
	})

	return result, nil
}

// GetByID retrieves a bill with its obligations
func (s *Service) GetByID(ctx context.Context, id int64) (*BillWithObligations, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBillNotFound
	}

	obligations, err := s.repo.GetObligations(ctx, id)
	if err != nil {
		return nil, err
	}

	// status is derived on demand so OVERDUE appears without a sweep
	b.Status = DeriveStatus(b, obligations, s.now())

	return &BillWithObligations{Bill: b, Obligations: obligations}, nil
}

// ListRelatedToUser retrieves bills the user created or participates in
func (s *Service) ListRelatedToUser(ctx context.Context, userID int64, filter *ListFilter) ([]*Bill, error) {
	return s.repo.ListRelatedToUser(ctx, userID, filter)
}

// ListByGroup retrieves the bills of a group
func (s *Service) ListByGroup(ctx context.Context, groupID int64, paid *bool) ([]*Bill, error) {
	return s.repo.ListByGroup(ctx, groupID, paid)
}

// ListOverdue retrieves unpaid bills whose due date has passed
func (s *Service) ListOverdue(ctx context.Context) ([]*Bill, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.ListPastDueUnpaid(ctx, today)
}

// Update modifies bill metadata (description, due date)
func (s *Service) Update(ctx context.Context, id, actorID int64, req *UpdateBillRequest) (*Bill, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBillNotFound
	}
	if b.CreatorID != actorID {
		return nil, ErrNotCreator
	}

	return s.repo.UpdateBill(ctx, id, req)
}

// Delete removes a bill and, by cascade, its obligations
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrBillNotFound
	}
	if b.CreatorID != actorID {
		return ErrNotCreator
	}

	unlock := s.locks.acquire(id)
	defer unlock()

	return s.repo.Delete(ctx, id)
}

// Resplit atomically replaces the bill's obligation set with a new
// allocation. The new allocation must reconcile to the bill amount
// exactly; on any validation failure the existing set is left intact.
func (s *Service) Resplit(ctx context.Context, billID, actorID int64, req *ResplitRequest) (*BillWithObligations, error) {
	b, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBillNotFound
	}
	if b.CreatorID != actorID {
		return nil, ErrNotCreator
	}

	strategy, err := s.splitFactory.CreateFromString(req.SplitType)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(billID)
	defer unlock()

	// allocating against the bill amount guarantees the new set sums to it
	shares, err := strategy.Calculate(b.Amount, req.Participants)
	if err != nil {
		return nil, err
	}

	status := DeriveStatus(b, unpaidObligationsFor(shares), s.now())
	return s.repo.ReplaceObligations(ctx, billID, shares, status)
}

// MarkObligationPaid transitions one obligation from pending to paid and
// re-derives the bill status, setting the bill's paid flag once every
// obligation is settled. Re-marking a paid obligation fails and leaves its
// payment metadata untouched.
func (s *Service) MarkObligationPaid(ctx context.Context, obligationID, actorID int64, req *MarkObligationPaidRequest) (*Obligation, error) {
	o, err := s.repo.GetObligationByID(ctx, obligationID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrObligationNotFound
	}

	unlock := s.locks.acquire(o.BillID)
	defer unlock()

	// re-read under the lock; a concurrent call may have won the race
	o, err = s.repo.GetObligationByID(ctx, obligationID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrObligationNotFound
	}
	if o.OwerID != actorID {
		return nil, ErrNotOwer
	}
	if o.Paid {
		return nil, ErrAlreadyPaid
	}

	b, err := s.repo.GetByID(ctx, o.BillID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBillNotFound
	}

	obligations, err := s.repo.GetObligations(ctx, o.BillID)
	if err != nil {
		return nil, err
	}
	for _, other := range obligations {
		if other.ID == obligationID {
			other.Paid = true
		}
	}
	status := DeriveStatus(b, obligations, s.now())

	paidAt := s.now()
	if req != nil && req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	var method *string
	if req != nil {
		method = req.PaymentMethod
	}

	updated, err := s.repo.MarkObligationPaid(ctx, obligationID, method, paidAt, status, status == StatusPaid)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.Event{
		Type:         event.TypeObligationPaid,
		BillID:       b.ID,
		ObligationID: obligationID,
		ActorID:      actorID,
		CreatorID:    b.CreatorID,
		Amount:       updated.Amount,
		Description:  b.Description,
	})

	return updated, nil
}

// MarkOverdue flips a past-due unpaid bill to OVERDUE. It is the entry
// point for an external scheduler sweep and never touches paid bills.
func (s *Service) MarkOverdue(ctx context.Context, billID int64) (*Bill, error) {
	unlock := s.locks.acquire(billID)
	defer unlock()

	b, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBillNotFound
	}
	if b.Paid || b.Status == StatusPaid {
		return nil, ErrBillAlreadyPaid
	}
	if !pastDue(b.DueDate, s.now()) {
		return nil, ErrBillNotPastDue
	}

	updated, err := s.repo.SetBillStatus(ctx, billID, StatusOverdue, false)
	if err != nil {
		return nil, err
	}

	obligations, err := s.repo.GetObligations(ctx, billID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.Event{
		Type:        event.TypeBillOverdue,
		BillID:      b.ID,
		CreatorID:   b.CreatorID,
		OwerIDs:     owerIDs(obligations, true),
		Amount:      b.Amount,
		Description: b.Description,
	})

	return updated, nil
}

// owerIDs collects ower ids, optionally only those still unpaid
func owerIDs(obligations []*Obligation, unpaidOnly bool) []int64 {
	ids := make([]int64, 0, len(obligations))
	for _, o := range obligations {
		if unpaidOnly && o.Paid {
			continue
		}
		ids = append(ids, o.OwerID)
	}
	return ids
}

// unpaidObligationsFor builds the in-memory obligation set a fresh
// allocation will produce, for status derivation before persisting
func unpaidObligationsFor(shares []split.Share) []*Obligation {
	obligations := make([]*Obligation, len(shares))
	for i, sh := range shares {
		obligations[i] = &Obligation{OwerID: sh.UserID, Amount: sh.Amount}
	}
	return obligations
}
