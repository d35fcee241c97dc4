package purchase

import (
	"context"
	"fmt"
	"time"

	"billshare/internal/debt"
	"billshare/internal/money"
	"billshare/internal/user"
	"billshare/pkg/apperror"
)

// Debts generated on finalize fall due this many days after the
// purchase date
const debtDueDays = 7

// Common errors
var (
	ErrPurchaseNotFound  = apperror.New(apperror.NotFound, "purchase not found")
	ErrNotCreator        = apperror.New(apperror.Permission, "only the purchase creator can perform this action")
	ErrAlreadyFinalized  = apperror.New(apperror.AlreadySettled, "this purchase has already been finalized")
	ErrPurchaseFinalized = apperror.New(apperror.IllegalTransition, "a finalized purchase cannot be changed")
)

// Users validates item assignees
type Users interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// Debts is the slice of the debt service finalize needs
type Debts interface {
	Create(ctx context.Context, creditorID int64, req *debt.CreateDebtRequest) (*debt.Debt, error)
}

// Store is the persistence surface the service needs
type Store interface {
	Create(ctx context.Context, p *Purchase, items []*Item) (*PurchaseWithItems, error)
	GetByID(ctx context.Context, id int64) (*Purchase, error)
	GetItems(ctx context.Context, purchaseID int64) ([]*Item, error)
	AddItem(ctx context.Context, it *Item) (*Item, error)
	SetFinalized(ctx context.Context, id int64, finalized bool) (*Purchase, error)
	ListByCreator(ctx context.Context, creatorID int64, finalized *bool) ([]*Purchase, error)
	ListInvolvingUser(ctx context.Context, userID int64, activeOnly bool) ([]*Purchase, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles purchase business logic
type Service struct {
	repo  Store
	users Users
	debts Debts
	now   func() time.Time
}

// NewService creates a new purchase service with dependencies injected
func NewService(repo Store, users Users, debts Debts) *Service {
	return &Service{repo: repo, users: users, debts: debts, now: time.Now}
}

// Create records an open purchase with its initial items. Every item
// assignee must be an existing user.
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreatePurchaseRequest) (*PurchaseWithItems, error) {
	if req.Description == "" {
		return nil, apperror.New(apperror.Validation, "description is required")
	}
	if len(req.Items) == 0 {
		return nil, apperror.New(apperror.Validation, "at least one item is required")
	}

	items := make([]*Item, len(req.Items))
	for i, ir := range req.Items {
		it, err := s.buildItem(ctx, &ir)
		if err != nil {
			return nil, err
		}
		items[i] = it
	}

	purchaseDate := s.now()
	if req.PurchaseDate != nil {
		purchaseDate = *req.PurchaseDate
	}

	return s.repo.Create(ctx, &Purchase{
		CreatorID:    creatorID,
		Description:  req.Description,
		PurchaseDate: purchaseDate,
		Notes:        req.Notes,
	}, items)
}

// GetByID retrieves a purchase with its items. Only the creator and
// item assignees can see it.
func (s *Service) GetByID(ctx context.Context, id, actorID int64) (*PurchaseWithItems, error) {
	p, err := s.getPurchase(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.CreatorID != actorID && !assignedTo(items, actorID) {
		return nil, ErrPurchaseNotFound
	}

	return &PurchaseWithItems{Purchase: p, Items: items}, nil
}

// ListCreated retrieves purchases the user created, optionally
// filtered by the finalized flag
func (s *Service) ListCreated(ctx context.Context, creatorID int64, finalized *bool) ([]*Purchase, error) {
	return s.repo.ListByCreator(ctx, creatorID, finalized)
}

// ListInvolving retrieves purchases with items assigned to the user
func (s *Service) ListInvolving(ctx context.Context, userID int64, activeOnly bool) ([]*Purchase, error) {
	return s.repo.ListInvolvingUser(ctx, userID, activeOnly)
}

// AddItem appends an item to an open purchase (creator only)
func (s *Service) AddItem(ctx context.Context, purchaseID, actorID int64, req *ItemRequest) (*PurchaseWithItems, error) {
	p, err := s.getPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if p.CreatorID != actorID {
		return nil, ErrNotCreator
	}
	if p.Finalized {
		return nil, ErrPurchaseFinalized
	}

	it, err := s.buildItem(ctx, req)
	if err != nil {
		return nil, err
	}
	it.PurchaseID = purchaseID

	if _, err := s.repo.AddItem(ctx, it); err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	return &PurchaseWithItems{Purchase: p, Items: items}, nil
}

// Finalize closes the purchase and turns each non-creator assignee's
// item totals into one direct debt owed to the creator, due a week
// after the purchase date. Finalizing twice fails.
func (s *Service) Finalize(ctx context.Context, id, actorID int64) (*PurchaseWithItems, error) {
	p, err := s.getPurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.CreatorID != actorID {
		return nil, ErrNotCreator
	}
	if p.Finalized {
		return nil, ErrAlreadyFinalized
	}

	items, err := s.repo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}

	dueDate := p.PurchaseDate.AddDate(0, 0, debtDueDays)
	for _, group := range groupByResponsible(items) {
		if group.userID == p.CreatorID {
			continue
		}
		_, err := s.debts.Create(ctx, p.CreatorID, &debt.CreateDebtRequest{
			DebtorID:    group.userID,
			Description: fmt.Sprintf("Purchase: %s", p.Description),
			Amount:      group.total,
			DueDate:     &dueDate,
		})
		if err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.SetFinalized(ctx, id, true)
	if err != nil {
		return nil, err
	}
	return &PurchaseWithItems{Purchase: updated, Items: items}, nil
}

// Delete removes an open purchase and its items (creator only).
// Finalized purchases are immutable.
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	p, err := s.getPurchase(ctx, id)
	if err != nil {
		return err
	}
	if p.CreatorID != actorID {
		return ErrNotCreator
	}
	if p.Finalized {
		return ErrPurchaseFinalized
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) getPurchase(ctx context.Context, id int64) (*Purchase, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPurchaseNotFound
	}
	return p, nil
}

func (s *Service) buildItem(ctx context.Context, req *ItemRequest) (*Item, error) {
	if req.Description == "" {
		return nil, apperror.New(apperror.Validation, "item description is required")
	}
	if req.Quantity < 1 {
		return nil, apperror.New(apperror.Validation, "item quantity must be at least 1")
	}
	if !req.UnitPrice.IsPositive() {
		return nil, apperror.New(apperror.Validation, "item unit price must be positive")
	}
	if _, err := s.users.GetByID(ctx, req.ResponsibleID); err != nil {
		return nil, err
	}

	return &Item{
		Description:   req.Description,
		UnitPrice:     req.UnitPrice,
		Quantity:      req.Quantity,
		ResponsibleID: req.ResponsibleID,
		Notes:         req.Notes,
	}, nil
}

type responsibleTotal struct {
	userID int64
	total  money.Money
}

// groupByResponsible sums line totals per assignee, keeping first
// appearance order so debt creation is deterministic
func groupByResponsible(items []*Item) []responsibleTotal {
	index := make(map[int64]int)
	var groups []responsibleTotal
	for _, it := range items {
		i, ok := index[it.ResponsibleID]
		if !ok {
			i = len(groups)
			index[it.ResponsibleID] = i
			groups = append(groups, responsibleTotal{userID: it.ResponsibleID, total: money.Zero()})
		}
		groups[i].total = groups[i].total.Add(it.Total())
	}
	return groups
}

func assignedTo(items []*Item, userID int64) bool {
	for _, it := range items {
		if it.ResponsibleID == userID {
			return true
		}
	}
	return false
}
