package purchase

import (
	"context"
	"errors"
	"testing"
	"time"

	"billshare/internal/debt"
	"billshare/internal/money"
	"billshare/internal/user"
	"billshare/pkg/apperror"
)

// fakeStore is an in-memory Store implementation for service tests
type fakeStore struct {
	nextID     int64
	nextItemID int64
	purchases  map[int64]*Purchase
	items      map[int64]*Item
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		purchases: make(map[int64]*Purchase),
		items:     make(map[int64]*Item),
	}
}

func (f *fakeStore) Create(ctx context.Context, p *Purchase, items []*Item) (*PurchaseWithItems, error) {
	f.nextID++
	stored := *p
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	f.purchases[stored.ID] = &stored

	out := make([]*Item, len(items))
	for i, it := range items {
		f.nextItemID++
		si := *it
		si.ID = f.nextItemID
		si.PurchaseID = stored.ID
		f.items[si.ID] = &si
		c := si
		out[i] = &c
	}
	c := stored
	return &PurchaseWithItems{Purchase: &c, Items: out}, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*Purchase, error) {
	p, ok := f.purchases[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (f *fakeStore) GetItems(ctx context.Context, purchaseID int64) ([]*Item, error) {
	var out []*Item
	for id := int64(1); id <= f.nextItemID; id++ {
		it, ok := f.items[id]
		if !ok || it.PurchaseID != purchaseID {
			continue
		}
		c := *it
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeStore) AddItem(ctx context.Context, it *Item) (*Item, error) {
	f.nextItemID++
	stored := *it
	stored.ID = f.nextItemID
	f.items[stored.ID] = &stored
	c := stored
	return &c, nil
}

func (f *fakeStore) SetFinalized(ctx context.Context, id int64, finalized bool) (*Purchase, error) {
	p, ok := f.purchases[id]
	if !ok {
		return nil, ErrPurchaseNotFound
	}
	p.Finalized = finalized
	c := *p
	return &c, nil
}

func (f *fakeStore) ListByCreator(ctx context.Context, creatorID int64, finalized *bool) ([]*Purchase, error) {
	var out []*Purchase
	for id := int64(1); id <= f.nextID; id++ {
		p, ok := f.purchases[id]
		if !ok || p.CreatorID != creatorID {
			continue
		}
		if finalized != nil && p.Finalized != *finalized {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeStore) ListInvolvingUser(ctx context.Context, userID int64, activeOnly bool) ([]*Purchase, error) {
	seen := make(map[int64]bool)
	var out []*Purchase
	for id := int64(1); id <= f.nextItemID; id++ {
		it, ok := f.items[id]
		if !ok || it.ResponsibleID != userID || seen[it.PurchaseID] {
			continue
		}
		p := f.purchases[it.PurchaseID]
		if activeOnly && p.Finalized {
			continue
		}
		seen[it.PurchaseID] = true
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.purchases[id]; !ok {
		return ErrPurchaseNotFound
	}
	delete(f.purchases, id)
	for itemID, it := range f.items {
		if it.PurchaseID == id {
			delete(f.items, itemID)
		}
	}
	return nil
}

// fakeUsers knows a fixed set of user IDs
type fakeUsers struct {
	ids map[int64]bool
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if !f.ids[id] {
		return nil, user.ErrUserNotFound
	}
	return &user.User{ID: id}, nil
}

// fakeDebts records every debt created through it
type fakeDebts struct {
	created []struct {
		creditorID int64
		req        debt.CreateDebtRequest
	}
}

func (f *fakeDebts) Create(ctx context.Context, creditorID int64, req *debt.CreateDebtRequest) (*debt.Debt, error) {
	f.created = append(f.created, struct {
		creditorID int64
		req        debt.CreateDebtRequest
	}{creditorID, *req})
	return &debt.Debt{ID: int64(len(f.created))}, nil
}

func setup(userIDs ...int64) (*Service, *fakeStore, *fakeDebts) {
	store := newFakeStore()
	users := &fakeUsers{ids: make(map[int64]bool)}
	for _, id := range userIDs {
		users.ids[id] = true
	}
	debts := &fakeDebts{}
	return NewService(store, users, debts), store, debts
}

func itemReq(desc string, cents int64, qty int, responsible int64) ItemRequest {
	return ItemRequest{
		Description:   desc,
		UnitPrice:     money.FromCents(cents),
		Quantity:      qty,
		ResponsibleID: responsible,
	}
}

func TestCreateComputesTotals(t *testing.T) {
	svc, _, _ := setup(1, 2, 3)
	ctx := context.Background()

	p, err := svc.Create(ctx, 1, &CreatePurchaseRequest{
		Description: "Supermarket run",
		Items: []ItemRequest{
			itemReq("Milk", 450, 2, 2),
			itemReq("Bread", 300, 1, 3),
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Purchase.Finalized {
		t.Errorf("new purchase is finalized")
	}
	if p.Purchase.PurchaseDate.IsZero() {
		t.Errorf("purchase date not defaulted")
	}
	if len(p.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(p.Items))
	}
	if got := p.Items[0].Total(); !got.Equal(money.FromCents(900)) {
		t.Errorf("first line total = %s, want 9.00", got)
	}
	if got := p.TotalAmount(); !got.Equal(money.FromCents(1200)) {
		t.Errorf("purchase total = %s, want 12.00", got)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := setup(1, 2)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *CreatePurchaseRequest
	}{
		{"missing description", &CreatePurchaseRequest{
			Items: []ItemRequest{itemReq("Milk", 450, 1, 2)},
		}},
		{"no items", &CreatePurchaseRequest{Description: "Empty"}},
		{"zero quantity", &CreatePurchaseRequest{
			Description: "Bad qty",
			Items:       []ItemRequest{itemReq("Milk", 450, 0, 2)},
		}},
		{"non-positive price", &CreatePurchaseRequest{
			Description: "Free milk",
			Items:       []ItemRequest{itemReq("Milk", 0, 1, 2)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, 1, tt.req); !apperror.IsKind(err, apperror.Validation) {
				t.Errorf("Create() error = %v, want validation error", err)
			}
		})
	}

	// unknown item assignee
	_, err := svc.Create(ctx, 1, &CreatePurchaseRequest{
		Description: "Ghost",
		Items:       []ItemRequest{itemReq("Milk", 450, 1, 99)},
	})
	if !errors.Is(err, user.ErrUserNotFound) {
		t.Errorf("Create() error = %v, want %v", err, user.ErrUserNotFound)
	}
}

func TestFinalizeCreatesDebtPerResponsible(t *testing.T) {
	svc, _, debts := setup(1, 2, 3)
	ctx := context.Background()

	purchaseDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	p, err := svc.Create(ctx, 1, &CreatePurchaseRequest{
		Description:  "Barbecue",
		PurchaseDate: &purchaseDate,
		Items: []ItemRequest{
			itemReq("Meat", 3000, 1, 2),
			itemReq("Charcoal", 1500, 1, 1), // creator's own share
			itemReq("Drinks", 500, 3, 3),
			itemReq("Buns", 250, 2, 2),
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.Finalize(ctx, p.Purchase.ID, 1)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if !got.Purchase.Finalized {
		t.Errorf("purchase not marked finalized")
	}

	// one debt per non-creator assignee, summing that user's lines
	if len(debts.created) != 2 {
		t.Fatalf("debts created = %d, want 2", len(debts.created))
	}
	wantDue := purchaseDate.AddDate(0, 0, 7)
	wantTotals := map[int64]money.Money{
		2: money.FromCents(3500),
		3: money.FromCents(1500),
	}
	for _, d := range debts.created {
		if d.creditorID != 1 {
			t.Errorf("debt creditor = %d, want 1", d.creditorID)
		}
		want, ok := wantTotals[d.req.DebtorID]
		if !ok {
			t.Fatalf("unexpected debtor %d", d.req.DebtorID)
		}
		if !d.req.Amount.Equal(want) {
			t.Errorf("debtor %d amount = %s, want %s", d.req.DebtorID, d.req.Amount, want)
		}
		if d.req.Description != "Purchase: Barbecue" {
			t.Errorf("debt description = %q", d.req.Description)
		}
		if d.req.DueDate == nil || !d.req.DueDate.Equal(wantDue) {
			t.Errorf("debtor %d due date = %v, want %v", d.req.DebtorID, d.req.DueDate, wantDue)
		}
	}
}

func TestFinalizeTwiceFails(t *testing.T) {
	svc, _, debts := setup(1, 2)
	ctx := context.Background()

	p, _ := svc.Create(ctx, 1, &CreatePurchaseRequest{
		Description: "Groceries",
		Items:       []ItemRequest{itemReq("Milk", 450, 1, 2)},
	})
	if _, err := svc.Finalize(ctx, p.Purchase.ID, 1); err != nil {
		t.Fatalf("first Finalize failed: %v", err)
	}

	_, err := svc.Finalize(ctx, p.Purchase.ID, 1)
	if !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("second Finalize error = %v, want %v", err, ErrAlreadyFinalized)
	}
	if !apperror.IsKind(err, apperror.AlreadySettled) {
		t.Errorf("error kind = %v, want AlreadySettled", err)
	}
	if len(debts.created) != 1 {
		t.Errorf("debts created = %d, want 1 (no duplicates)", len(debts.created))
	}
}

func TestFinalizeRequiresCreator(t *testing.T) {
	svc, _, debts := setup(1, 2)
	ctx := context.Background()

	p, _ := svc.Create(ctx, 1, &CreatePurchaseRequest{
		Description: "Groceries",
		Items:       []ItemRequest{itemReq("Milk", 450, 1, 2)},
	})

	if _, err := svc.Finalize(ctx, p.Purchase.ID, 2); !errors.Is(err, ErrNotCreator) {
		t.Errorf("Finalize by non-creator error = %v, want %v", err, ErrNotCreator)
	}
	if len(debts.created) != 0 {
		t.Errorf("debts created = %d, want 0", len(debts.created))
	}
}

func TestAddItemOnOpenPurchase(t *testing.T) {
	svc, _, _ := setup(1, 2, 3)
	ctx := context.Background()

	p, _ := svc.Create(ctx, 1, &CreatePurchaseRequest{
		Description: "Groceries",
		Items:       []ItemRequest{itemReq("Milk", 450, 1, 2)},
	})

	req := itemReq("Eggs", 600, 1, 3)
	got, err := svc.AddItem(ctx, p.Purchase.ID, 1, &req)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if len(got.Items) != 2 {
		t.Errorf("items = %d, want 2", len(got.Items))
	}

	// non-creator cannot add
	other := itemReq("Candy", 100, 1, 2)
	if _, err := svc.AddItem(ctx, p.Purchase.ID, 2, &other); !errors.Is(err, ErrNotCreator) {
		t.Errorf("AddItem by non-creator error = %v, want %v", err, ErrNotCreator)
	}
}

func TestFinalizedPurchaseIsImmutable(t *testing.T) {
	svc, store, _ := setup(1, 2)
	ctx := context.Background()

	p, _ := svc.Create(ctx, 1, &CreatePurchaseRequest{
		Description: "Groceries",
		Items:       []ItemRequest{itemReq("Milk", 450, 1, 2)},
	})
	if _, err := svc.Finalize(ctx, p.Purchase.ID, 1); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	req := itemReq("Eggs", 600, 1, 2)
	if _, err := svc.AddItem(ctx, p.Purchase.ID, 1, &req); !errors.Is(err, ErrPurchaseFinalized) {
		t.Errorf("AddItem on finalized error = %v, want %v", err, ErrPurchaseFinalized)
	}

	err := svc.Delete(ctx, p.Purchase.ID, 1)
	if !errors.Is(err, ErrPurchaseFinalized) {
		t.Errorf("Delete on finalized error = %v, want %v", err, ErrPurchaseFinalized)
	}
	if !apperror.IsKind(err, apperror.IllegalTransition) {
		t.Errorf("error kind = %v, want IllegalTransition", err)
	}
	if _, ok := store.purchases[p.Purchase.ID]; !ok {
		t.Errorf("finalized purchase was deleted")
	}
}

func TestDeleteOpenPurchase(t *testing.T) {
	svc, store, _ := setup(1, 2)
	ctx := context.Background()

	p, _ := svc.Create(ctx, 1, &CreatePurchaseRequest{
		Description: "Groceries",
		Items:       []ItemRequest{itemReq("Milk", 450, 1, 2)},
	})

	if err := svc.Delete(ctx, p.Purchase.ID, 2); !errors.Is(err, ErrNotCreator) {
		t.Errorf("Delete by non-creator error = %v, want %v", err, ErrNotCreator)
	}

	if err := svc.Delete(ctx, p.Purchase.ID, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(store.purchases) != 0 || len(store.items) != 0 {
		t.Errorf("purchase or items left after delete")
	}
}

func TestGetByIDVisibility(t *testing.T) {
	svc, _, _ := setup(1, 2, 3)
	ctx := context.Background()

	p, _ := svc.Create(ctx, 1, &CreatePurchaseRequest{
		Description: "Groceries",
		Items:       []ItemRequest{itemReq("Milk", 450, 1, 2)},
	})

	// creator and assignee can see it
	for _, actor := range []int64{1, 2} {
		if _, err := svc.GetByID(ctx, p.Purchase.ID, actor); err != nil {
			t.Errorf("GetByID as user %d failed: %v", actor, err)
		}
	}
	// an outsider gets not-found
	if _, err := svc.GetByID(ctx, p.Purchase.ID, 3); !errors.Is(err, ErrPurchaseNotFound) {
		t.Errorf("GetByID as outsider error = %v, want %v", err, ErrPurchaseNotFound)
	}
}

func TestListCreatedAndInvolving(t *testing.T) {
	svc, _, _ := setup(1, 2)
	ctx := context.Background()

	open, _ := svc.Create(ctx, 1, &CreatePurchaseRequest{
		Description: "Open one",
		Items:       []ItemRequest{itemReq("Milk", 450, 1, 2)},
	})
	done, _ := svc.Create(ctx, 1, &CreatePurchaseRequest{
		Description: "Done one",
		Items:       []ItemRequest{itemReq("Bread", 300, 1, 2)},
	})
	if _, err := svc.Finalize(ctx, done.Purchase.ID, 1); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	all, _ := svc.ListCreated(ctx, 1, nil)
	if len(all) != 2 {
		t.Errorf("all created = %d, want 2", len(all))
	}
	f := true
	finalized, _ := svc.ListCreated(ctx, 1, &f)
	if len(finalized) != 1 || finalized[0].ID != done.Purchase.ID {
		t.Errorf("finalized filter returned %d entries", len(finalized))
	}

	involving, _ := svc.ListInvolving(ctx, 2, false)
	if len(involving) != 2 {
		t.Errorf("involving = %d, want 2", len(involving))
	}
	active, _ := svc.ListInvolving(ctx, 2, true)
	if len(active) != 1 || active[0].ID != open.Purchase.ID {
		t.Errorf("active involving returned %d entries", len(active))
	}
}
