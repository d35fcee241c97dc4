package balance

import (
	"context"
	"math/rand"
	"testing"

	"billshare/internal/money"
)

// fakeSource serves fixed item slices
type fakeSource struct {
	owedBy map[int64][]*Item
	owedTo map[int64][]*Item
}

func (f *fakeSource) UnpaidOwedByUser(ctx context.Context, userID int64) ([]*Item, error) {
	return f.owedBy[userID], nil
}

func (f *fakeSource) UnpaidOwedToUser(ctx context.Context, userID int64) ([]*Item, error) {
	return f.owedTo[userID], nil
}

func billItem(counterparty int64, cents int64) *Item {
	return &Item{Kind: KindBillSplit, CounterpartyID: counterparty, Amount: money.FromCents(cents)}
}

func debtItem(counterparty int64, cents int64) *Item {
	return &Item{Kind: KindDirectDebt, CounterpartyID: counterparty, Amount: money.FromCents(cents)}
}

func TestUserBalanceNetsPerContact(t *testing.T) {
	// user 1 owes 2: 50.00 (bill); is owed by 2: 20.00 (debt);
	// is owed by 3: 10.00 (bill)
	src := &fakeSource{
		owedBy: map[int64][]*Item{1: {billItem(2, 5000)}},
		owedTo: map[int64][]*Item{1: {debtItem(2, 2000), billItem(3, 1000)}},
	}
	svc := NewService(src, NewCache(nil))

	ub, err := svc.GetUserBalance(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetUserBalance failed: %v", err)
	}

	if ub.TotalOwed.Cents() != 5000 {
		t.Errorf("TotalOwed = %d, want 5000", ub.TotalOwed.Cents())
	}
	if ub.TotalOwedTo.Cents() != 3000 {
		t.Errorf("TotalOwedTo = %d, want 3000", ub.TotalOwedTo.Cents())
	}
	if ub.Net.Cents() != -2000 {
		t.Errorf("Net = %d, want -2000", ub.Net.Cents())
	}

	if len(ub.Contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(ub.Contacts))
	}
	// sorted by contact ID
	c2, c3 := ub.Contacts[0], ub.Contacts[1]
	if c2.UserID != 2 || c3.UserID != 3 {
		t.Fatalf("contacts not sorted by ID: %d, %d", c2.UserID, c3.UserID)
	}
	if c2.Net.Cents() != -3000 || c2.ItemCount != 2 {
		t.Errorf("contact 2: net=%d count=%d, want net=-3000 count=2", c2.Net.Cents(), c2.ItemCount)
	}
	if c3.Net.Cents() != 1000 || c3.ItemCount != 1 {
		t.Errorf("contact 3: net=%d count=%d, want net=1000 count=1", c3.Net.Cents(), c3.ItemCount)
	}
}

func TestUserBalanceOrderIndependent(t *testing.T) {
	owedBy := []*Item{billItem(2, 1250), debtItem(3, 990), billItem(2, 375), billItem(4, 10000)}
	owedTo := []*Item{debtItem(2, 2000), billItem(3, 1500), billItem(3, 45)}

	var reference *UserBalance
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		by := append([]*Item(nil), owedBy...)
		to := append([]*Item(nil), owedTo...)
		rng.Shuffle(len(by), func(i, j int) { by[i], by[j] = by[j], by[i] })
		rng.Shuffle(len(to), func(i, j int) { to[i], to[j] = to[j], to[i] })

		src := &fakeSource{
			owedBy: map[int64][]*Item{1: by},
			owedTo: map[int64][]*Item{1: to},
		}
		ub, err := NewService(src, NewCache(nil)).GetUserBalance(context.Background(), 1)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}

		if reference == nil {
			reference = ub
			continue
		}
		if !ub.Net.Equal(reference.Net) || len(ub.Contacts) != len(reference.Contacts) {
			t.Fatalf("trial %d: result depends on item order", trial)
		}
		for i, c := range ub.Contacts {
			ref := reference.Contacts[i]
			if c.UserID != ref.UserID || !c.Net.Equal(ref.Net) || c.ItemCount != ref.ItemCount {
				t.Fatalf("trial %d: contact %d differs from reference", trial, c.UserID)
			}
		}
	}
}

func TestZeroNetContactStillReported(t *testing.T) {
	// 1 owes 2 exactly what 2 owes 1
	src := &fakeSource{
		owedBy: map[int64][]*Item{1: {billItem(2, 5000)}},
		owedTo: map[int64][]*Item{1: {debtItem(2, 5000)}},
	}
	svc := NewService(src, NewCache(nil))

	ub, err := svc.GetUserBalance(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetUserBalance failed: %v", err)
	}

	if len(ub.Contacts) != 1 {
		t.Fatalf("zero-net contact with open items dropped")
	}
	c := ub.Contacts[0]
	if !c.Net.IsZero() || c.ItemCount != 2 {
		t.Errorf("contact: net=%d count=%d, want net=0 count=2", c.Net.Cents(), c.ItemCount)
	}
}

func TestContactBalanceIncludesItems(t *testing.T) {
	src := &fakeSource{
		owedBy: map[int64][]*Item{1: {billItem(2, 5000), billItem(3, 700)}},
		owedTo: map[int64][]*Item{1: {debtItem(2, 2000)}},
	}
	svc := NewService(src, NewCache(nil))

	cb, err := svc.GetContactBalance(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("GetContactBalance failed: %v", err)
	}

	if cb.Net.Cents() != -3000 {
		t.Errorf("Net = %d, want -3000", cb.Net.Cents())
	}
	if cb.ItemCount != 2 || len(cb.Items) != 2 {
		t.Errorf("expected 2 items, got count=%d len=%d", cb.ItemCount, len(cb.Items))
	}
}

func TestContactBalanceNoOpenItems(t *testing.T) {
	src := &fakeSource{owedBy: map[int64][]*Item{}, owedTo: map[int64][]*Item{}}
	svc := NewService(src, NewCache(nil))

	cb, err := svc.GetContactBalance(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("GetContactBalance failed: %v", err)
	}
	if cb.UserID != 9 || !cb.Net.IsZero() || cb.ItemCount != 0 {
		t.Errorf("expected empty zero balance for contact 9, got %+v", cb)
	}
}
