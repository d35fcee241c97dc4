package invite

import (
	"context"
	"errors"
	"testing"
	"time"

	"billshare/internal/bill"
	"billshare/internal/user"
)

// fakeStore is an in-memory Store implementation for service tests
type fakeStore struct {
	nextID  int64
	invites map[int64]*Invite
}

func newFakeStore() *fakeStore {
	return &fakeStore{invites: make(map[int64]*Invite)}
}

func (f *fakeStore) Create(ctx context.Context, i *Invite) (*Invite, error) {
	f.nextID++
	stored := *i
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	f.invites[stored.ID] = &stored
	c := stored
	return &c, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*Invite, error) {
	i, ok := f.invites[id]
	if !ok {
		return nil, nil
	}
	c := *i
	return &c, nil
}

func (f *fakeStore) GetByToken(ctx context.Context, token string) (*Invite, error) {
	for _, i := range f.invites {
		if i.Token == token {
			c := *i
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) HasPending(ctx context.Context, billID int64, email string) (bool, error) {
	for _, i := range f.invites {
		if i.BillID == billID && i.Email == email && i.Status == StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id int64, status Status, acceptedBy *int64, acceptedAt *time.Time) (*Invite, error) {
	i, ok := f.invites[id]
	if !ok {
		return nil, ErrInviteNotFound
	}
	i.Status = status
	i.AcceptedBy = acceptedBy
	i.AcceptedAt = acceptedAt
	c := *i
	return &c, nil
}

func (f *fakeStore) ListByBill(ctx context.Context, billID int64) ([]*Invite, error) {
	var out []*Invite
	for id := int64(1); id <= f.nextID; id++ {
		i, ok := f.invites[id]
		if ok && i.BillID == billID {
			c := *i
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeStore) ExpirePending(ctx context.Context, before time.Time) (int64, error) {
	var count int64
	for _, i := range f.invites {
		if i.Status == StatusPending && i.ExpiresAt.Before(before) {
			i.Status = StatusExpired
			count++
		}
	}
	return count, nil
}

// fakeBills serves bills with fixed creators
type fakeBills struct {
	creators map[int64]int64
}

func (f *fakeBills) GetByID(ctx context.Context, id int64) (*bill.BillWithObligations, error) {
	creator, ok := f.creators[id]
	if !ok {
		return nil, bill.ErrBillNotFound
	}
	return &bill.BillWithObligations{Bill: &bill.Bill{ID: id, CreatorID: creator}}, nil
}

// fakeUsers resolves fixed email-to-user mappings
type fakeUsers struct {
	byEmail map[string]*user.User
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return f.byEmail[email], nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	bills := &fakeBills{creators: map[int64]int64{10: 1}}
	users := &fakeUsers{byEmail: map[string]*user.User{
		"creator@example.com": {ID: 1, Email: "creator@example.com"},
		"friend@example.com":  {ID: 2, Email: "friend@example.com"},
	}}
	return NewService(store, bills, users), store
}

func TestCreateIssuesToken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	before := time.Now()
	i, err := svc.Create(ctx, 1, &CreateInviteRequest{BillID: 10, Email: "friend@example.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if i.Token == "" {
		t.Errorf("no token issued")
	}
	if i.Status != StatusPending {
		t.Errorf("status = %s, want PENDING", i.Status)
	}
	// default expiry is seven days out
	want := before.AddDate(0, 0, defaultExpiryDays)
	if i.ExpiresAt.Before(want.Add(-time.Minute)) || i.ExpiresAt.After(want.Add(time.Minute)) {
		t.Errorf("expires at %v, want about %v", i.ExpiresAt, want)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// only the bill creator invites
	if _, err := svc.Create(ctx, 2, &CreateInviteRequest{BillID: 10, Email: "friend@example.com"}); !errors.Is(err, ErrNotInviteCreator) {
		t.Errorf("expected ErrNotInviteCreator, got %v", err)
	}
	// no self invites
	if _, err := svc.Create(ctx, 1, &CreateInviteRequest{BillID: 10, Email: "creator@example.com"}); !errors.Is(err, ErrSelfInvite) {
		t.Errorf("expected ErrSelfInvite, got %v", err)
	}
	// one pending invite per email per bill
	if _, err := svc.Create(ctx, 1, &CreateInviteRequest{BillID: 10, Email: "friend@example.com"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, 1, &CreateInviteRequest{BillID: 10, Email: "friend@example.com"}); !errors.Is(err, ErrDuplicateInvite) {
		t.Errorf("expected ErrDuplicateInvite, got %v", err)
	}
}

func TestAcceptResolvesInvite(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	i, err := svc.Create(ctx, 1, &CreateInviteRequest{BillID: 10, Email: "friend@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	accepted, err := svc.Accept(ctx, i.Token, 2)
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if accepted.Status != StatusAccepted || accepted.AcceptedBy == nil || *accepted.AcceptedBy != 2 {
		t.Errorf("accepted invite: %+v", accepted)
	}

	// already resolved
	if _, err := svc.Accept(ctx, i.Token, 2); !errors.Is(err, ErrInviteNotPending) {
		t.Errorf("expected ErrInviteNotPending, got %v", err)
	}
}

func TestAcceptExpiredInvite(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	i, err := svc.Create(ctx, 1, &CreateInviteRequest{BillID: 10, Email: "friend@example.com", ExpiryDays: 3})
	if err != nil {
		t.Fatal(err)
	}

	svc.now = func() time.Time { return time.Now().AddDate(0, 0, 4) }
	if _, err := svc.Accept(ctx, i.Token, 2); !errors.Is(err, ErrInviteExpired) {
		t.Fatalf("expected ErrInviteExpired, got %v", err)
	}

	// the failed accept flips the row to EXPIRED
	stored, _ := store.GetByID(ctx, i.ID)
	if stored.Status != StatusExpired {
		t.Errorf("status = %s, want EXPIRED", stored.Status)
	}
}

func TestGetByTokenFlipsExpired(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	i, err := svc.Create(ctx, 1, &CreateInviteRequest{BillID: 10, Email: "friend@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	svc.now = func() time.Time { return time.Now().AddDate(0, 0, 8) }
	got, err := svc.GetByToken(ctx, i.Token)
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}
	if got.Status != StatusExpired {
		t.Errorf("status = %s, want EXPIRED", got.Status)
	}
}

func TestCancel(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	i, err := svc.Create(ctx, 1, &CreateInviteRequest{BillID: 10, Email: "friend@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Cancel(ctx, i.ID, 2); !errors.Is(err, ErrNotInviteCreator) {
		t.Errorf("expected ErrNotInviteCreator, got %v", err)
	}
	cancelled, err := svc.Cancel(ctx, i.ID, 1)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}
	if _, err := svc.Cancel(ctx, i.ID, 1); !errors.Is(err, ErrInviteNotPending) {
		t.Errorf("expected ErrInviteNotPending, got %v", err)
	}
}

func TestMarkExpiredSweep(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, &CreateInviteRequest{BillID: 10, Email: "friend@example.com", ExpiryDays: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, 1, &CreateInviteRequest{BillID: 10, Email: "other@example.com", ExpiryDays: 30}); err != nil {
		t.Fatal(err)
	}

	svc.now = func() time.Time { return time.Now().AddDate(0, 0, 2) }
	count, err := svc.MarkExpired(ctx)
	if err != nil {
		t.Fatalf("MarkExpired failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expired %d invites, want 1", count)
	}

	invites, _ := store.ListByBill(ctx, 10)
	if invites[0].Status != StatusExpired || invites[1].Status != StatusPending {
		t.Errorf("sweep touched the wrong invites: %s, %s", invites[0].Status, invites[1].Status)
	}
}
