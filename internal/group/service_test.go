package group

import (
	"context"
	"errors"
	"testing"
	"time"

	"billshare/pkg/apperror"
)

// fakeStore is an in-memory Store implementation for service tests
type fakeStore struct {
	nextID  int64
	groups  map[int64]*Group
	members map[int64]map[int64]time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		groups:  make(map[int64]*Group),
		members: make(map[int64]map[int64]time.Time),
	}
}

func (f *fakeStore) Create(ctx context.Context, g *Group) (*Group, error) {
	f.nextID++
	stored := *g
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	f.groups[stored.ID] = &stored
	f.members[stored.ID] = make(map[int64]time.Time)
	c := stored
	return &c, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, nil
	}
	c := *g
	return &c, nil
}

func (f *fakeStore) Update(ctx context.Context, id int64, req *UpdateGroupRequest) (*Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	if req.Name != nil {
		g.Name = *req.Name
	}
	if req.Description != nil {
		g.Description = req.Description
	}
	c := *g
	return &c, nil
}

func (f *fakeStore) SetActive(ctx context.Context, id int64, active bool) (*Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	g.Active = active
	c := *g
	return &c, nil
}

func (f *fakeStore) ListForUser(ctx context.Context, userID int64) ([]*Group, error) {
	var out []*Group
	for id := int64(1); id <= f.nextID; id++ {
		g, ok := f.groups[id]
		if !ok || !g.Active {
			continue
		}
		if _, member := f.members[id][userID]; member {
			c := *g
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeStore) AddMember(ctx context.Context, groupID, userID int64) error {
	f.members[groupID][userID] = time.Now()
	return nil
}

func (f *fakeStore) RemoveMember(ctx context.Context, groupID, userID int64) error {
	if _, ok := f.members[groupID][userID]; !ok {
		return ErrNotMember
	}
	delete(f.members[groupID], userID)
	return nil
}

func (f *fakeStore) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	_, ok := f.members[groupID][userID]
	return ok, nil
}

func (f *fakeStore) ListMembers(ctx context.Context, groupID int64) ([]*Member, error) {
	var out []*Member
	for userID, addedAt := range f.members[groupID] {
		out = append(out, &Member{GroupID: groupID, UserID: userID, AddedAt: addedAt})
	}
	return out, nil
}

// fakeConnections treats listed pairs as friends
type fakeConnections struct {
	pairs map[[2]int64]bool
}

func (f *fakeConnections) AreConnected(ctx context.Context, a, b int64) (bool, error) {
	if a == b {
		return true, nil
	}
	return f.pairs[[2]int64{a, b}] || f.pairs[[2]int64{b, a}], nil
}

func connect(pairs ...[2]int64) *fakeConnections {
	m := make(map[[2]int64]bool)
	for _, p := range pairs {
		m[p] = true
	}
	return &fakeConnections{pairs: m}
}

func TestCreateAddsCreatorAsMember(t *testing.T) {
	svc := NewService(newFakeStore(), connect())
	ctx := context.Background()

	g, err := svc.Create(ctx, 1, &CreateGroupRequest{Name: "Apartment"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !g.Group.Active {
		t.Errorf("new group not active")
	}
	if len(g.Members) != 1 || g.Members[0].UserID != 1 {
		t.Errorf("creator not a member: %+v", g.Members)
	}
}

func TestAddMemberRequiresConnection(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, connect([2]int64{1, 2}))
	ctx := context.Background()

	g, err := svc.Create(ctx, 1, &CreateGroupRequest{Name: "Trip"})
	if err != nil {
		t.Fatal(err)
	}

	// connected user can join
	if err := svc.AddMember(ctx, g.Group.ID, 1, 2); err != nil {
		t.Fatalf("AddMember for friend failed: %v", err)
	}

	// unconnected user cannot
	err = svc.AddMember(ctx, g.Group.ID, 1, 3)
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if !apperror.IsKind(err, apperror.Validation) {
		t.Errorf("expected Validation kind")
	}
	if member, _ := store.IsMember(ctx, g.Group.ID, 3); member {
		t.Errorf("unconnected user was added anyway")
	}
}

func TestAddMemberPermissionsAndState(t *testing.T) {
	svc := NewService(newFakeStore(), connect([2]int64{1, 2}, [2]int64{2, 3}))
	ctx := context.Background()

	g, err := svc.Create(ctx, 1, &CreateGroupRequest{Name: "Trip"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.AddMember(ctx, g.Group.ID, 1, 2); err != nil {
		t.Fatal(err)
	}

	// only the creator adds members, even if the adder is connected
	if err := svc.AddMember(ctx, g.Group.ID, 2, 3); !errors.Is(err, ErrNotCreator) {
		t.Errorf("expected ErrNotCreator, got %v", err)
	}
	// no duplicates
	if err := svc.AddMember(ctx, g.Group.ID, 1, 2); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("expected ErrAlreadyMember, got %v", err)
	}

	// no additions after deactivation
	if _, err := svc.Deactivate(ctx, g.Group.ID, 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddMember(ctx, g.Group.ID, 1, 2); !errors.Is(err, ErrGroupInactive) {
		t.Errorf("expected ErrGroupInactive, got %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	svc := NewService(newFakeStore(), connect([2]int64{1, 2}, [2]int64{1, 3}))
	ctx := context.Background()

	g, err := svc.Create(ctx, 1, &CreateGroupRequest{Name: "Trip"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.AddMember(ctx, g.Group.ID, 1, 2); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddMember(ctx, g.Group.ID, 1, 3); err != nil {
		t.Fatal(err)
	}

	// a member can leave
	if err := svc.RemoveMember(ctx, g.Group.ID, 2, 2); err != nil {
		t.Errorf("self-removal failed: %v", err)
	}
	// a member cannot remove someone else
	if err := svc.RemoveMember(ctx, g.Group.ID, 3, 1); !errors.Is(err, ErrNotCreator) {
		t.Errorf("expected ErrNotCreator, got %v", err)
	}
	// the creator can remove anyone but themselves
	if err := svc.RemoveMember(ctx, g.Group.ID, 1, 3); err != nil {
		t.Errorf("creator removal failed: %v", err)
	}
	if err := svc.RemoveMember(ctx, g.Group.ID, 1, 1); !errors.Is(err, ErrCreatorIsMember) {
		t.Errorf("expected ErrCreatorIsMember, got %v", err)
	}
}

func TestGetByIDMembersOnly(t *testing.T) {
	svc := NewService(newFakeStore(), connect([2]int64{1, 2}))
	ctx := context.Background()

	g, err := svc.Create(ctx, 1, &CreateGroupRequest{Name: "Trip"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.GetByID(ctx, g.Group.ID, 1); err != nil {
		t.Errorf("member cannot read group: %v", err)
	}
	// outsiders see not-found, not forbidden
	if _, err := svc.GetByID(ctx, g.Group.ID, 9); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}
