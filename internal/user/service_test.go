package user

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeStore is an in-memory Store implementation for service tests
type fakeStore struct {
	nextID int64
	users  map[int64]*User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[int64]*User)}
}

func (f *fakeStore) Create(ctx context.Context, u *User) (*User, error) {
	f.nextID++
	stored := *u
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	f.users[stored.ID] = &stored
	c := stored
	return &c, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var out []*User
	for id := int64(1); id <= f.nextID; id++ {
		if u, ok := f.users[id]; ok {
			c := *u
			out = append(out, &c)
		}
	}
	total := len(out)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return out[offset:end], total, nil
}

func (f *fakeStore) Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.PixKey != nil {
		u.PixKey = req.PixKey
	}
	c := *u
	return &c, nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

func TestCreateEnforcesUniqueEmail(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, &User{Name: "Ana", Email: "ana@example.com"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := svc.Create(ctx, &User{Name: "Other Ana", Email: "ana@example.com"})
	if !errors.Is(err, ErrEmailAlreadyInUse) {
		t.Fatalf("expected ErrEmailAlreadyInUse, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.GetByID(context.Background(), 42); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	u, err := svc.Create(ctx, &User{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	pix := "ana@example.com"
	updated, err := svc.Update(ctx, u.ID, &UpdateUserRequest{PixKey: &pix})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.PixKey == nil || *updated.PixKey != pix {
		t.Errorf("pix key not updated")
	}
	if updated.Name != "Ana" {
		t.Errorf("name changed unexpectedly: %s", updated.Name)
	}
}

func TestListClampsPagination(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, &User{Name: "u", Email: string(rune('a'+i)) + "@example.com"}); err != nil {
			t.Fatal(err)
		}
	}

	users, total, err := svc.List(ctx, -3, 1000)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 5 || len(users) != 5 {
		t.Errorf("total=%d len=%d, want 5 and 5", total, len(users))
	}
}
