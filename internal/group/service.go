package group

import (
	"context"

	"billshare/pkg/apperror"
)

// Common errors
var (
	ErrGroupNotFound   = apperror.New(apperror.NotFound, "group not found")
	ErrNotCreator      = apperror.New(apperror.Permission, "only the group creator can perform this action")
	ErrNotMember       = apperror.New(apperror.NotFound, "user is not a member of this group")
	ErrAlreadyMember   = apperror.New(apperror.Validation, "user is already a member of this group")
	ErrNotConnected    = apperror.New(apperror.Validation, "users must be friends before joining the same group")
	ErrGroupInactive   = apperror.New(apperror.Validation, "group is deactivated")
	ErrCreatorIsMember = apperror.New(apperror.Validation, "the creator cannot leave their own group")
)

// Connections answers whether two users may share a group
type Connections interface {
	AreConnected(ctx context.Context, a, b int64) (bool, error)
}

// Store is the persistence surface the service needs
type Store interface {
	Create(ctx context.Context, g *Group) (*Group, error)
	GetByID(ctx context.Context, id int64) (*Group, error)
	Update(ctx context.Context, id int64, req *UpdateGroupRequest) (*Group, error)
	SetActive(ctx context.Context, id int64, active bool) (*Group, error)
	ListForUser(ctx context.Context, userID int64) ([]*Group, error)
	AddMember(ctx context.Context, groupID, userID int64) error
	RemoveMember(ctx context.Context, groupID, userID int64) error
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
	ListMembers(ctx context.Context, groupID int64) ([]*Member, error)
}

// Service handles group business logic. Membership is gated on the
// friendship graph: the creator can only add users they are connected
// to.
type Service struct {
	repo        Store
	connections Connections
}

// NewService creates a new group service with dependencies injected
func NewService(repo Store, connections Connections) *Service {
	return &Service{repo: repo, connections: connections}
}

// Create makes a new active group with the creator as first member
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*GroupWithMembers, error) {
	if req.Name == "" {
		return nil, apperror.New(apperror.Validation, "name is required")
	}

	g, err := s.repo.Create(ctx, &Group{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   creatorID,
		Active:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddMember(ctx, g.ID, creatorID); err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	return &GroupWithMembers{Group: g, Members: members}, nil
}

// GetByID retrieves a group with its members (members only)
func (s *Service) GetByID(ctx context.Context, id, actorID int64) (*GroupWithMembers, error) {
	g, err := s.getGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	isMember, err := s.repo.IsMember(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrGroupNotFound
	}

	members, err := s.repo.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &GroupWithMembers{Group: g, Members: members}, nil
}

// ListForUser retrieves the groups the user belongs to
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*Group, error) {
	return s.repo.ListForUser(ctx, userID)
}

// Update modifies group metadata (creator only)
func (s *Service) Update(ctx context.Context, id, actorID int64, req *UpdateGroupRequest) (*Group, error) {
	g, err := s.getGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.CreatorID != actorID {
		return nil, ErrNotCreator
	}
	return s.repo.Update(ctx, id, req)
}

// AddMember adds a user to the group. The creator must be connected to
// the new member.
func (s *Service) AddMember(ctx context.Context, groupID, actorID, userID int64) error {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if g.CreatorID != actorID {
		return ErrNotCreator
	}
	if !g.Active {
		return ErrGroupInactive
	}

	isMember, err := s.repo.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return ErrAlreadyMember
	}

	connected, err := s.connections.AreConnected(ctx, actorID, userID)
	if err != nil {
		return err
	}
	if !connected {
		return ErrNotConnected
	}

	return s.repo.AddMember(ctx, groupID, userID)
}

// RemoveMember removes a user from the group. The creator can remove
// anyone; a member can remove themselves. The creator never leaves.
func (s *Service) RemoveMember(ctx context.Context, groupID, actorID, userID int64) error {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if actorID != g.CreatorID && actorID != userID {
		return ErrNotCreator
	}
	if userID == g.CreatorID {
		return ErrCreatorIsMember
	}

	isMember, err := s.repo.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotMember
	}

	return s.repo.RemoveMember(ctx, groupID, userID)
}

// Deactivate soft-deletes the group (creator only). Its bills stay.
func (s *Service) Deactivate(ctx context.Context, id, actorID int64) (*Group, error) {
	g, err := s.getGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.CreatorID != actorID {
		return nil, ErrNotCreator
	}
	return s.repo.SetActive(ctx, id, false)
}

func (s *Service) getGroup(ctx context.Context, id int64) (*Group, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	return g, nil
}
