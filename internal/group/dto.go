package group

// CreateGroupRequest represents the request to create a group
type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

// UpdateGroupRequest represents the request to update group metadata
type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

// AddMemberRequest adds a user to the group
type AddMemberRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// MemberResponse represents one group member
type MemberResponse struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name,omitempty"`
	AddedAt  string `json:"added_at"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	CreatorID   int64             `json:"creator_id"`
	CreatorName string            `json:"creator_name,omitempty"`
	Active      bool              `json:"active"`
	CreatedAt   string            `json:"created_at"`
	Members     []*MemberResponse `json:"members,omitempty"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatorID:   g.CreatorID,
		CreatorName: g.CreatorName,
		Active:      g.Active,
		CreatedAt:   g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		UserID:   m.UserID,
		UserName: m.UserName,
		AddedAt:  m.AddedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a GroupWithMembers to a GroupResponse with members
func (gw *GroupWithMembers) ToResponse() *GroupResponse {
	resp := gw.Group.ToResponse()
	resp.Members = make([]*MemberResponse, len(gw.Members))
	for i, m := range gw.Members {
		resp.Members[i] = m.ToResponse()
	}
	return resp
}
