package invite

// CreateInviteRequest invites an email address to a bill
type CreateInviteRequest struct {
	BillID     int64  `json:"bill_id" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	ExpiryDays int    `json:"expiry_days,omitempty" validate:"omitempty,min=1,max=90"`
}

// InviteResponse represents the response for an invite
type InviteResponse struct {
	ID         int64   `json:"id"`
	BillID     int64   `json:"bill_id"`
	CreatorID  int64   `json:"creator_id"`
	Email      string  `json:"email"`
	Token      string  `json:"token"`
	Status     Status  `json:"status"`
	ExpiresAt  string  `json:"expires_at"`
	CreatedAt  string  `json:"created_at"`
	AcceptedAt *string `json:"accepted_at,omitempty"`
	AcceptedBy *int64  `json:"accepted_by,omitempty"`
}

// ToResponse converts an Invite model to an InviteResponse DTO
func (i *Invite) ToResponse() *InviteResponse {
	resp := &InviteResponse{
		ID:         i.ID,
		BillID:     i.BillID,
		CreatorID:  i.CreatorID,
		Email:      i.Email,
		Token:      i.Token,
		Status:     i.Status,
		ExpiresAt:  i.ExpiresAt.Format("2006-01-02T15:04:05Z"),
		CreatedAt:  i.CreatedAt.Format("2006-01-02T15:04:05Z"),
		AcceptedBy: i.AcceptedBy,
	}
	if i.AcceptedAt != nil {
		at := i.AcceptedAt.Format("2006-01-02T15:04:05Z")
		resp.AcceptedAt = &at
	}
	return resp
}
