package friendship

// RequestFriendshipRequest asks another user for a connection
type RequestFriendshipRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// RespondRequest accepts or rejects a pending request
type RespondRequest struct {
	Accept bool `json:"accept"`
}

// FriendshipResponse represents the response for a friendship
type FriendshipResponse struct {
	ID            int64   `json:"id"`
	RequesterID   int64   `json:"requester_id"`
	RequesterName string  `json:"requester_name,omitempty"`
	RequestedID   int64   `json:"requested_id"`
	RequestedName string  `json:"requested_name,omitempty"`
	Status        Status  `json:"status"`
	RequestedAt   string  `json:"requested_at"`
	RespondedAt   *string `json:"responded_at,omitempty"`
}

// ToResponse converts a Friendship model to a FriendshipResponse DTO
func (f *Friendship) ToResponse() *FriendshipResponse {
	resp := &FriendshipResponse{
		ID:            f.ID,
		RequesterID:   f.RequesterID,
		RequesterName: f.RequesterName,
		RequestedID:   f.RequestedID,
		RequestedName: f.RequestedName,
		Status:        f.Status,
		RequestedAt:   f.RequestedAt.Format("2006-01-02T15:04:05Z"),
	}
	if f.RespondedAt != nil {
		at := f.RespondedAt.Format("2006-01-02T15:04:05Z")
		resp.RespondedAt = &at
	}
	return resp
}
