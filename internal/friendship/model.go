package friendship

import "time"

// Status represents the state of a friendship between two users
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
	StatusBlocked  Status = "BLOCKED"
)

// Friendship links two users. At most one row exists per unordered
// pair; a rejected row is replaced when either user asks again.
type Friendship struct {
	ID          int64      `json:"id"`
	RequesterID int64      `json:"requester_id"`
	RequestedID int64      `json:"requested_id"`
	Status      Status     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`

	// Populated via JOIN
	RequesterName string `json:"requester_name,omitempty"`
	RequestedName string `json:"requested_name,omitempty"`
}

// FriendOf returns the other user of the pair
func (f *Friendship) FriendOf(userID int64) int64 {
	if f.RequesterID == userID {
		return f.RequestedID
	}
	return f.RequesterID
}
