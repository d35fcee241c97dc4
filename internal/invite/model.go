package invite

import "time"

// Status represents the state of a bill invite
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

// Invite asks someone, by email, to join a bill. The token is the only
// credential needed to look it up.
type Invite struct {
	ID         int64      `json:"id"`
	BillID     int64      `json:"bill_id"`
	CreatorID  int64      `json:"creator_id"`
	Email      string     `json:"email"`
	Token      string     `json:"token"`
	Status     Status     `json:"status"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	AcceptedBy *int64     `json:"accepted_by,omitempty"`
}

// Expired reports whether the invite's deadline has passed
func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
