package group

import "time"

// Group collects users who share bills regularly
type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatorID   int64     `json:"creator_id"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`

	// Populated via JOIN
	CreatorName string `json:"creator_name,omitempty"`
}

// Member is one user's membership in a group
type Member struct {
	GroupID int64     `json:"group_id"`
	UserID  int64     `json:"user_id"`
	AddedAt time.Time `json:"added_at"`

	// Populated via JOIN
	UserName string `json:"user_name,omitempty"`
}

// GroupWithMembers combines a group with its member list
type GroupWithMembers struct {
	Group   *Group
	Members []*Member
}
