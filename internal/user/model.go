package user

import "time"

// User represents a user in the system. PixKey is the payout handle other
// participants use to pay this user back.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PixKey       *string   `json:"pix_key,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
