package notification

import "time"

// Kind classifies what a notification is about
type Kind string

const (
	KindBillCreated    Kind = "BILL_CREATED"
	KindObligationPaid Kind = "OBLIGATION_PAID"
	KindDebtPaid       Kind = "DEBT_PAID"
	KindBillOverdue    Kind = "BILL_OVERDUE"
)

// Notification is one message for one user
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	RefID     *int64    `json:"ref_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
