package debt

import (
	"time"

	"billshare/internal/money"
)

// Debt is a direct obligation between two users, outside any bill. The
// creditor records it; either party can settle it.
type Debt struct {
	ID            int64       `json:"id"`
	DebtorID      int64       `json:"debtor_id"`
	CreditorID    int64       `json:"creditor_id"`
	Description   string      `json:"description"`
	Amount        money.Money `json:"amount"`
	DueDate       *time.Time  `json:"due_date,omitempty"`
	Paid          bool        `json:"paid"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
	PaymentMethod *string     `json:"payment_method,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`

	// Populated via JOIN
	DebtorName   string `json:"debtor_name,omitempty"`
	CreditorName string `json:"creditor_name,omitempty"`
}
