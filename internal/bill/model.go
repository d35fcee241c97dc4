package bill

import (
	"time"

	"billshare/internal/bill/split"
	"billshare/internal/money"
)

// Status represents the derived status of a bill
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusPartiallyPaid Status = "PARTIALLY_PAID"
	StatusPaid          Status = "PAID"
	StatusOverdue       Status = "OVERDUE"
)

// Bill represents a shared expense to be split among participants
type Bill struct {
	ID          int64       `json:"id"`
	GroupID     *int64      `json:"group_id,omitempty"`
	CreatorID   int64       `json:"creator_id"`
	Description string      `json:"description"`
	Amount      money.Money `json:"amount"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	Paid        bool        `json:"paid"`
	Status      Status      `json:"status"`
	SplitType   split.Type  `json:"split_type"`
	CreatedAt   time.Time   `json:"created_at"`

	// Populated via JOIN
	CreatorName string `json:"creator_name,omitempty"`
}

// Obligation is one participant's share of a bill. Obligations are created
// at allocation time, mutated only by MarkObligationPaid, and removed only
// when the parent bill is deleted or re-split.
type Obligation struct {
	ID            int64       `json:"id"`
	BillID        int64       `json:"bill_id"`
	OwerID        int64       `json:"ower_id"`
	Amount        money.Money `json:"amount"`
	Paid          bool        `json:"paid"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
	PaymentMethod *string     `json:"payment_method,omitempty"`

	// Populated via JOIN
	OwerName string `json:"ower_name,omitempty"`
}

// BillWithObligations combines a bill with its obligation set
type BillWithObligations struct {
	Bill        *Bill
	Obligations []*Obligation
}

// DeriveStatus computes the bill status from its obligation set:
// no obligations -> PENDING; all paid -> PAID; past due and not all
// paid -> OVERDUE; some paid -> PARTIALLY_PAID; otherwise PENDING.
// PARTIALLY_PAID is a presentation refinement, never terminal.
func DeriveStatus(b *Bill, obligations []*Obligation, now time.Time) Status {
	if len(obligations) == 0 {
		return StatusPending
	}

	paid := 0
	for _, o := range obligations {
		if o.Paid {
			paid++
		}
	}

	if paid == len(obligations) {
		return StatusPaid
	}
	if pastDue(b.DueDate, now) {
		return StatusOverdue
	}
	if paid > 0 {
		return StatusPartiallyPaid
	}
	return StatusPending
}

// pastDue reports whether the due date is strictly before today
func pastDue(due *time.Time, now time.Time) bool {
	if due == nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today)
}
