package balance

import (
	"time"

	"billshare/internal/money"
)

// ItemKind tags where an open item comes from
type ItemKind string

const (
	KindBillSplit  ItemKind = "BILL_SPLIT"
	KindDirectDebt ItemKind = "DIRECT_DEBT"
)

// Item is one unpaid amount between the user and a counterparty. For
// owed-by items the counterparty is the creditor; for owed-to items it
// is the ower.
type Item struct {
	Kind             ItemKind    `json:"kind"`
	RefID            int64       `json:"ref_id"`
	CounterpartyID   int64       `json:"counterparty_id"`
	CounterpartyName string      `json:"counterparty_name,omitempty"`
	Amount           money.Money `json:"amount"`
	Description      string      `json:"description"`
	DueDate          *time.Time  `json:"due_date,omitempty"`
}

// ContactBalance nets all open items between the user and one contact.
// A contact with open items is reported even when the net is zero.
type ContactBalance struct {
	UserID    int64       `json:"user_id"`
	UserName  string      `json:"user_name,omitempty"`
	Owed      money.Money `json:"owed"`       // what I owe this contact
	OwedToMe  money.Money `json:"owed_to_me"` // what this contact owes me
	Net       money.Money `json:"net"`        // negative means I owe overall
	ItemCount int         `json:"item_count"`
	Items     []*Item     `json:"items,omitempty"`
}

// UserBalance is the user's position across all contacts
type UserBalance struct {
	UserID      int64             `json:"user_id"`
	TotalOwed   money.Money       `json:"total_owed"`
	TotalOwedTo money.Money       `json:"total_owed_to_me"`
	Net         money.Money       `json:"net"`
	Contacts    []*ContactBalance `json:"contacts"`
}
