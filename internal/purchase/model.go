package purchase

import (
	"time"

	"billshare/internal/money"
)

// Purchase is an itemized shopping record. Items are assigned to users
// while the purchase is open; finalizing freezes it and turns each
// non-creator assignee's items into a direct debt.
type Purchase struct {
	ID           int64     `json:"id"`
	CreatorID    int64     `json:"creator_id"`
	Description  string    `json:"description"`
	PurchaseDate time.Time `json:"purchase_date"`
	Notes        *string   `json:"notes,omitempty"`
	Finalized    bool      `json:"finalized"`
	CreatedAt    time.Time `json:"created_at"`

	// Populated via JOIN
	CreatorName string `json:"creator_name,omitempty"`
}

// Item is one line of a purchase, assigned to the user who pays for it
type Item struct {
	ID            int64       `json:"id"`
	PurchaseID    int64       `json:"purchase_id"`
	Description   string      `json:"description"`
	UnitPrice     money.Money `json:"unit_price"`
	Quantity      int         `json:"quantity"`
	ResponsibleID int64       `json:"responsible_id"`
	Notes         *string     `json:"notes,omitempty"`

	// Populated via JOIN
	ResponsibleName string `json:"responsible_name,omitempty"`
}

// Total is the line total: unit price times quantity
func (i *Item) Total() money.Money {
	return i.UnitPrice.MulInt(int64(i.Quantity))
}

// PurchaseWithItems combines a purchase with its item list
type PurchaseWithItems struct {
	Purchase *Purchase
	Items    []*Item
}

// TotalAmount sums the line totals
func (pw *PurchaseWithItems) TotalAmount() money.Money {
	total := money.Zero()
	for _, it := range pw.Items {
		total = total.Add(it.Total())
	}
	return total
}
