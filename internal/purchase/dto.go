package purchase

import (
	"time"

	"billshare/internal/money"
)

// ItemRequest is one purchase line in a create or add-item request
type ItemRequest struct {
	Description   string      `json:"description" validate:"required,min=1,max=255"`
	UnitPrice     money.Money `json:"unit_price" validate:"required"`
	Quantity      int         `json:"quantity" validate:"required,min=1"`
	ResponsibleID int64       `json:"responsible_id" validate:"required"`
	Notes         *string     `json:"notes,omitempty" validate:"omitempty,max=255"`
}

// CreatePurchaseRequest represents the request to create a purchase
// with its initial items
type CreatePurchaseRequest struct {
	Description  string        `json:"description" validate:"required,min=1,max=255"`
	PurchaseDate *time.Time    `json:"purchase_date,omitempty"`
	Notes        *string       `json:"notes,omitempty" validate:"omitempty,max=255"`
	Items        []ItemRequest `json:"items" validate:"required,min=1"`
}

// ItemResponse represents one purchase line
type ItemResponse struct {
	ID              int64       `json:"id"`
	PurchaseID      int64       `json:"purchase_id"`
	Description     string      `json:"description"`
	UnitPrice       money.Money `json:"unit_price"`
	Quantity        int         `json:"quantity"`
	Total           money.Money `json:"total"`
	ResponsibleID   int64       `json:"responsible_id"`
	ResponsibleName string      `json:"responsible_name,omitempty"`
	Notes           *string     `json:"notes,omitempty"`
}

// PurchaseResponse represents the response for a purchase
type PurchaseResponse struct {
	ID           int64           `json:"id"`
	CreatorID    int64           `json:"creator_id"`
	CreatorName  string          `json:"creator_name,omitempty"`
	Description  string          `json:"description"`
	PurchaseDate string          `json:"purchase_date"`
	Notes        *string         `json:"notes,omitempty"`
	Finalized    bool            `json:"finalized"`
	CreatedAt    string          `json:"created_at"`
	TotalItems   int             `json:"total_items"`
	TotalAmount  money.Money     `json:"total_amount"`
	Items        []*ItemResponse `json:"items,omitempty"`
}

// ToResponse converts a Purchase model to a PurchaseResponse DTO
func (p *Purchase) ToResponse() *PurchaseResponse {
	return &PurchaseResponse{
		ID:           p.ID,
		CreatorID:    p.CreatorID,
		CreatorName:  p.CreatorName,
		Description:  p.Description,
		PurchaseDate: p.PurchaseDate.Format("2006-01-02"),
		Notes:        p.Notes,
		Finalized:    p.Finalized,
		CreatedAt:    p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts an Item model to an ItemResponse DTO
func (i *Item) ToResponse() *ItemResponse {
	return &ItemResponse{
		ID:              i.ID,
		PurchaseID:      i.PurchaseID,
		Description:     i.Description,
		UnitPrice:       i.UnitPrice,
		Quantity:        i.Quantity,
		Total:           i.Total(),
		ResponsibleID:   i.ResponsibleID,
		ResponsibleName: i.ResponsibleName,
		Notes:           i.Notes,
	}
}

// ToResponse converts a PurchaseWithItems to a PurchaseResponse with
// items and aggregate fields
func (pw *PurchaseWithItems) ToResponse() *PurchaseResponse {
	resp := pw.Purchase.ToResponse()
	resp.Items = make([]*ItemResponse, len(pw.Items))
	for i, it := range pw.Items {
		resp.Items[i] = it.ToResponse()
	}
	resp.TotalItems = len(pw.Items)
	resp.TotalAmount = pw.TotalAmount()
	return resp
}
