package bill

import (
	"time"

	"billshare/internal/bill/split"
	"billshare/internal/money"
)

// CreateBillRequest represents the request to create a bill with its
// initial allocation
type CreateBillRequest struct {
	GroupID      *int64        `json:"group_id,omitempty"`
	Description  string        `json:"description" validate:"required,min=1,max=255"`
	Amount       money.Money   `json:"amount" validate:"required"`
	DueDate      *time.Time    `json:"due_date,omitempty"`
	SplitType    string        `json:"split_type" validate:"required,oneof=EQUAL PERCENTAGE EXACT"`
	Participants []split.Input `json:"participants" validate:"required,min=1"`
}

// UpdateBillRequest represents the request to update bill metadata
type UpdateBillRequest struct {
	Description *string    `json:"description,omitempty" validate:"omitempty,min=1,max=255"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// ResplitRequest discards the bill's obligations and allocates a new set
type ResplitRequest struct {
	SplitType    string        `json:"split_type" validate:"required,oneof=EQUAL PERCENTAGE EXACT"`
	Participants []split.Input `json:"participants" validate:"required,min=1"`
}

// MarkObligationPaidRequest records how and when a share was paid
type MarkObligationPaidRequest struct {
	PaymentMethod *string    `json:"payment_method,omitempty" validate:"omitempty,max=100"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

// ListFilter narrows bill listings
type ListFilter struct {
	Paid *bool
	From *time.Time
	To   *time.Time
}

// BillResponse represents the response for a bill
type BillResponse struct {
	ID          int64                 `json:"id"`
	GroupID     *int64                `json:"group_id,omitempty"`
	CreatorID   int64                 `json:"creator_id"`
	CreatorName string                `json:"creator_name,omitempty"`
	Description string                `json:"description"`
	Amount      money.Money           `json:"amount"`
	DueDate     *string               `json:"due_date,omitempty"`
	Paid        bool                  `json:"paid"`
	Status      Status                `json:"status"`
	SplitType   split.Type            `json:"split_type"`
	CreatedAt   string                `json:"created_at"`
	Obligations []*ObligationResponse `json:"obligations,omitempty"`
}

// ObligationResponse represents the response for an obligation
type ObligationResponse struct {
	ID            int64       `json:"id"`
	BillID        int64       `json:"bill_id"`
	OwerID        int64       `json:"ower_id"`
	OwerName      string      `json:"ower_name,omitempty"`
	Amount        money.Money `json:"amount"`
	Paid          bool        `json:"paid"`
	PaidAt        *string     `json:"paid_at,omitempty"`
	PaymentMethod *string     `json:"payment_method,omitempty"`
}

// ToResponse converts a Bill model to a BillResponse DTO
func (b *Bill) ToResponse() *BillResponse {
	resp := &BillResponse{
		ID:          b.ID,
		GroupID:     b.GroupID,
		CreatorID:   b.CreatorID,
		CreatorName: b.CreatorName,
		Description: b.Description,
		Amount:      b.Amount,
		Paid:        b.Paid,
		Status:      b.Status,
		SplitType:   b.SplitType,
		CreatedAt:   b.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if b.DueDate != nil {
		due := b.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	return resp
}

// ToResponse converts an Obligation model to an ObligationResponse DTO
func (o *Obligation) ToResponse() *ObligationResponse {
	resp := &ObligationResponse{
		ID:            o.ID,
		BillID:        o.BillID,
		OwerID:        o.OwerID,
		OwerName:      o.OwerName,
		Amount:        o.Amount,
		Paid:          o.Paid,
		PaymentMethod: o.PaymentMethod,
	}
	if o.PaidAt != nil {
		paidAt := o.PaidAt.Format("2006-01-02T15:04:05Z")
		resp.PaidAt = &paidAt
	}
	return resp
}

// ToResponse converts a BillWithObligations to a BillResponse with splits
func (bw *BillWithObligations) ToResponse() *BillResponse {
	resp := bw.Bill.ToResponse()
	resp.Obligations = make([]*ObligationResponse, len(bw.Obligations))
	for i, o := range bw.Obligations {
		resp.Obligations[i] = o.ToResponse()
	}
	return resp
}
