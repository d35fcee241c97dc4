package debt

import (
	"time"

	"billshare/internal/money"
)

// CreateDebtRequest represents the request to record a direct debt
type CreateDebtRequest struct {
	DebtorID    int64       `json:"debtor_id" validate:"required"`
	Description string      `json:"description" validate:"required,min=1,max=255"`
	Amount      money.Money `json:"amount" validate:"required"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
}

// MarkPaidRequest records how and when the debt was settled
type MarkPaidRequest struct {
	PaymentMethod *string    `json:"payment_method,omitempty" validate:"omitempty,max=100"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

// DebtResponse represents the response for a debt
type DebtResponse struct {
	ID            int64       `json:"id"`
	DebtorID      int64       `json:"debtor_id"`
	DebtorName    string      `json:"debtor_name,omitempty"`
	CreditorID    int64       `json:"creditor_id"`
	CreditorName  string      `json:"creditor_name,omitempty"`
	Description   string      `json:"description"`
	Amount        money.Money `json:"amount"`
	DueDate       *string     `json:"due_date,omitempty"`
	Paid          bool        `json:"paid"`
	PaidAt        *string     `json:"paid_at,omitempty"`
	PaymentMethod *string     `json:"payment_method,omitempty"`
	CreatedAt     string      `json:"created_at"`
}

// ToResponse converts a Debt model to a DebtResponse DTO
func (d *Debt) ToResponse() *DebtResponse {
	resp := &DebtResponse{
		ID:            d.ID,
		DebtorID:      d.DebtorID,
		DebtorName:    d.DebtorName,
		CreditorID:    d.CreditorID,
		CreditorName:  d.CreditorName,
		Description:   d.Description,
		Amount:        d.Amount,
		Paid:          d.Paid,
		PaymentMethod: d.PaymentMethod,
		CreatedAt:     d.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if d.DueDate != nil {
		due := d.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	if d.PaidAt != nil {
		paidAt := d.PaidAt.Format("2006-01-02T15:04:05Z")
		resp.PaidAt = &paidAt
	}
	return resp
}
