package bill

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"billshare/internal/bill/split"
)

// Repository handles bill and obligation data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new bill repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithObligations inserts the bill and its obligation set in one
// transaction, so a bill never exists half-allocated
func (r *Repository) CreateWithObligations(ctx context.Context, b *Bill, shares []split.Share) (*BillWithObligations, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	billQuery := `
		INSERT INTO bills (group_id, creator_id, description, amount, due_date, paid, status, split_type)
		VALUES ($1, $2, $3, $4, $5, false, $6, $7)
		RETURNING id, group_id, creator_id, description, amount, due_date, paid, status, split_type, created_at
	`

	created := &Bill{}
	err = tx.QueryRowContext(ctx, billQuery,
		b.GroupID, b.CreatorID, b.Description, b.Amount, b.DueDate, b.Status, b.SplitType,
	).Scan(
		&created.ID, &created.GroupID, &created.CreatorID, &created.Description,
		&created.Amount, &created.DueDate, &created.Paid, &created.Status,
		&created.SplitType, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	obligations, err := insertObligations(ctx, tx, created.ID, shares)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bill creation: %w", err)
	}

	return &BillWithObligations{Bill: created, Obligations: obligations}, nil
}

// GetByID retrieves a bill by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Bill, error) {
	query := `
		SELECT b.id, b.group_id, b.creator_id, b.description, b.amount, b.due_date,
		       b.paid, b.status, b.split_type, b.created_at, u.name
		FROM bills b
		JOIN users u ON b.creator_id = u.id
		WHERE b.id = $1
	`

	b := &Bill{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.GroupID, &b.CreatorID, &b.Description, &b.Amount, &b.DueDate,
		&b.Paid, &b.Status, &b.SplitType, &b.CreatedAt, &b.CreatorName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	return b, nil
}

// GetObligations retrieves all obligations of a bill in allocation order
func (r *Repository) GetObligations(ctx context.Context, billID int64) ([]*Obligation, error) {
	query := `
		SELECT o.id, o.bill_id, o.ower_id, o.amount, o.paid, o.paid_at, o.payment_method, u.name
		FROM obligations o
		JOIN users u ON o.ower_id = u.id
		WHERE o.bill_id = $1
		ORDER BY o.id
	`

	rows, err := r.db.QueryContext(ctx, query, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to get obligations: %w", err)
	}
	defer rows.Close()

	var obligations []*Obligation
	for rows.Next() {
		o := &Obligation{}
		if err := rows.Scan(&o.ID, &o.BillID, &o.OwerID, &o.Amount, &o.Paid, &o.PaidAt, &o.PaymentMethod, &o.OwerName); err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		obligations = append(obligations, o)
	}

	return obligations, rows.Err()
}

// GetObligationByID retrieves an obligation by its ID
func (r *Repository) GetObligationByID(ctx context.Context, id int64) (*Obligation, error) {
	query := `
		SELECT o.id, o.bill_id, o.ower_id, o.amount, o.paid, o.paid_at, o.payment_method, u.name
		FROM obligations o
		JOIN users u ON o.ower_id = u.id
		WHERE o.id = $1
	`

	o := &Obligation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.BillID, &o.OwerID, &o.Amount, &o.Paid, &o.PaidAt, &o.PaymentMethod, &o.OwerName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get obligation: %w", err)
	}

	return o, nil
}

// ReplaceObligations swaps the bill's obligation set for a fresh
// allocation in one transaction
func (r *Repository) ReplaceObligations(ctx context.Context, billID int64, shares []split.Share, status Status) (*BillWithObligations, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM obligations WHERE bill_id = $1`, billID); err != nil {
		return nil, fmt.Errorf("failed to remove old obligations: %w", err)
	}

	obligations, err := insertObligations(ctx, tx, billID, shares)
	if err != nil {
		return nil, err
	}

	billQuery := `
		UPDATE bills SET status = $2, paid = false
		WHERE id = $1
		RETURNING id, group_id, creator_id, description, amount, due_date, paid, status, split_type, created_at
	`
	b := &Bill{}
	err = tx.QueryRowContext(ctx, billQuery, billID, status).Scan(
		&b.ID, &b.GroupID, &b.CreatorID, &b.Description, &b.Amount, &b.DueDate,
		&b.Paid, &b.Status, &b.SplitType, &b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update bill on re-split: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit re-split: %w", err)
	}

	return &BillWithObligations{Bill: b, Obligations: obligations}, nil
}

// MarkObligationPaid records the payment and the derived bill status in
// one transaction, so readers never observe a half-applied transition
func (r *Repository) MarkObligationPaid(ctx context.Context, obligationID int64, method *string, paidAt time.Time, billStatus Status, billPaid bool) (*Obligation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	obligationQuery := `
		UPDATE obligations
		SET paid = true, paid_at = $2, payment_method = $3
		WHERE id = $1
		RETURNING id, bill_id, ower_id, amount, paid, paid_at, payment_method
	`
	o := &Obligation{}
	err = tx.QueryRowContext(ctx, obligationQuery, obligationID, paidAt, method).Scan(
		&o.ID, &o.BillID, &o.OwerID, &o.Amount, &o.Paid, &o.PaidAt, &o.PaymentMethod,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mark obligation paid: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE bills SET status = $2, paid = $3 WHERE id = $1`, o.BillID, billStatus, billPaid); err != nil {
		return nil, fmt.Errorf("failed to update bill status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	return o, nil
}

// UpdateBill modifies bill metadata
func (r *Repository) UpdateBill(ctx context.Context, id int64, req *UpdateBillRequest) (*Bill, error) {
	query := `
		UPDATE bills
		SET description = COALESCE($2, description), due_date = COALESCE($3, due_date)
		WHERE id = $1
		RETURNING id, group_id, creator_id, description, amount, due_date, paid, status, split_type, created_at
	`

	b := &Bill{}
	err := r.db.QueryRowContext(ctx, query, id, req.Description, req.DueDate).Scan(
		&b.ID, &b.GroupID, &b.CreatorID, &b.Description, &b.Amount, &b.DueDate,
		&b.Paid, &b.Status, &b.SplitType, &b.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}

	return b, nil
}

// SetBillStatus updates the stored status and paid flag
func (r *Repository) SetBillStatus(ctx context.Context, id int64, status Status, paid bool) (*Bill, error) {
	query := `
		UPDATE bills SET status = $2, paid = $3
		WHERE id = $1
		RETURNING id, group_id, creator_id, description, amount, due_date, paid, status, split_type, created_at
	`

	b := &Bill{}
	err := r.db.QueryRowContext(ctx, query, id, status, paid).Scan(
		&b.ID, &b.GroupID, &b.CreatorID, &b.Description, &b.Amount, &b.DueDate,
		&b.Paid, &b.Status, &b.SplitType, &b.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to set bill status: %w", err)
	}

	return b, nil
}

// ListRelatedToUser retrieves bills the user created or participates in,
// optionally filtered by paid flag and due-date period
func (r *Repository) ListRelatedToUser(ctx context.Context, userID int64, filter *ListFilter) ([]*Bill, error) {
	query := `
		SELECT DISTINCT b.id, b.group_id, b.creator_id, b.description, b.amount, b.due_date,
		       b.paid, b.status, b.split_type, b.created_at, u.name
		FROM bills b
		JOIN users u ON b.creator_id = u.id
		LEFT JOIN obligations o ON o.bill_id = b.id
		WHERE (b.creator_id = $1 OR o.ower_id = $1)
		  AND ($2::boolean IS NULL OR b.paid = $2)
		  AND ($3::date IS NULL OR b.due_date >= $3)
		  AND ($4::date IS NULL OR b.due_date <= $4)
		ORDER BY b.created_at DESC, b.id DESC
	`

	var paid *bool
	var from, to *time.Time
	if filter != nil {
		paid, from, to = filter.Paid, filter.From, filter.To
	}

	rows, err := r.db.QueryContext(ctx, query, userID, paid, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	return scanBills(rows)
}

// ListByGroup retrieves the bills of a group
func (r *Repository) ListByGroup(ctx context.Context, groupID int64, paid *bool) ([]*Bill, error) {
	query := `
		SELECT b.id, b.group_id, b.creator_id, b.description, b.amount, b.due_date,
		       b.paid, b.status, b.split_type, b.created_at, u.name
		FROM bills b
		JOIN users u ON b.creator_id = u.id
		WHERE b.group_id = $1
		  AND ($2::boolean IS NULL OR b.paid = $2)
		ORDER BY b.created_at DESC, b.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, paid)
	if err != nil {
		return nil, fmt.Errorf("failed to list group bills: %w", err)
	}
	defer rows.Close()

	return scanBills(rows)
}

// ListPastDueUnpaid retrieves unpaid bills due strictly before the cutoff
func (r *Repository) ListPastDueUnpaid(ctx context.Context, before time.Time) ([]*Bill, error) {
	query := `
		SELECT b.id, b.group_id, b.creator_id, b.description, b.amount, b.due_date,
		       b.paid, b.status, b.split_type, b.created_at, u.name
		FROM bills b
		JOIN users u ON b.creator_id = u.id
		WHERE b.paid = false AND b.due_date IS NOT NULL AND b.due_date < $1
		ORDER BY b.due_date, b.id
	`

	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue bills: %w", err)
	}
	defer rows.Close()

	return scanBills(rows)
}

// Delete removes a bill and its obligations in one transaction
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM obligations WHERE bill_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete obligations: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrBillNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bill deletion: %w", err)
	}

	return nil
}

// insertObligations inserts one row per share inside the caller's transaction
func insertObligations(ctx context.Context, tx *sql.Tx, billID int64, shares []split.Share) ([]*Obligation, error) {
	query := `
		INSERT INTO obligations (bill_id, ower_id, amount, paid)
		VALUES ($1, $2, $3, false)
		RETURNING id, bill_id, ower_id, amount, paid, paid_at, payment_method
	`

	obligations := make([]*Obligation, len(shares))
	for i, share := range shares {
		o := &Obligation{}
		err := tx.QueryRowContext(ctx, query, billID, share.UserID, share.Amount).Scan(
			&o.ID, &o.BillID, &o.OwerID, &o.Amount, &o.Paid, &o.PaidAt, &o.PaymentMethod,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create obligation: %w", err)
		}
		obligations[i] = o
	}

	return obligations, nil
}

// scanBills reads bill rows that include the creator name column
func scanBills(rows *sql.Rows) ([]*Bill, error) {
	var bills []*Bill
	for rows.Next() {
		b := &Bill{}
		if err := rows.Scan(
			&b.ID, &b.GroupID, &b.CreatorID, &b.Description, &b.Amount, &b.DueDate,
			&b.Paid, &b.Status, &b.SplitType, &b.CreatedAt, &b.CreatorName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}
