package balance

import (
	"context"
	"database/sql"
)

// Repository implements Source against the bills, obligations, and
// debts tables
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new balance repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// UnpaidOwedByUser retrieves unpaid obligations the user owes on other
// people's bills plus unpaid direct debts where the user is the debtor.
// The creator's share of their own bill nets to zero, so it is skipped.
func (r *Repository) UnpaidOwedByUser(ctx context.Context, userID int64) ([]*Item, error) {
	query := `
		SELECT 'BILL_SPLIT' AS kind, o.id AS ref_id, b.creator_id AS counterparty_id,
		       u.name AS counterparty_name, o.amount, b.description, b.due_date
		FROM obligations o
		JOIN bills b ON o.bill_id = b.id
		JOIN users u ON b.creator_id = u.id
		WHERE o.ower_id = $1 AND o.paid = false AND b.creator_id <> $1
		UNION ALL
		SELECT 'DIRECT_DEBT', d.id, d.creditor_id, u.name, d.amount, d.description, d.due_date
		FROM debts d
		JOIN users u ON d.creditor_id = u.id
		WHERE d.debtor_id = $1 AND d.paid = false
		ORDER BY ref_id`

	return r.scanItems(ctx, query, userID)
}

// UnpaidOwedToUser retrieves unpaid obligations on the user's bills
// owed by others plus unpaid direct debts where the user is the creditor
func (r *Repository) UnpaidOwedToUser(ctx context.Context, userID int64) ([]*Item, error) {
	query := `
		SELECT 'BILL_SPLIT' AS kind, o.id AS ref_id, o.ower_id AS counterparty_id,
		       u.name AS counterparty_name, o.amount, b.description, b.due_date
		FROM obligations o
		JOIN bills b ON o.bill_id = b.id
		JOIN users u ON o.ower_id = u.id
		WHERE b.creator_id = $1 AND o.paid = false AND o.ower_id <> $1
		UNION ALL
		SELECT 'DIRECT_DEBT', d.id, d.debtor_id, u.name, d.amount, d.description, d.due_date
		FROM debts d
		JOIN users u ON d.debtor_id = u.id
		WHERE d.creditor_id = $1 AND d.paid = false
		ORDER BY ref_id`

	return r.scanItems(ctx, query, userID)
}

func (r *Repository) scanItems(ctx context.Context, query string, userID int64) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it := &Item{}
		err := rows.Scan(
			&it.Kind, &it.RefID, &it.CounterpartyID, &it.CounterpartyName,
			&it.Amount, &it.Description, &it.DueDate,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
