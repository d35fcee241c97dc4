package debt

import (
	"context"
	"database/sql"
	"time"
)

// Repository handles database operations for debts
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new debt repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new debt into the database
func (r *Repository) Create(ctx context.Context, d *Debt) (*Debt, error) {
	query := `
		INSERT INTO debts (debtor_id, creditor_id, description, amount, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, debtor_id, creditor_id, description, amount, due_date, paid, paid_at, payment_method, created_at`

	created := &Debt{}
	err := r.db.QueryRowContext(ctx, query,
		d.DebtorID, d.CreditorID, d.Description, d.Amount, d.DueDate,
	).Scan(
		&created.ID, &created.DebtorID, &created.CreditorID, &created.Description,
		&created.Amount, &created.DueDate, &created.Paid, &created.PaidAt,
		&created.PaymentMethod, &created.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a debt by ID with both party names
func (r *Repository) GetByID(ctx context.Context, id int64) (*Debt, error) {
	query := `
		SELECT d.id, d.debtor_id, d.creditor_id, d.description, d.amount,
		       d.due_date, d.paid, d.paid_at, d.payment_method, d.created_at,
		       deb.name AS debtor_name, cred.name AS creditor_name
		FROM debts d
		JOIN users deb ON d.debtor_id = deb.id
		JOIN users cred ON d.creditor_id = cred.id
		WHERE d.id = $1`

	d := &Debt{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.DebtorID, &d.CreditorID, &d.Description, &d.Amount,
		&d.DueDate, &d.Paid, &d.PaidAt, &d.PaymentMethod, &d.CreatedAt,
		&d.DebtorName, &d.CreditorName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// MarkPaid flips the debt to paid and records the settlement metadata
func (r *Repository) MarkPaid(ctx context.Context, id int64, method *string, paidAt time.Time) (*Debt, error) {
	query := `
		UPDATE debts
		SET paid = true, paid_at = $2, payment_method = $3
		WHERE id = $1
		RETURNING id, debtor_id, creditor_id, description, amount, due_date, paid, paid_at, payment_method, created_at`

	d := &Debt{}
	err := r.db.QueryRowContext(ctx, query, id, paidAt, method).Scan(
		&d.ID, &d.DebtorID, &d.CreditorID, &d.Description, &d.Amount,
		&d.DueDate, &d.Paid, &d.PaidAt, &d.PaymentMethod, &d.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrDebtNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListByDebtor retrieves debts the user owes, newest first
func (r *Repository) ListByDebtor(ctx context.Context, debtorID int64, paid *bool) ([]*Debt, error) {
	query := `
		SELECT d.id, d.debtor_id, d.creditor_id, d.description, d.amount,
		       d.due_date, d.paid, d.paid_at, d.payment_method, d.created_at,
		       deb.name AS debtor_name, cred.name AS creditor_name
		FROM debts d
		JOIN users deb ON d.debtor_id = deb.id
		JOIN users cred ON d.creditor_id = cred.id
		WHERE d.debtor_id = $1 AND ($2::boolean IS NULL OR d.paid = $2)
		ORDER BY d.created_at DESC`

	return r.scanDebts(ctx, query, debtorID, paid)
}

// ListByCreditor retrieves debts owed to the user, newest first
func (r *Repository) ListByCreditor(ctx context.Context, creditorID int64, paid *bool) ([]*Debt, error) {
	query := `
		SELECT d.id, d.debtor_id, d.creditor_id, d.description, d.amount,
		       d.due_date, d.paid, d.paid_at, d.payment_method, d.created_at,
		       deb.name AS debtor_name, cred.name AS creditor_name
		FROM debts d
		JOIN users deb ON d.debtor_id = deb.id
		JOIN users cred ON d.creditor_id = cred.id
		WHERE d.creditor_id = $1 AND ($2::boolean IS NULL OR d.paid = $2)
		ORDER BY d.created_at DESC`

	return r.scanDebts(ctx, query, creditorID, paid)
}

// ListForUser retrieves debts where the user is debtor or creditor
func (r *Repository) ListForUser(ctx context.Context, userID int64, paid *bool) ([]*Debt, error) {
	query := `
		SELECT d.id, d.debtor_id, d.creditor_id, d.description, d.amount,
		       d.due_date, d.paid, d.paid_at, d.payment_method, d.created_at,
		       deb.name AS debtor_name, cred.name AS creditor_name
		FROM debts d
		JOIN users deb ON d.debtor_id = deb.id
		JOIN users cred ON d.creditor_id = cred.id
		WHERE (d.debtor_id = $1 OR d.creditor_id = $1)
		  AND ($2::boolean IS NULL OR d.paid = $2)
		ORDER BY d.created_at DESC`

	return r.scanDebts(ctx, query, userID, paid)
}

// Delete removes a debt from the database
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDebtNotFound
	}
	return nil
}

func (r *Repository) scanDebts(ctx context.Context, query string, args ...interface{}) ([]*Debt, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []*Debt
	for rows.Next() {
		d := &Debt{}
		err := rows.Scan(
			&d.ID, &d.DebtorID, &d.CreditorID, &d.Description, &d.Amount,
			&d.DueDate, &d.Paid, &d.PaidAt, &d.PaymentMethod, &d.CreatedAt,
			&d.DebtorName, &d.CreditorName,
		)
		if err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}
