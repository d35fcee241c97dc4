package invite

import (
	"context"
	"database/sql"
	"time"
)

// Repository handles database operations for invites
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new invite repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const columns = `id, bill_id, creator_id, email, token, status, expires_at, created_at, accepted_at, accepted_by`

// Create inserts a new invite into the database
func (r *Repository) Create(ctx context.Context, i *Invite) (*Invite, error) {
	query := `
		INSERT INTO bill_invites (bill_id, creator_id, email, token, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + columns

	return r.scanOne(r.db.QueryRowContext(ctx, query,
		i.BillID, i.CreatorID, i.Email, i.Token, i.Status, i.ExpiresAt))
}

// GetByID retrieves an invite by ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Invite, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM bill_invites WHERE id = $1`, id)
	i, err := r.scanOne(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return i, err
}

// GetByToken retrieves an invite by its token
func (r *Repository) GetByToken(ctx context.Context, token string) (*Invite, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM bill_invites WHERE token = $1`, token)
	i, err := r.scanOne(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return i, err
}

// HasPending reports whether a pending invite exists for the email on
// this bill
func (r *Repository) HasPending(ctx context.Context, billID int64, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bill_invites WHERE bill_id = $1 AND email = $2 AND status = $3)`,
		billID, email, StatusPending).Scan(&exists)
	return exists, err
}

// UpdateStatus resolves an invite
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status, acceptedBy *int64, acceptedAt *time.Time) (*Invite, error) {
	query := `
		UPDATE bill_invites
		SET status = $2, accepted_by = $3, accepted_at = $4
		WHERE id = $1
		RETURNING ` + columns

	i, err := r.scanOne(r.db.QueryRowContext(ctx, query, id, status, acceptedBy, acceptedAt))
	if err == sql.ErrNoRows {
		return nil, ErrInviteNotFound
	}
	return i, err
}

// ListByBill retrieves the invites of a bill, newest first
func (r *Repository) ListByBill(ctx context.Context, billID int64) ([]*Invite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+columns+` FROM bill_invites WHERE bill_id = $1 ORDER BY created_at DESC`, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []*Invite
	for rows.Next() {
		i := &Invite{}
		err := rows.Scan(
			&i.ID, &i.BillID, &i.CreatorID, &i.Email, &i.Token, &i.Status,
			&i.ExpiresAt, &i.CreatedAt, &i.AcceptedAt, &i.AcceptedBy,
		)
		if err != nil {
			return nil, err
		}
		invites = append(invites, i)
	}
	return invites, rows.Err()
}

// ExpirePending flips every pending invite past its deadline
func (r *Repository) ExpirePending(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE bill_invites SET status = $1 WHERE status = $2 AND expires_at < $3`,
		StatusExpired, StatusPending, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *Repository) scanOne(row *sql.Row) (*Invite, error) {
	i := &Invite{}
	err := row.Scan(
		&i.ID, &i.BillID, &i.CreatorID, &i.Email, &i.Token, &i.Status,
		&i.ExpiresAt, &i.CreatedAt, &i.AcceptedAt, &i.AcceptedBy,
	)
	if err != nil {
		return nil, err
	}
	return i, nil
}
