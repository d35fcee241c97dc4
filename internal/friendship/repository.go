package friendship

import (
	"context"
	"database/sql"
	"time"
)

// Repository handles database operations for friendships
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new friendship repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `
	f.id, f.requester_id, f.requested_id, f.status, f.requested_at, f.responded_at,
	req.name AS requester_name, tgt.name AS requested_name`

const joinUsers = `
	FROM friendships f
	JOIN users req ON f.requester_id = req.id
	JOIN users tgt ON f.requested_id = tgt.id`

// Create inserts a new friendship row
func (r *Repository) Create(ctx context.Context, f *Friendship) (*Friendship, error) {
	query := `
		INSERT INTO friendships (requester_id, requested_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, requester_id, requested_id, status, requested_at, responded_at`

	created := &Friendship{}
	err := r.db.QueryRowContext(ctx, query, f.RequesterID, f.RequestedID, f.Status).Scan(
		&created.ID, &created.RequesterID, &created.RequestedID,
		&created.Status, &created.RequestedAt, &created.RespondedAt,
	)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a friendship by ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Friendship, error) {
	query := `SELECT` + selectColumns + joinUsers + ` WHERE f.id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetBetween retrieves the row for the pair, in either direction
func (r *Repository) GetBetween(ctx context.Context, a, b int64) (*Friendship, error) {
	query := `SELECT` + selectColumns + joinUsers + `
		WHERE (f.requester_id = $1 AND f.requested_id = $2)
		   OR (f.requester_id = $2 AND f.requested_id = $1)`
	return r.scanOne(r.db.QueryRowContext(ctx, query, a, b))
}

// UpdateStatus records the response to a request
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status, respondedAt time.Time) (*Friendship, error) {
	query := `
		UPDATE friendships
		SET status = $2, responded_at = $3
		WHERE id = $1
		RETURNING id, requester_id, requested_id, status, requested_at, responded_at`

	f := &Friendship{}
	err := r.db.QueryRowContext(ctx, query, id, status, respondedAt).Scan(
		&f.ID, &f.RequesterID, &f.RequestedID, &f.Status, &f.RequestedAt, &f.RespondedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrFriendshipNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListByUser retrieves friendships with the given status where the
// user is on either side
func (r *Repository) ListByUser(ctx context.Context, userID int64, status Status) ([]*Friendship, error) {
	query := `SELECT` + selectColumns + joinUsers + `
		WHERE (f.requester_id = $1 OR f.requested_id = $1) AND f.status = $2
		ORDER BY f.requested_at DESC`
	return r.scanMany(ctx, query, userID, status)
}

// ListIncomingPending retrieves pending requests sent to the user
func (r *Repository) ListIncomingPending(ctx context.Context, userID int64) ([]*Friendship, error) {
	query := `SELECT` + selectColumns + joinUsers + `
		WHERE f.requested_id = $1 AND f.status = $2
		ORDER BY f.requested_at DESC`
	return r.scanMany(ctx, query, userID, StatusPending)
}

// Delete removes a friendship row
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM friendships WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrFriendshipNotFound
	}
	return nil
}

func (r *Repository) scanOne(row *sql.Row) (*Friendship, error) {
	f := &Friendship{}
	err := row.Scan(
		&f.ID, &f.RequesterID, &f.RequestedID, &f.Status, &f.RequestedAt, &f.RespondedAt,
		&f.RequesterName, &f.RequestedName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *Repository) scanMany(ctx context.Context, query string, args ...interface{}) ([]*Friendship, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friendships []*Friendship
	for rows.Next() {
		f := &Friendship{}
		err := rows.Scan(
			&f.ID, &f.RequesterID, &f.RequestedID, &f.Status, &f.RequestedAt, &f.RespondedAt,
			&f.RequesterName, &f.RequestedName,
		)
		if err != nil {
			return nil, err
		}
		friendships = append(friendships, f)
	}
	return friendships, rows.Err()
}
