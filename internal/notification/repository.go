package notification

import (
	"context"
	"database/sql"
)

// Repository handles database operations for notifications
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new notification repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new notification into the database
func (r *Repository) Create(ctx context.Context, n *Notification) (*Notification, error) {
	query := `
		INSERT INTO notifications (user_id, kind, message, ref_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, kind, message, ref_id, read, created_at`

	created := &Notification{}
	err := r.db.QueryRowContext(ctx, query, n.UserID, n.Kind, n.Message, n.RefID).Scan(
		&created.ID, &created.UserID, &created.Kind, &created.Message,
		&created.RefID, &created.Read, &created.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListByUser retrieves the user's notifications, newest first
func (r *Repository) ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]*Notification, error) {
	query := `
		SELECT id, user_id, kind, message, ref_id, read, created_at
		FROM notifications
		WHERE user_id = $1 AND ($2 = false OR read = false)
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		n := &Notification{}
		err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Message, &n.RefID, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// UnreadCount counts the user's unread notifications
func (r *Repository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = false`,
		userID).Scan(&count)
	return count, err
}

// MarkRead marks one of the user's notifications as read
func (r *Repository) MarkRead(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every notification of the user as read
func (r *Repository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`,
		userID)
	return err
}
