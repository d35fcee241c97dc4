package purchase

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles database operations for purchases
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new purchase repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the purchase and its items in one transaction
func (r *Repository) Create(ctx context.Context, p *Purchase, items []*Item) (*PurchaseWithItems, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO purchases (creator_id, description, purchase_date, notes, finalized)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id, creator_id, description, purchase_date, notes, finalized, created_at`

	created := &Purchase{}
	err = tx.QueryRowContext(ctx, query,
		p.CreatorID, p.Description, p.PurchaseDate, p.Notes,
	).Scan(
		&created.ID, &created.CreatorID, &created.Description,
		&created.PurchaseDate, &created.Notes, &created.Finalized, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	itemQuery := `
		INSERT INTO purchase_items (purchase_id, description, unit_price, quantity, responsible_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, purchase_id, description, unit_price, quantity, responsible_id, notes`

	createdItems := make([]*Item, len(items))
	for i, it := range items {
		stored := &Item{}
		err := tx.QueryRowContext(ctx, itemQuery,
			created.ID, it.Description, it.UnitPrice, it.Quantity, it.ResponsibleID, it.Notes,
		).Scan(
			&stored.ID, &stored.PurchaseID, &stored.Description,
			&stored.UnitPrice, &stored.Quantity, &stored.ResponsibleID, &stored.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create purchase item: %w", err)
		}
		createdItems[i] = stored
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &PurchaseWithItems{Purchase: created, Items: createdItems}, nil
}

// GetByID retrieves a purchase by ID with the creator name
func (r *Repository) GetByID(ctx context.Context, id int64) (*Purchase, error) {
	query := `
		SELECT p.id, p.creator_id, p.description, p.purchase_date, p.notes,
		       p.finalized, p.created_at, u.name AS creator_name
		FROM purchases p
		JOIN users u ON p.creator_id = u.id
		WHERE p.id = $1`

	p := &Purchase{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.CreatorID, &p.Description, &p.PurchaseDate, &p.Notes,
		&p.Finalized, &p.CreatedAt, &p.CreatorName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetItems retrieves the items of a purchase in insertion order
func (r *Repository) GetItems(ctx context.Context, purchaseID int64) ([]*Item, error) {
	query := `
		SELECT i.id, i.purchase_id, i.description, i.unit_price, i.quantity,
		       i.responsible_id, i.notes, u.name AS responsible_name
		FROM purchase_items i
		JOIN users u ON i.responsible_id = u.id
		WHERE i.purchase_id = $1
		ORDER BY i.id`

	rows, err := r.db.QueryContext(ctx, query, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it := &Item{}
		err := rows.Scan(
			&it.ID, &it.PurchaseID, &it.Description, &it.UnitPrice, &it.Quantity,
			&it.ResponsibleID, &it.Notes, &it.ResponsibleName,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AddItem inserts one item into an existing purchase
func (r *Repository) AddItem(ctx context.Context, it *Item) (*Item, error) {
	query := `
		INSERT INTO purchase_items (purchase_id, description, unit_price, quantity, responsible_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, purchase_id, description, unit_price, quantity, responsible_id, notes`

	stored := &Item{}
	err := r.db.QueryRowContext(ctx, query,
		it.PurchaseID, it.Description, it.UnitPrice, it.Quantity, it.ResponsibleID, it.Notes,
	).Scan(
		&stored.ID, &stored.PurchaseID, &stored.Description,
		&stored.UnitPrice, &stored.Quantity, &stored.ResponsibleID, &stored.Notes,
	)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// SetFinalized flips the purchase's finalized flag
func (r *Repository) SetFinalized(ctx context.Context, id int64, finalized bool) (*Purchase, error) {
	query := `
		UPDATE purchases
		SET finalized = $2
		WHERE id = $1
		RETURNING id, creator_id, description, purchase_date, notes, finalized, created_at`

	p := &Purchase{}
	err := r.db.QueryRowContext(ctx, query, id, finalized).Scan(
		&p.ID, &p.CreatorID, &p.Description, &p.PurchaseDate, &p.Notes,
		&p.Finalized, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByCreator retrieves the user's purchases, newest first
func (r *Repository) ListByCreator(ctx context.Context, creatorID int64, finalized *bool) ([]*Purchase, error) {
	query := `
		SELECT p.id, p.creator_id, p.description, p.purchase_date, p.notes,
		       p.finalized, p.created_at, u.name AS creator_name
		FROM purchases p
		JOIN users u ON p.creator_id = u.id
		WHERE p.creator_id = $1 AND ($2::boolean IS NULL OR p.finalized = $2)
		ORDER BY p.created_at DESC`

	return r.scanPurchases(ctx, query, creatorID, finalized)
}

// ListInvolvingUser retrieves purchases with items assigned to the
// user, optionally open ones only
func (r *Repository) ListInvolvingUser(ctx context.Context, userID int64, activeOnly bool) ([]*Purchase, error) {
	query := `
		SELECT DISTINCT p.id, p.creator_id, p.description, p.purchase_date, p.notes,
		       p.finalized, p.created_at, u.name AS creator_name
		FROM purchases p
		JOIN users u ON p.creator_id = u.id
		JOIN purchase_items i ON i.purchase_id = p.id
		WHERE i.responsible_id = $1 AND ($2 = false OR p.finalized = false)
		ORDER BY p.created_at DESC`

	return r.scanPurchases(ctx, query, userID, activeOnly)
}

// Delete removes a purchase and its items in one transaction
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM purchase_items WHERE purchase_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete purchase items: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPurchaseNotFound
	}

	return tx.Commit()
}

func (r *Repository) scanPurchases(ctx context.Context, query string, args ...interface{}) ([]*Purchase, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []*Purchase
	for rows.Next() {
		p := &Purchase{}
		err := rows.Scan(
			&p.ID, &p.CreatorID, &p.Description, &p.PurchaseDate, &p.Notes,
			&p.Finalized, &p.CreatedAt, &p.CreatorName,
		)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}
