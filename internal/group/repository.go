package group

import (
	"context"
	"database/sql"
)

// Repository handles database operations for groups
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group into the database
func (r *Repository) Create(ctx context.Context, g *Group) (*Group, error) {
	query := `
		INSERT INTO groups (name, description, creator_id, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, creator_id, active, created_at`

	created := &Group{}
	err := r.db.QueryRowContext(ctx, query, g.Name, g.Description, g.CreatorID, g.Active).Scan(
		&created.ID, &created.Name, &created.Description,
		&created.CreatorID, &created.Active, &created.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a group by ID with the creator name
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT g.id, g.name, g.description, g.creator_id, g.active, g.created_at,
		       u.name AS creator_name
		FROM groups g
		JOIN users u ON g.creator_id = u.id
		WHERE g.id = $1`

	g := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.Name, &g.Description, &g.CreatorID, &g.Active, &g.CreatedAt,
		&g.CreatorName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Update modifies group metadata
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateGroupRequest) (*Group, error) {
	query := `
		UPDATE groups
		SET name = COALESCE($2, name), description = COALESCE($3, description)
		WHERE id = $1
		RETURNING id, name, description, creator_id, active, created_at`

	g := &Group{}
	err := r.db.QueryRowContext(ctx, query, id, req.Name, req.Description).Scan(
		&g.ID, &g.Name, &g.Description, &g.CreatorID, &g.Active, &g.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// SetActive flips the group's active flag
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) (*Group, error) {
	query := `
		UPDATE groups
		SET active = $2
		WHERE id = $1
		RETURNING id, name, description, creator_id, active, created_at`

	g := &Group{}
	err := r.db.QueryRowContext(ctx, query, id, active).Scan(
		&g.ID, &g.Name, &g.Description, &g.CreatorID, &g.Active, &g.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListForUser retrieves the active groups the user is a member of
func (r *Repository) ListForUser(ctx context.Context, userID int64) ([]*Group, error) {
	query := `
		SELECT g.id, g.name, g.description, g.creator_id, g.active, g.created_at,
		       u.name AS creator_name
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		JOIN users u ON g.creator_id = u.id
		WHERE gm.user_id = $1 AND g.active = true
		ORDER BY g.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g := &Group{}
		err := rows.Scan(
			&g.ID, &g.Name, &g.Description, &g.CreatorID, &g.Active, &g.CreatedAt,
			&g.CreatorName,
		)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// AddMember inserts a membership row
func (r *Repository) AddMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`,
		groupID, userID)
	return err
}

// RemoveMember deletes a membership row
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`,
		groupID, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotMember
	}
	return nil
}

// IsMember reports whether the user belongs to the group
func (r *Repository) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`,
		groupID, userID).Scan(&exists)
	return exists, err
}

// ListMembers retrieves the group's members with their names
func (r *Repository) ListMembers(ctx context.Context, groupID int64) ([]*Member, error) {
	query := `
		SELECT gm.group_id, gm.user_id, gm.added_at, u.name AS user_name
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.added_at`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.AddedAt, &m.UserName); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
