package repository

import (
	"context"
	"database/sql"
	"fmt"
)

type GroupsRepository struct {
	db *sql.DB
}

func NewGroupsRepository(db *sql.DB) *GroupsRepository {
	return &GroupsRepository{db: db}
}

// IsGroupMember reports whether userID is a confirmed, non-banned member of groupID.
func (r *GroupsRepository) IsGroupMember(ctx context.Context, userID, groupID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM group_members
			WHERE user_id = $1 AND group_id = $2 AND is_confirmed AND NOT is_banned
		)
	`, userID, groupID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("group membership: %w", err)
	}
	return exists, nil
}
