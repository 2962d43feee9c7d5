package repository

import (
	"context"
	"database/sql"
	"fmt"

	"feed-api/models"
)

type RolesRepository struct {
	db *sql.DB
}

func NewRolesRepository(db *sql.DB) *RolesRepository {
	return &RolesRepository{db: db}
}

// HasCapability reports whether any role assigned to userID grants capability.
func (r *RolesRepository) HasCapability(ctx context.Context, userID int, capability string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_role ur
			JOIN role_capability rc ON rc.role_id = ur.role_id
			WHERE ur.user_id = $1 AND rc.capability = $2
		)
	`, userID, capability).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("capability %s: %w", capability, err)
	}
	return ok, nil
}

func (r *RolesRepository) HasModerationCapability(ctx context.Context, userID int) (bool, error) {
	return r.HasCapability(ctx, userID, models.CapabilityModerate)
}
