package initializers

import (
	"context"
	"database/sql"

	"feed-api/models"
)

// InitDefaults runs once at startup. It makes sure the moderator role exists
// with the moderation capability and is assigned to moderatorIDs.
func InitDefaults(ctx context.Context, db *sql.DB, moderatorIDs []int) error {
	roleID, err := ensureRole(ctx, db, models.RoleModerator)
	if err != nil {
		return err
	}
	if err := ensureRoleCapability(ctx, db, roleID, models.CapabilityModerate); err != nil {
		return err
	}
	for _, uid := range moderatorIDs {
		if err := ensureUserRole(ctx, db, uid, roleID); err != nil {
			return err
		}
	}
	return nil
}

func ensureRole(ctx context.Context, db *sql.DB, name string) (int, error) {
	var id int
	err := db.QueryRowContext(ctx, "SELECT id FROM role WHERE name = $1", name).Scan(&id)
	if err == sql.ErrNoRows {
		err = db.QueryRowContext(ctx, "INSERT INTO role (name) VALUES ($1) RETURNING id", name).Scan(&id)
		if err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}
	return id, nil
}

func ensureRoleCapability(ctx context.Context, db *sql.DB, roleID int, capability string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO role_capability (role_id, capability)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, roleID, capability)
	return err
}

func ensureUserRole(ctx context.Context, db *sql.DB, userID, roleID int) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO user_role (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, roleID)
	return err
}
