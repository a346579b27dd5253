package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tomblanchard/crewcall/pkg/core/model"
)

// GetServiceRequirement retrieves the skill requirement for a service.
// A missing service returns (nil, nil); the engine degrades the skill
// dimension rather than failing the query.
func (db *DB) GetServiceRequirement(ctx context.Context, serviceID string) (*model.ServiceRequirement, error) {
	var req model.ServiceRequirement
	err := db.pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(skill_tag, '')
		FROM services
		WHERE id = $1
	`, serviceID).Scan(&req.ID, &req.Name, &req.SkillTag)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query service %s: %w", serviceID, err)
	}

	return &req, nil
}
