package postgres

import (
	"context"
	"fmt"

	"github.com/tomblanchard/crewcall/pkg/core/model"
)

// ListUnavailability retrieves unavailability periods relevant to the
// given dates. Recurring periods are returned regardless of their
// anchor date so the engine can expand the rule against each query
// date.
func (db *DB) ListUnavailability(ctx context.Context, dates []string) ([]model.Unavailability, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id,
		       staff_id,
		       period_date::text,
		       all_day,
		       COALESCE(start_minutes, 0),
		       COALESCE(end_minutes, 0),
		       COALESCE(rrule, ''),
		       COALESCE(reason, '')
		FROM unavailability
		WHERE period_date::text = ANY($1)
		   OR COALESCE(rrule, '') <> ''
		ORDER BY staff_id, period_date
	`, dates)
	if err != nil {
		return nil, fmt.Errorf("failed to query unavailability: %w", err)
	}
	defer rows.Close()

	var periods []model.Unavailability
	for rows.Next() {
		var u model.Unavailability
		if err := rows.Scan(&u.ID, &u.StaffID, &u.Date, &u.AllDay,
			&u.Start, &u.End, &u.RRule, &u.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan unavailability row: %w", err)
		}
		periods = append(periods, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unavailability: %w", err)
	}

	return periods, nil
}
