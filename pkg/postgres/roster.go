package postgres

import (
	"context"
	"fmt"

	"github.com/tomblanchard/crewcall/pkg/core/model"
)

// ListStaff retrieves the staff roster with skills, team memberships
// and the derived average review rating (0 when a member has no
// reviews). Ordered by name so tie-broken rankings are deterministic.
func (db *DB) ListStaff(ctx context.Context) ([]model.Staff, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT s.id,
		       s.name,
		       s.skills,
		       COALESCE(AVG(r.rating), 0) AS avg_rating,
		       COALESCE(ARRAY_AGG(DISTINCT tm.team_id) FILTER (WHERE tm.team_id IS NOT NULL), '{}') AS team_ids
		FROM staff s
		LEFT JOIN reviews r ON r.staff_id = s.id
		LEFT JOIN team_members tm ON tm.staff_id = s.id
		GROUP BY s.id, s.name, s.skills
		ORDER BY s.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	var staff []model.Staff
	for rows.Next() {
		var s model.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.Skills, &s.AvgRating, &s.TeamIDs); err != nil {
			return nil, fmt.Errorf("failed to scan staff row: %w", err)
		}
		staff = append(staff, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}

	return staff, nil
}

// ListTeams retrieves all teams with their member ids, including
// inactive teams; candidacy filtering is engine logic.
func (db *DB) ListTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT t.id,
		       t.name,
		       t.active,
		       COALESCE(ARRAY_AGG(tm.staff_id ORDER BY tm.staff_id) FILTER (WHERE tm.staff_id IS NOT NULL), '{}') AS member_ids
		FROM teams t
		LEFT JOIN team_members tm ON tm.team_id = t.id
		GROUP BY t.id, t.name, t.active
		ORDER BY t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Active, &t.MemberIDs); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}
