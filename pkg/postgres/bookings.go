package postgres

import (
	"context"
	"fmt"

	"github.com/tomblanchard/crewcall/pkg/core/model"
)

// ListBookings retrieves the non-cancelled bookings on the given dates,
// excluding the given booking ids. Time-window filtering is not done
// here: overlap decisions belong to the engine's single primitive.
func (db *DB) ListBookings(ctx context.Context, dates []string, excludeIDs []string) ([]model.Booking, error) {
	if excludeIDs == nil {
		excludeIDs = []string{}
	}

	rows, err := db.pool.Query(ctx, `
		SELECT b.id,
		       b.booking_date::text,
		       b.start_minutes,
		       b.end_minutes,
		       b.status,
		       COALESCE(b.staff_id, ''),
		       COALESCE(b.team_id, ''),
		       COALESCE(b.recurring_group_id, ''),
		       COALESCE(sv.name, ''),
		       COALESCE(c.name, '')
		FROM bookings b
		LEFT JOIN services sv ON sv.id = b.service_id
		LEFT JOIN customers c ON c.id = b.customer_id
		WHERE b.booking_date::text = ANY($1)
		  AND b.status <> 'cancelled'
		  AND NOT (b.id = ANY($2))
		ORDER BY b.booking_date, b.start_minutes
	`, dates, excludeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		var status string
		if err := rows.Scan(&b.ID, &b.Date, &b.Start, &b.End, &status,
			&b.StaffID, &b.TeamID, &b.RecurringGroupID, &b.ServiceName, &b.CustomerName); err != nil {
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}
		b.Status = model.BookingStatus(status)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

// ListRecurringSiblingIDs returns every booking id sharing the given
// booking's recurring group, including the id itself. A booking outside
// any recurring group yields an empty slice.
func (db *DB) ListRecurringSiblingIDs(ctx context.Context, bookingID string) ([]string, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT b2.id
		FROM bookings b1
		JOIN bookings b2 ON b2.recurring_group_id = b1.recurring_group_id
		WHERE b1.id = $1
		  AND b1.recurring_group_id IS NOT NULL
		  AND b1.recurring_group_id <> ''
		ORDER BY b2.booking_date
	`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring siblings: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan sibling id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring siblings: %w", err)
	}

	return ids, nil
}
