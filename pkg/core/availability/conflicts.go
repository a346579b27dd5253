package availability

import (
	"fmt"

	"github.com/tomblanchard/crewcall/pkg/core/model"
	"github.com/tomblanchard/crewcall/pkg/core/recurrence"
	"github.com/tomblanchard/crewcall/pkg/core/timewindow"
)

// ConflictDetector answers availability questions for one query
// invocation against pre-fetched bookings and unavailability records.
// The store has already excluded cancelled bookings and the requested
// exclusion ids; everything here is in-memory interval reasoning built
// on the single overlap primitive.
type ConflictDetector struct {
	membership     *MembershipIndex
	bookingsByDate map[string][]model.Booking
	unavailByStaff map[string][]model.Unavailability
}

// NewConflictDetector partitions the fetched records for lookup
func NewConflictDetector(membership *MembershipIndex, bookings []model.Booking, unavailability []model.Unavailability) *ConflictDetector {
	d := &ConflictDetector{
		membership:     membership,
		bookingsByDate: make(map[string][]model.Booking),
		unavailByStaff: make(map[string][]model.Unavailability),
	}
	for _, b := range bookings {
		if b.Status == model.StatusCancelled {
			continue
		}
		d.bookingsByDate[b.Date] = append(d.bookingsByDate[b.Date], b)
	}
	for _, u := range unavailability {
		d.unavailByStaff[u.StaffID] = append(d.unavailByStaff[u.StaffID], u)
	}
	return d
}

// StaffConflicts returns the bookings on the date that overlap the
// window and block the staff member, either assigned to them directly
// or to any team they belong to.
func (d *ConflictDetector) StaffConflicts(staffID, date string, w timewindow.Window) []Conflict {
	teamSet := make(map[string]bool)
	for _, teamID := range d.membership.TeamsFor(staffID) {
		teamSet[teamID] = true
	}

	conflicts := []Conflict{}
	for _, b := range d.bookingsByDate[date] {
		assigned := b.StaffID == staffID || (b.TeamID != "" && teamSet[b.TeamID])
		if !assigned {
			continue
		}
		if !timewindow.Overlaps(w.Start, w.End, b.Start, b.End) {
			continue
		}
		conflicts = append(conflicts, conflictFromBooking(b))
	}
	return conflicts
}

// StaffUnavailabilityReasons returns a human-readable reason for every
// declared unavailability period blocking the staff member on the date.
// A period without a window blocks the whole day unconditionally; a
// windowed period is filtered through the overlap primitive. Recurring
// periods count when their rule expands onto the date; records with a
// rule that no longer parses are skipped (rules are validated at
// declaration time).
func (d *ConflictDetector) StaffUnavailabilityReasons(staffID, date string, w timewindow.Window) []string {
	reasons := []string{}
	for _, u := range d.unavailByStaff[staffID] {
		if !d.unavailabilityAppliesOn(u, date) {
			continue
		}
		if u.AllDay {
			reasons = append(reasons, formatUnavailabilityReason("unavailable all day", u.Reason))
			continue
		}
		if timewindow.Overlaps(w.Start, w.End, u.Start, u.End) {
			period := timewindow.Window{Start: u.Start, End: u.End}
			reasons = append(reasons, formatUnavailabilityReason("unavailable "+period.String(), u.Reason))
		}
	}
	return reasons
}

// TeamDirectConflicts returns the overlapping bookings assigned directly
// to the team id
func (d *ConflictDetector) TeamDirectConflicts(teamID, date string, w timewindow.Window) []Conflict {
	conflicts := []Conflict{}
	for _, b := range d.bookingsByDate[date] {
		if b.TeamID != teamID {
			continue
		}
		if !timewindow.Overlaps(w.Start, w.End, b.Start, b.End) {
			continue
		}
		conflicts = append(conflicts, conflictFromBooking(b))
	}
	return conflicts
}

// StaffJobs counts the bookings assigned to the staff member on the
// date, directly or through any of their teams, regardless of time
// overlap. Drives the workload component of the composite score.
func (d *ConflictDetector) StaffJobs(staffID, date string) int {
	teamSet := make(map[string]bool)
	for _, teamID := range d.membership.TeamsFor(staffID) {
		teamSet[teamID] = true
	}

	count := 0
	for _, b := range d.bookingsByDate[date] {
		if b.StaffID == staffID || (b.TeamID != "" && teamSet[b.TeamID]) {
			count++
		}
	}
	return count
}

// TeamJobs counts the team's workload on the date: bookings assigned
// directly to the team plus each current member's individually assigned
// bookings. Members' shares of the team's own bookings are not counted
// again.
func (d *ConflictDetector) TeamJobs(teamID string, memberIDs []string, date string) int {
	memberSet := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		memberSet[id] = true
	}

	count := 0
	for _, b := range d.bookingsByDate[date] {
		if b.TeamID == teamID {
			count++
			continue
		}
		if b.StaffID != "" && memberSet[b.StaffID] {
			count++
		}
	}
	return count
}

func (d *ConflictDetector) unavailabilityAppliesOn(u model.Unavailability, date string) bool {
	if u.Date == date {
		return true
	}
	if u.RRule == "" {
		return false
	}
	occurs, err := recurrence.OccursOn(u.RRule, u.Date, date)
	if err != nil {
		return false
	}
	return occurs
}

func conflictFromBooking(b model.Booking) Conflict {
	return Conflict{
		BookingID:    b.ID,
		Date:         b.Date,
		Window:       timewindow.Window{Start: b.Start, End: b.End},
		ServiceName:  b.ServiceName,
		CustomerName: b.CustomerName,
	}
}

func formatUnavailabilityReason(base, reason string) string {
	if reason == "" {
		return base
	}
	return fmt.Sprintf("%s: %s", base, reason)
}
