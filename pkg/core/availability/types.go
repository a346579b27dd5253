// Package availability implements the availability check and candidate
// ranking engine: conflict detection against existing bookings and
// declared unavailability, team/individual duality, tiered skill
// matching, and composite scoring for single-date and multi-date
// requests.
package availability

import (
	"context"

	"github.com/tomblanchard/crewcall/pkg/core/model"
	"github.com/tomblanchard/crewcall/pkg/core/timewindow"
)

// Mode selects which candidate roster a request evaluates
type Mode string

const (
	ModeIndividual Mode = "individual"
	ModeTeam       Mode = "team"
)

func (m Mode) IsValid() bool {
	return m == ModeIndividual || m == ModeTeam
}

// State is the lifecycle state of a query result
type State string

const (
	// StateIdle means required inputs were missing; no queries were
	// issued and the result is intentionally empty
	StateIdle State = "idle"

	// StateLoading marks an in-flight check; CheckAvailability returns
	// it only on superseded results, where the newer request still owns
	// the visible state
	StateLoading State = "loading"

	StateReady  State = "ready"
	StateFailed State = "failed"
)

// Store is the narrow read interface the engine needs from the external
// data store. Implementations must exclude cancelled bookings and the
// given ids from ListBookings; time-window filtering stays in the engine
// so every overlap decision runs through the one primitive.
type Store interface {
	GetServiceRequirement(ctx context.Context, serviceID string) (*model.ServiceRequirement, error)
	ListStaff(ctx context.Context) ([]model.Staff, error)
	ListTeams(ctx context.Context) ([]model.Team, error)
	ListBookings(ctx context.Context, dates []string, excludeIDs []string) ([]model.Booking, error)
	ListUnavailability(ctx context.Context, dates []string) ([]model.Unavailability, error)
	ListRecurringSiblingIDs(ctx context.Context, bookingID string) ([]string, error)
}

// Request describes one availability check
type Request struct {
	// Dates to evaluate; one date runs the single-date path, more run
	// the batched multi-date path
	Dates []string

	Window    timewindow.Window
	ServiceID string
	Mode      Mode

	// ExcludeBookingID removes a booking from conflict consideration
	// (editing a booking must not conflict with itself). When the
	// booking belongs to a recurring group, every sibling in the group
	// is excluded as well.
	ExcludeBookingID string
}

// complete reports whether all required inputs are present. An
// incomplete request is a guard condition, not an error: the engine
// stays idle and issues no queries.
func (r Request) complete() bool {
	if len(r.Dates) == 0 || r.ServiceID == "" || !r.Mode.IsValid() {
		return false
	}
	return r.Window.Valid()
}

// Conflict is a materialized overlap between the requested window and
// one existing booking, with display fields for presentation
type Conflict struct {
	BookingID    string
	Date         string
	Window       timewindow.Window
	ServiceName  string
	CustomerName string
}

// DateDetail is the per-date availability breakdown in multi-date results
type DateDetail struct {
	Available             bool
	Conflicts             []Conflict
	UnavailabilityReasons []string
}

// CandidateResult is the ranked output record for one staff member or team
type CandidateResult struct {
	CandidateID   string
	CandidateName string
	IsTeam        bool

	// SkillMatch is the raw 0-80 tiered matcher output, before any
	// composite rescaling
	SkillMatch float64

	// Available is authoritative for selection; ranking is by Score but
	// unavailable candidates are kept so an operator can see who to
	// rebook if a conflicting booking cancels. For multi-date requests
	// this means available on every requested date.
	Available             bool
	Conflicts             []Conflict
	UnavailabilityReasons []string

	// Multi-date fields (nil/zero on single-date results)
	Dates             map[string]DateDetail
	AvailableDates    int
	AvailableAllDates bool

	// Workload is the count of already-assigned jobs on the requested
	// date(s), regardless of time overlap
	Workload int

	Score float64
}

// Result is the engine's answer to one request
type Result struct {
	State   State
	QueryID string

	Staff []CandidateResult
	Teams []CandidateResult

	ServiceSkillTag string

	// Superseded marks a result whose request was overtaken by a newer
	// one while in flight; the caller must discard it
	Superseded bool

	// Err is set when State is StateFailed; failures never propagate as
	// panics or returned errors past the engine boundary
	Err error
}

func emptyResult(state State, queryID string) Result {
	return Result{
		State:   state,
		QueryID: queryID,
		Staff:   []CandidateResult{},
		Teams:   []CandidateResult{},
	}
}
