package availability

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tomblanchard/crewcall/pkg/core/model"
	"github.com/tomblanchard/crewcall/pkg/metrics"
)

// Engine is the availability query orchestrator. It is stateless across
// invocations apart from a generation counter used to discard
// superseded in-flight work: every CheckAvailability call is a fresh,
// side-effect-free computation over data read from the store.
type Engine struct {
	store       Store
	logger      *zap.Logger
	metrics     *metrics.Metrics
	concurrency int
	gen         atomic.Uint64
}

// Option configures an Engine
type Option func(*Engine)

// WithMetrics attaches Prometheus collectors to the engine
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithConcurrencyLimit caps the single-date fan-out at n concurrent
// candidate evaluations. Zero or negative means no cap.
func WithConcurrencyLimit(n int) Option {
	return func(e *Engine) {
		e.concurrency = n
	}
}

// NewEngine creates an availability engine over the given store
func NewEngine(store Store, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckAvailability evaluates one request and returns ranked candidate
// results. Incomplete input keeps the engine idle with empty results
// and issues no queries. Upstream fetch failures fail closed: the
// result carries the error and empty slices, never a partial ranking.
// A call that another call supersedes mid-flight returns a result
// marked Superseded, which the caller must discard.
func (e *Engine) CheckAvailability(ctx context.Context, req Request) Result {
	queryID := uuid.New().String()
	log := e.logger.With(zap.String("query_id", queryID))

	if !req.complete() {
		log.Debug("Incomplete request, staying idle",
			zap.Int("dates", len(req.Dates)),
			zap.String("service_id", req.ServiceID),
			zap.String("mode", string(req.Mode)))
		return emptyResult(StateIdle, queryID)
	}

	gen := e.gen.Add(1)
	started := time.Now()

	log.Debug("Starting availability check",
		zap.Strings("dates", req.Dates),
		zap.String("window", req.Window.String()),
		zap.String("service_id", req.ServiceID),
		zap.String("mode", string(req.Mode)),
		zap.String("exclude_booking_id", req.ExcludeBookingID))

	result, err := e.evaluate(ctx, req, log)

	// Last-writer-wins by input identity: a fresh check started while
	// this one was in flight owns the visible state
	if e.gen.Load() != gen {
		log.Info("Check superseded by a newer request, discarding result")
		stale := emptyResult(StateLoading, queryID)
		stale.Superseded = true
		return stale
	}

	elapsed := time.Since(started)

	if err != nil {
		log.Error("Availability check failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		e.metrics.ObserveQuery(string(req.Mode), string(StateFailed), elapsed.Seconds())
		failed := emptyResult(StateFailed, queryID)
		failed.Err = err
		return failed
	}

	result.QueryID = queryID
	conflictCount := 0
	for _, r := range result.Staff {
		conflictCount += len(r.Conflicts)
	}
	for _, r := range result.Teams {
		conflictCount += len(r.Conflicts)
	}
	e.metrics.ObserveQuery(string(req.Mode), string(StateReady), elapsed.Seconds())
	e.metrics.AddConflicts(conflictCount)

	log.Info("Availability check completed",
		zap.Int("staff_results", len(result.Staff)),
		zap.Int("team_results", len(result.Teams)),
		zap.Int("conflicts", conflictCount),
		zap.Duration("elapsed", elapsed))

	return result
}

// evaluate runs the fetch + score pipeline; any returned error means
// the whole query fails closed
func (e *Engine) evaluate(ctx context.Context, req Request, log *zap.Logger) (Result, error) {
	excludeIDs, err := e.resolveExclusions(ctx, req.ExcludeBookingID, log)
	if err != nil {
		return Result{}, err
	}

	skillTag, err := e.resolveSkillTag(ctx, req.ServiceID, log)
	if err != nil {
		return Result{}, err
	}

	staff, err := e.store.ListStaff(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch staff roster: %w", err)
	}
	teams, err := e.store.ListTeams(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch team roster: %w", err)
	}

	// One batched fetch spanning every requested date; per-date
	// partitioning happens in memory inside the detector
	bookings, err := e.store.ListBookings(ctx, req.Dates, excludeIDs)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	unavailability, err := e.store.ListUnavailability(ctx, req.Dates)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch unavailability: %w", err)
	}

	log.Debug("Fetched query inputs",
		zap.Int("staff", len(staff)),
		zap.Int("teams", len(teams)),
		zap.Int("bookings", len(bookings)),
		zap.Int("unavailability", len(unavailability)))

	membership := NewMembershipIndex(staff, teams)
	detector := NewConflictDetector(membership, bookings, unavailability)

	result := emptyResult(StateReady, "")
	result.ServiceSkillTag = skillTag

	switch req.Mode {
	case ModeIndividual:
		result.Staff, err = e.evaluateStaff(ctx, req, staff, detector, skillTag)
	case ModeTeam:
		result.Teams, err = e.evaluateTeams(ctx, req, teams, membership, detector, skillTag)
	}
	if err != nil {
		return Result{}, err
	}

	sortByScore(result.Staff)
	sortByScore(result.Teams)
	return result, nil
}

// resolveExclusions expands an excluded booking id to its full
// recurring-sibling set, so editing one occurrence of a series does not
// conflict with the series' other occurrences
func (e *Engine) resolveExclusions(ctx context.Context, excludeBookingID string, log *zap.Logger) ([]string, error) {
	if excludeBookingID == "" {
		return nil, nil
	}
	siblings, err := e.store.ListRecurringSiblingIDs(ctx, excludeBookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recurring siblings for booking %s: %w", excludeBookingID, err)
	}
	excludeIDs := []string{excludeBookingID}
	for _, id := range siblings {
		if id != excludeBookingID {
			excludeIDs = append(excludeIDs, id)
		}
	}
	if len(excludeIDs) > 1 {
		log.Debug("Expanded recurring exclusion set",
			zap.String("booking_id", excludeBookingID),
			zap.Int("excluded", len(excludeIDs)))
	}
	return excludeIDs, nil
}

// resolveSkillTag looks up the service's required skill. An
// unresolvable service id is not a hard failure: the skill matcher
// degrades to "no match" instead of aborting the query.
func (e *Engine) resolveSkillTag(ctx context.Context, serviceID string, log *zap.Logger) (string, error) {
	svc, err := e.store.GetServiceRequirement(ctx, serviceID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch service requirement: %w", err)
	}
	if svc == nil {
		log.Warn("Service id not found, skill matching degrades to no match", zap.String("service_id", serviceID))
		return "", nil
	}
	return svc.SkillTag, nil
}

// evaluateStaff scores every staff member. The single-date path fans
// out one task per candidate; the evaluations are independent and each
// writes only its own slot, joined by the group wait.
func (e *Engine) evaluateStaff(ctx context.Context, req Request, staff []model.Staff, detector *ConflictDetector, skillTag string) ([]CandidateResult, error) {
	roster := make([]model.Staff, len(staff))
	copy(roster, staff)
	sortRosterStaff(roster)

	results := make([]CandidateResult, len(roster))

	if len(req.Dates) == 1 {
		g, _ := errgroup.WithContext(ctx)
		if e.concurrency > 0 {
			g.SetLimit(e.concurrency)
		}
		for i, s := range roster {
			i, s := i, s
			g.Go(func() error {
				results[i] = e.evaluateStaffSingleDate(s, req.Dates[0], req, detector, skillTag)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return results, nil
	}

	// Multi-date stays sequential: the fetch was already batched and
	// the per-date folds are cheap
	for i, s := range roster {
		results[i] = e.evaluateStaffMultiDate(s, req, detector, skillTag)
	}
	return results, nil
}

func (e *Engine) evaluateStaffSingleDate(s model.Staff, date string, req Request, detector *ConflictDetector, skillTag string) CandidateResult {
	conflicts := detector.StaffConflicts(s.ID, date, req.Window)
	reasons := detector.StaffUnavailabilityReasons(s.ID, date, req.Window)
	jobs := detector.StaffJobs(s.ID, date)
	skill := MatchStaffSkill(s.Skills, skillTag)

	return CandidateResult{
		CandidateID:           s.ID,
		CandidateName:         s.Name,
		SkillMatch:            skill,
		Available:             len(conflicts) == 0 && len(reasons) == 0,
		Conflicts:             conflicts,
		UnavailabilityReasons: reasons,
		Workload:              jobs,
		Score:                 staffCompositeScore(skill, s.AvgRating, jobs),
	}
}

func (e *Engine) evaluateStaffMultiDate(s model.Staff, req Request, detector *ConflictDetector, skillTag string) CandidateResult {
	skill := MatchStaffSkill(s.Skills, skillTag)

	details := make(map[string]DateDetail, len(req.Dates))
	allConflicts := []Conflict{}
	allReasons := []string{}
	availableDates := 0
	totalJobs := 0

	for _, date := range req.Dates {
		conflicts := detector.StaffConflicts(s.ID, date, req.Window)
		reasons := detector.StaffUnavailabilityReasons(s.ID, date, req.Window)
		available := len(conflicts) == 0 && len(reasons) == 0
		if available {
			availableDates++
		}
		details[date] = DateDetail{
			Available:             available,
			Conflicts:             conflicts,
			UnavailabilityReasons: reasons,
		}
		allConflicts = append(allConflicts, conflicts...)
		allReasons = append(allReasons, reasons...)
		totalJobs += detector.StaffJobs(s.ID, date)
	}

	return CandidateResult{
		CandidateID:           s.ID,
		CandidateName:         s.Name,
		SkillMatch:            skill,
		Available:             availableDates == len(req.Dates),
		Conflicts:             allConflicts,
		UnavailabilityReasons: allReasons,
		Dates:                 details,
		AvailableDates:        availableDates,
		AvailableAllDates:     availableDates == len(req.Dates),
		Workload:              totalJobs,
		Score:                 staffMultiDateScore(availableDates, len(req.Dates), s.AvgRating, skill),
	}
}

// evaluateTeams scores every active team. Inactive teams are not
// candidates and are dropped from the roster entirely.
func (e *Engine) evaluateTeams(ctx context.Context, req Request, teams []model.Team, membership *MembershipIndex, detector *ConflictDetector, skillTag string) ([]CandidateResult, error) {
	roster := make([]model.Team, 0, len(teams))
	for _, t := range teams {
		if t.Active {
			roster = append(roster, t)
		}
	}
	sortRosterTeams(roster)

	results := make([]CandidateResult, len(roster))

	if len(req.Dates) == 1 {
		g, _ := errgroup.WithContext(ctx)
		if e.concurrency > 0 {
			g.SetLimit(e.concurrency)
		}
		for i, t := range roster {
			i, t := i, t
			g.Go(func() error {
				results[i] = e.evaluateTeamSingleDate(t, req.Dates[0], req, membership, detector, skillTag)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return results, nil
	}

	for i, t := range roster {
		results[i] = e.evaluateTeamMultiDate(t, req, membership, detector, skillTag)
	}
	return results, nil
}

func (e *Engine) evaluateTeamSingleDate(t model.Team, date string, req Request, membership *MembershipIndex, detector *ConflictDetector, skillTag string) CandidateResult {
	members := membership.Members(t.ID)
	conflicts, reasons := e.teamDayConflicts(t, members, date, req, detector)

	memberIDs := membership.MembersFor(t.ID)
	jobs := detector.TeamJobs(t.ID, memberIDs, date)
	match := MatchTeamSkill(members, skillTag)
	rating := averageMemberRating(memberRatings(members))

	return CandidateResult{
		CandidateID:           t.ID,
		CandidateName:         t.Name,
		IsTeam:                true,
		SkillMatch:            match,
		Available:             len(conflicts) == 0 && len(reasons) == 0,
		Conflicts:             conflicts,
		UnavailabilityReasons: reasons,
		Workload:              jobs,
		Score:                 teamCompositeScore(match, rating, jobs),
	}
}

func (e *Engine) evaluateTeamMultiDate(t model.Team, req Request, membership *MembershipIndex, detector *ConflictDetector, skillTag string) CandidateResult {
	members := membership.Members(t.ID)
	memberIDs := membership.MembersFor(t.ID)
	match := MatchTeamSkill(members, skillTag)

	details := make(map[string]DateDetail, len(req.Dates))
	allConflicts := []Conflict{}
	allReasons := []string{}
	availableDates := 0
	totalJobs := 0

	for _, date := range req.Dates {
		conflicts, reasons := e.teamDayConflicts(t, members, date, req, detector)
		available := len(conflicts) == 0 && len(reasons) == 0
		if available {
			availableDates++
		}
		details[date] = DateDetail{
			Available:             available,
			Conflicts:             conflicts,
			UnavailabilityReasons: reasons,
		}
		allConflicts = append(allConflicts, conflicts...)
		allReasons = append(allReasons, reasons...)
		totalJobs += detector.TeamJobs(t.ID, memberIDs, date)
	}

	return CandidateResult{
		CandidateID:           t.ID,
		CandidateName:         t.Name,
		IsTeam:                true,
		SkillMatch:            match,
		Available:             availableDates == len(req.Dates),
		Conflicts:             allConflicts,
		UnavailabilityReasons: allReasons,
		Dates:                 details,
		AvailableDates:        availableDates,
		AvailableAllDates:     availableDates == len(req.Dates),
		Workload:              totalJobs,
		Score:                 teamMultiDateScore(availableDates, len(req.Dates), match),
	}
}

// teamDayConflicts gathers everything blocking a team on one date: the
// team id's own conflicting bookings, plus every member's individual
// conflicts and declared unavailability. Fully available requires none
// of the three.
func (e *Engine) teamDayConflicts(t model.Team, members []model.Staff, date string, req Request, detector *ConflictDetector) ([]Conflict, []string) {
	conflicts := detector.TeamDirectConflicts(t.ID, date, req.Window)
	reasons := []string{}

	// Member conflict searches include team-level bookings, so the
	// team's own bookings would repeat once per member without the
	// seen-set
	seen := make(map[string]bool, len(conflicts))
	for _, c := range conflicts {
		seen[c.BookingID] = true
	}

	for _, member := range members {
		for _, c := range detector.StaffConflicts(member.ID, date, req.Window) {
			if seen[c.BookingID] {
				continue
			}
			seen[c.BookingID] = true
			conflicts = append(conflicts, c)
		}

		for _, reason := range detector.StaffUnavailabilityReasons(member.ID, date, req.Window) {
			reasons = append(reasons, fmt.Sprintf("%s: %s", member.Name, reason))
		}
	}
	return conflicts, reasons
}

func memberRatings(members []model.Staff) []float64 {
	ratings := make([]float64, len(members))
	for i, m := range members {
		ratings[i] = m.AvgRating
	}
	return ratings
}

// sortByScore orders results descending by composite score. The sort is
// stable, so candidates tied on score keep the roster's name-ascending
// order.
func sortByScore(results []CandidateResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

func sortRosterStaff(staff []model.Staff) {
	sort.SliceStable(staff, func(i, j int) bool {
		return staff[i].Name < staff[j].Name
	})
}

func sortRosterTeams(teams []model.Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].Name < teams[j].Name
	})
}
