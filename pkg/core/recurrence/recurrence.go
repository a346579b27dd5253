// Package recurrence wraps RRULE expansion for recurring unavailability
// periods and recurring booking groups.
package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/tomblanchard/crewcall/pkg/core/timewindow"
)

// Validate checks that a rule string parses as a valid RRULE
func Validate(rruleStr string) error {
	if _, err := rrule.StrToRRule(rruleStr); err != nil {
		return fmt.Errorf("invalid rrule %q: %w", rruleStr, err)
	}
	return nil
}

// OccursOn reports whether a rule anchored at startDate expands onto the
// given target date. Both dates use the engine's calendar-date layout.
//
// The first occurrence (startDate itself) counts as an occurrence even
// when the rule's BYDAY would not regenerate it.
func OccursOn(rruleStr, startDate, targetDate string) (bool, error) {
	if startDate == targetDate {
		return true, nil
	}

	start, err := timewindow.ParseDate(startDate)
	if err != nil {
		return false, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	target, err := timewindow.ParseDate(targetDate)
	if err != nil {
		return false, fmt.Errorf("invalid target date %q: %w", targetDate, err)
	}

	// A recurrence never reaches back before its anchor
	if target.Before(start) {
		return false, nil
	}

	rule, err := rrule.StrToRRule(rruleStr)
	if err != nil {
		return false, fmt.Errorf("invalid rrule %q: %w", rruleStr, err)
	}
	rule.DTStart(start)

	occurrences := rule.Between(target, target.AddDate(0, 0, 1), true)
	for _, occ := range occurrences {
		if occ.Format(timewindow.DateLayout) == targetDate {
			return true, nil
		}
	}
	return false, nil
}

// ExpandBetween returns every date the rule anchored at startDate expands
// onto within [from, to], inclusive. Used to bound recurring-sibling
// lookups for a booking series.
func ExpandBetween(rruleStr, startDate, from, to string) ([]string, error) {
	start, err := timewindow.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	fromDate, err := timewindow.ParseDate(from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q: %w", from, err)
	}
	toDate, err := timewindow.ParseDate(to)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q: %w", to, err)
	}

	rule, err := rrule.StrToRRule(rruleStr)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", rruleStr, err)
	}
	rule.DTStart(start)

	occurrences := rule.Between(fromDate, toDate.Add(24*time.Hour-time.Second), true)
	dates := make([]string, 0, len(occurrences))
	for _, occ := range occurrences {
		dates = append(dates, occ.Format(timewindow.DateLayout))
	}
	return dates, nil
}
