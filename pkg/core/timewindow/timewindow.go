package timewindow

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used throughout the engine
const DateLayout = "2006-01-02"

// ClockLayout is the time-of-day format accepted by Parse
const ClockLayout = "15:04"

// Window is a half-open [Start, End) interval of minutes since midnight
// on a single calendar date. The date itself is carried alongside the
// window by whoever owns it.
type Window struct {
	Start int
	End   int
}

// Overlaps is the single interval-overlap primitive. The test is strict
// and half-open: a window ending exactly when another starts is not an
// overlap, any positive shared length is.
//
// All conflict logic in the engine composes from this one function.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// Overlaps reports whether w and o share any positive length
func (w Window) Overlaps(o Window) bool {
	return Overlaps(w.Start, w.End, o.Start, o.End)
}

// Valid reports whether the window has positive length
func (w Window) Valid() bool {
	return w.Start < w.End
}

func (w Window) String() string {
	return fmt.Sprintf("%s-%s", FormatMinutes(w.Start), FormatMinutes(w.End))
}

// Parse builds a Window from two "15:04" clock strings
func Parse(start, end string) (Window, error) {
	s, err := ParseMinutes(start)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start time %q: %w", start, err)
	}
	e, err := ParseMinutes(end)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end time %q: %w", end, err)
	}
	w := Window{Start: s, End: e}
	if !w.Valid() {
		return Window{}, fmt.Errorf("window start %s must be before end %s", start, end)
	}
	return w, nil
}

// ParseMinutes converts a "15:04" clock string to minutes since midnight
func ParseMinutes(clock string) (int, error) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinutes renders minutes since midnight as a "15:04" clock string
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseDate parses a calendar date in DateLayout, normalized to UTC midnight
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}
