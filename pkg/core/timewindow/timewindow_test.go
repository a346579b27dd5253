package timewindow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps_SelfOverlap(t *testing.T) {
	// Any valid window overlaps itself
	windows := []Window{
		{Start: 0, End: 1},
		{Start: 600, End: 720},
		{Start: 1380, End: 1440},
	}
	for _, w := range windows {
		assert.True(t, Overlaps(w.Start, w.End, w.Start, w.End), "window %s should overlap itself", w)
	}
}

func TestOverlaps_Symmetric(t *testing.T) {
	cases := []struct {
		a, b Window
	}{
		{Window{600, 720}, Window{660, 780}},
		{Window{600, 720}, Window{720, 840}},
		{Window{600, 720}, Window{100, 200}},
		{Window{600, 720}, Window{610, 620}},
	}
	for _, tc := range cases {
		ab := Overlaps(tc.a.Start, tc.a.End, tc.b.Start, tc.b.End)
		ba := Overlaps(tc.b.Start, tc.b.End, tc.a.Start, tc.a.End)
		assert.Equal(t, ab, ba, "overlap of %s and %s must be symmetric", tc.a, tc.b)
	}
}

func TestOverlaps_BoundaryTouchIsNotConflict(t *testing.T) {
	// A booking ending exactly when another starts never overlaps
	assert.False(t, Overlaps(10*60, 12*60, 12*60, 14*60))
	assert.False(t, Overlaps(12*60, 14*60, 10*60, 12*60))
}

func TestOverlaps_OneMinuteOverlap(t *testing.T) {
	assert.True(t, Overlaps(10*60, 12*60+1, 12*60, 14*60))
	assert.True(t, Overlaps(12*60, 14*60, 10*60, 12*60+1))
}

func TestOverlaps_SameStart(t *testing.T) {
	// Two windows starting at the same instant always conflict
	assert.True(t, Overlaps(600, 660, 600, 720))
}

func TestOverlaps_Containment(t *testing.T) {
	assert.True(t, Overlaps(600, 720, 620, 640))
	assert.True(t, Overlaps(620, 640, 600, 720))
}

func TestParse(t *testing.T) {
	w, err := Parse("09:30", "17:00")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, w.Start)
	assert.Equal(t, 17*60, w.End)
	assert.True(t, w.Valid())
}

func TestParse_InvalidOrder(t *testing.T) {
	_, err := Parse("17:00", "09:30")
	assert.Error(t, err)

	// Zero-length windows are invalid too
	_, err = Parse("12:00", "12:00")
	assert.Error(t, err)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse("25:99", "26:00")
	assert.Error(t, err)
}

func TestFormatMinutes_RoundTrip(t *testing.T) {
	for _, clock := range []string{"00:00", "09:05", "12:30", "23:59"} {
		m, err := ParseMinutes(clock)
		require.NoError(t, err)
		assert.Equal(t, clock, FormatMinutes(m))
	}
}
