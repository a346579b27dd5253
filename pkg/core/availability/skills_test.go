package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomblanchard/crewcall/pkg/core/model"
)

func TestMatchStaffSkill_ExactMatch(t *testing.T) {
	// Required service "Cleaning", declared skill exactly "Cleaning"
	assert.Equal(t, 80.0, MatchStaffSkill([]string{"Cleaning"}, "Cleaning"))

	// Case-insensitive
	assert.Equal(t, 80.0, MatchStaffSkill([]string{"cleaning"}, "CLEANING"))
}

func TestMatchStaffSkill_PartialMatch(t *testing.T) {
	// Skill is a substring of the required type
	assert.Equal(t, 50.0, MatchStaffSkill([]string{"Cleaning"}, "Deep Cleaning"))

	// Required type is a substring of the skill
	assert.Equal(t, 50.0, MatchStaffSkill([]string{"Deep Cleaning"}, "Cleaning"))
}

func TestMatchStaffSkill_NoMatch(t *testing.T) {
	assert.Equal(t, 0.0, MatchStaffSkill([]string{"Plumbing"}, "Cleaning"))
	assert.Equal(t, 0.0, MatchStaffSkill(nil, "Cleaning"))
}

func TestMatchStaffSkill_MissingServiceDegradesToNoMatch(t *testing.T) {
	assert.Equal(t, 0.0, MatchStaffSkill([]string{"Cleaning"}, ""))
}

func TestMatchStaffSkill_ExactBeatsPartial(t *testing.T) {
	// Exact match wins even when a partial candidate appears first
	score := MatchStaffSkill([]string{"Deep Cleaning", "Cleaning"}, "Cleaning")
	assert.Equal(t, 80.0, score)
}

func TestMatchStaffSkill_Monotonic(t *testing.T) {
	exact := MatchStaffSkill([]string{"Cleaning"}, "Cleaning")
	partial := MatchStaffSkill([]string{"Deep Cleaning"}, "Cleaning")
	none := MatchStaffSkill([]string{"Plumbing"}, "Cleaning")

	assert.GreaterOrEqual(t, exact, partial)
	assert.GreaterOrEqual(t, partial, none)
}

func TestMatchTeamSkill_Tiers(t *testing.T) {
	cleaner := model.Staff{ID: "s1", Skills: []string{"Cleaning"}}
	cleaner2 := model.Staff{ID: "s2", Skills: []string{"cleaning"}}
	deepCleaner := model.Staff{ID: "s3", Skills: []string{"Deep Cleaning"}}
	plumber := model.Staff{ID: "s4", Skills: []string{"Plumbing"}}
	unskilled := model.Staff{ID: "s5"}

	tests := []struct {
		name    string
		members []model.Staff
		want    float64
	}{
		{"two of three exact", []model.Staff{cleaner, cleaner2, plumber}, 80},
		{"exactly one exact", []model.Staff{cleaner, plumber, unskilled}, 60},
		{"partial only", []model.Staff{deepCleaner, plumber}, 40},
		{"some skills, no match", []model.Staff{plumber}, 20},
		{"no skills at all", []model.Staff{unskilled}, 0},
		{"empty team", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchTeamSkill(tt.members, "Cleaning"))
		})
	}
}

func TestMatchTeamSkill_MissingService(t *testing.T) {
	members := []model.Staff{{ID: "s1", Skills: []string{"Cleaning"}}}
	assert.Equal(t, 0.0, MatchTeamSkill(members, ""))
}
