package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomblanchard/crewcall/pkg/core/model"
)

func TestMembershipIndex_BothDirections(t *testing.T) {
	staff := []model.Staff{
		{ID: "s1", Name: "Alice", TeamIDs: []string{"t1", "t2"}},
		{ID: "s2", Name: "Bob"},
	}
	teams := []model.Team{
		{ID: "t1", Name: "Crew A", MemberIDs: []string{"s1", "s2"}},
		{ID: "t2", Name: "Crew B"},
	}

	idx := NewMembershipIndex(staff, teams)

	assert.ElementsMatch(t, []string{"t1", "t2"}, idx.TeamsFor("s1"))
	assert.Equal(t, []string{"t1"}, idx.TeamsFor("s2"))
	assert.Equal(t, []string{"s1", "s2"}, idx.MembersFor("t1"))
	assert.Equal(t, []string{"s1"}, idx.MembersFor("t2"))
}

func TestMembershipIndex_UnionOfDeclarations(t *testing.T) {
	// Membership declared only on the staff side and only on the team
	// side both end up indexed, without duplicates when declared twice
	staff := []model.Staff{
		{ID: "s1", Name: "Alice", TeamIDs: []string{"t1"}},
		{ID: "s2", Name: "Bob"},
	}
	teams := []model.Team{
		{ID: "t1", Name: "Crew A", MemberIDs: []string{"s1", "s2"}},
	}

	idx := NewMembershipIndex(staff, teams)

	assert.Equal(t, []string{"t1"}, idx.TeamsFor("s1"))
	assert.Equal(t, []string{"t1"}, idx.TeamsFor("s2"))
	assert.Equal(t, []string{"s1", "s2"}, idx.MembersFor("t1"))
}

func TestMembershipIndex_MembersResolvesRecords(t *testing.T) {
	staff := []model.Staff{
		{ID: "s1", Name: "Alice"},
	}
	teams := []model.Team{
		{ID: "t1", Name: "Crew A", MemberIDs: []string{"s1", "ghost"}},
	}

	idx := NewMembershipIndex(staff, teams)

	members := idx.Members("t1")
	require.Len(t, members, 1, "unresolvable member ids are skipped")
	assert.Equal(t, "Alice", members[0].Name)
}

func TestMembershipIndex_UnknownIDs(t *testing.T) {
	idx := NewMembershipIndex(nil, nil)
	assert.Empty(t, idx.TeamsFor("nope"))
	assert.Empty(t, idx.MembersFor("nope"))
	_, ok := idx.StaffByID("nope")
	assert.False(t, ok)
}
