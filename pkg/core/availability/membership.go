package availability

import (
	"github.com/tomblanchard/crewcall/pkg/core/model"
)

// MembershipIndex holds the staff-team many-to-many relation as plain
// lookups in both directions. A booking assigned to a team blocks every
// member as an individual, and a member's team assignments are unioned
// into their conflict search.
type MembershipIndex struct {
	staffByID    map[string]model.Staff
	teamByID     map[string]model.Team
	teamsOfStaff map[string][]string
	membersOf    map[string][]string
}

// NewMembershipIndex builds the bidirectional lookup from the roster.
// Membership declared on either side (staff.TeamIDs or team.MemberIDs)
// is honored; the union of both is indexed.
func NewMembershipIndex(staff []model.Staff, teams []model.Team) *MembershipIndex {
	idx := &MembershipIndex{
		staffByID:    make(map[string]model.Staff, len(staff)),
		teamByID:     make(map[string]model.Team, len(teams)),
		teamsOfStaff: make(map[string][]string),
		membersOf:    make(map[string][]string),
	}

	for _, s := range staff {
		idx.staffByID[s.ID] = s
	}
	for _, t := range teams {
		idx.teamByID[t.ID] = t
	}

	seen := make(map[[2]string]bool)
	link := func(staffID, teamID string) {
		key := [2]string{staffID, teamID}
		if seen[key] {
			return
		}
		seen[key] = true
		idx.teamsOfStaff[staffID] = append(idx.teamsOfStaff[staffID], teamID)
		idx.membersOf[teamID] = append(idx.membersOf[teamID], staffID)
	}

	for _, s := range staff {
		for _, teamID := range s.TeamIDs {
			link(s.ID, teamID)
		}
	}
	for _, t := range teams {
		for _, memberID := range t.MemberIDs {
			link(memberID, t.ID)
		}
	}

	return idx
}

// TeamsFor returns the ids of every team the staff member belongs to
func (idx *MembershipIndex) TeamsFor(staffID string) []string {
	return idx.teamsOfStaff[staffID]
}

// MembersFor returns the ids of the team's current members, in roster order
func (idx *MembershipIndex) MembersFor(teamID string) []string {
	return idx.membersOf[teamID]
}

// Members returns the resolved staff records for the team's current
// members. Ids with no matching staff record are skipped.
func (idx *MembershipIndex) Members(teamID string) []model.Staff {
	ids := idx.membersOf[teamID]
	members := make([]model.Staff, 0, len(ids))
	for _, id := range ids {
		if s, ok := idx.staffByID[id]; ok {
			members = append(members, s)
		}
	}
	return members
}

// StaffByID resolves a staff record by id
func (idx *MembershipIndex) StaffByID(id string) (model.Staff, bool) {
	s, ok := idx.staffByID[id]
	return s, ok
}
