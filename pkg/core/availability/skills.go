package availability

import (
	"strings"

	"github.com/tomblanchard/crewcall/pkg/core/model"
)

// Individual skill match tiers. Exact matches earn full credit,
// substring matches in either direction earn partial credit.
const (
	SkillMatchExact   = 80.0
	SkillMatchPartial = 50.0
	SkillMatchNone    = 0.0
)

// Team skill match tiers. The team tiering rewards depth of coverage:
// two exact-matching members outrank one, and a team with any skills on
// record still scores above a team with none.
const (
	TeamMatchDeep       = 80.0 // two or more members with an exact match
	TeamMatchSingle     = 60.0 // exactly one member with an exact match
	TeamMatchPartial    = 40.0 // no exact match, at least one partial
	TeamMatchSomeSkills = 20.0 // no match at all, but skills on record
	TeamMatchNone       = 0.0
)

// MatchStaffSkill scores how well a declared skill set fits the required
// service skill tag. All comparisons are case-insensitive. An empty
// required tag (unresolvable service) degrades to no match.
func MatchStaffSkill(skills []string, required string) float64 {
	if required == "" {
		return SkillMatchNone
	}

	for _, skill := range skills {
		if strings.EqualFold(skill, required) {
			return SkillMatchExact
		}
	}

	for _, skill := range skills {
		if partialSkillMatch(skill, required) {
			return SkillMatchPartial
		}
	}

	return SkillMatchNone
}

// MatchTeamSkill scores a team's aggregate fit from its members' skills
func MatchTeamSkill(members []model.Staff, required string) float64 {
	if required == "" {
		return TeamMatchNone
	}

	exactMembers := 0
	hasPartial := false
	hasAnySkill := false

	for _, member := range members {
		if len(member.Skills) > 0 {
			hasAnySkill = true
		}

		memberExact := false
		for _, skill := range member.Skills {
			if strings.EqualFold(skill, required) {
				memberExact = true
				break
			}
		}
		if memberExact {
			exactMembers++
			continue
		}

		if !hasPartial {
			for _, skill := range member.Skills {
				if partialSkillMatch(skill, required) {
					hasPartial = true
					break
				}
			}
		}
	}

	switch {
	case exactMembers >= 2:
		return TeamMatchDeep
	case exactMembers == 1:
		return TeamMatchSingle
	case hasPartial:
		return TeamMatchPartial
	case hasAnySkill:
		return TeamMatchSomeSkills
	default:
		return TeamMatchNone
	}
}

// partialSkillMatch reports a case-insensitive substring relation in
// either direction between a skill and the required tag
func partialSkillMatch(skill, required string) bool {
	if skill == "" {
		return false
	}
	s := strings.ToLower(skill)
	r := strings.ToLower(required)
	return strings.Contains(s, r) || strings.Contains(r, s)
}
