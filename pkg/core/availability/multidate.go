package availability

// Multi-date composite weights. Multi-date requests score with a
// different formula than single-date requests: availability fraction
// dominates, historical rating carries more weight, and workload is not
// a term. The two formulas are intentionally kept separate per mode
// rather than unified; see DESIGN.md.
const (
	// MultiDateAvailabilityWeight scales the fraction of requested
	// dates the individual is available for
	MultiDateAvailabilityWeight = 50.0

	// MultiDateRatingWeight scales the individual's average rating
	MultiDateRatingWeight = 30.0

	// MultiDateSkillWeight scales the individual's skill match,
	// normalized to 0-1 over the composite's 100-point scale
	MultiDateSkillWeight = 20.0

	// TeamMultiDateAvailabilityWeight scales the team's availability
	// fraction; teams carry no performance term in the multi-date
	// composite
	TeamMultiDateAvailabilityWeight = 60.0

	// TeamMultiDateSkillWeight scales the team's skill match
	TeamMultiDateSkillWeight = 40.0
)

// staffMultiDateScore computes the multi-date composite for an
// individual: (availableDates/N)*50 + (avgRating/5)*30 + (skill/100)*20.
func staffMultiDateScore(availableDates, totalDates int, avgRating, skillMatch float64) float64 {
	if totalDates == 0 {
		return 0
	}
	availabilityFraction := float64(availableDates) / float64(totalDates)
	return availabilityFraction*MultiDateAvailabilityWeight +
		(avgRating/RatingScale)*MultiDateRatingWeight +
		(skillMatch/100.0)*MultiDateSkillWeight
}

// teamMultiDateScore computes the multi-date composite for a team:
// (availableDates/N)*60 + (teamMatch/100)*40.
func teamMultiDateScore(availableDates, totalDates int, teamMatch float64) float64 {
	if totalDates == 0 {
		return 0
	}
	availabilityFraction := float64(availableDates) / float64(totalDates)
	return availabilityFraction*TeamMultiDateAvailabilityWeight +
		(teamMatch/100.0)*TeamMultiDateSkillWeight
}
