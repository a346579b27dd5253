package availability

// Single-date composite scoring bands. The skill matcher's 0-80 output
// is rescaled into a 0-70 band, leaving 15 points each for historical
// performance and current workload, for a 0-100 composite.
const (
	// SkillRescale maps the 0-80 skill match onto the 0-70 skill band
	SkillRescale = 0.875

	// PerformanceBand is the maximum score contribution of the
	// candidate's average rating (0-5 scale)
	PerformanceBand = 15.0

	// WorkloadBand is the maximum score contribution of current
	// workload; each already-assigned job subtracts a penalty, floored
	// at zero
	WorkloadBand = 15.0

	// StaffJobPenalty is subtracted from the workload band per job
	// already assigned to an individual on the requested date
	StaffJobPenalty = 3.0

	// TeamJobPenalty is subtracted per job on the team's combined
	// workload; smaller than the individual penalty because a team
	// absorbs load across members
	TeamJobPenalty = 2.0

	// RatingScale is the maximum of the review rating scale
	RatingScale = 5.0
)

// staffCompositeScore computes the 0-100 single-date score for an
// individual: skill*0.875 + performance + workload.
func staffCompositeScore(skillMatch, avgRating float64, jobsToday int) float64 {
	skill := skillMatch * SkillRescale
	performance := (avgRating / RatingScale) * PerformanceBand
	workload := WorkloadBand - float64(jobsToday)*StaffJobPenalty
	if workload < 0 {
		workload = 0
	}
	return skill + performance + workload
}

// teamCompositeScore computes the single-date score for a team: same
// shape as the individual composite with the team skill match, the
// average member rating and the summed member workload substituted in.
func teamCompositeScore(teamMatch, avgMemberRating float64, teamJobsToday int) float64 {
	skill := teamMatch * SkillRescale
	performance := (avgMemberRating / RatingScale) * PerformanceBand
	workload := WorkloadBand - float64(teamJobsToday)*TeamJobPenalty
	if workload < 0 {
		workload = 0
	}
	return skill + performance + workload
}

// averageMemberRating is the mean AvgRating across current members, 0
// for a team with no members
func averageMemberRating(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range ratings {
		total += r
	}
	return total / float64(len(ratings))
}
