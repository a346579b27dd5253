package api

import (
	"github.com/tomblanchard/crewcall/pkg/core/availability"
	"github.com/tomblanchard/crewcall/pkg/core/timewindow"
)

// checkResponse is the JSON shape of an availability result
type checkResponse struct {
	State           string              `json:"state"`
	QueryID         string              `json:"queryId"`
	Staff           []candidateResponse `json:"staff"`
	Teams           []candidateResponse `json:"teams"`
	ServiceSkillTag string              `json:"serviceSkillTag,omitempty"`
	Superseded      bool                `json:"superseded,omitempty"`
	Error           string              `json:"error,omitempty"`
}

type candidateResponse struct {
	CandidateID           string                        `json:"candidateId"`
	CandidateName         string                        `json:"candidateName"`
	IsTeam                bool                          `json:"isTeam"`
	SkillMatch            float64                       `json:"skillMatch"`
	Available             bool                          `json:"available"`
	Conflicts             []conflictResponse            `json:"conflicts"`
	UnavailabilityReasons []string                      `json:"unavailabilityReasons"`
	Dates                 map[string]dateDetailResponse `json:"dates,omitempty"`
	AvailableDates        int                           `json:"availableDates,omitempty"`
	AvailableAllDates     bool                          `json:"availableAllDates,omitempty"`
	Workload              int                           `json:"workload"`
	Score                 float64                       `json:"score"`
}

type conflictResponse struct {
	BookingID    string `json:"bookingId"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	ServiceName  string `json:"serviceName,omitempty"`
	CustomerName string `json:"customerName,omitempty"`
}

type dateDetailResponse struct {
	Available             bool               `json:"available"`
	Conflicts             []conflictResponse `json:"conflicts"`
	UnavailabilityReasons []string           `json:"unavailabilityReasons"`
}

func toCheckResponse(result availability.Result) checkResponse {
	resp := checkResponse{
		State:           string(result.State),
		QueryID:         result.QueryID,
		Staff:           toCandidateResponses(result.Staff),
		Teams:           toCandidateResponses(result.Teams),
		ServiceSkillTag: result.ServiceSkillTag,
		Superseded:      result.Superseded,
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	return resp
}

func toCandidateResponses(results []availability.CandidateResult) []candidateResponse {
	out := make([]candidateResponse, len(results))
	for i, r := range results {
		out[i] = candidateResponse{
			CandidateID:           r.CandidateID,
			CandidateName:         r.CandidateName,
			IsTeam:                r.IsTeam,
			SkillMatch:            r.SkillMatch,
			Available:             r.Available,
			Conflicts:             toConflictResponses(r.Conflicts),
			UnavailabilityReasons: emptyIfNil(r.UnavailabilityReasons),
			AvailableDates:        r.AvailableDates,
			AvailableAllDates:     r.AvailableAllDates,
			Workload:              r.Workload,
			Score:                 r.Score,
		}
		if len(r.Dates) > 0 {
			details := make(map[string]dateDetailResponse, len(r.Dates))
			for date, d := range r.Dates {
				details[date] = dateDetailResponse{
					Available:             d.Available,
					Conflicts:             toConflictResponses(d.Conflicts),
					UnavailabilityReasons: emptyIfNil(d.UnavailabilityReasons),
				}
			}
			out[i].Dates = details
		}
	}
	return out
}

func toConflictResponses(conflicts []availability.Conflict) []conflictResponse {
	out := make([]conflictResponse, len(conflicts))
	for i, c := range conflicts {
		out[i] = conflictResponse{
			BookingID:    c.BookingID,
			Date:         c.Date,
			StartTime:    timewindow.FormatMinutes(c.Window.Start),
			EndTime:      timewindow.FormatMinutes(c.Window.End),
			ServiceName:  c.ServiceName,
			CustomerName: c.CustomerName,
		}
	}
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
