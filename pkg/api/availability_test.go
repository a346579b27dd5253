package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tomblanchard/crewcall/pkg/core/availability"
	"github.com/tomblanchard/crewcall/pkg/core/timewindow"
)

type mockChecker struct {
	gotRequest availability.Request
	result     availability.Result
}

func (m *mockChecker) CheckAvailability(_ context.Context, req availability.Request) availability.Result {
	m.gotRequest = req
	return m.result
}

func newTestRouter(checker Checker) *httprouter.Router {
	h := NewAvailabilityHandler(checker, zap.NewNop())
	router := httprouter.New()
	router.POST("/v1/availability/check", h.Check)
	return router
}

func postCheck(t *testing.T, router *httprouter.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/availability/check", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCheck_ValidRequest(t *testing.T) {
	checker := &mockChecker{
		result: availability.Result{
			State: availability.StateReady,
			Staff: []availability.CandidateResult{
				{
					CandidateID:   "s1",
					CandidateName: "Alice",
					SkillMatch:    80,
					Available:     true,
					Conflicts: []availability.Conflict{
						{BookingID: "b1", Date: "2025-06-02", Window: timewindow.Window{Start: 540, End: 660}},
					},
					Score: 95,
				},
			},
			Teams:           []availability.CandidateResult{},
			ServiceSkillTag: "plumbing",
		},
	}
	router := newTestRouter(checker)

	rec := postCheck(t, router, `{
		"dates": ["2025-06-02"],
		"startTime": "09:00",
		"endTime": "11:00",
		"serviceId": "svc1",
		"mode": "individual",
		"excludeBookingId": "b9"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"2025-06-02"}, checker.gotRequest.Dates)
	assert.Equal(t, timewindow.Window{Start: 540, End: 660}, checker.gotRequest.Window)
	assert.Equal(t, "svc1", checker.gotRequest.ServiceID)
	assert.Equal(t, availability.ModeIndividual, checker.gotRequest.Mode)
	assert.Equal(t, "b9", checker.gotRequest.ExcludeBookingID)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp["state"])
	assert.Equal(t, "plumbing", resp["serviceSkillTag"])

	staff, ok := resp["staff"].([]any)
	require.True(t, ok)
	require.Len(t, staff, 1)
	first := staff[0].(map[string]any)
	assert.Equal(t, "Alice", first["candidateName"])
	conflicts := first["conflicts"].([]any)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "09:00", conflicts[0].(map[string]any)["startTime"])
}

func TestCheck_MalformedBody(t *testing.T) {
	checker := &mockChecker{}
	router := newTestRouter(checker)

	rec := postCheck(t, router, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
	assert.Empty(t, checker.gotRequest.Dates, "engine is not reached on malformed input")
}

func TestCheck_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing dates",
			body: `{"startTime": "09:00", "endTime": "11:00", "serviceId": "svc1", "mode": "individual"}`,
		},
		{
			name: "bad date format",
			body: `{"dates": ["02/06/2025"], "startTime": "09:00", "endTime": "11:00", "serviceId": "svc1", "mode": "individual"}`,
		},
		{
			name: "unknown mode",
			body: `{"dates": ["2025-06-02"], "startTime": "09:00", "endTime": "11:00", "serviceId": "svc1", "mode": "squad"}`,
		},
		{
			name: "missing service",
			body: `{"dates": ["2025-06-02"], "startTime": "09:00", "endTime": "11:00", "mode": "individual"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockChecker{})
			rec := postCheck(t, router, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCheck_InvalidWindow(t *testing.T) {
	router := newTestRouter(&mockChecker{})

	rec := postCheck(t, router, `{
		"dates": ["2025-06-02"],
		"startTime": "11:00",
		"endTime": "09:00",
		"serviceId": "svc1",
		"mode": "individual"
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheck_UpstreamFailure(t *testing.T) {
	checker := &mockChecker{
		result: availability.Result{
			State: availability.StateFailed,
			Staff: []availability.CandidateResult{},
			Teams: []availability.CandidateResult{},
			Err:   errors.New("failed to fetch bookings: connection refused"),
		},
	}
	router := newTestRouter(checker)

	rec := postCheck(t, router, `{
		"dates": ["2025-06-02"],
		"startTime": "09:00",
		"endTime": "11:00",
		"serviceId": "svc1",
		"mode": "team"
	}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "failed", resp["state"])
	assert.Contains(t, resp["error"], "connection refused")
}
