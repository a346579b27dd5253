package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/tomblanchard/crewcall/pkg/core/availability"
	"github.com/tomblanchard/crewcall/pkg/core/timewindow"
)

// Checker is the engine surface the HTTP layer depends on
type Checker interface {
	CheckAvailability(ctx context.Context, req availability.Request) availability.Result
}

// AvailabilityHandler serves the availability check operation
type AvailabilityHandler struct {
	engine   Checker
	logger   *zap.Logger
	validate *validator.Validate
}

// NewAvailabilityHandler creates the handler around an engine
func NewAvailabilityHandler(engine Checker, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		engine:   engine,
		logger:   logger,
		validate: validator.New(),
	}
}

// checkRequest is the JSON body of POST /v1/availability/check
type checkRequest struct {
	Dates            []string `json:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`
	StartTime        string   `json:"startTime" validate:"required"`
	EndTime          string   `json:"endTime" validate:"required"`
	ServiceID        string   `json:"serviceId" validate:"required"`
	Mode             string   `json:"mode" validate:"required,oneof=individual team"`
	ExcludeBookingID string   `json:"excludeBookingId,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Check runs one availability query and writes the ranked results.
// Malformed bodies are client errors; an engine result in the failed
// state maps to 502 because the failure is upstream of this service.
func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body checkRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.validate.Struct(body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	window, err := timewindow.Parse(body.StartTime, body.EndTime)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result := h.engine.CheckAvailability(r.Context(), availability.Request{
		Dates:            body.Dates,
		Window:           window,
		ServiceID:        body.ServiceID,
		Mode:             availability.Mode(body.Mode),
		ExcludeBookingID: body.ExcludeBookingID,
	})

	status := http.StatusOK
	if result.State == availability.StateFailed {
		status = http.StatusBadGateway
	}
	h.writeJSON(w, status, toCheckResponse(result))
}

func (h *AvailabilityHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}
