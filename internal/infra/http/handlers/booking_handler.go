package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/http/middleware"
	"github.com/prakashdas-pd/apexbridge-leads/internal/usecase"
)

type BookingHandler struct {
	createBookingUC *usecase.CreateBookingUseCase
}

func NewBookingHandler(uc *usecase.CreateBookingUseCase) *BookingHandler {
	return &BookingHandler{createBookingUC: uc}
}

func (h *BookingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateBookingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	if errs := usecase.ValidateCreateBookingInput(input); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	output, err := h.createBookingUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadCaptured("BOOKING")
	middleware.RecordBookingScheduled()
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"id":           output.ID,
		"lead_id":      output.LeadID,
		"status":       output.Status,
		"meeting_link": output.MeetingLink,
		"message":      output.Message,
	})
}
