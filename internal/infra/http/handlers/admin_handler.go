package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
)

const defaultListLimit = 100

// AdminHandler serves the back-office read and triage endpoints. Every
// route behind it already passed the auth middleware; role checks live
// in the router.
type AdminHandler struct {
	leads        entity.LeadRepositoryInterface
	bookings     entity.BookingRepositoryInterface
	applications entity.ApplicationRepositoryInterface
}

func NewAdminHandler(
	leads entity.LeadRepositoryInterface,
	bookings entity.BookingRepositoryInterface,
	applications entity.ApplicationRepositoryInterface,
) *AdminHandler {
	return &AdminHandler{
		leads:        leads,
		bookings:     bookings,
		applications: applications,
	}
}

func (h *AdminHandler) HandleListLeads(w http.ResponseWriter, r *http.Request) {
	kind := entity.NormalizeEnum(r.URL.Query().Get("kind"))
	leads, err := h.leads.List(r.Context(), kind, listLimit(r))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list leads")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"leads": leads,
		"total": len(leads),
	})
}

func (h *AdminHandler) HandleGetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := h.leads.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load lead")
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *AdminHandler) HandleUpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := decodeStatus(w, r, entity.IsValidLeadStatus)
	if !ok {
		return
	}

	if err := h.leads.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update lead")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": status})
}

func (h *AdminHandler) HandleDeleteLead(w http.ResponseWriter, r *http.Request) {
	if err := h.leads.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete lead")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClearLeads wipes the whole leads table. Router restricts it to
// Super Admin.
func (h *AdminHandler) HandleClearLeads(w http.ResponseWriter, r *http.Request) {
	removed, err := h.leads.Clear(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to clear leads")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "removed": removed})
}

func (h *AdminHandler) HandleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.List(r.Context(), listLimit(r))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list bookings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

func (h *AdminHandler) HandleGetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, entity.ErrBookingNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load booking")
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *AdminHandler) HandleUpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := decodeStatus(w, r, entity.IsValidBookingStatus)
	if !ok {
		return
	}

	if err := h.bookings.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status); err != nil {
		if errors.Is(err, entity.ErrBookingNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update booking")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": status})
}

func (h *AdminHandler) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.applications.List(r.Context(), listLimit(r))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list applications")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"applications": apps,
		"total":        len(apps),
	})
}

func (h *AdminHandler) HandleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := h.applications.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, entity.ErrApplicationNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "APPLICATION_NOT_FOUND", "Application not found")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load application")
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *AdminHandler) HandleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := decodeStatus(w, r, entity.IsValidApplicationStatus)
	if !ok {
		return
	}

	if err := h.applications.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status); err != nil {
		if errors.Is(err, entity.ErrApplicationNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "APPLICATION_NOT_FOUND", "Application not found")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update application")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": status})
}

func decodeStatus(w http.ResponseWriter, r *http.Request, valid func(string) bool) (string, bool) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return "", false
	}

	status := entity.NormalizeEnum(body.Status)
	if !valid(status) {
		writeErrorResponse(w, http.StatusUnprocessableEntity, "INVALID_STATUS", "Unknown status value")
		return "", false
	}
	return status, true
}

func listLimit(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			return n
		}
	}
	return defaultListLimit
}
