package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/http/middleware"
	"github.com/prakashdas-pd/apexbridge-leads/internal/wizard"
)

// WizardHandler exposes the multi-step form sessions over HTTP. The
// browser owns nothing but the session ID; every transition happens
// server side.
type WizardHandler struct {
	store     *wizard.Store
	submitter wizard.Submitter
}

func NewWizardHandler(store *wizard.Store, submitter wizard.Submitter) *WizardHandler {
	return &WizardHandler{
		store:     store,
		submitter: submitter,
	}
}

func (h *WizardHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	kind := wizard.Kind(chi.URLParam(r, "kind"))

	state, err := h.store.Create(kind)
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, "UNKNOWN_KIND", "Unknown form kind")
		return
	}
	writeJSON(w, http.StatusCreated, state.Snapshot())
}

func (h *WizardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	state, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, state.Snapshot())
}

func (h *WizardHandler) HandleSetFields(w http.ResponseWriter, r *http.Request) {
	state, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var body struct {
		Values map[string]string `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	if err := state.SetFields(body.Values); err != nil {
		h.writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state.Snapshot())
}

// HandleAttachResume records the résumé reference on an application
// wizard session. Bytes already went through the upload path; here the
// metadata is re-checked so a tampered reference never reaches submit.
func (h *WizardHandler) HandleAttachResume(w http.ResponseWriter, r *http.Request) {
	state, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var meta wizard.FileMeta
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	if err := entity.ValidateResume(meta.ContentType, meta.Size); err != nil {
		writeErrorResponse(w, http.StatusUnprocessableEntity, "INVALID_RESUME", err.Error())
		return
	}

	if err := state.AttachFile(meta); err != nil {
		h.writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state.Snapshot())
}

func (h *WizardHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	state, ok := h.lookup(w, r)
	if !ok {
		return
	}

	err := state.Next()
	snap := state.Snapshot()
	if errors.Is(err, wizard.ErrStepInvalid) {
		writeJSON(w, http.StatusUnprocessableEntity, snap)
		return
	}
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *WizardHandler) HandlePrevious(w http.ResponseWriter, r *http.Request) {
	state, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := state.Previous(); err != nil {
		h.writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state.Snapshot())
}

func (h *WizardHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	state, ok := h.lookup(w, r)
	if !ok {
		return
	}

	result, err := state.Submit(r.Context(), h.submitter)
	snap := state.Snapshot()

	switch {
	case errors.Is(err, wizard.ErrStepInvalid):
		middleware.RecordWizardSubmission(string(snap.Kind), "rejected")
		writeJSON(w, http.StatusUnprocessableEntity, snap)
	case errors.Is(err, wizard.ErrSubmitInFlight),
		errors.Is(err, wizard.ErrNotAtFinalStep),
		errors.Is(err, wizard.ErrTerminal):
		h.writeWizardError(w, err)
	case err != nil:
		middleware.RecordWizardSubmission(string(snap.Kind), "failed")
		writeJSON(w, http.StatusBadGateway, snap)
	case !result.Success:
		middleware.RecordWizardSubmission(string(snap.Kind), "failed")
		writeJSON(w, http.StatusOK, snap)
	default:
		middleware.RecordWizardSubmission(string(snap.Kind), "succeeded")
		writeJSON(w, http.StatusOK, snap)
	}
}

func (h *WizardHandler) HandleDiscard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Discard(id); err != nil {
		writeErrorResponse(w, http.StatusNotFound, "SESSION_NOT_FOUND", "Wizard session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WizardHandler) lookup(w http.ResponseWriter, r *http.Request) (*wizard.State, bool) {
	state, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, "SESSION_NOT_FOUND", "Wizard session not found")
		return nil, false
	}
	return state, true
}

func (h *WizardHandler) writeWizardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wizard.ErrSubmitInFlight):
		writeErrorResponse(w, http.StatusConflict, "SUBMIT_IN_FLIGHT", "A submission is already in progress")
	case errors.Is(err, wizard.ErrTerminal):
		writeErrorResponse(w, http.StatusConflict, "ALREADY_COMPLETED", "This form was already submitted")
	case errors.Is(err, wizard.ErrAtFirstStep):
		writeErrorResponse(w, http.StatusBadRequest, "AT_FIRST_STEP", "Already at the first step")
	case errors.Is(err, wizard.ErrNotAtFinalStep):
		writeErrorResponse(w, http.StatusBadRequest, "NOT_AT_FINAL_STEP", "Submit is only allowed from the final step")
	case errors.Is(err, wizard.ErrNoFileAllowed):
		writeErrorResponse(w, http.StatusBadRequest, "NO_FILE_ALLOWED", "This form kind takes no file attachment")
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
