package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/http/middleware"
	"github.com/prakashdas-pd/apexbridge-leads/internal/usecase"
)

// ApplicationHandler accepts job applications either as JSON (wizard
// pipeline, file already referenced) or as multipart form data with
// the résumé attached directly.
type ApplicationHandler struct {
	submitUC  *usecase.SubmitApplicationUseCase
	uploadDir string
}

func NewApplicationHandler(uc *usecase.SubmitApplicationUseCase, uploadDir string) *ApplicationHandler {
	return &ApplicationHandler{
		submitUC:  uc,
		uploadDir: uploadDir,
	}
}

func (h *ApplicationHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var input usecase.SubmitApplicationInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		parsed, err := h.parseMultipart(r)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_FORM", err.Error())
			return
		}
		input = *parsed
	} else {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
			return
		}
	}

	if errs := usecase.ValidateSubmitApplicationInput(input); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	output, err := h.submitUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadCaptured("APPLICATION")
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      output.ID,
		"status":  output.Status,
		"message": output.Message,
	})
}

func (h *ApplicationHandler) parseMultipart(r *http.Request) (*usecase.SubmitApplicationInput, error) {
	// Limit a little above MaxResumeSize so an oversized file reaches
	// the validator and earns a proper field error instead of a
	// connection reset.
	if err := r.ParseMultipartForm(entity.MaxResumeSize + 1<<20); err != nil {
		return nil, err
	}

	input := &usecase.SubmitApplicationInput{
		JobRef:         r.FormValue("job_ref"),
		FirstName:      r.FormValue("first_name"),
		LastName:       r.FormValue("last_name"),
		Email:          r.FormValue("email"),
		Phone:          r.FormValue("phone"),
		Location:       r.FormValue("location"),
		Experience:     r.FormValue("experience"),
		Availability:   r.FormValue("availability"),
		PortfolioURL:   r.FormValue("portfolio_url"),
		LinkedInURL:    r.FormValue("linkedin_url"),
		Consent:        r.FormValue("consent") == "true" || r.FormValue("consent") == "1",
		IdempotencyKey: r.FormValue("idempotency_key"),
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		// No file: let the validator report the missing résumé.
		return input, nil
	}
	defer file.Close()

	input.ResumeFilename = header.Filename
	input.ResumeContentType = header.Header.Get("Content-Type")
	input.ResumeSize = header.Size

	// Only store files that pass the guard; everything else stays in
	// memory and dies with the request.
	if entity.ValidateResume(input.ResumeContentType, input.ResumeSize) == nil && h.uploadDir != "" {
		key := uuid.New().String() + filepath.Ext(header.Filename)
		dst, err := os.Create(filepath.Join(h.uploadDir, key))
		if err != nil {
			return nil, err
		}
		defer dst.Close()

		if _, err := io.Copy(dst, file); err != nil {
			return nil, err
		}
		input.ResumeStorageKey = key
	}

	return input, nil
}
