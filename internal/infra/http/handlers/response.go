package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/prakashdas-pd/apexbridge-leads/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"code":    code,
		"error":   message,
	})
}

// writeValidationErrors surfaces the per-field list so the client can
// show inline errors instead of one generic banner.
func writeValidationErrors(w http.ResponseWriter, errs []usecase.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"success": false,
		"code":    "VALIDATION_ERROR",
		"error":   "validation failed",
		"errors":  errs,
	})
}

// writeUseCaseError maps the usecase error taxonomy onto HTTP statuses.
func writeUseCaseError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		status := http.StatusBadRequest
		switch de.Code {
		case "VALIDATION_ERROR":
			status = http.StatusUnprocessableEntity
		case "DUPLICATE_SUBMISSION":
			status = http.StatusConflict
		case "INVALID_CREDENTIALS":
			status = http.StatusUnauthorized
		}
		writeErrorResponse(w, status, de.Code, de.Message)
		return
	}

	if te, ok := err.(*usecase.TechnicalError); ok {
		writeErrorResponse(w, http.StatusInternalServerError, te.Code, "Something went wrong. Please try again.")
		return
	}

	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong. Please try again.")
}
