package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/http/middleware"
	"github.com/prakashdas-pd/apexbridge-leads/internal/usecase"
)

type AuthHandler struct {
	loginUC *usecase.LoginUseCase
}

func NewAuthHandler(loginUC *usecase.LoginUseCase) *AuthHandler {
	return &AuthHandler{loginUC: loginUC}
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input usecase.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	output, err := h.loginUC.Execute(r.Context(), input)
	if err != nil {
		middleware.RecordLoginAttempt("failure")
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLoginAttempt("success")

	// Token travels both ways: cookie for the admin SPA, JSON body for
	// API clients that prefer the Authorization header.
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    output.Token,
		Path:     "/",
		Expires:  output.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, output)
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	live := middleware.SessionFromContext(r.Context())
	if live == nil {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not logged in")
		return
	}

	if err := h.loginUC.Logout(r.Context(), live.ID); err != nil {
		writeUseCaseError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out",
	})
}

// HandleMe returns the authenticated session profile.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	live := middleware.SessionFromContext(r.Context())
	if live == nil {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not logged in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"username":     live.Username,
		"display_name": live.DisplayName,
		"role":         live.Role,
		"logged_in_at": live.LoggedInAt,
		"expires_at":   live.ExpiresAt,
	})
}
