package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
)

func adminLeadRouter(repo *MockLeadRepository) *chi.Mux {
	h := NewAdminHandler(repo, nil, nil)
	r := chi.NewRouter()
	r.Delete("/api/admin/leads/{id}", h.HandleDeleteLead)
	return r
}

func TestHandleDeleteLead(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("Delete", mock.Anything, "lead-1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/leads/lead-1", nil)
	rec := httptest.NewRecorder()
	adminLeadRouter(mockRepo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockRepo.AssertExpectations(t)
}

// TestHandleDeleteLeadNotFound - deleting an id with no row behind it
// answers 404, not a silent 204
func TestHandleDeleteLeadNotFound(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("Delete", mock.Anything, "ghost").Return(entity.ErrLeadNotFound)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/leads/ghost", nil)
	rec := httptest.NewRecorder()
	adminLeadRouter(mockRepo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
