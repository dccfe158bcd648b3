package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/http/middleware"
	"github.com/prakashdas-pd/apexbridge-leads/internal/usecase"
)

// LeadHandler serves the public contact and service-inquiry endpoints.
// Both are rate limited per IP: these forms face the open internet.
type LeadHandler struct {
	createLeadUC *usecase.CreateLeadUseCase
	rateLimiter  *RateLimiter
}

func NewLeadHandler(uc *usecase.CreateLeadUseCase) *LeadHandler {
	return &LeadHandler{
		createLeadUC: uc,
		rateLimiter:  NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

func (h *LeadHandler) HandleCreateContact(w http.ResponseWriter, r *http.Request) {
	h.handleCreate(w, r, entity.LeadKindContact)
}

func (h *LeadHandler) HandleCreateServiceInquiry(w http.ResponseWriter, r *http.Request) {
	h.handleCreate(w, r, entity.LeadKindServiceInquiry)
}

func (h *LeadHandler) handleCreate(w http.ResponseWriter, r *http.Request, kind string) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	input.Kind = kind

	if errs := usecase.ValidateCreateLeadInput(input); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	output, err := h.createLeadUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadCaptured(kind)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      output.ID,
		"status":  output.Status,
		"message": output.Message,
	})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
