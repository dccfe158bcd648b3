// Package wizard holds the multi-step form state machine behind the
// booking and job-application flows on the marketing site. Each open
// form modal owns one State; advancing a step is gated on the fields
// that step owns, going back never is.
package wizard

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prakashdas-pd/apexbridge-leads/internal/usecase"
)

type Kind string

const (
	KindContact        Kind = "contact"
	KindServiceInquiry Kind = "service-inquiry"
	KindBooking        Kind = "booking"
	KindApplication    Kind = "application"
)

type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusSubmitting Status = "SUBMITTING"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
)

var (
	ErrUnknownKind    = errors.New("unknown wizard kind")
	ErrStepInvalid    = errors.New("current step has validation errors")
	ErrAtFirstStep    = errors.New("already at the first step")
	ErrNotAtFinalStep = errors.New("submit is only allowed from the final step")
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	ErrTerminal       = errors.New("wizard already completed")
	ErrNoFileAllowed  = errors.New("this form kind takes no file attachment")
)

// stepFields maps each kind to the fields owned by each step,
// 1-indexed. Single-step kinds own everything on step 1.
var stepFields = map[Kind][][]string{
	KindContact: {
		{"name", "email", "phone", "company", "service_type", "message", "budget", "timeline"},
	},
	KindServiceInquiry: {
		{"name", "email", "phone", "company", "service_type", "message", "budget", "timeline"},
	},
	KindBooking: {
		{"service_type", "meeting_type"},
		{"preferred_date", "preferred_time", "timezone"},
		{"name", "email", "phone", "company", "notes"},
	},
	KindApplication: {
		{"first_name", "last_name", "email", "phone", "location"},
		{"experience", "availability", "resume"},
		{"consent", "portfolio_url", "linkedin_url"},
	},
}

// FileMeta describes the résumé selected in the application wizard.
// Only the reference travels with the wizard; bytes go through the
// upload endpoint.
type FileMeta struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	StorageKey  string `json:"storage_key"`
}

// Result is what the submission pipeline hands back to the wizard.
type Result struct {
	Success     bool                      `json:"success"`
	Message     string                    `json:"message"`
	ID          string                    `json:"id,omitempty"`
	MeetingLink string                    `json:"meeting_link,omitempty"`
	FieldErrors []usecase.ValidationError `json:"errors,omitempty"`
}

// Submitter is the collaborator boundary: it ships a fully-validated
// payload to the lead persistence API and reports the outcome.
type Submitter interface {
	Submit(ctx context.Context, kind Kind, values map[string]string, file *FileMeta, idempotencyKey string) (*Result, error)
}

// State is one live wizard session. All methods are safe for
// concurrent use; the submit path flips to SUBMITTING synchronously
// before any I/O, so a double submit loses the race and gets
// ErrSubmitInFlight.
type State struct {
	mu sync.Mutex

	ID             string
	Kind           Kind
	Step           int
	Values         map[string]string
	File           *FileMeta
	Errors         map[string]string
	Status         Status
	FailureReason  string
	Result         *Result
	IdempotencyKey string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	discarded bool
}

func NewState(kind Kind) (*State, error) {
	if _, ok := stepFields[kind]; !ok {
		return nil, ErrUnknownKind
	}
	now := time.Now()
	return &State{
		ID:             uuid.New().String(),
		Kind:           kind,
		Step:           1,
		Values:         make(map[string]string),
		Errors:         make(map[string]string),
		Status:         StatusInProgress,
		IdempotencyKey: uuid.New().String(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Steps reports how many steps this kind has.
func (s *State) Steps() int {
	return len(stepFields[s.Kind])
}

// SetFields merges values into the form state. Setting fields never
// validates; validation happens on the next "next" or "submit".
func (s *State) SetFields(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status == StatusSubmitting {
		return ErrSubmitInFlight
	}
	if s.Status == StatusSucceeded {
		return ErrTerminal
	}
	for k, v := range values {
		s.Values[k] = v
	}
	s.UpdatedAt = time.Now()
	return nil
}

// AttachFile records the résumé reference. Only the application
// wizard accepts one.
func (s *State) AttachFile(meta FileMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Kind != KindApplication {
		return ErrNoFileAllowed
	}
	if s.Status == StatusSubmitting {
		return ErrSubmitInFlight
	}
	s.File = &meta
	s.UpdatedAt = time.Now()
	return nil
}

// Next validates the fields owned by the current step. On any failure
// the error map holds an entry for every invalid field of the step and
// the step does not advance.
func (s *State) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.Status {
	case StatusSubmitting:
		return ErrSubmitInFlight
	case StatusSucceeded:
		return ErrTerminal
	}

	stepErrs := s.validateStep(s.Step)
	s.setStepErrors(s.Step, stepErrs)
	if len(stepErrs) > 0 {
		return ErrStepInvalid
	}

	if s.Step >= s.Steps() {
		return ErrNotAtFinalStep
	}
	s.Step++
	s.UpdatedAt = time.Now()
	return nil
}

// Previous moves back unconditionally. Values and errors are kept, so
// re-entering a step shows exactly what the user left behind.
func (s *State) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.Status {
	case StatusSubmitting:
		return ErrSubmitInFlight
	case StatusSucceeded:
		return ErrTerminal
	}

	if s.Step <= 1 {
		return ErrAtFirstStep
	}
	s.Step--
	if s.Status == StatusFailed {
		// Walking away from the final step abandons the failed
		// attempt; the user is editing again.
		s.Status = StatusInProgress
		s.FailureReason = ""
	}
	s.UpdatedAt = time.Now()
	return nil
}

// Submit validates every step, flips to SUBMITTING and ships the
// payload through the pipeline. Exactly one submission runs at a time;
// a failure returns control to the final step with state retained so
// the user can retry without re-entering anything.
func (s *State) Submit(ctx context.Context, submitter Submitter) (*Result, error) {
	s.mu.Lock()

	switch s.Status {
	case StatusSubmitting:
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	case StatusSucceeded:
		s.mu.Unlock()
		return nil, ErrTerminal
	}

	if s.Step != s.Steps() {
		s.mu.Unlock()
		return nil, ErrNotAtFinalStep
	}

	for step := 1; step <= s.Steps(); step++ {
		stepErrs := s.validateStep(step)
		s.setStepErrors(step, stepErrs)
		if len(stepErrs) > 0 {
			s.Step = step
			s.mu.Unlock()
			return nil, ErrStepInvalid
		}
	}

	// The flip below is the double-submit guard: it happens before any
	// network I/O, under the same lock the competing call needs.
	s.Status = StatusSubmitting
	s.FailureReason = ""
	s.UpdatedAt = time.Now()
	kind, values, file, key := s.Kind, cloneValues(s.Values), s.File, s.IdempotencyKey
	s.mu.Unlock()

	result, err := submitter.Submit(ctx, kind, values, file, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discarded {
		// Modal closed mid-flight; the response is dropped.
		return nil, ErrTerminal
	}

	if err != nil {
		s.Status = StatusFailed
		s.FailureReason = "Something went wrong while sending your request. Please try again."
		s.UpdatedAt = time.Now()
		return nil, err
	}

	if !result.Success {
		s.Status = StatusFailed
		s.FailureReason = result.Message
		for _, fe := range result.FieldErrors {
			s.Errors[fe.Field] = fe.Message
		}
		s.UpdatedAt = time.Now()
		return result, nil
	}

	s.Status = StatusSucceeded
	s.Result = result
	s.UpdatedAt = time.Now()
	return result, nil
}

func (s *State) markDiscarded() {
	s.mu.Lock()
	s.discarded = true
	s.mu.Unlock()
}

// View is a point-in-time copy of a State, safe to serialize while the
// live state keeps mutating.
type View struct {
	ID             string            `json:"id"`
	Kind           Kind              `json:"kind"`
	Step           int               `json:"step"`
	Values         map[string]string `json:"values"`
	File           *FileMeta         `json:"file,omitempty"`
	Errors         map[string]string `json:"errors"`
	Status         Status            `json:"status"`
	FailureReason  string            `json:"failure_reason,omitempty"`
	Result         *Result           `json:"result,omitempty"`
	IdempotencyKey string            `json:"idempotency_key"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (s *State) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := View{
		ID:             s.ID,
		Kind:           s.Kind,
		Step:           s.Step,
		Values:         cloneValues(s.Values),
		Errors:         cloneValues(s.Errors),
		Status:         s.Status,
		FailureReason:  s.FailureReason,
		Result:         s.Result,
		IdempotencyKey: s.IdempotencyKey,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.File != nil {
		f := *s.File
		snap.File = &f
	}
	return snap
}

// validateStep runs the full-form validator for the kind and keeps
// only the errors belonging to fields the given step owns. Caller
// holds the lock.
func (s *State) validateStep(step int) []usecase.ValidationError {
	all := s.validateAll()
	owned := stepFields[s.Kind][step-1]

	var out []usecase.ValidationError
	for _, e := range all {
		for _, f := range owned {
			if e.Field == f {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func (s *State) validateAll() []usecase.ValidationError {
	switch s.Kind {
	case KindContact, KindServiceInquiry:
		kind := "CONTACT"
		if s.Kind == KindServiceInquiry {
			kind = "SERVICE_INQUIRY"
		}
		return usecase.ValidateCreateLeadInput(usecase.CreateLeadInput{
			Kind:        kind,
			Name:        s.Values["name"],
			Email:       s.Values["email"],
			Phone:       s.Values["phone"],
			Company:     s.Values["company"],
			ServiceType: s.Values["service_type"],
			Message:     s.Values["message"],
			Budget:      s.Values["budget"],
			Timeline:    s.Values["timeline"],
		})

	case KindBooking:
		return usecase.ValidateCreateBookingInput(usecase.CreateBookingInput{
			Name:          s.Values["name"],
			Email:         s.Values["email"],
			Phone:         s.Values["phone"],
			Company:       s.Values["company"],
			ServiceType:   s.Values["service_type"],
			MeetingType:   s.Values["meeting_type"],
			PreferredDate: s.Values["preferred_date"],
			PreferredTime: s.Values["preferred_time"],
			Timezone:      s.Values["timezone"],
			Notes:         s.Values["notes"],
		})

	case KindApplication:
		consent, _ := strconv.ParseBool(s.Values["consent"])
		input := usecase.SubmitApplicationInput{
			JobRef:       s.Values["job_ref"],
			FirstName:    s.Values["first_name"],
			LastName:     s.Values["last_name"],
			Email:        s.Values["email"],
			Phone:        s.Values["phone"],
			Location:     s.Values["location"],
			Experience:   s.Values["experience"],
			Availability: s.Values["availability"],
			PortfolioURL: s.Values["portfolio_url"],
			LinkedInURL:  s.Values["linkedin_url"],
			Consent:      consent,
		}
		if s.File != nil {
			input.ResumeFilename = s.File.Filename
			input.ResumeContentType = s.File.ContentType
			input.ResumeSize = s.File.Size
			input.ResumeStorageKey = s.File.StorageKey
		}
		return usecase.ValidateSubmitApplicationInput(input)
	}
	return nil
}

// setStepErrors replaces the error entries for the step's fields with
// the fresh results, leaving other steps' entries alone.
func (s *State) setStepErrors(step int, errs []usecase.ValidationError) {
	for _, f := range stepFields[s.Kind][step-1] {
		delete(s.Errors, f)
	}
	for _, e := range errs {
		s.Errors[e.Field] = e.Message
	}
}

func cloneValues(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
