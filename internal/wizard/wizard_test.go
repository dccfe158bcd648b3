package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/prakashdas-pd/apexbridge-leads/internal/usecase"
)

// stubSubmitter is a scriptable pipeline stand-in. When blockCh is set
// the call parks until the channel is closed, which lets tests race a
// second submit against an in-flight one.
type stubSubmitter struct {
	mu      sync.Mutex
	calls   int
	result  *Result
	err     error
	blockCh chan struct{}
}

func (s *stubSubmitter) Submit(ctx context.Context, kind Kind, values map[string]string, file *FileMeta, idempotencyKey string) (*Result, error) {
	s.mu.Lock()
	s.calls++
	block := s.blockCh
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	return s.result, s.err
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func validBookingValues() map[string]string {
	return map[string]string{
		"service_type":   "staff-augmentation",
		"meeting_type":   "video-call",
		"preferred_date": "2026-11-20",
		"preferred_time": "10:30",
		"timezone":       "Europe/Lisbon",
		"name":           "Pedro Costa",
		"email":          "pedro@example.com",
	}
}

func fillAndAdvanceToFinalStep(t *testing.T, s *State) {
	t.Helper()
	assert.NoError(t, s.SetFields(validBookingValues()))
	assert.NoError(t, s.Next())
	assert.NoError(t, s.Next())
	assert.Equal(t, s.Steps(), s.Snapshot().Step)
}

func TestNewStateUnknownKind(t *testing.T) {
	_, err := NewState(Kind("newsletter"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestNewStateStartsAtStepOne(t *testing.T) {
	s, err := NewState(KindBooking)

	assert.NoError(t, err)
	assert.Equal(t, 1, s.Snapshot().Step)
	assert.Equal(t, StatusInProgress, s.Snapshot().Status)
	assert.NotEmpty(t, s.IdempotencyKey)
	assert.Equal(t, 3, s.Steps())
}

// TestNextBlockedByStepErrors - advancing with an empty step reports an
// error for every invalid field the step owns, and the step stays put
func TestNextBlockedByStepErrors(t *testing.T) {
	s, _ := NewState(KindBooking)

	err := s.Next()

	assert.ErrorIs(t, err, ErrStepInvalid)
	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Step)
	assert.Contains(t, snap.Errors, "service_type")
	assert.Contains(t, snap.Errors, "meeting_type")
	// Fields of later steps are not judged yet
	assert.NotContains(t, snap.Errors, "preferred_date")
	assert.NotContains(t, snap.Errors, "name")
}

func TestNextClearsErrorsOnceFixed(t *testing.T) {
	s, _ := NewState(KindBooking)

	assert.ErrorIs(t, s.Next(), ErrStepInvalid)

	s.SetFields(map[string]string{
		"service_type": "cybersecurity",
		"meeting_type": "phone-call",
	})

	assert.NoError(t, s.Next())
	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Step)
	assert.Empty(t, snap.Errors)
}

// TestPreviousKeepsValuesAndErrors - back navigation never validates
// and never drops what the user typed
func TestPreviousKeepsValuesAndErrors(t *testing.T) {
	s, _ := NewState(KindBooking)
	s.SetFields(map[string]string{
		"service_type": "it-consulting",
		"meeting_type": "video-call",
	})
	assert.NoError(t, s.Next())

	// Step 2 left incomplete on purpose
	s.SetFields(map[string]string{"preferred_date": "not-a-date"})
	assert.ErrorIs(t, s.Next(), ErrStepInvalid)

	assert.NoError(t, s.Previous())

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Step)
	assert.Equal(t, "not-a-date", snap.Values["preferred_date"])
	assert.Contains(t, snap.Errors, "preferred_date")
}

func TestPreviousAtFirstStep(t *testing.T) {
	s, _ := NewState(KindBooking)
	assert.ErrorIs(t, s.Previous(), ErrAtFirstStep)
}

func TestSubmitOnlyFromFinalStep(t *testing.T) {
	s, _ := NewState(KindBooking)
	s.SetFields(validBookingValues())

	_, err := s.Submit(context.Background(), &stubSubmitter{result: &Result{Success: true}})

	assert.ErrorIs(t, err, ErrNotAtFinalStep)
}

func TestSubmitSuccess(t *testing.T) {
	s, _ := NewState(KindBooking)
	fillAndAdvanceToFinalStep(t, s)

	sub := &stubSubmitter{result: &Result{
		Success:     true,
		ID:          "bk-1",
		MeetingLink: "https://meet.apexbridge.io/abc",
	}}

	result, err := s.Submit(context.Background(), sub)

	assert.NoError(t, err)
	assert.True(t, result.Success)
	snap := s.Snapshot()
	assert.Equal(t, StatusSucceeded, snap.Status)
	assert.Equal(t, "bk-1", snap.Result.ID)
	assert.Equal(t, 1, sub.callCount())
}

// TestSubmitDoubleClick - only one of two concurrent submits reaches
// the pipeline; the loser gets ErrSubmitInFlight
func TestSubmitDoubleClick(t *testing.T) {
	s, _ := NewState(KindBooking)
	fillAndAdvanceToFinalStep(t, s)

	block := make(chan struct{})
	sub := &stubSubmitter{result: &Result{Success: true}, blockCh: block}

	firstStarted := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		close(firstStarted)
		_, err := s.Submit(context.Background(), sub)
		firstDone <- err
	}()

	<-firstStarted
	// Wait until the first call flipped the status
	for s.Snapshot().Status != StatusSubmitting {
		time.Sleep(time.Millisecond)
	}

	_, err := s.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(block)
	assert.NoError(t, <-firstDone)
	assert.Equal(t, 1, sub.callCount())
	assert.Equal(t, StatusSucceeded, s.Snapshot().Status)
}

// TestSubmitFailureKeepsStateForRetry - a transport failure lands back
// on the final step with everything retained
func TestSubmitFailureKeepsStateForRetry(t *testing.T) {
	s, _ := NewState(KindBooking)
	fillAndAdvanceToFinalStep(t, s)

	sub := &stubSubmitter{err: errors.New("connection reset")}

	_, err := s.Submit(context.Background(), sub)
	assert.Error(t, err)

	snap := s.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.NotEmpty(t, snap.FailureReason)
	assert.Equal(t, s.Steps(), snap.Step)
	assert.Equal(t, "pedro@example.com", snap.Values["email"])

	// Retry with a healthy pipeline succeeds in place
	sub2 := &stubSubmitter{result: &Result{Success: true}}
	result, err := s.Submit(context.Background(), sub2)

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, StatusSucceeded, s.Snapshot().Status)
}

// TestSubmitRejectionMergesFieldErrors - a server-side 422 surfaces its
// field errors into the wizard error map
func TestSubmitRejectionMergesFieldErrors(t *testing.T) {
	s, _ := NewState(KindBooking)
	fillAndAdvanceToFinalStep(t, s)

	sub := &stubSubmitter{result: &Result{
		Success: false,
		Message: "validation failed",
		FieldErrors: []usecase.ValidationError{
			{Field: "email", Message: "is invalid"},
		},
	}}

	result, err := s.Submit(context.Background(), sub)

	assert.NoError(t, err)
	assert.False(t, result.Success)
	snap := s.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "is invalid", snap.Errors["email"])
}

func TestSubmitAfterSuccessIsTerminal(t *testing.T) {
	s, _ := NewState(KindBooking)
	fillAndAdvanceToFinalStep(t, s)

	_, err := s.Submit(context.Background(), &stubSubmitter{result: &Result{Success: true}})
	assert.NoError(t, err)

	_, err = s.Submit(context.Background(), &stubSubmitter{result: &Result{Success: true}})
	assert.ErrorIs(t, err, ErrTerminal)
	assert.ErrorIs(t, s.SetFields(map[string]string{"name": "x"}), ErrTerminal)
}

// TestPreviousAfterFailureReturnsToEditing
func TestPreviousAfterFailureReturnsToEditing(t *testing.T) {
	s, _ := NewState(KindBooking)
	fillAndAdvanceToFinalStep(t, s)

	_, err := s.Submit(context.Background(), &stubSubmitter{err: errors.New("boom")})
	assert.Error(t, err)

	assert.NoError(t, s.Previous())
	snap := s.Snapshot()
	assert.Equal(t, StatusInProgress, snap.Status)
	assert.Empty(t, snap.FailureReason)
}

func TestAttachFileOnlyForApplications(t *testing.T) {
	booking, _ := NewState(KindBooking)
	err := booking.AttachFile(FileMeta{Filename: "cv.pdf"})
	assert.ErrorIs(t, err, ErrNoFileAllowed)

	application, _ := NewState(KindApplication)
	err = application.AttachFile(FileMeta{
		Filename:    "cv.pdf",
		ContentType: "application/pdf",
		Size:        1024,
	})
	assert.NoError(t, err)
	assert.Equal(t, "cv.pdf", application.Snapshot().File.Filename)
}

func TestApplicationWizardResumeGatesStepTwo(t *testing.T) {
	s, _ := NewState(KindApplication)
	s.SetFields(map[string]string{
		"first_name": "Ana",
		"last_name":  "Oliveira",
		"email":      "ana@example.com",
		"phone":      "+55 11 98888-7777",
		"location":   "São Paulo",
	})
	assert.NoError(t, s.Next())

	s.SetFields(map[string]string{
		"experience":   "senior",
		"availability": "immediate",
	})

	// No résumé attached yet
	err := s.Next()
	assert.ErrorIs(t, err, ErrStepInvalid)
	assert.Contains(t, s.Snapshot().Errors, "resume")

	assert.NoError(t, s.AttachFile(FileMeta{
		Filename:    "ana.pdf",
		ContentType: "application/pdf",
		Size:        2048,
	}))
	assert.NoError(t, s.Next())
	assert.Equal(t, 3, s.Snapshot().Step)
}

func TestContactWizardIsSingleStep(t *testing.T) {
	s, _ := NewState(KindContact)
	assert.Equal(t, 1, s.Steps())

	s.SetFields(map[string]string{
		"name":         "Maria Santos",
		"email":        "maria@example.com",
		"service_type": "software-development",
		"message":      "Looking for a delivery team for our new platform.",
	})

	// Single-step forms never advance; they submit from step 1
	assert.ErrorIs(t, s.Next(), ErrNotAtFinalStep)

	result, err := s.Submit(context.Background(), &stubSubmitter{result: &Result{Success: true}})
	assert.NoError(t, err)
	assert.True(t, result.Success)
}
