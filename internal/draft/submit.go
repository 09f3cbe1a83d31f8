package draft

import (
	"context"
	"encoding/json"
	"time"
)

// Payload is the wire shape handed to the submission service: header
// fields plus line details, stripped of transient UI state (row IDs,
// manual-price flags, lookup state).
type Payload map[string]any

// PersistedOrder is the submission service's view of a stored document.
type PersistedOrder struct {
	ID  string          `json:"id"`
	Raw json.RawMessage `json:"-"`
}

// Submitter is the interface for the external submission service.
type Submitter interface {
	Create(ctx context.Context, p Payload) (*PersistedOrder, error)
	Update(ctx context.Context, id string, p Payload) (*PersistedOrder, error)
}

// Payload builds the current draft's submission payload. Unchanged drafts
// produce identical payloads, so a retry after a failed attempt resubmits
// exactly what was sent before.
func (s *Session) Payload() Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return buildPayload(s.form, s.draft)
}

func buildPayload(form FormSpec, d OrderDraft) Payload {
	p := Payload{}
	for _, hf := range form.Header {
		p[hf.Name] = d.Header[hf.Name]
	}
	details := make([]map[string]any, 0, len(d.Lines))
	for _, li := range d.Lines {
		details = append(details, map[string]any{
			form.LineProductKey: li.ProductRef,
			"quantity":          li.Quantity,
			"unit_price":        li.UnitPrice,
		})
	}
	p["details"] = details
	return p
}

// Submit validates the draft and, if it passes, runs the create or update
// call. While a submission is in flight further submits are refused. A
// failure keeps the draft untouched for in-place correction; a success
// holds the succeeded state for the configured pause, then hands off to
// the navigation collaborator.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.phase == PhaseSubmitting {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}

	ve := validateDraft(s.form, s.draft)
	s.fieldErrors = ve.Map()
	if ve.HasErrors() {
		s.mu.Unlock()
		return ve
	}

	s.submitError = ""
	s.setPhase(PhaseSubmitting)
	payload := buildPayload(s.form, s.draft)
	documentID := s.draft.DocumentID
	submit := s.submit
	s.mu.Unlock()

	var (
		persisted *PersistedOrder
		err       error
	)
	if documentID == "" {
		persisted, err = submit.Create(ctx, payload)
	} else {
		persisted, err = submit.Update(ctx, documentID, payload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.submitError = err.Error()
		s.setPhase(PhaseFailed)
		return err
	}

	s.setPhase(PhaseSucceeded)
	navigate := s.navigate
	time.AfterFunc(s.cfg.SuccessPause, func() {
		s.mu.Lock()
		s.publish(Event{Type: EventNavigate})
		s.mu.Unlock()
		if navigate != nil {
			navigate(persisted)
		}
	})
	return nil
}
