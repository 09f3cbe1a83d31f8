package draft

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestSubmitCreateSucceedsAndNavigates(t *testing.T) {
	s, fc, fs := newTestSession(t)
	fillValidDraft(t, s, fc)
	events := s.Subscribe()

	navigated := make(chan *PersistedOrder, 1)
	s.OnNavigate(func(p *PersistedOrder) { navigated <- p })

	if err := s.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := s.Phase(); got != PhaseSucceeded {
		t.Fatalf("phase = %s, want succeeded", got)
	}

	waitEvent(t, events, EventNavigate, "")
	select {
	case p := <-navigated:
		if p.ID != "DOC-001" {
			t.Errorf("navigated to %q, want DOC-001", p.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("navigation collaborator never invoked")
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.created) != 1 || len(fs.updated) != 0 {
		t.Errorf("expected exactly one create, got %d creates / %d updates", len(fs.created), len(fs.updated))
	}
}

func TestSubmitHydratedDraftUpdates(t *testing.T) {
	s, _, fs := newTestSession(t)
	s.Hydrate("DOC-42",
		map[string]string{"client": "C-007", "status": "AP"},
		[]HydratedLine{{ProductRef: "P-001", Quantity: 3, UnitPrice: 1500}},
	)

	if err := s.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.updatedID != "DOC-42" {
		t.Errorf("updated id = %q, want DOC-42", fs.updatedID)
	}
	if len(fs.created) != 0 {
		t.Error("hydrated draft must update, not create")
	}
}

func TestSubmitFailureKeepsDraftForRetry(t *testing.T) {
	s, fc, fs := newTestSession(t)
	fillValidDraft(t, s, fc)
	fs.setErr(errors.New("backend down"))

	before := s.Snapshot()
	err := s.Submit(context.Background())
	if err == nil {
		t.Fatal("expected submission failure")
	}
	if got := s.Phase(); got != PhaseFailed {
		t.Fatalf("phase = %s, want failed", got)
	}

	after := s.Snapshot()
	if !reflect.DeepEqual(before.Lines, after.Lines) || !reflect.DeepEqual(before.Header, after.Header) {
		t.Error("failed submission must leave the draft untouched")
	}
	if after.SubmitError == "" {
		t.Error("failure message must be retained for the UI")
	}

	// An unchanged draft retries with the identical payload.
	fs.setErr(nil)
	if err := s.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.created) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(fs.created))
	}
	if !reflect.DeepEqual(fs.created[0], fs.created[1]) {
		t.Errorf("retry payload diverged:\n first: %v\nsecond: %v", fs.created[0], fs.created[1])
	}
}

func TestDuplicateSubmitIsRefused(t *testing.T) {
	s, fc, fs := newTestSession(t)
	fillValidDraft(t, s, fc)
	events := s.Subscribe()

	gate := make(chan struct{})
	fs.mu.Lock()
	fs.gate = gate
	fs.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background()) }()

	// Wait until the first submission is committed and in flight.
	for {
		evt := waitEvent(t, events, EventPhaseChanged, "")
		if evt.Phase == PhaseSubmitting {
			break
		}
	}
	if err := s.Submit(context.Background()); err != ErrSubmitInFlight {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.created) != 1 {
		t.Errorf("expected a single create, got %d", len(fs.created))
	}
}

func TestPayloadStripsTransientState(t *testing.T) {
	s, fc, _ := newTestSession(t)
	fillValidDraft(t, s, fc)

	p := s.Payload()
	if p["client"] != "C-001" || p["status"] != "PE" {
		t.Errorf("header fields missing from payload: %v", p)
	}

	details, ok := p["details"].([]map[string]any)
	if !ok || len(details) != 1 {
		t.Fatalf("unexpected details shape: %v", p["details"])
	}
	d := details[0]
	if d["product"] != "P-001" || d["quantity"] != 2 || d["unit_price"] != 1500.0 {
		t.Errorf("unexpected detail: %v", d)
	}
	for _, transient := range []string{"row_id", "price_is_manual", "lookup"} {
		if _, present := d[transient]; present {
			t.Errorf("transient field %q leaked into the payload", transient)
		}
	}
}

func TestPayloadIsDeterministicForUnchangedDraft(t *testing.T) {
	s, fc, _ := newTestSession(t)
	fillValidDraft(t, s, fc)

	if !reflect.DeepEqual(s.Payload(), s.Payload()) {
		t.Error("payload must be a pure function of the draft")
	}
}
