package draft

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"bazar/internal/catalog"
)

// Config holds the drafting tunables. Zero values fall back to the
// behavior observed across the dashboard's edit screens.
type Config struct {
	DebounceDelay time.Duration // pause after the last keystroke before a fetch
	MinTermLength int           // shorter terms are not yet a meaningful query
	PageSize      int
	TaxRate       float64
	SuccessPause  time.Duration // UX pause between success and navigation handoff
}

func (c Config) withDefaults() Config {
	if c.DebounceDelay <= 0 {
		c.DebounceDelay = 400 * time.Millisecond
	}
	if c.MinTermLength <= 0 {
		c.MinTermLength = 3
	}
	if c.PageSize <= 0 {
		c.PageSize = catalog.DefaultPageSize
	}
	if c.TaxRate <= 0 {
		c.TaxRate = 0.19
	}
	if c.SuccessPause < 0 {
		c.SuccessPause = 0
	} else if c.SuccessPause == 0 {
		c.SuccessPause = 1500 * time.Millisecond
	}
	return c
}

// rowLookup pairs a row's lookup state with its pending debounce timer.
type rowLookup struct {
	state LookupState
	timer *time.Timer
	seq   int64
}

// Session owns one OrderDraft for a single editing session. All mutations
// are serialized behind its mutex; asynchronous lookup completions re-enter
// it and are dropped when stale. See lookup.go for the token rule.
type Session struct {
	mu sync.Mutex

	cfg     Config
	form    FormSpec
	catalog catalog.Service
	submit  Submitter

	draft       OrderDraft
	lookups     map[string]*rowLookup
	totals      Totals
	phase       Phase
	fieldErrors map[string]string
	submitError string
	closed      bool

	subs     []chan Event
	navigate func(*PersistedOrder)
}

// NewSession creates a session in create mode with one blank line.
func NewSession(form FormSpec, svc catalog.Service, submit Submitter, cfg Config) *Session {
	s := &Session{
		cfg:     cfg.withDefaults(),
		form:    form,
		catalog: svc,
		submit:  submit,
		draft:   OrderDraft{Header: map[string]string{}},
		lookups: map[string]*rowLookup{},
		phase:   PhaseIdle,
	}
	s.addLineLocked()
	s.totals = Calculate(s.draft.Lines, s.cfg.TaxRate)
	return s
}

// HydratedLine is one persisted line loaded for edit mode.
type HydratedLine struct {
	ProductRef string  `json:"product_ref"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// Hydrate replaces the draft with a fetched document. Each line gets a
// fresh RowID; catalog prices are treated as already applied, not manual.
func (s *Session) Hydrate(documentID string, header map[string]string, lines []HydratedLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rl := range s.lookups {
		if rl.timer != nil {
			rl.timer.Stop()
		}
	}
	s.lookups = map[string]*rowLookup{}

	s.draft = OrderDraft{DocumentID: documentID, Header: map[string]string{}}
	for k, v := range header {
		s.draft.Header[k] = v
	}
	for _, hl := range lines {
		li := LineItem{
			RowID:      uuid.NewString(),
			ProductRef: hl.ProductRef,
			Quantity:   hl.Quantity,
			UnitPrice:  hl.UnitPrice,
		}
		s.draft.Lines = append(s.draft.Lines, li)
		s.lookups[li.RowID] = &rowLookup{}
	}
	if len(s.draft.Lines) == 0 {
		s.addLineLocked()
	}
	s.recomputeTotals()
}

// OnNavigate registers the navigation collaborator invoked after a
// successful submission (once the success pause elapses).
func (s *Session) OnNavigate(fn func(*PersistedOrder)) {
	s.mu.Lock()
	s.navigate = fn
	s.mu.Unlock()
}

// Subscribe returns a channel of session events. Delivery is best-effort:
// a subscriber that falls behind loses events, never blocks the session.
func (s *Session) Subscribe() <-chan Event {
	ch := make(chan Event, 64)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Session) publish(evt Event) {
	if s.closed {
		return
	}
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (s *Session) setPhase(p Phase) {
	if s.phase == p {
		return
	}
	s.phase = p
	s.publish(Event{Type: EventPhaseChanged, Phase: p})
}

// Snapshot returns an immutable view of the session for the UI layer.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Form:        s.form.Name,
		DocumentID:  s.draft.DocumentID,
		Header:      make(map[string]string, len(s.draft.Header)),
		Lines:       make([]LineItem, len(s.draft.Lines)),
		Lookups:     make(map[string]LookupState, len(s.lookups)),
		Totals:      s.totals,
		Phase:       s.phase,
		SubmitError: s.submitError,
		CanRemove:   len(s.draft.Lines) > 1,
	}
	for k, v := range s.draft.Header {
		snap.Header[k] = v
	}
	copy(snap.Lines, s.draft.Lines)
	for id, rl := range s.lookups {
		st := rl.state
		st.Options = append([]catalog.Entry(nil), rl.state.Options...)
		snap.Lookups[id] = st
	}
	if len(s.fieldErrors) > 0 {
		snap.FieldErrors = make(map[string]string, len(s.fieldErrors))
		for k, v := range s.fieldErrors {
			snap.FieldErrors[k] = v
		}
	}
	return snap
}

// Phase returns the current submission phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Totals returns the current computed totals.
func (s *Session) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

// Close discards the session: pending debounce timers are stopped and any
// in-flight lookups will find their rows gone and drop their results.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, rl := range s.lookups {
		if rl.timer != nil {
			rl.timer.Stop()
		}
	}
	s.lookups = map[string]*rowLookup{}
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}

func (s *Session) recomputeTotals() {
	t := Calculate(s.draft.Lines, s.cfg.TaxRate)
	if t != s.totals {
		s.totals = t
		s.publish(Event{Type: EventTotalsChanged})
	}
}
