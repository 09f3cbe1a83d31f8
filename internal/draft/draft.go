// Package draft implements the order drafting core shared by the
// purchase-order, quote, and sale screens: a line-item collection with
// per-row debounced catalog lookup, price reconciliation, running totals,
// structural validation, and a submission state machine.
package draft

import (
	"errors"

	"bazar/internal/catalog"
)

// LineItem is one product row in an order, quote, or sale draft.
// RowID is assigned at creation and never reused, so asynchronous lookup
// responses can be matched to the correct row after reordering or removal.
type LineItem struct {
	RowID         string  `json:"row_id"`
	ProductRef    string  `json:"product_ref"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	PriceIsManual bool    `json:"price_is_manual"`
}

// HeaderField describes one header field of a draft form.
type HeaderField struct {
	Name     string
	Required bool
	Enum     []string
}

// FormSpec parameterizes the drafting core for one document family.
// Domain wording (field names, payload keys, backend paths) lives here so
// the engine itself stays generic.
type FormSpec struct {
	Name     string
	Resource string
	Header   []HeaderField

	// LineProductKey is the payload key for a line's product reference;
	// the backend uses "product" for orders and quotes, "product_id" for sales.
	LineProductKey string

	// RequirePositivePrice rejects zero unit prices at the validation gate.
	RequirePositivePrice bool
}

// OrderDraft is the in-progress, not-yet-persisted document being edited.
// An empty DocumentID means create mode; otherwise submission updates.
type OrderDraft struct {
	DocumentID string            `json:"document_id,omitempty"`
	Header     map[string]string `json:"header"`
	Lines      []LineItem        `json:"lines"`
}

// LookupState is the per-row product search state exposed to the UI.
type LookupState struct {
	SearchTerm string          `json:"search_term"`
	Options    []catalog.Entry `json:"options"`
	Loading    bool            `json:"loading"`
	Failed     bool            `json:"failed"`

	// LastRequestToken invalidates stale responses: a completion whose
	// token no longer matches is silently dropped.
	LastRequestToken int64 `json:"-"`
}

// Totals are derived from the current line sequence. Net is obtained by
// subtraction, never rounded independently, so Net+Tax == Gross exactly.
type Totals struct {
	Gross float64 `json:"gross"`
	Tax   float64 `json:"tax"`
	Net   float64 `json:"net"`
}

// Phase is the submission state machine position.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// EventType identifies a session state transition.
type EventType string

const (
	EventLineAdded      EventType = "line_added"
	EventLineRemoved    EventType = "line_removed"
	EventFieldChanged   EventType = "field_changed"
	EventLookupLoading  EventType = "lookup_loading"
	EventLookupResolved EventType = "lookup_resolved"
	EventLookupFailed   EventType = "lookup_failed"
	EventTotalsChanged  EventType = "totals_changed"
	EventPhaseChanged   EventType = "phase_changed"
	EventNavigate       EventType = "navigate"
)

// Event is published on every session state transition.
type Event struct {
	Type  EventType `json:"type"`
	RowID string    `json:"row_id,omitempty"`
	Field string    `json:"field,omitempty"`
	Phase Phase     `json:"phase,omitempty"`
}

// Snapshot is an immutable view of a session, sufficient for a form layer
// to render without reaching into internals.
type Snapshot struct {
	Form        string                 `json:"form"`
	DocumentID  string                 `json:"document_id,omitempty"`
	Header      map[string]string      `json:"header"`
	Lines       []LineItem             `json:"lines"`
	Lookups     map[string]LookupState `json:"lookups"`
	Totals      Totals                 `json:"totals"`
	Phase       Phase                  `json:"phase"`
	FieldErrors map[string]string      `json:"field_errors,omitempty"`
	SubmitError string                 `json:"submit_error,omitempty"`

	// CanRemove is false while only one line remains; the remove control
	// is rendered disabled rather than letting the collection empty out.
	CanRemove bool `json:"can_remove"`
}

var (
	// ErrLastLine signals a refused removal: a draft never becomes empty.
	ErrLastLine = errors.New("draft: cannot remove the last line item")

	// ErrRowNotFound signals an operation against a row that no longer exists.
	ErrRowNotFound = errors.New("draft: no such line item")

	// ErrSubmitInFlight signals a duplicate submit while one is running.
	ErrSubmitInFlight = errors.New("draft: submission already in progress")
)
