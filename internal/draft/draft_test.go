package draft

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bazar/internal/catalog"
)

// fakeCatalog serves canned per-term results and can hold a term's
// response until released, to exercise out-of-order completion.
type fakeCatalog struct {
	mu      sync.Mutex
	results map[string][]catalog.Entry
	err     error
	holds   map[string]chan struct{}
	calls   []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		results: map[string][]catalog.Entry{},
		holds:   map[string]chan struct{}{},
	}
}

func (f *fakeCatalog) Name() string { return "fake" }

func (f *fakeCatalog) set(term string, entries ...catalog.Entry) {
	f.mu.Lock()
	f.results[term] = entries
	f.mu.Unlock()
}

func (f *fakeCatalog) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// hold blocks responses for term until the returned channel is closed.
func (f *fakeCatalog) hold(term string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.holds[term] = ch
	return ch
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCatalog) Search(ctx context.Context, term string, pageSize int) (catalog.SearchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, term)
	gate := f.holds[term]
	err := f.err
	items := f.results[term]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return catalog.SearchResult{}, ctx.Err()
		}
	}
	if err != nil {
		return catalog.SearchResult{}, err
	}
	return catalog.SearchResult{Items: items, TotalCount: len(items)}, nil
}

// fakeSubmitter records payloads and can block or fail on demand.
type fakeSubmitter struct {
	mu        sync.Mutex
	created   []Payload
	updatedID string
	updated   []Payload
	err       error
	gate      chan struct{}
	persisted *PersistedOrder
}

func newFakeSubmitter() *fakeSubmitter {
	return &fakeSubmitter{persisted: &PersistedOrder{ID: "DOC-001"}}
}

func (f *fakeSubmitter) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeSubmitter) Create(ctx context.Context, p Payload) (*PersistedOrder, error) {
	f.mu.Lock()
	f.created = append(f.created, p)
	gate := f.gate
	err := f.err
	persisted := f.persisted
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return persisted, nil
}

func (f *fakeSubmitter) Update(ctx context.Context, id string, p Payload) (*PersistedOrder, error) {
	f.mu.Lock()
	f.updatedID = id
	f.updated = append(f.updated, p)
	err := f.err
	persisted := f.persisted
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return persisted, nil
}

var errUnavailable = errors.New("catalog unavailable")

// testForm mirrors the quote screen's schema without depending on the
// orders adapters.
func testForm() FormSpec {
	return FormSpec{
		Name:     "quote",
		Resource: "/api/sales/quotes/",
		Header: []HeaderField{
			{Name: "client", Required: true},
			{Name: "status", Required: true, Enum: []string{"RE", "PE", "AP"}},
		},
		LineProductKey:       "product",
		RequirePositivePrice: true,
	}
}

func testConfig() Config {
	return Config{
		DebounceDelay: 5 * time.Millisecond,
		MinTermLength: 3,
		PageSize:      20,
		TaxRate:       0.19,
		SuccessPause:  time.Millisecond,
	}
}

func newTestSession(t *testing.T) (*Session, *fakeCatalog, *fakeSubmitter) {
	t.Helper()
	fc := newFakeCatalog()
	fs := newFakeSubmitter()
	s := NewSession(testForm(), fc, fs, testConfig())
	t.Cleanup(s.Close)
	return s, fc, fs
}

// waitEvent drains the channel until an event of the wanted type (and row,
// if given) arrives.
func waitEvent(t *testing.T, ch <-chan Event, want EventType, rowID string) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				t.Fatalf("event channel closed while waiting for %s", want)
			}
			if evt.Type == want && (rowID == "" || evt.RowID == rowID) {
				return evt
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", want)
		}
	}
}

func entry(id, name string, price float64) catalog.Entry {
	return catalog.Entry{ID: id, DisplayName: name, UnitPrice: price}
}
