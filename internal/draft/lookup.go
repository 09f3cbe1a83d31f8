package draft

import (
	"context"
	"log"
	"time"
)

// Per-row asynchronous catalog lookup. Each row owns an independent
// request stream: a debounce timer that only the latest keystroke
// survives, and a strictly increasing token per dispatched request. A
// completion is applied only when its row still exists, its token is
// still the row's current one, and the row's term is still the one it
// fetched; everything else is dropped silently, so an older, slower
// response can never overwrite a newer search's results.

const lookupTimeout = 15 * time.Second

// Search records a row's new search term and schedules a debounced fetch.
// Terms of one or two characters are not yet a meaningful query and only
// cancel whatever was pending; an empty term fetches the unfiltered first
// page so the field never looks empty.
func (s *Session) Search(rowID, term string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rl, ok := s.lookups[rowID]
	if !ok {
		return ErrRowNotFound
	}
	rl.state.SearchTerm = term
	if rl.timer != nil {
		rl.timer.Stop()
		rl.timer = nil
	}
	if term != "" && len([]rune(term)) < s.cfg.MinTermLength {
		return nil
	}
	rl.timer = time.AfterFunc(s.cfg.DebounceDelay, func() {
		s.dispatch(rowID, term)
	})
	return nil
}

// Retry re-issues the row's current term after a failed lookup.
func (s *Session) Retry(rowID string) error {
	s.mu.Lock()
	term, ok := "", false
	if rl, exists := s.lookups[rowID]; exists {
		term, ok = rl.state.SearchTerm, true
	}
	s.mu.Unlock()
	if !ok {
		return ErrRowNotFound
	}
	return s.Search(rowID, term)
}

func (s *Session) dispatch(rowID, term string) {
	s.mu.Lock()
	rl, ok := s.lookups[rowID]
	if !ok || rl.state.SearchTerm != term {
		// Row removed or superseded between timer fire and dispatch.
		s.mu.Unlock()
		return
	}
	rl.seq++
	token := rl.seq
	rl.state.LastRequestToken = token
	rl.state.Loading = true
	rl.state.Failed = false
	s.publish(Event{Type: EventLookupLoading, RowID: rowID})
	svc := s.catalog
	pageSize := s.cfg.PageSize
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()
	result, err := svc.Search(ctx, term, pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	rl, ok = s.lookups[rowID]
	if !ok || rl.state.LastRequestToken != token {
		// Stale response: a newer request owns this row now.
		return
	}
	if rl.state.SearchTerm != term {
		// The term changed while this fetch was in flight and its
		// replacement has not dispatched yet. Drop the response, and
		// clear the loading flag in case no replacement is coming (the
		// term may have shrunk below the minimum length).
		rl.state.Loading = false
		return
	}
	rl.state.Loading = false
	if err != nil {
		rl.state.Failed = true
		rl.state.Options = nil
		log.Printf("draft: lookup failed for row %s (%q): %v", rowID, term, err)
		s.publish(Event{Type: EventLookupFailed, RowID: rowID})
		return
	}
	rl.state.Options = result.Items
	s.publish(Event{Type: EventLookupResolved, RowID: rowID})
}
