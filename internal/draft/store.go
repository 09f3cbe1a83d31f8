package draft

import "github.com/google/uuid"

// Line-item collection operations. Mutations are copy-on-write: the lines
// slice is replaced, never edited in place, so snapshots handed to the UI
// stay stable. Insertion order is preserved for display and for payloads.

// AddLine appends a blank line (quantity 1, zero price) and returns it.
func (s *Session) AddLine() LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLineLocked()
}

func (s *Session) addLineLocked() LineItem {
	li := LineItem{RowID: uuid.NewString(), Quantity: 1}
	lines := make([]LineItem, len(s.draft.Lines), len(s.draft.Lines)+1)
	copy(lines, s.draft.Lines)
	s.draft.Lines = append(lines, li)
	s.lookups[li.RowID] = &rowLookup{}
	s.publish(Event{Type: EventLineAdded, RowID: li.RowID})
	return li
}

// RemoveLine deletes a row. Removing the last remaining row is refused
// with ErrLastLine; a draft never becomes empty. The row's pending
// debounce timer is stopped and any in-flight lookup is orphaned.
func (s *Session) RemoveLine(rowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.lineIndex(rowID)
	if idx < 0 {
		return ErrRowNotFound
	}
	if len(s.draft.Lines) == 1 {
		return ErrLastLine
	}

	if rl := s.lookups[rowID]; rl != nil && rl.timer != nil {
		rl.timer.Stop()
	}
	delete(s.lookups, rowID)

	lines := make([]LineItem, 0, len(s.draft.Lines)-1)
	lines = append(lines, s.draft.Lines[:idx]...)
	lines = append(lines, s.draft.Lines[idx+1:]...)
	s.draft.Lines = lines

	s.publish(Event{Type: EventLineRemoved, RowID: rowID})
	s.recomputeTotals()
	return nil
}

// SetQuantity replaces a row's quantity.
func (s *Session) SetQuantity(rowID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.lineIndex(rowID)
	if idx < 0 {
		return ErrRowNotFound
	}
	li := s.draft.Lines[idx]
	li.Quantity = qty
	s.replaceLine(idx, li)
	s.publish(Event{Type: EventFieldChanged, RowID: rowID, Field: "quantity"})
	s.recomputeTotals()
	return nil
}

// SetUnitPrice replaces a row's unit price. Editing the price while a
// product is selected marks the row as a manual override: the reconciler
// will not clobber it until a different product is chosen.
func (s *Session) SetUnitPrice(rowID string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.lineIndex(rowID)
	if idx < 0 {
		return ErrRowNotFound
	}
	li := s.draft.Lines[idx]
	li.UnitPrice = price
	if li.ProductRef != "" {
		li.PriceIsManual = true
	}
	s.replaceLine(idx, li)
	s.publish(Event{Type: EventFieldChanged, RowID: rowID, Field: "unit_price"})
	s.recomputeTotals()
	return nil
}

// SetHeader replaces one header field.
func (s *Session) SetHeader(field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Header[field] = value
	s.publish(Event{Type: EventFieldChanged, Field: "header." + field})
}

func (s *Session) lineIndex(rowID string) int {
	for i, li := range s.draft.Lines {
		if li.RowID == rowID {
			return i
		}
	}
	return -1
}

func (s *Session) replaceLine(idx int, li LineItem) {
	lines := make([]LineItem, len(s.draft.Lines))
	copy(lines, s.draft.Lines)
	lines[idx] = li
	s.draft.Lines = lines
}
