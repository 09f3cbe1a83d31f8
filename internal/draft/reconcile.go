package draft

import "bazar/internal/catalog"

// Price reconciliation: the catalog price wins by default when a product
// is selected, but an explicit manual override (see SetUnitPrice) is never
// clobbered for the same selection. Only choosing a different product
// re-applies the catalog price.

// SelectProduct assigns a row's product reference and reconciles its unit
// price. Clearing the product resets the price to zero.
func (s *Session) SelectProduct(rowID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.lineIndex(rowID)
	if idx < 0 {
		return ErrRowNotFound
	}

	li := s.draft.Lines[idx]
	li.ProductRef = productID
	li.PriceIsManual = false
	switch {
	case productID == "":
		li.UnitPrice = 0
	default:
		if e, ok := s.findEntry(productID); ok {
			li.UnitPrice = e.UnitPrice
		} else {
			// Entry not in any cache (or priceless product): same reset
			// the edit screens apply.
			li.UnitPrice = 0
		}
	}
	s.replaceLine(idx, li)
	s.publish(Event{Type: EventFieldChanged, RowID: rowID, Field: "product"})
	s.recomputeTotals()
	return nil
}

// findEntry scans every row's option cache. Caches are shared read-only
// across rows: an entry fetched under one row's search can satisfy another
// row's selection.
func (s *Session) findEntry(productID string) (catalog.Entry, bool) {
	for _, rl := range s.lookups {
		for _, e := range rl.state.Options {
			if e.ID == productID {
				return e, true
			}
		}
	}
	return catalog.Entry{}, false
}
