package draft

import "testing"

// resolveOptions runs a search and waits for its results so the row has a
// populated option cache.
func resolveOptions(t *testing.T, s *Session, rowID, term string) {
	t.Helper()
	events := s.Subscribe()
	if err := s.Search(rowID, term); err != nil {
		t.Fatal(err)
	}
	waitEvent(t, events, EventLookupResolved, rowID)
}

func TestSelectProductAppliesCatalogPrice(t *testing.T) {
	s, fc, _ := newTestSession(t)
	fc.set("lamp", entry("P-003", "Desk Lamp", 12000))
	rowID := s.Snapshot().Lines[0].RowID
	resolveOptions(t, s, rowID, "lamp")

	if err := s.SelectProduct(rowID, "P-003"); err != nil {
		t.Fatal(err)
	}

	li := s.Snapshot().Lines[0]
	if li.ProductRef != "P-003" {
		t.Errorf("product ref = %q, want P-003", li.ProductRef)
	}
	if li.UnitPrice != 12000 {
		t.Errorf("unit price = %v, want 12000", li.UnitPrice)
	}
	if li.PriceIsManual {
		t.Error("catalog-sourced price must not be flagged manual")
	}
}

func TestManualOverrideIsNotClobbered(t *testing.T) {
	s, fc, _ := newTestSession(t)
	fc.set("lamp", entry("P-003", "Desk Lamp", 12000))
	fc.set("pen", entry("P-002", "Ballpoint Pen Blue", 500))
	rowID := s.Snapshot().Lines[0].RowID
	resolveOptions(t, s, rowID, "lamp")

	if err := s.SelectProduct(rowID, "P-003"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetUnitPrice(rowID, 9990); err != nil {
		t.Fatal(err)
	}
	li := s.Snapshot().Lines[0]
	if !li.PriceIsManual {
		t.Fatal("price edit after a selection must flag a manual override")
	}

	// Unrelated activity: another row fetches and selects from the catalog.
	other := s.AddLine()
	resolveOptions(t, s, other.RowID, "pen")
	if err := s.SelectProduct(other.RowID, "P-002"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetQuantity(rowID, 3); err != nil {
		t.Fatal(err)
	}

	li = s.Snapshot().Lines[0]
	if li.UnitPrice != 9990 || !li.PriceIsManual {
		t.Errorf("manual override lost: %+v", li)
	}
}

func TestSelectingDifferentProductReappliesCatalogPrice(t *testing.T) {
	s, fc, _ := newTestSession(t)
	fc.set("desk", entry("P-003", "Desk Lamp", 12000), entry("P-004", "Desk Organizer", 4500))
	rowID := s.Snapshot().Lines[0].RowID
	resolveOptions(t, s, rowID, "desk")

	if err := s.SelectProduct(rowID, "P-003"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetUnitPrice(rowID, 9990); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectProduct(rowID, "P-004"); err != nil {
		t.Fatal(err)
	}

	li := s.Snapshot().Lines[0]
	if li.UnitPrice != 4500 {
		t.Errorf("unit price = %v, want the new product's 4500", li.UnitPrice)
	}
	if li.PriceIsManual {
		t.Error("new selection resets the manual flag")
	}
}

func TestClearingProductResetsPrice(t *testing.T) {
	s, fc, _ := newTestSession(t)
	fc.set("lamp", entry("P-003", "Desk Lamp", 12000))
	rowID := s.Snapshot().Lines[0].RowID
	resolveOptions(t, s, rowID, "lamp")

	if err := s.SelectProduct(rowID, "P-003"); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectProduct(rowID, ""); err != nil {
		t.Fatal(err)
	}

	li := s.Snapshot().Lines[0]
	if li.ProductRef != "" || li.UnitPrice != 0 {
		t.Errorf("cleared selection left state behind: %+v", li)
	}
}

func TestSelectingUncachedProductZeroesPrice(t *testing.T) {
	s, _, _ := newTestSession(t)
	rowID := s.Snapshot().Lines[0].RowID

	if err := s.SetUnitPrice(rowID, 777); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectProduct(rowID, "P-UNSEEN"); err != nil {
		t.Fatal(err)
	}

	li := s.Snapshot().Lines[0]
	if li.UnitPrice != 0 {
		t.Errorf("unit price = %v, want 0 for a product with no cached entry", li.UnitPrice)
	}
}

func TestCrossRowCacheSatisfiesSelection(t *testing.T) {
	s, fc, _ := newTestSession(t)
	fc.set("note", entry("P-001", "Notebook A5", 1500))
	firstRow := s.Snapshot().Lines[0].RowID
	resolveOptions(t, s, firstRow, "note")

	other := s.AddLine()
	if err := s.SelectProduct(other.RowID, "P-001"); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if snap.Lines[1].UnitPrice != 1500 {
		t.Errorf("unit price = %v, want 1500 from the sibling row's cache", snap.Lines[1].UnitPrice)
	}
}

func TestSelectProductOnUnknownRow(t *testing.T) {
	s, _, _ := newTestSession(t)
	if err := s.SelectProduct("nope", "P-001"); err != ErrRowNotFound {
		t.Fatalf("expected ErrRowNotFound, got %v", err)
	}
}
