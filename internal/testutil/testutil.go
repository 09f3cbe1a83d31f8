package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"bazar/internal/catalog"
)

// SetupTestDB creates an in-memory SQLite database with the products
// schema and returns it together with its catalog store.
func SetupTestDB(t *testing.T) (*sql.DB, *catalog.Store) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := catalog.NewStore(db)
	if err != nil {
		t.Fatalf("Failed to init catalog store: %v", err)
	}
	return db, store
}

// SeedProducts loads the given entries into the store.
func SeedProducts(t *testing.T, store *catalog.Store, entries []catalog.Entry) {
	t.Helper()
	for _, e := range entries {
		if err := store.Upsert(e); err != nil {
			t.Fatalf("Failed to seed product %s: %v", e.ID, err)
		}
	}
}

// SampleProducts is a small fixture catalog used across tests.
func SampleProducts() []catalog.Entry {
	return []catalog.Entry{
		{ID: "P-001", DisplayName: "Notebook A5", UnitPrice: 1500, Stock: 40, Category: "papeleria", Supplier: "S-01"},
		{ID: "P-002", DisplayName: "Ballpoint Pen Blue", UnitPrice: 500, Stock: 200, Category: "papeleria", Supplier: "S-01"},
		{ID: "P-003", DisplayName: "Desk Lamp", UnitPrice: 12000, Stock: 8, Category: "hogar", Supplier: "S-02"},
		{ID: "P-004", DisplayName: "Desk Organizer", UnitPrice: 4500, Stock: 15, Category: "hogar", Supplier: "S-02"},
	}
}
