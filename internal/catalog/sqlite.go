package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"
)

// Store is a SQLite-backed product catalog. It serves as the local catalog
// in standalone mode and as a persistent cache of entries fetched from the
// remote backend, so reconciliation and listings survive backend outages.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over db, creating the products table if needed.
func NewStore(db *sql.DB) (*Store, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		unit_price REAL DEFAULT 0,
		stock INTEGER DEFAULT 0,
		category TEXT DEFAULT '',
		supplier TEXT DEFAULT '',
		fetched_at TEXT DEFAULT ''
	)`)
	if err != nil {
		return nil, fmt.Errorf("products schema init failed: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Name() string { return "sqlite" }

func (s *Store) Search(ctx context.Context, term string, pageSize int) (SearchResult, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var (
		total int
		rows  *sql.Rows
		err   error
	)
	if term == "" {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&total); err != nil {
			return SearchResult{}, err
		}
		rows, err = s.db.QueryContext(ctx,
			"SELECT id,name,unit_price,stock,category,supplier FROM products ORDER BY name LIMIT ?", pageSize)
	} else {
		like := "%" + term + "%"
		if err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM products WHERE name LIKE ? OR category LIKE ?", like, like).Scan(&total); err != nil {
			return SearchResult{}, err
		}
		rows, err = s.db.QueryContext(ctx,
			"SELECT id,name,unit_price,stock,category,supplier FROM products WHERE name LIKE ? OR category LIKE ? ORDER BY name LIMIT ?",
			like, like, pageSize)
	}
	if err != nil {
		return SearchResult{}, err
	}
	defer rows.Close()

	result := SearchResult{TotalCount: total}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.DisplayName, &e.UnitPrice, &e.Stock, &e.Category, &e.Supplier); err != nil {
			return SearchResult{}, err
		}
		result.Items = append(result.Items, e)
	}
	return result, rows.Err()
}

// Upsert stores or refreshes a catalog entry with a fetched_at stamp.
func (s *Store) Upsert(e Entry) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO products
		(id, name, unit_price, stock, category, supplier, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.DisplayName, e.UnitPrice, e.Stock, e.Category, e.Supplier,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// Cached wraps a remote Service with a Store. Successful searches refresh
// the store; remote failures degrade to the locally cached catalog.
type Cached struct {
	remote Service
	store  *Store
}

// NewCached creates a caching wrapper around remote backed by store.
func NewCached(remote Service, store *Store) *Cached {
	return &Cached{remote: remote, store: store}
}

func (c *Cached) Name() string { return c.remote.Name() }

func (c *Cached) Search(ctx context.Context, term string, pageSize int) (SearchResult, error) {
	result, err := c.remote.Search(ctx, term, pageSize)
	if err != nil {
		log.Printf("catalog: %s search failed, serving cached entries: %v", c.remote.Name(), err)
		return c.store.Search(ctx, term, pageSize)
	}
	for _, e := range result.Items {
		if err := c.store.Upsert(e); err != nil {
			log.Printf("catalog: cache write failed for %s: %v", e.ID, err)
		}
	}
	return result, nil
}
