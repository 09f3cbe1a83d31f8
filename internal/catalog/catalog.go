package catalog

import "context"

// DefaultPageSize matches the dashboard backend's listing page size.
const DefaultPageSize = 20

// Entry is a read-only product snapshot returned by a catalog lookup.
// Drafts reference entries by ID; they never own or mutate them.
type Entry struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	UnitPrice   float64 `json:"unit_price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	Supplier    string  `json:"supplier"`
}

// SearchResult is one page of catalog entries.
type SearchResult struct {
	Items      []Entry `json:"items"`
	TotalCount int     `json:"total_count"`
}

// Service is the interface for product catalog backends.
// An empty term returns an unfiltered first page.
// Implement this interface to add new catalog sources.
type Service interface {
	Search(ctx context.Context, term string, pageSize int) (SearchResult, error)
	Name() string
}
