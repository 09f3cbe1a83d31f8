package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// backendHTTPClient is the shared HTTP client with sensible timeouts for backend calls.
var backendHTTPClient = &http.Client{Timeout: 15 * time.Second}

// httpService queries the dashboard backend's paginated product listing.
type httpService struct {
	baseURL string
	client  *http.Client
}

// NewHTTPService creates a catalog Service backed by the dashboard REST API.
func NewHTTPService(baseURL string) Service {
	return &httpService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  backendHTTPClient,
	}
}

func (s *httpService) Name() string { return "backend" }

// backendPage mirrors the backend's paginated listing envelope.
type backendPage struct {
	Count   int              `json:"count"`
	Results []backendProduct `json:"results"`
}

type backendProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	PriceCLP float64 `json:"price_clp"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
	Supplier string  `json:"supplier"`
}

func (s *httpService) Search(ctx context.Context, term string, pageSize int) (SearchResult, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	q := url.Values{}
	q.Set("page_size", strconv.Itoa(pageSize))
	if term != "" {
		q.Set("search", term)
	}

	req, err := http.NewRequestWithContext(ctx, "GET",
		s.baseURL+"/api/inventory/products/?"+q.Encode(), nil)
	if err != nil {
		return SearchResult{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("catalog search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		return SearchResult{}, fmt.Errorf("catalog search error %d: %s", resp.StatusCode, string(b))
	}

	var page backendPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return SearchResult{}, fmt.Errorf("catalog decode error: %w", err)
	}

	result := SearchResult{TotalCount: page.Count}
	for _, p := range page.Results {
		result.Items = append(result.Items, Entry{
			ID:          p.ID,
			DisplayName: p.Name,
			UnitPrice:   p.PriceCLP,
			Stock:       p.Stock,
			Category:    p.Category,
			Supplier:    p.Supplier,
		})
	}
	return result, nil
}
