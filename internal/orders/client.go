package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bazar/internal/draft"
)

// Client submits validated payloads to the dashboard backend's REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a submission client for the given backend base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Submitter binds the client to one form's resource collection.
func (c *Client) Submitter(form draft.FormSpec) draft.Submitter {
	return &formSubmitter{client: c, resource: form.Resource}
}

type formSubmitter struct {
	client   *Client
	resource string
}

func (f *formSubmitter) Create(ctx context.Context, p draft.Payload) (*draft.PersistedOrder, error) {
	return f.client.send(ctx, "POST", f.resource, p)
}

func (f *formSubmitter) Update(ctx context.Context, id string, p draft.Payload) (*draft.PersistedOrder, error) {
	return f.client.send(ctx, "PUT", f.resource+id+"/", p)
}

func (c *Client) send(ctx context.Context, method, path string, p draft.Payload) (*draft.PersistedOrder, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submission request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The backend reports business failures (insufficient stock and
		// the like) as {"error": "..."}; surface that text when present.
		var fail struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &fail) == nil && fail.Error != "" {
			return nil, fmt.Errorf("submission rejected: %s", fail.Error)
		}
		return nil, fmt.Errorf("submission error %d: %s", resp.StatusCode, string(raw))
	}

	persisted := &draft.PersistedOrder{Raw: raw}
	if err := json.Unmarshal(raw, persisted); err != nil {
		return nil, fmt.Errorf("submission decode error: %w", err)
	}
	return persisted, nil
}
