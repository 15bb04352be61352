package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"wanderwise/globals"
)

// Generator issues the single generation call for a validated trip
// request. There is exactly one implementation in production; tests
// substitute fakes.
type Generator interface {
	Generate(ctx context.Context, req TripRequest) (json.RawMessage, error)
}

// Client relays requests to the external generation service. It is a
// dumb relay: no retries, no caching, no payload transformation. Its
// only job is keeping the upstream's location out of the browser.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: globals.EnvOr("ITINERARY_API_URL", "http://localhost:5000"),
		// Generation involves scraping and model calls upstream; allow
		// for a slow response but not an unbounded one.
		HTTP: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) Generate(ctx context.Context, req TripRequest) (json.RawMessage, error) {
	body, err := req.WireBody()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/generate-itinerary", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation service unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading generation response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("generation service returned %s", resp.Status)
	}

	if !json.Valid(data) {
		return nil, errors.New("generation service returned a malformed body")
	}

	return data, nil
}
