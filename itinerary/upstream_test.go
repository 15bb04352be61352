package itinerary

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientGenerateForwardsAndPassesThrough(t *testing.T) {
	var gotPath string
	var gotBody []byte

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleBody))
	}))
	defer upstream.Close()

	client := &Client{BaseURL: upstream.URL, HTTP: &http.Client{Timeout: 5 * time.Second}}

	raw, err := client.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if gotPath != "/generate-itinerary" {
		t.Errorf("expected /generate-itinerary, got %s", gotPath)
	}

	var wire map[string]json.RawMessage
	if err := json.Unmarshal(gotBody, &wire); err != nil {
		t.Fatalf("forwarded body not valid JSON: %v", err)
	}
	for _, key := range []string{"location", "budget", "start", "end", "preferences"} {
		if _, ok := wire[key]; !ok {
			t.Errorf("forwarded body missing key %q", key)
		}
	}

	if string(raw) != sampleBody {
		t.Error("response body was not passed through verbatim")
	}
}

func TestClientGenerateUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	client := &Client{BaseURL: upstream.URL, HTTP: &http.Client{Timeout: 5 * time.Second}}

	if _, err := client.Generate(context.Background(), validRequest()); err == nil {
		t.Fatal("expected error on upstream 500")
	}
}

func TestClientGenerateMalformedBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer upstream.Close()

	client := &Client{BaseURL: upstream.URL, HTTP: &http.Client{Timeout: 5 * time.Second}}

	if _, err := client.Generate(context.Background(), validRequest()); err == nil {
		t.Fatal("expected error on malformed upstream body")
	}
}

func TestClientGenerateUnreachable(t *testing.T) {
	client := &Client{BaseURL: "http://127.0.0.1:1", HTTP: &http.Client{Timeout: time.Second}}

	if _, err := client.Generate(context.Background(), validRequest()); err == nil {
		t.Fatal("expected error when upstream is unreachable")
	}
}
