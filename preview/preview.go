package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"wanderwise/globals"
	"wanderwise/rdx"
	"wanderwise/utils"

	"github.com/julienschmidt/httprouter"
)

// Preview holds link metadata for one activity card.
type Preview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var (
	providerURL = globals.EnvOr("PREVIEW_API_URL", "https://api.microlink.io")

	client = &http.Client{Timeout: 5 * time.Second}
)

const cacheTTL = time.Hour

// FetchPreview retrieves title/description metadata for a URL from the
// preview provider. Each fetch is independent; a failure here never
// affects other cards.
func FetchPreview(ctx context.Context, target string) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, providerURL+"?url="+url.QueryEscape(target), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("preview provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("preview provider returned %s", resp.Status)
	}

	var body struct {
		Data Preview `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding preview response: %w", err)
	}

	return &body.Data, nil
}

// GET /api/preview?url=...
func GetPreview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	target := r.URL.Query().Get("url")
	if target == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing url param")
		return
	}

	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid url param")
		return
	}

	cacheKey := "preview:" + target
	if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
		var p Preview
		if json.Unmarshal([]byte(cached), &p) == nil {
			utils.RespondWithJSON(w, http.StatusOK, p)
			return
		}
	}

	p, err := FetchPreview(r.Context(), target)
	if err != nil {
		log.Printf("preview fetch failed for %s: %v", target, err)
		utils.RespondWithError(w, http.StatusBadGateway, "Could not fetch preview")
		return
	}

	if data, err := json.Marshal(p); err == nil {
		if err := rdx.SetWithExpiry(cacheKey, string(data), cacheTTL); err != nil {
			log.Printf("preview cache write failed: %v", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, p)
}
