// Package traffic contains HTTP clients for live traffic data: TomTom flow
// segments and HERE incident reports.
package traffic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dpup/routeintel/server/internal/lib/enrich"
)

// HTTPDoer interface for HTTP client to enable testing
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// getJSON issues a GET and decodes a JSON body into out. Status codes are
// mapped onto the provider failure taxonomy.
func getJSON(ctx context.Context, doer HTTPDoer, requestURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := doer.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w: %v", enrich.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 {
		return fmt.Errorf("rate limit exceeded: %w", enrich.ErrProviderUnavailable)
	}
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("invalid API key: %w", enrich.ErrProviderUnavailable)
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error %d: %s: %w", resp.StatusCode, string(body), enrich.ErrProviderUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w: %v", enrich.ErrMalformedInput, err)
	}
	return nil
}
