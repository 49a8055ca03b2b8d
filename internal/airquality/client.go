package airquality

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/luisaqm/calidad-aire/internal/etl"
)

const stampLayout = "20060102_150405"

// Client fetches current air-quality and weather readings for one city
// from the AirVisual API.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	City    string
	State   string
	Country string
	APIKey  string
}

// FetchCity retrieves the current city feed. A non-2xx response or a
// payload whose status field is not "success" means "no valid data this
// run" and is reported via ok=false; only transport failures are errors.
func (c *Client) FetchCity(ctx context.Context) (etl.RawPayload, bool, error) {
	u, err := url.Parse(c.BaseURL + "/v2/city")
	if err != nil {
		return nil, false, err
	}
	q := u.Query()
	q.Set("city", c.City)
	q.Set("state", c.State)
	q.Set("country", c.Country)
	q.Set("key", c.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("request city feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, nil
	}

	var payload etl.RawPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, false, nil
	}
	if status, _ := payload["status"].(string); status != "success" {
		return nil, false, nil
	}
	return payload, true, nil
}

// SaveRaw writes the payload as an indented JSON snapshot named
// {prefix}_{YYYYMMDD_HHMMSS}.json inside dir, creating the directory as
// needed. The timestamped name keeps earlier downloads intact.
func SaveRaw(payload etl.RawPayload, dir, prefix string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.json", prefix, now.UTC().Format(stampLayout)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
