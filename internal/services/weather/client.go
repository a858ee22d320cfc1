// Package weather is a thin client for an OpenWeatherMap-compatible
// current-conditions endpoint. The dispatcher only sees success or a
// tagged services error.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/novahq/nova/internal/services"
)

// DefaultBaseURL is the public OpenWeatherMap API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client fetches current weather for a city.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a weather client. All requests carry the client timeout; a
// timed-out lookup surfaces as ErrUnavailable, never a hang.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// currentResponse is the subset of the API payload we report on.
type currentResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
}

// Current returns a one-line report for the city.
func (c *Client) Current(ctx context.Context, city string) (string, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s", services.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		return "", services.ErrInvalidKey
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", services.ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: no weather data for %q", services.ErrService, city)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: status %d", services.ErrUnavailable, resp.StatusCode)
	}

	var cur currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&cur); err != nil {
		return "", fmt.Errorf("%w: decoding response: %s", services.ErrService, err)
	}

	desc := "unknown conditions"
	if len(cur.Weather) > 0 {
		desc = cur.Weather[0].Description
	}
	name := cur.Name
	if name == "" {
		name = city
	}

	return fmt.Sprintf("%s: %s, %.1f°C (feels like %.1f°C), humidity %d%%",
		name, desc, cur.Main.Temp, cur.Main.FeelsLike, cur.Main.Humidity), nil
}
