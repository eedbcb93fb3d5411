package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// HTTPDoer interface for HTTP client to enable testing
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// OpenWeatherBaseURL is the public OpenWeatherMap endpoint.
const OpenWeatherBaseURL = "https://api.openweathermap.org"

// Client provides access to OpenWeatherMap API
type Client struct {
	apiKey     string
	httpClient HTTPDoer
	baseURL    string
}

// NewClient creates a new OpenWeatherMap API client
func NewClient(apiKey string) *Client {
	return NewClientWithHTTPDoer(apiKey, OpenWeatherBaseURL, &http.Client{
		Timeout: 30 * time.Second,
	})
}

// NewClientWithHTTPDoer creates a client with custom HTTP doer (for testing)
func NewClientWithHTTPDoer(apiKey, baseURL string, doer HTTPDoer) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: doer,
		baseURL:    baseURL,
	}
}

// Conditions is the current weather at a point.
type Conditions struct {
	Main         string  `json:"main"`
	Description  string  `json:"description"`
	TemperatureC float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	VisibilityM  float64 `json:"visibility"`
	WindSpeedMs  float64 `json:"wind_speed"`
}

// CurrentConditions retrieves current weather conditions for a point
func (c *Client) CurrentConditions(ctx context.Context, p geo.Point) (Conditions, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.6f", p.Latitude))
	params.Set("lon", fmt.Sprintf("%.6f", p.Longitude))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	requestURL := fmt.Sprintf("%s/data/2.5/weather?%s", c.baseURL, params.Encode())

	var response OpenWeatherCurrentResponse
	if err := getJSON(ctx, c.httpClient, requestURL, &response); err != nil {
		return Conditions{}, fmt.Errorf("current weather: %w", err)
	}

	conditions := Conditions{
		TemperatureC: response.Main.Temp,
		Humidity:     response.Main.Humidity,
		WindSpeedMs:  response.Wind.Speed,
		VisibilityM:  defaultVisibility,
	}
	if response.Visibility != nil {
		conditions.VisibilityM = *response.Visibility
	}
	if len(response.Weather) > 0 {
		conditions.Main = response.Weather[0].Main
		conditions.Description = response.Weather[0].Description
	}
	return conditions, nil
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
	if resp.StatusCode == 401 {
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

// OpenWeatherCurrentResponse represents the current weather API response
type OpenWeatherCurrentResponse struct {
	Coord      OpenWeatherCoord     `json:"coord"`
	Weather    []OpenWeatherWeather `json:"weather"`
	Main       OpenWeatherMain      `json:"main"`
	Wind       OpenWeatherWind      `json:"wind"`
	Visibility *float64             `json:"visibility"`
	Name       string               `json:"name"`
	Dt         int64                `json:"dt"`
}

// OpenWeatherCoord represents coordinates in response
type OpenWeatherCoord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// OpenWeatherWeather represents weather condition
type OpenWeatherWeather struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// OpenWeatherMain represents main weather data
type OpenWeatherMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
}

// OpenWeatherWind represents wind data
type OpenWeatherWind struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}
