package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// ArchiveClient reads daily historical weather from the Open-Meteo archive API.
// No API key is required.
type ArchiveClient struct {
	httpClient HTTPDoer
	baseURL    string
}

// NewArchiveClient creates an Open-Meteo archive client. An empty baseURL
// selects the public endpoint.
func NewArchiveClient(baseURL string) *ArchiveClient {
	return NewArchiveClientWithHTTPDoer(baseURL, &http.Client{Timeout: 30 * time.Second})
}

// NewArchiveClientWithHTTPDoer creates an archive client with custom HTTP doer (for testing)
func NewArchiveClientWithHTTPDoer(baseURL string, doer HTTPDoer) *ArchiveClient {
	if baseURL == "" {
		baseURL = "https://archive-api.open-meteo.com"
	}
	return &ArchiveClient{httpClient: doer, baseURL: baseURL}
}

// ArchiveSummary aggregates daily archive values over a date window.
type ArchiveSummary struct {
	MeanTemperatureC float64
	MeanHumidity     float64
	PrecipitationMM  float64
	ElevationM       float64
	Days             int
}

// Summarize fetches daily values between start and end (inclusive) and
// averages them. Missing days are skipped.
func (c *ArchiveClient) Summarize(ctx context.Context, p geo.Point, start, end time.Time) (ArchiveSummary, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.6f", p.Latitude))
	params.Set("longitude", fmt.Sprintf("%.6f", p.Longitude))
	params.Set("start_date", start.Format("2006-01-02"))
	params.Set("end_date", end.Format("2006-01-02"))
	params.Set("daily", "temperature_2m_mean,relative_humidity_2m_mean,precipitation_sum")
	params.Set("timezone", "auto")

	requestURL := fmt.Sprintf("%s/v1/archive?%s", c.baseURL, params.Encode())

	var response OpenMeteoArchiveResponse
	if err := getJSON(ctx, c.httpClient, requestURL, &response); err != nil {
		return ArchiveSummary{}, fmt.Errorf("weather archive: %w", err)
	}

	daily := response.Daily
	temp, tempDays := mean(daily.Temperature)
	humidity, _ := mean(daily.Humidity)
	precip, _ := sum(daily.Precipitation)
	if tempDays == 0 {
		return ArchiveSummary{}, fmt.Errorf("weather archive: %w", enrich.ErrProviderEmpty)
	}

	return ArchiveSummary{
		MeanTemperatureC: temp,
		MeanHumidity:     humidity,
		PrecipitationMM:  precip,
		ElevationM:       response.Elevation,
		Days:             len(daily.Time),
	}, nil
}

// OpenMeteoArchiveResponse represents the archive API response structure
type OpenMeteoArchiveResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
	Daily     struct {
		Time          []string   `json:"time"`
		Temperature   []*float64 `json:"temperature_2m_mean"`
		Humidity      []*float64 `json:"relative_humidity_2m_mean"`
		Precipitation []*float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

func sum(values []*float64) (float64, int) {
	var total float64
	var n int
	for _, v := range values {
		if v == nil {
			continue
		}
		total += *v
		n++
	}
	return total, n
}

func mean(values []*float64) (float64, int) {
	total, n := sum(values)
	if n == 0 {
		return 0, 0
	}
	return total / float64(n), n
}
