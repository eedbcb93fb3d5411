package traffic

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// Speeds assumed when TomTom omits a field.
const (
	defaultCurrentSpeed  = 50
	defaultFreeFlowSpeed = 60
)

// TomTomBaseURL is the public TomTom API endpoint.
const TomTomBaseURL = "https://api.tomtom.com"

// TomTomClient reads flow segment data from the TomTom Traffic API.
type TomTomClient struct {
	apiKey     string
	httpClient HTTPDoer
	baseURL    string
}

var _ enrich.FlowProvider = (*TomTomClient)(nil)

// NewTomTomClient creates a new TomTom traffic client
func NewTomTomClient(apiKey string) *TomTomClient {
	return NewTomTomClientWithHTTPDoer(apiKey, TomTomBaseURL, defaultHTTPClient())
}

// NewTomTomClientWithHTTPDoer creates a TomTom client with a custom HTTP doer (for testing)
func NewTomTomClientWithHTTPDoer(apiKey, baseURL string, doer HTTPDoer) *TomTomClient {
	return &TomTomClient{
		apiKey:     apiKey,
		httpClient: doer,
		baseURL:    baseURL,
	}
}

// FlowSegment returns current and free-flow speeds for the road nearest p.
func (c *TomTomClient) FlowSegment(ctx context.Context, p geo.Point) (enrich.FlowReading, error) {
	params := url.Values{}
	params.Set("point", fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude))
	params.Set("unit", "KMPH")
	params.Set("key", c.apiKey)

	requestURL := fmt.Sprintf("%s/traffic/services/4/flowSegmentData/absolute/10/json?%s", c.baseURL, params.Encode())

	var response tomTomFlowResponse
	if err := getJSON(ctx, c.httpClient, requestURL, &response); err != nil {
		return enrich.FlowReading{}, fmt.Errorf("flow segment: %w", err)
	}

	reading := enrich.FlowReading{
		CurrentSpeed:  defaultCurrentSpeed,
		FreeFlowSpeed: defaultFreeFlowSpeed,
	}
	if s := response.FlowSegmentData.CurrentSpeed; s != nil {
		reading.CurrentSpeed = *s
	}
	if s := response.FlowSegmentData.FreeFlowSpeed; s != nil {
		reading.FreeFlowSpeed = *s
	}
	return reading, nil
}

type tomTomFlowResponse struct {
	FlowSegmentData struct {
		FRC           string   `json:"frc"`
		CurrentSpeed  *float64 `json:"currentSpeed"`
		FreeFlowSpeed *float64 `json:"freeFlowSpeed"`
		Confidence    float64  `json:"confidence"`
		RoadClosure   bool     `json:"roadClosure"`
	} `json:"flowSegmentData"`
}
