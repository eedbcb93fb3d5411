package traffic

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// MockHTTPDoer is a mock implementation of HTTPDoer
type MockHTTPDoer struct {
	mock.Mock
}

func (m *MockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

// Helper function to create mock HTTP response
func createMockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

var point = geo.Point{Latitude: 12.9716, Longitude: 77.5946}

func TestFlowSegment_Success(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		q := req.URL.Query()
		return strings.HasPrefix(req.URL.Path, "/traffic/services/4/flowSegmentData/") &&
			q.Get("point") == "12.971600,77.594600" &&
			q.Get("unit") == "KMPH" &&
			q.Get("key") == "test-api-key"
	})).Return(createMockResponse(200, `{
		"flowSegmentData": {
			"frc": "FRC2",
			"currentSpeed": 22,
			"freeFlowSpeed": 48,
			"confidence": 0.9,
			"roadClosure": false
		}
	}`), nil)

	client := NewTomTomClientWithHTTPDoer("test-api-key", "https://api.tomtom.com", mockHTTP)
	reading, err := client.FlowSegment(context.Background(), point)

	require.NoError(t, err)
	assert.Equal(t, enrich.FlowReading{CurrentSpeed: 22, FreeFlowSpeed: 48}, reading)
	mockHTTP.AssertExpectations(t)
}

func TestFlowSegment_MissingSpeedsUseDefaults(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, `{"flowSegmentData": {"frc": "FRC0"}}`), nil)

	client := NewTomTomClientWithHTTPDoer("test-api-key", "https://api.tomtom.com", mockHTTP)
	reading, err := client.FlowSegment(context.Background(), point)

	require.NoError(t, err)
	assert.Equal(t, enrich.FlowReading{CurrentSpeed: 50, FreeFlowSpeed: 60}, reading)
}

func TestFlowSegment_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains string
		kind     error
	}{
		{"rate limited", 429, "", "rate limit exceeded", enrich.ErrProviderUnavailable},
		{"bad key", 403, "", "invalid API key", enrich.ErrProviderUnavailable},
		{"server error", 500, "boom", "API error 500: boom", enrich.ErrProviderUnavailable},
		{"bad json", 200, "{not json", "failed to decode response", enrich.ErrMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockHTTP := &MockHTTPDoer{}
			mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
				createMockResponse(tt.status, tt.body), nil)

			client := NewTomTomClientWithHTTPDoer("test-api-key", "https://api.tomtom.com", mockHTTP)
			_, err := client.FlowSegment(context.Background(), point)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestFlowSegment_NetworkFailure(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(nil, errors.New("connection refused"))

	client := NewTomTomClientWithHTTPDoer("test-api-key", "https://api.tomtom.com", mockHTTP)
	_, err := client.FlowSegment(context.Background(), point)

	assert.ErrorIs(t, err, enrich.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIncidents_Success(t *testing.T) {
	bound := orb.Bound{Min: orb.Point{77.5, 12.9}, Max: orb.Point{77.7, 13.1}}

	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		q := req.URL.Query()
		return req.URL.Path == "/traffic/6.3/incidents" &&
			q.Get("bbox") == "12.900000,77.500000;13.100000,77.700000" &&
			q.Get("type") == "construction,roadwork" &&
			q.Get("criticality") == "major,minor" &&
			q.Get("apikey") == "test-api-key"
	})).Return(createMockResponse(200, `{
		"TRAFFIC_ITEMS": {
			"TRAFFIC_ITEM": [
				{
					"TRAFFIC_ITEM_ID": 4412345,
					"TRAFFIC_ITEM_TYPE_DESC": "CONSTRUCTION",
					"TRAFFIC_ITEM_DESCRIPTION": [{"value": "Flyover construction, lane closed", "TYPE": "desc"}],
					"CRITICALITY": {"ID": "1", "DESCRIPTION": "major"},
					"START_TIME": "05/20/2025 08:00:00",
					"END_TIME": "12/31/2025 18:00:00",
					"LOCATION": {
						"GEOLOC": {"ORIGIN": {"LATITUDE": 12.95, "LONGITUDE": 77.6}},
						"DEFINED": {
							"ORIGIN": {
								"ROADWAY": {"DESCRIPTION": [{"content": "Hosur Road"}]},
								"DIRECTION": {"DESCRIPTION": "Southbound"}
							}
						}
					}
				},
				{
					"TRAFFIC_ITEM_ID": "R-2",
					"TRAFFIC_ITEM_TYPE_DESC": "ROADWORK",
					"TRAFFIC_ITEM_DESCRIPTION": {"content": "Resurfacing"},
					"CRITICALITY": "minor"
				}
			]
		}
	}`), nil)

	client := NewHereClientWithHTTPDoer("test-api-key", "https://traffic.ls.hereapi.com", mockHTTP)
	incidents, err := client.Incidents(context.Background(), bound)

	require.NoError(t, err)
	require.Len(t, incidents, 2)

	assert.Equal(t, enrich.Incident{
		ID:          "4412345",
		Type:        "CONSTRUCTION",
		Description: "Flyover construction, lane closed",
		Criticality: "major",
		StartTime:   "05/20/2025 08:00:00",
		EndTime:     "12/31/2025 18:00:00",
		RoadName:    "Hosur Road",
		Direction:   "Southbound",
		Location:    geo.Point{Latitude: 12.95, Longitude: 77.6},
	}, incidents[0])

	assert.Equal(t, "R-2", incidents[1].ID)
	assert.Equal(t, "Resurfacing", incidents[1].Description)
	assert.Equal(t, "minor", incidents[1].Criticality)
	assert.Empty(t, incidents[1].RoadName)
	mockHTTP.AssertExpectations(t)
}

func TestIncidents_EmptyResponse(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(createMockResponse(200, `{}`), nil)

	client := NewHereClientWithHTTPDoer("test-api-key", "https://traffic.ls.hereapi.com", mockHTTP)
	incidents, err := client.Incidents(context.Background(), orb.Bound{})

	require.NoError(t, err)
	assert.Empty(t, incidents)
}

func TestIncidents_Unauthorized(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(createMockResponse(401, ""), nil)

	client := NewHereClientWithHTTPDoer("bad-key", "https://traffic.ls.hereapi.com", mockHTTP)
	_, err := client.Incidents(context.Background(), orb.Bound{})

	require.Error(t, err)
	assert.ErrorIs(t, err, enrich.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "invalid API key")
}
