package kmlfeed

import (
	"context"
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

func createMockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

const closuresKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
<Document>
  <name>Lane closures</name>
  <Folder>
    <name>Karnataka</name>
    <Placemark id="lc-101">
      <name>NH 275 lane closure</name>
      <description><![CDATA[<b>Resurfacing</b> near Maddur &amp; Mandya. One lane closed.]]></description>
      <styleUrl>#roadwork</styleUrl>
      <TimeSpan><begin>2025-07-01T06:00:00Z</begin><end>2025-08-01T18:00:00Z</end></TimeSpan>
      <Point><coordinates>76.9,12.58,0</coordinates></Point>
    </Placemark>
    <Folder>
      <Placemark>
        <name>Accident</name>
        <description>Two vehicles on shoulder</description>
        <LineString><coordinates>77.2,12.7,0 77.21,12.71,0</coordinates></LineString>
      </Placemark>
    </Folder>
  </Folder>
  <Placemark>
    <name>No geometry</name>
  </Placemark>
  <Placemark>
    <name>Outside</name>
    <Point><coordinates>80.2,13.08</coordinates></Point>
  </Placemark>
</Document>
</kml>`

func TestParse(t *testing.T) {
	incidents, err := Parse(strings.NewReader(closuresKML))
	require.NoError(t, err)
	require.Len(t, incidents, 3)

	assert.Equal(t, enrich.Incident{
		ID:          "lc-101",
		Type:        "construction",
		Description: "NH 275 lane closure Resurfacing near Maddur & Mandya. One lane closed.",
		Criticality: "major",
		StartTime:   "2025-07-01T06:00:00Z",
		EndTime:     "2025-08-01T18:00:00Z",
		RoadName:    "NH 275",
		Location:    geo.Point{Latitude: 12.58, Longitude: 76.9},
	}, incidents[0])

	assert.Equal(t, "incident", incidents[1].Type)
	assert.Equal(t, "minor", incidents[1].Criticality)
	assert.Equal(t, geo.Point{Latitude: 12.7, Longitude: 77.2}, incidents[1].Location)
	assert.Equal(t, "Accident@12.70000,77.20000", incidents[1].ID)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(strings.NewReader(`<kml><Placemark><name>x</Placemark></kml>`))
	assert.ErrorIs(t, err, enrich.ErrMalformedInput)
}

var mysuruRoad = orb.Bound{Min: orb.Point{76.5, 12.2}, Max: orb.Point{77.7, 13.0}}

func TestIncidents_FiltersToBound(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "https://feeds.example/closures.kml"
	})).Return(createMockResponse(200, closuresKML), nil)

	client := NewFeedClientWithHTTPDoer(mockHTTP, "https://feeds.example/closures.kml")
	incidents, err := client.Incidents(context.Background(), mysuruRoad)
	require.NoError(t, err)
	require.Len(t, incidents, 2)
	assert.Equal(t, "lc-101", incidents[0].ID)
	mockHTTP.AssertExpectations(t)
}

func TestIncidents_PartialAndTotalFailure(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return strings.HasSuffix(req.URL.Path, "/good.kml")
	})).Return(createMockResponse(200, closuresKML), nil)
	mockHTTP.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return strings.HasSuffix(req.URL.Path, "/gone.kml")
	})).Return(createMockResponse(404, "Not found"), nil)

	client := NewFeedClientWithHTTPDoer(mockHTTP, "https://feeds.example/gone.kml", "https://feeds.example/good.kml")
	incidents, err := client.Incidents(context.Background(), mysuruRoad)
	require.NoError(t, err)
	assert.Len(t, incidents, 2)

	client = NewFeedClientWithHTTPDoer(mockHTTP, "https://feeds.example/gone.kml")
	_, err = client.Incidents(context.Background(), mysuruRoad)
	assert.ErrorIs(t, err, enrich.ErrProviderUnavailable)
}

func TestExtractTextFromHTML(t *testing.T) {
	assert.Equal(t, "Lane closed until 5 pm & later", extractTextFromHTML("<p>Lane <b>closed</b>\n until 5 pm &amp; later</p>"))
}
