// Package kmlfeed reads roadwork and lane closure placemarks from published
// KML feeds, such as the closure maps highway authorities publish.
package kmlfeed

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dpup/prefab/logging"
	"github.com/paulmach/orb"

	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// HTTPDoer interface for HTTP client to enable testing
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FeedClient processes KML incident feeds
type FeedClient struct {
	urls       []string
	httpClient HTTPDoer
}

var _ enrich.IncidentProvider = (*FeedClient)(nil)

// NewFeedClient creates a client for the given feed URLs
func NewFeedClient(urls ...string) *FeedClient {
	return NewFeedClientWithHTTPDoer(&http.Client{Timeout: 30 * time.Second}, urls...)
}

// NewFeedClientWithHTTPDoer creates a feed client with custom HTTP doer (for testing)
func NewFeedClientWithHTTPDoer(doer HTTPDoer, urls ...string) *FeedClient {
	return &FeedClient{urls: urls, httpClient: doer}
}

// Incidents downloads every feed and returns the placemarks inside bound. A
// feed that fails is logged and skipped; the call fails only when all do.
func (c *FeedClient) Incidents(ctx context.Context, bound orb.Bound) ([]enrich.Incident, error) {
	var (
		incidents []enrich.Incident
		errs      []error
	)
	for _, url := range c.urls {
		feed, err := c.fetch(ctx, url)
		if err != nil {
			logging.Warnw(ctx, "KML feed skipped", "url", url, "error", err)
			errs = append(errs, err)
			continue
		}
		for _, inc := range feed {
			if bound.Contains(inc.Location.Orb()) {
				incidents = append(incidents, inc)
			}
		}
	}
	if len(errs) > 0 && len(errs) == len(c.urls) {
		return nil, errors.Join(errs...)
	}
	return incidents, nil
}

func (c *FeedClient) fetch(ctx context.Context, url string) ([]enrich.Incident, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download KML: %w: %v", enrich.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error %d downloading KML from %s: %w", resp.StatusCode, url, enrich.ErrProviderUnavailable)
	}

	return Parse(resp.Body)
}

// placemark holds the KML fields used to build an incident.
type placemark struct {
	ID          string `xml:"id,attr"`
	Name        string `xml:"name"`
	Description string `xml:"description"`
	StyleURL    string `xml:"styleUrl"`
	Point       struct {
		Coordinates string `xml:"coordinates"`
	} `xml:"Point"`
	LineString struct {
		Coordinates string `xml:"coordinates"`
	} `xml:"LineString"`
	TimeSpan struct {
		Begin string `xml:"begin"`
		End   string `xml:"end"`
	} `xml:"TimeSpan"`
}

// Parse reads every Placemark of a KML document, however deeply it is nested
// in folders. Placemarks without a usable coordinate are dropped.
func Parse(r io.Reader) ([]enrich.Incident, error) {
	dec := xml.NewDecoder(r)
	var incidents []enrich.Incident
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse KML: %w: %v", enrich.ErrMalformedInput, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Placemark" {
			continue
		}
		var pm placemark
		if err := dec.DecodeElement(&pm, &start); err != nil {
			return nil, fmt.Errorf("failed to parse placemark: %w: %v", enrich.ErrMalformedInput, err)
		}
		if inc, ok := pm.toIncident(); ok {
			incidents = append(incidents, inc)
		}
	}
	return incidents, nil
}

func (pm placemark) toIncident() (enrich.Incident, bool) {
	coords := pm.Point.Coordinates
	if strings.TrimSpace(coords) == "" {
		coords = pm.LineString.Coordinates
	}
	location, ok := firstCoordinate(coords)
	if !ok {
		return enrich.Incident{}, false
	}

	text := extractTextFromHTML(pm.Description)
	name := strings.TrimSpace(pm.Name)
	id := pm.ID
	if id == "" {
		id = fmt.Sprintf("%s@%.5f,%.5f", name, location.Latitude, location.Longitude)
	}

	inc := enrich.Incident{
		ID:          id,
		Type:        incidentType(name, text, pm.StyleURL),
		Description: strings.TrimSpace(name + " " + text),
		Criticality: "minor",
		StartTime:   strings.TrimSpace(pm.TimeSpan.Begin),
		EndTime:     strings.TrimSpace(pm.TimeSpan.End),
		RoadName:    extractRoad(name + " " + text),
		Location:    location,
	}
	if closedPattern.MatchString(text) || closedPattern.MatchString(name) {
		inc.Criticality = "major"
	}
	return inc, true
}

// firstCoordinate parses the first "lon,lat[,alt]" tuple.
func firstCoordinate(s string) (geo.Point, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return geo.Point{}, false
	}
	parts := strings.Split(fields[0], ",")
	if len(parts) < 2 {
		return geo.Point{}, false
	}
	lon, err1 := strconv.ParseFloat(parts[0], 64)
	lat, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return geo.Point{}, false
	}
	p, err := geo.NewPoint(lat, lon)
	if err != nil {
		return geo.Point{}, false
	}
	return p, true
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	closedPattern     = regexp.MustCompile(`(?i)\b(full closure|road closed|closed)\b`)
	roadPattern       = regexp.MustCompile(`\b(NH|SH|MDR|ODR)[ -]?\d+[A-Z]?\b`)
)

// extractTextFromHTML removes HTML tags and decodes HTML entities
func extractTextFromHTML(htmlContent string) string {
	text := tagPattern.ReplaceAllString(htmlContent, " ")
	text = html.UnescapeString(text)
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// incidentType labels a placemark as roadwork when any of its text says so.
func incidentType(name, text, style string) string {
	probe := enrich.Incident{Description: strings.Join([]string{name, text, style}, " ")}
	if enrich.IsConstruction(probe) {
		return "construction"
	}
	return "incident"
}

func extractRoad(text string) string {
	return roadPattern.FindString(text)
}
