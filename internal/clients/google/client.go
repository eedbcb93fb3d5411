package google

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// Nearby searches look this far around a sample point.
const placesRadiusMeters = 5000

// Client provides reverse geocoding, directions, elevation and nearby place
// search backed by the Google Maps web services.
type Client struct {
	maps *maps.Client
}

var (
	_ enrich.Geocoder           = (*Client)(nil)
	_ enrich.DirectionsProvider = (*Client)(nil)
	_ enrich.ElevationProvider  = (*Client)(nil)
	_ enrich.PlaceFinder        = (*Client)(nil)
)

// NewClient creates a new Google Maps client
func NewClient(apiKey string) (*Client, error) {
	return NewClientWithHTTPClient(apiKey, &http.Client{Timeout: 30 * time.Second})
}

// NewClientWithHTTPClient creates a client that sends requests through the
// given HTTP client. Tests use it to intercept traffic.
func NewClientWithHTTPClient(apiKey string, httpClient *http.Client) (*Client, error) {
	mc, err := maps.NewClient(maps.WithAPIKey(apiKey), maps.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Client{maps: mc}, nil
}

// ReverseGeocode returns the best address match for a point.
func (c *Client) ReverseGeocode(ctx context.Context, p geo.Point) (enrich.GeocodeResult, error) {
	results, err := c.maps.ReverseGeocode(ctx, &maps.GeocodingRequest{LatLng: latLng(p)})
	if err != nil {
		return enrich.GeocodeResult{}, wrapError("reverse geocode", err)
	}
	if len(results) == 0 {
		return enrich.GeocodeResult{}, fmt.Errorf("reverse geocode: %w", enrich.ErrProviderEmpty)
	}

	best := results[0]
	components := make([]enrich.AddressComponent, 0, len(best.AddressComponents))
	for _, ac := range best.AddressComponents {
		components = append(components, enrich.AddressComponent{
			LongName:  ac.LongName,
			ShortName: ac.ShortName,
			Types:     ac.Types,
		})
	}
	return enrich.GeocodeResult{
		FormattedAddress:  best.FormattedAddress,
		Types:             best.Types,
		AddressComponents: components,
	}, nil
}

// Directions returns the driving directions of the first suggested route.
func (c *Client) Directions(ctx context.Context, origin, destination geo.Point) (enrich.DirectionsResult, error) {
	routes, _, err := c.maps.Directions(ctx, &maps.DirectionsRequest{
		Origin:      coordinateString(origin),
		Destination: coordinateString(destination),
		Mode:        maps.TravelModeDriving,
	})
	if err != nil {
		return enrich.DirectionsResult{}, wrapError("get directions", err)
	}
	if len(routes) == 0 {
		return enrich.DirectionsResult{}, fmt.Errorf("get directions: %w", enrich.ErrProviderEmpty)
	}

	route := routes[0]
	result := enrich.DirectionsResult{OverviewPolyline: route.OverviewPolyline.Points}
	for _, leg := range route.Legs {
		if leg == nil {
			continue
		}
		dl := enrich.DirectionsLeg{
			StartAddress:   leg.StartAddress,
			EndAddress:     leg.EndAddress,
			DistanceText:   leg.Distance.HumanReadable,
			DistanceMeters: leg.Distance.Meters,
		}
		for _, step := range leg.Steps {
			if step == nil {
				continue
			}
			dl.Steps = append(dl.Steps, enrich.DirectionsStep{
				Instruction:     step.HTMLInstructions,
				Maneuver:        step.Maneuver,
				DistanceMeters:  step.Distance.Meters,
				DurationSeconds: step.Duration.Seconds(),
				Start:           fromLatLng(step.StartLocation),
			})
		}
		result.Legs = append(result.Legs, dl)
	}
	return result, nil
}

// Elevations looks up every point in a single request. Samples come back in
// request order.
func (c *Client) Elevations(ctx context.Context, points []geo.Point) ([]enrich.ElevationSample, error) {
	if len(points) == 0 {
		return nil, nil
	}
	locations := make([]maps.LatLng, len(points))
	for i, p := range points {
		locations[i] = *latLng(p)
	}

	results, err := c.maps.Elevation(ctx, &maps.ElevationRequest{Locations: locations})
	if err != nil {
		return nil, wrapError("get elevations", err)
	}

	samples := make([]enrich.ElevationSample, 0, len(results))
	for i, r := range results {
		loc := fromLatLngPtr(r.Location)
		if r.Location == nil && i < len(points) {
			loc = points[i]
		}
		samples = append(samples, enrich.ElevationSample{Location: loc, ElevationM: r.Elevation})
	}
	return samples, nil
}

// NearbyPlaces searches for places of one type within 5 km. No matches is an
// empty list, not an error.
func (c *Client) NearbyPlaces(ctx context.Context, p geo.Point, placeType string) ([]enrich.Place, error) {
	resp, err := c.maps.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: latLng(p),
		Radius:   placesRadiusMeters,
		Type:     maps.PlaceType(placeType),
	})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return []enrich.Place{}, nil
		}
		return nil, wrapError("search nearby places", err)
	}

	places := make([]enrich.Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		loc := fromLatLng(r.Geometry.Location)
		places = append(places, enrich.Place{
			Name:     r.Name,
			Vicinity: r.Vicinity,
			Location: &loc,
		})
	}
	return places, nil
}

// wrapError maps Google status codes onto the provider sentinels.
func wrapError(op string, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "ZERO_RESULTS"):
		return fmt.Errorf("%s: %w", op, enrich.ErrProviderEmpty)
	case strings.Contains(msg, "OVER_QUERY_LIMIT"), strings.Contains(msg, "OVER_DAILY_LIMIT"):
		return fmt.Errorf("%s: rate limit exceeded: %w", op, enrich.ErrProviderUnavailable)
	case strings.Contains(msg, "REQUEST_DENIED"):
		return fmt.Errorf("%s: invalid API key: %w", op, enrich.ErrProviderUnavailable)
	case strings.Contains(msg, "INVALID_REQUEST"):
		return fmt.Errorf("%s: %w: %v", op, enrich.ErrMalformedInput, err)
	default:
		return fmt.Errorf("failed to %s: %w: %v", op, enrich.ErrProviderUnavailable, err)
	}
}

func latLng(p geo.Point) *maps.LatLng {
	return &maps.LatLng{Lat: p.Latitude, Lng: p.Longitude}
}

func fromLatLng(ll maps.LatLng) geo.Point {
	return geo.Point{Latitude: ll.Lat, Longitude: ll.Lng}
}

func fromLatLngPtr(ll *maps.LatLng) geo.Point {
	if ll == nil {
		return geo.Point{}
	}
	return fromLatLng(*ll)
}

func coordinateString(p geo.Point) string {
	return fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude)
}
