package enrich

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/routeintel/server/internal/lib/classify"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// indexOf recovers the position of a lineRoute point.
func indexOf(p geo.Point) int {
	return int(math.Round((p.Latitude - 12) / 0.001))
}

func TestClassifyTerrain(t *testing.T) {
	e := newTestEnricher(WithGeocoder(geocoderFunc(func(ctx context.Context, p geo.Point) (GeocodeResult, error) {
		switch i := indexOf(p); {
		case i < 7:
			return GeocodeResult{FormattedAddress: "Town", Types: []string{"locality", "political"}}, nil
		case i == 7:
			return GeocodeResult{}, errors.New("over query limit")
		default:
			return GeocodeResult{Types: []string{"route"}}, nil
		}
	})))

	analysis := e.ClassifyTerrain(context.Background(), lineRoute(10))

	require.Len(t, analysis.Segments, 9, "the failed sample is skipped")
	assert.Equal(t, 7, analysis.Distribution[classify.TerrainUrban])
	assert.Equal(t, 0, analysis.Distribution[classify.TerrainSemiUrban])
	assert.Equal(t, 2, analysis.Distribution[classify.TerrainRural])
	assert.Equal(t, classify.RouteTerrainPredominantlyUrban, analysis.OverallClassification)
	assert.Equal(t, "Google Roads API + Geocoding", analysis.ClassificationMethod)

	last := analysis.Segments[8]
	assert.Equal(t, 10, last.SegmentID)
	assert.Equal(t, "Unknown", last.FormattedAddress)
	assert.Equal(t, classify.TerrainRural, last.TerrainType)
	assert.InDelta(t, 1.0, last.DistanceFromStart, 0.01)

	assert.Len(t, analysis.Recommendations, 3)
	assert.Empty(t, analysis.Error)
}

func TestClassifyTerrain_SamplesAtMostTwenty(t *testing.T) {
	var calls int
	e := newTestEnricher(WithGeocoder(geocoderFunc(func(ctx context.Context, p geo.Point) (GeocodeResult, error) {
		calls++
		return GeocodeResult{}, nil
	})))

	analysis := e.ClassifyTerrain(context.Background(), lineRoute(400))
	assert.Equal(t, 20, calls)
	assert.Equal(t, classify.RouteTerrainPredominantlyRural, analysis.OverallClassification)
}

func TestClassifyTerrain_AllFailures(t *testing.T) {
	e := newTestEnricher(WithGeocoder(geocoderFunc(func(ctx context.Context, p geo.Point) (GeocodeResult, error) {
		return GeocodeResult{}, ErrProviderUnavailable
	})))

	analysis := e.ClassifyTerrain(context.Background(), lineRoute(5))
	assert.Empty(t, analysis.Segments)
	assert.Equal(t, classify.RouteTerrainMixed, analysis.OverallClassification)
	assert.Equal(t, ErrProviderUnavailable.Error(), analysis.Error)
	assert.Equal(t, []string{"Review the coordinate table for unfamiliar sections before departure"}, analysis.Recommendations)
}

func TestDescribeEndpoints(t *testing.T) {
	route := lineRoute(4)
	e := newTestEnricher(WithGeocoder(geocoderFunc(func(ctx context.Context, p geo.Point) (GeocodeResult, error) {
		if p == route[0] {
			return GeocodeResult{
				FormattedAddress: "Depot Rd, Bengaluru",
				Types:            []string{"street_address"},
				AddressComponents: []AddressComponent{
					{LongName: "Depot Road", ShortName: "Depot Rd", Types: []string{"route"}},
				},
			}, nil
		}
		return GeocodeResult{}, errors.New("timeout")
	})))

	details := e.DescribeEndpoints(context.Background(), route, "", "")

	assert.Equal(t, route[0], details.Supply.Coordinates)
	assert.Equal(t, "Depot Rd, Bengaluru", details.Supply.FormattedAddress)
	assert.Equal(t, "Depot Road", details.Supply.PlaceName)
	assert.Equal(t, []string{"street_address"}, details.Supply.PlaceTypes)

	assert.Equal(t, route[3], details.Customer.Coordinates)
	assert.Equal(t, "Unknown", details.Customer.FormattedAddress)
	assert.Equal(t, "Customer Location", details.Customer.CustomerName)
	assert.Empty(t, details.Customer.PlaceTypes)
	assert.NotNil(t, details.Customer.PlaceTypes)

	named := e.DescribeEndpoints(context.Background(), route, "Main Depot", "Acme Stores")
	assert.Equal(t, "Main Depot", named.Supply.PlaceName)
	assert.Equal(t, "Acme Stores", named.Customer.CustomerName)

	none := newTestEnricher().DescribeEndpoints(context.Background(), route, "", "")
	assert.Equal(t, "Supply Location", none.Supply.PlaceName)
}

func TestLocationDescription(t *testing.T) {
	e := newTestEnricher(WithGeocoder(geocoderFunc(func(ctx context.Context, p geo.Point) (GeocodeResult, error) {
		switch indexOf(p) {
		case 0:
			return GeocodeResult{FormattedAddress: "MG Road, Bengaluru, India"}, nil
		case 1:
			return GeocodeResult{}, nil
		default:
			return GeocodeResult{}, errors.New("denied")
		}
	})))
	route := lineRoute(3)

	assert.Equal(t, "MG Road", e.LocationDescription(context.Background(), route[0]))
	assert.Equal(t, "Unknown Location", e.LocationDescription(context.Background(), route[1]))
	assert.Equal(t, "Unknown Location", e.LocationDescription(context.Background(), route[2]))
}
