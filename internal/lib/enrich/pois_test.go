package enrich

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/routeintel/server/internal/lib/geo"
)

func TestDiscoverPOIs(t *testing.T) {
	clinic := geo.Point{Latitude: 12.001, Longitude: 77.001}
	e := newTestEnricher(WithPlaces(placesFunc(func(ctx context.Context, p geo.Point, placeType string) ([]Place, error) {
		switch placeType {
		case "hospital":
			return []Place{
				{Name: "City Hospital", Vicinity: "MG Road", Location: &clinic},
				{Name: "City Hospital"},
				{},
				{Name: "Fourth Result"},
			}, nil
		case "gas_station":
			return nil, errors.New("over query limit")
		default:
			return []Place{{Name: fmt.Sprintf("%s %d", placeType, indexOf(p)), Vicinity: "Highway"}}, nil
		}
	})))

	pois := e.DiscoverPOIs(context.Background(), lineRoute(20))

	require.Len(t, pois, 4)
	assert.Equal(t, []POI{
		{Name: "City Hospital", Vicinity: "MG Road", Location: &clinic},
		{Name: "Unknown", Vicinity: "Unknown location"},
	}, pois["hospitals"])
	assert.NotNil(t, pois["petrol_bunks"])
	assert.Empty(t, pois["petrol_bunks"])
	assert.Equal(t, []string{"school 0", "school 4", "school 8", "school 12", "school 16"}, pois.Names("schools"))
	assert.Len(t, pois["food_stops"], 5)
}

func TestDiscoverPOIs_NoFinder(t *testing.T) {
	pois := newTestEnricher().DiscoverPOIs(context.Background(), lineRoute(20))
	for _, c := range POICategories {
		assert.NotNil(t, pois[c.Name])
		assert.Empty(t, pois[c.Name])
	}
	assert.Empty(t, pois.Names("hospitals"))
}
