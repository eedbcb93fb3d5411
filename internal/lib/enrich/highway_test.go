package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/routeintel/server/internal/lib/geo"
)

func TestParseHighway(t *testing.T) {
	tests := []struct {
		instruction string
		name, kind  string
		ok          bool
	}{
		{"Merge onto <b>NH-48</b>", "NH-48", HighwayNational, true},
		{"Continue on SH-17 toward Mysore", "SH-17", HighwayState, true},
		{"Take the expressway exit", "Unknown Highway", HighwayState, true},
		{"Keep right to stay on NH-", "Unknown Highway", HighwayNational, true},
		{"Use the right lane to take the <b>Motorway</b>", "Unknown Highway", HighwayState, true},
		{"Turn left onto MG Road", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.instruction, func(t *testing.T) {
			name, kind, ok := ParseHighway(tt.instruction)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func highwayDirections() DirectionsResult {
	return DirectionsResult{Legs: []DirectionsLeg{{
		DistanceMeters: 30000,
		Steps: []DirectionsStep{
			{Instruction: "Head north", DistanceMeters: 1000, DurationSeconds: 60},
			{Instruction: "Merge onto NH-48", DistanceMeters: 20000, DurationSeconds: 900},
			{Instruction: "Continue onto <b>NH-48</b>", DistanceMeters: 5000, DurationSeconds: 300},
			{Instruction: "Take the exit onto SH-17", DistanceMeters: 4000, DurationSeconds: 240},
		},
	}}}
}

func TestIdentifyHighways(t *testing.T) {
	route := lineRoute(5)
	var gotOrigin, gotDest geo.Point
	e := newTestEnricher(WithDirections(directionsFunc(func(ctx context.Context, o, d geo.Point) (DirectionsResult, error) {
		gotOrigin, gotDest = o, d
		return highwayDirections(), nil
	})))

	analysis := e.IdentifyHighways(context.Background(), route, "50 km")

	assert.Equal(t, route[0], gotOrigin)
	assert.Equal(t, route[4], gotDest)

	require.Len(t, analysis.HighwaySegments, 3)
	seg := analysis.HighwaySegments[1]
	assert.Equal(t, "NH-48", seg.HighwayName)
	assert.Equal(t, 5.0, seg.DistanceKm)
	assert.Equal(t, 5.0, seg.DurationMinutes)
	assert.Equal(t, 21.0, seg.DistanceFromStart)

	assert.Equal(t, []MajorHighway{
		{Name: "NH-48", Type: HighwayNational, FirstEncounterDistance: 1},
		{Name: "SH-17", Type: HighwayState, FirstEncounterDistance: 26},
	}, analysis.MajorHighways)
	assert.Equal(t, 29.0, analysis.TotalHighwayDistance)
	assert.InDelta(t, 58, analysis.HighwayPercentage, 1e-9)
	assert.Empty(t, analysis.Error)
}

func TestIdentifyHighways_DistanceFromDirections(t *testing.T) {
	e := newTestEnricher(WithDirections(directionsFunc(func(ctx context.Context, o, d geo.Point) (DirectionsResult, error) {
		return highwayDirections(), nil
	})))

	analysis := e.IdentifyHighways(context.Background(), lineRoute(3), "")
	assert.Equal(t, "30.0 km", analysis.RouteDistance)
	assert.InDelta(t, 29.0/30*100, analysis.HighwayPercentage, 1e-9)
}

func TestIdentifyHighways_Failures(t *testing.T) {
	e := newTestEnricher(WithDirections(directionsFunc(func(ctx context.Context, o, d geo.Point) (DirectionsResult, error) {
		return DirectionsResult{}, errors.New("zero results")
	})))

	analysis := e.IdentifyHighways(context.Background(), lineRoute(3), "10 km")
	assert.Empty(t, analysis.HighwaySegments)
	assert.Empty(t, analysis.MajorHighways)
	assert.Equal(t, 0.0, analysis.HighwayPercentage)
	assert.Equal(t, "zero results", analysis.Error)

	single := e.IdentifyHighways(context.Background(), lineRoute(1), "10 km")
	assert.Empty(t, single.Error)
	assert.Empty(t, single.HighwaySegments)
}

func TestHighwayPercentage_UnparseableDistance(t *testing.T) {
	assert.Equal(t, 0.0, highwayPercentage(12, "far away"))
	assert.Equal(t, 0.0, highwayPercentage(12, "0 km"))
}
