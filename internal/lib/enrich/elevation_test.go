package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dpup/routeintel/server/internal/lib/geo"
)

func profile(pairs ...[2]float64) []ProfilePoint {
	out := make([]ProfilePoint, len(pairs))
	for i, p := range pairs {
		out[i] = ProfilePoint{
			Location:          geo.Point{Latitude: float64(i), Longitude: 0},
			DistanceFromStart: p[0],
			ElevationM:        p[1],
		}
	}
	return out
}

func TestGradientProfile_SkipsNonAdvancingPairs(t *testing.T) {
	// The first pair has no distance delta and carries no gradient; the
	// second climbs 50 m over 1 km, a 5% gradient that is not significant.
	analysis := GradientProfile(profile([2]float64{0, 100}, [2]float64{0, 150}, [2]float64{1, 200}))

	assert.Empty(t, analysis.AscentSegments)
	assert.Empty(t, analysis.DescentSegments)
	assert.Empty(t, analysis.RiskPoints)
	assert.Equal(t, GradientStatistics{}, analysis.Statistics)
}

func TestGradientProfile_SegmentsAndRisk(t *testing.T) {
	analysis := GradientProfile(profile(
		[2]float64{0, 0},
		[2]float64{1, 60},    // +6%: significant ascent, no risk
		[2]float64{1.1, 73},  // +13%: HIGH steep ascent
		[2]float64{1.2, 64},  // -9%: MEDIUM steep descent
		[2]float64{1.15, 10}, // distance went backwards: skipped
		[2]float64{2.15, 0},  // -1%: flat
	))

	require.Len(t, analysis.AscentSegments, 2)
	require.Len(t, analysis.DescentSegments, 1)
	require.Len(t, analysis.RiskPoints, 2)

	assert.Equal(t, SegmentAscent, analysis.AscentSegments[0].SegmentType)
	assert.InDelta(t, 6, analysis.AscentSegments[0].GradientPercent, 1e-9)
	assert.InDelta(t, 60, analysis.AscentSegments[0].ElevationChange, 1e-9)
	assert.InDelta(t, 1, analysis.AscentSegments[0].DistanceKm, 1e-9)

	high := analysis.RiskPoints[0]
	assert.Equal(t, "HIGH", high.RiskLevel)
	assert.Equal(t, RiskSteepAscent, high.RiskType)
	assert.Equal(t, 73.0, high.ElevationM)
	assert.Equal(t, geo.Point{Latitude: 2}, high.Coordinates)

	medium := analysis.RiskPoints[1]
	assert.Equal(t, "MEDIUM", medium.RiskLevel)
	assert.Equal(t, RiskSteepDescent, medium.RiskType)

	assert.InDelta(t, 13, analysis.Statistics.MaxAscentGradient, 1e-6)
	assert.InDelta(t, -9, analysis.Statistics.MaxDescentGradient, 1e-6)
	assert.InDelta(t, (6+13+9)/3.0, analysis.Statistics.AverageGradient, 1e-6)

	assert.Contains(t, analysis.Recommendations[0], "2 steep sections")
	assert.Equal(t, "Check brakes before hilly sections", analysis.Recommendations[len(analysis.Recommendations)-1])
}

func TestAnalyzeElevation_UsesOneBatch(t *testing.T) {
	route := lineRoute(250)
	m := new(MockElevation)
	m.On("Elevations", mock.Anything, mock.MatchedBy(func(points []geo.Point) bool {
		return len(points) == 125 && points[0] == route[0]
	})).Return([]ElevationSample{
		{Location: route[0], ElevationM: 100},
		{Location: route[100], ElevationM: 1100},
	}, nil).Once()

	e := newTestEnricher(WithElevation(m), WithSampleTargets(SampleTargets{Elevation: 100}))
	analysis := e.AnalyzeElevation(context.Background(), route)

	m.AssertExpectations(t)
	require.Len(t, analysis.Profile, 2)
	assert.InDelta(t, 11.12, analysis.Profile[1].DistanceFromStart, 0.01)
	require.Len(t, analysis.AscentSegments, 1)
	assert.InDelta(t, 1000/11.12/10, analysis.AscentSegments[0].GradientPercent, 0.01)
	assert.Len(t, analysis.RiskPoints, 1)
	assert.Empty(t, analysis.Error)
}

func TestAnalyzeElevation_ProviderFailure(t *testing.T) {
	m := new(MockElevation)
	m.On("Elevations", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	analysis := newTestEnricher(WithElevation(m)).AnalyzeElevation(context.Background(), lineRoute(10))
	assert.Empty(t, analysis.AscentSegments)
	assert.Empty(t, analysis.RiskPoints)
	assert.Equal(t, "boom", analysis.Error)
	assert.NotEmpty(t, analysis.Recommendations)
}

func TestAnalyzeElevation_NotConfigured(t *testing.T) {
	analysis := newTestEnricher().AnalyzeElevation(context.Background(), lineRoute(10))
	assert.Equal(t, "provider not configured", analysis.Error)

	empty := newTestEnricher().AnalyzeElevation(context.Background(), nil)
	assert.Empty(t, empty.Error)
	assert.Empty(t, empty.Profile)
}
