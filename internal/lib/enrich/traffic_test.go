package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/routeintel/server/internal/lib/classify"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

func TestAnalyzeSeasonalTraffic_Severe(t *testing.T) {
	var calls int
	e := newTestEnricher(WithFlow(flowFunc(func(ctx context.Context, p geo.Point) (FlowReading, error) {
		calls++
		return FlowReading{CurrentSpeed: 20, FreeFlowSpeed: 60}, nil
	})))

	analysis := e.AnalyzeSeasonalTraffic(context.Background(), lineRoute(50))

	assert.Equal(t, 20, calls, "five readings for each of four seasons")
	require.Len(t, analysis.Patterns, 4)
	for i, pattern := range analysis.Patterns {
		assert.Equal(t, classify.Seasons[i], pattern.Season)
		assert.InDelta(t, 66.67, pattern.AverageCongestion, 0.001)
		assert.Equal(t, classify.TrafficSevere, pattern.CongestionLevel)
		assert.Equal(t, 5, pattern.Readings)
		assert.Len(t, pattern.AffectedSegments, 5)
	}

	assert.ElementsMatch(t, []string{
		"December", "January", "February", "July", "August", "September",
	}, analysis.PeakCongestionMonths)
	require.Len(t, analysis.Recommendations, 7)
	assert.Contains(t, analysis.Recommendations, "MONSOON ALERT: Expect 40-60% longer travel times during July-August")
	assert.Contains(t, analysis.Recommendations, "WINTER PEAK: Plan extra time during December-January holiday season")
	assert.Equal(t, "Monitor monsoon forecasts for route adjustments", analysis.Recommendations[6])
}

func TestAnalyzeSeasonalTraffic_FailedReadingsCountAsFreeFlow(t *testing.T) {
	e := newTestEnricher(WithFlow(flowFunc(func(ctx context.Context, p geo.Point) (FlowReading, error) {
		if indexOf(p) == 0 {
			return FlowReading{}, errors.New("rate limit exceeded")
		}
		return FlowReading{CurrentSpeed: 20, FreeFlowSpeed: 60}, nil
	})))

	analysis := e.AnalyzeSeasonalTraffic(context.Background(), lineRoute(50))

	pattern := analysis.Patterns[0]
	assert.Equal(t, 4, pattern.Readings)
	assert.InDelta(t, 53.33, pattern.AverageCongestion, 0.001)
	assert.Equal(t, classify.TrafficHeavy, pattern.CongestionLevel)
	assert.Empty(t, analysis.Error)
}

func TestAnalyzeSeasonalTraffic_NoReadings(t *testing.T) {
	e := newTestEnricher(WithFlow(flowFunc(func(ctx context.Context, p geo.Point) (FlowReading, error) {
		return FlowReading{}, ErrProviderUnavailable
	})))

	analysis := e.AnalyzeSeasonalTraffic(context.Background(), lineRoute(20))

	for _, pattern := range analysis.Patterns {
		assert.Equal(t, "unknown", pattern.CongestionLevel)
		assert.Equal(t, 0.0, pattern.AverageCongestion)
	}
	assert.Empty(t, analysis.PeakCongestionMonths)
	assert.Len(t, analysis.Recommendations, 3)
	assert.Equal(t, ErrProviderUnavailable.Error(), analysis.Error)
}

func TestCongestionPercent(t *testing.T) {
	assert.Equal(t, 0.0, CongestionPercent(FlowReading{}))
	assert.InDelta(t, 50, CongestionPercent(FlowReading{CurrentSpeed: 30, FreeFlowSpeed: 60}), 1e-9)
	assert.InDelta(t, -16.67, CongestionPercent(FlowReading{CurrentSpeed: 70, FreeFlowSpeed: 60}), 0.01)
}
