package enrich

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/routeintel/server/internal/lib/classify"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

func TestAnalyzeCongestion(t *testing.T) {
	e := newTestEnricher(WithTrafficEstimator(trafficFunc(func(ctx context.Context, p geo.Point, period string) (TrafficReading, error) {
		i := indexOf(p)
		switch {
		case period == "night" && i == 0:
			return TrafficReading{}, errors.New("timeout")
		case period == "morning" && i < 6:
			return TrafficReading{Level: classify.TrafficHeavy, DelayMinutes: 15, RecommendedSpeed: "reduced"}, nil
		default:
			return TrafficReading{Level: classify.TrafficLight, RecommendedSpeed: "normal"}, nil
		}
	})))

	analysis := e.AnalyzeCongestion(context.Background(), lineRoute(10))

	require.Len(t, analysis.Periods, 3)
	morning := analysis.Periods[0]
	assert.Equal(t, "morning", morning.Period)
	assert.Equal(t, "07:00-10:00", morning.Window)
	require.Len(t, morning.Segments, 10)
	assert.Equal(t, "Segment 1", morning.Segments[0].Location)
	assert.Equal(t, 15, morning.Segments[0].DelayMinutes)
	assert.Equal(t, 6, morning.Distribution[classify.TrafficHeavy])

	assert.Len(t, analysis.Periods[2].Segments, 9, "failed night reading is skipped")

	require.Len(t, analysis.Hotspots, 6)
	for _, h := range analysis.Hotspots {
		assert.Equal(t, []string{"morning"}, h.Periods)
	}

	assert.Equal(t, []string{
		"Avoid travel during 07:00-10:00 (morning peak hours)",
		"Plan extra 30-45 minutes during peak hours",
		"Monitor real-time traffic before departure",
		"Consider alternate routes during congestion",
	}, analysis.Recommendations)
	assert.Empty(t, analysis.Error)
}

func TestAnalyzeCongestion_HalfHeavyIsNotEnough(t *testing.T) {
	e := newTestEnricher(WithTrafficEstimator(trafficFunc(func(ctx context.Context, p geo.Point, period string) (TrafficReading, error) {
		if indexOf(p)%2 == 0 {
			return TrafficReading{Level: classify.TrafficHeavy}, nil
		}
		return TrafficReading{Level: classify.TrafficLight}, nil
	})))

	analysis := e.AnalyzeCongestion(context.Background(), lineRoute(10))
	assert.Len(t, analysis.Recommendations, 3)
	require.Len(t, analysis.Hotspots, 5)
	assert.Equal(t, []string{"morning", "evening", "night"}, analysis.Hotspots[0].Periods)
}

func TestAnalyzeCongestion_CallOrder(t *testing.T) {
	var calls []string
	e := newTestEnricher(WithTrafficEstimator(trafficFunc(func(ctx context.Context, p geo.Point, period string) (TrafficReading, error) {
		calls = append(calls, fmt.Sprintf("%d:%s", indexOf(p), period))
		return TrafficReading{Level: classify.TrafficLight}, nil
	})))

	e.AnalyzeCongestion(context.Background(), lineRoute(2))
	assert.Equal(t, []string{
		"0:morning", "0:evening", "0:night",
		"1:morning", "1:evening", "1:night",
	}, calls)
}

func TestAnalyzeCongestion_NoEstimator(t *testing.T) {
	analysis := newTestEnricher().AnalyzeCongestion(context.Background(), lineRoute(4))
	assert.Len(t, analysis.Periods, 3)
	assert.Empty(t, analysis.Hotspots)
	assert.Equal(t, "provider not configured", analysis.Error)
	assert.Len(t, analysis.Recommendations, 3)
}

func TestLocalityTrafficEstimator(t *testing.T) {
	estimator := NewLocalityTrafficEstimator(geocoderFunc(func(ctx context.Context, p geo.Point) (GeocodeResult, error) {
		switch indexOf(p) {
		case 0:
			return GeocodeResult{Types: []string{"locality", "political"}}, nil
		case 1:
			return GeocodeResult{Types: []string{"route"}}, nil
		default:
			return GeocodeResult{}, errors.New("boom")
		}
	}))
	route := lineRoute(3)
	ctx := context.Background()

	reading, err := estimator.TrafficFor(ctx, route[0], "morning")
	require.NoError(t, err)
	assert.Equal(t, classify.TrafficHeavy, reading.Level)
	assert.Equal(t, 15, reading.DelayMinutes)

	reading, err = estimator.TrafficFor(ctx, route[0], "night")
	require.NoError(t, err)
	assert.Equal(t, classify.TrafficModerate, reading.Level)

	reading, err = estimator.TrafficFor(ctx, route[1], "evening")
	require.NoError(t, err)
	assert.Equal(t, classify.TrafficLight, reading.Level)
	assert.Equal(t, "normal", reading.RecommendedSpeed)

	_, err = estimator.TrafficFor(ctx, route[2], "morning")
	assert.ErrorContains(t, err, "failed to resolve locality")
}
