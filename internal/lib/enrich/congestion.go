package enrich

import (
	"context"
	"fmt"
	"slices"

	"github.com/dpup/routeintel/server/internal/lib/classify"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// TimePeriod is a named daily time window.
type TimePeriod struct {
	Name       string `json:"name"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Suggestion string `json:"-"`
}

// PeakPeriods are the windows evaluated for time-specific congestion.
var PeakPeriods = []TimePeriod{
	{Name: "morning", Start: "07:00", End: "10:00", Suggestion: "Avoid travel during 07:00-10:00 (morning peak hours)"},
	{Name: "evening", Start: "17:00", End: "20:00", Suggestion: "Avoid travel during 17:00-20:00 (evening peak hours)"},
	{Name: "night", Start: "22:00", End: "06:00", Suggestion: "Night travel (22:00-06:00) may have traffic restrictions"},
}

// CongestionSegment is the estimated traffic at one sample for one period.
type CongestionSegment struct {
	Location         string    `json:"location"`
	Coordinates      geo.Point `json:"coordinates"`
	TrafficLevel     string    `json:"traffic_level"`
	DelayMinutes     int       `json:"delay_minutes"`
	RecommendedSpeed string    `json:"recommended_speed"`
}

// PeriodCongestion is the congestion picture of one time window.
type PeriodCongestion struct {
	Period       string              `json:"period"`
	Window       string              `json:"time_window"`
	Segments     []CongestionSegment `json:"segments"`
	Distribution Distribution        `json:"traffic_distribution"`
}

// CongestionHotspot is a sample that is heavy in at least one period.
type CongestionHotspot struct {
	Location    string    `json:"location"`
	Coordinates geo.Point `json:"coordinates"`
	Periods     []string  `json:"periods"`
}

// CongestionAnalysis summarizes time-of-day congestion.
type CongestionAnalysis struct {
	Periods         []PeriodCongestion  `json:"time_periods"`
	Hotspots        []CongestionHotspot `json:"congestion_hotspots"`
	Recommendations []string            `json:"recommendations"`
	Error           string              `json:"error,omitempty"`
}

// AnalyzeCongestion estimates traffic at sampled points for each peak period.
func (e *Enricher) AnalyzeCongestion(ctx context.Context, route geo.Route) CongestionAnalysis {
	defer timePass("congestion")()

	analysis := CongestionAnalysis{
		Periods:  []PeriodCongestion{},
		Hotspots: []CongestionHotspot{},
	}
	sampled := geo.Sample(route, e.targets.Congestion)

	for _, period := range PeakPeriods {
		analysis.Periods = append(analysis.Periods, PeriodCongestion{
			Period:       period.Name,
			Window:       period.Start + "-" + period.End,
			Segments:     []CongestionSegment{},
			Distribution: NewDistribution(),
		})
	}

	var lastErr error
	var succeeded int

	// Sample-major: every period of one point is read before the next point.
	for i, p := range sampled {
		if ctx.Err() != nil {
			break
		}
		label := fmt.Sprintf("Segment %d", i+1)
		var congested []string
		for j, period := range PeakPeriods {
			reading, err := e.trafficFor(ctx, p, period.Name)
			if err != nil {
				lastErr = err
				skip(ctx, "congestion", i, err)
				continue
			}
			succeeded++

			pc := &analysis.Periods[j]
			pc.Segments = append(pc.Segments, CongestionSegment{
				Location:         label,
				Coordinates:      p,
				TrafficLevel:     reading.Level,
				DelayMinutes:     reading.DelayMinutes,
				RecommendedSpeed: reading.RecommendedSpeed,
			})
			pc.Distribution.Add(reading.Level)

			if reading.Level == classify.TrafficHeavy || reading.Level == classify.TrafficSevere {
				congested = append(congested, period.Name)
			}
		}
		if len(congested) > 0 {
			analysis.Hotspots = append(analysis.Hotspots, CongestionHotspot{
				Location:    label,
				Coordinates: p,
				Periods:     congested,
			})
		}
	}

	var specific []string
	for i, pc := range analysis.Periods {
		if pc.Distribution.Exceeds(classify.TrafficHeavy, 50) {
			specific = append(specific, PeakPeriods[i].Suggestion)
		}
	}
	analysis.Recommendations = Recommendations(specific,
		"Plan extra 30-45 minutes during peak hours",
		"Monitor real-time traffic before departure",
		"Consider alternate routes during congestion")

	if succeeded == 0 && lastErr != nil {
		analysis.Error = providerNote(lastErr)
	}
	return analysis
}

// LocalityTrafficEstimator infers traffic from the kind of place a point is
// in: built-up localities are congested at peak times, everything else is
// light.
type LocalityTrafficEstimator struct {
	geocoder Geocoder
}

// NewLocalityTrafficEstimator creates an estimator backed by a reverse geocoder.
func NewLocalityTrafficEstimator(geocoder Geocoder) *LocalityTrafficEstimator {
	return &LocalityTrafficEstimator{geocoder: geocoder}
}

// TrafficFor implements TrafficEstimator.
func (l *LocalityTrafficEstimator) TrafficFor(ctx context.Context, p geo.Point, period string) (TrafficReading, error) {
	res, err := l.geocoder.ReverseGeocode(ctx, p)
	if err != nil {
		return TrafficReading{}, fmt.Errorf("failed to resolve locality: %w", err)
	}

	if slices.Contains(res.Types, "locality") || slices.Contains(res.Types, "sublocality") {
		if period == "night" {
			return TrafficReading{Level: classify.TrafficModerate, DelayMinutes: 5, RecommendedSpeed: "reduced"}, nil
		}
		return TrafficReading{Level: classify.TrafficHeavy, DelayMinutes: 15, RecommendedSpeed: "reduced"}, nil
	}
	return TrafficReading{Level: classify.TrafficLight, DelayMinutes: 0, RecommendedSpeed: "normal"}, nil
}
