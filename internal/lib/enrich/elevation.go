package enrich

import (
	"context"
	"fmt"

	"github.com/dpup/routeintel/server/internal/lib/classify"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

const (
	SegmentAscent  = "ascent"
	SegmentDescent = "descent"

	RiskSteepAscent  = "steep_ascent"
	RiskSteepDescent = "steep_descent"
)

// ProfilePoint is an elevation sample positioned along the route.
type ProfilePoint struct {
	Location          geo.Point `json:"location"`
	ElevationM        float64   `json:"elevation"`
	DistanceFromStart float64   `json:"distance_from_start"`
}

// ElevationSegment is a significant climb or descent between two samples.
type ElevationSegment struct {
	Start           geo.Point `json:"start_coordinates"`
	End             geo.Point `json:"end_coordinates"`
	ElevationChange float64   `json:"elevation_change"`
	GradientPercent float64   `json:"gradient_percent"`
	DistanceKm      float64   `json:"distance_km"`
	SegmentType     string    `json:"segment_type"`
}

// ElevationRiskPoint is a sample where the gradient into it is steep.
type ElevationRiskPoint struct {
	Coordinates     geo.Point `json:"coordinates"`
	RiskLevel       string    `json:"risk_level"`
	GradientPercent float64   `json:"gradient_percent"`
	ElevationM      float64   `json:"elevation_m"`
	RiskType        string    `json:"risk_type"`
}

// ElevationAnalysis summarizes climbs, descents and steep points.
type ElevationAnalysis struct {
	Profile         []ProfilePoint       `json:"elevation_profile"`
	AscentSegments  []ElevationSegment   `json:"ascent_segments"`
	DescentSegments []ElevationSegment   `json:"descent_segments"`
	RiskPoints      []ElevationRiskPoint `json:"risk_points"`
	Statistics      GradientStatistics   `json:"gradient_statistics"`
	Recommendations []string             `json:"recommendations"`
	Error           string               `json:"error,omitempty"`
}

// AnalyzeElevation fetches elevations for the sampled route in one batch and
// grades the gradient between consecutive samples.
func (e *Enricher) AnalyzeElevation(ctx context.Context, route geo.Route) ElevationAnalysis {
	defer timePass("elevation")()

	sampled := geo.Sample(route, e.targets.Elevation)
	if len(sampled) == 0 {
		return GradientProfile(nil)
	}

	samples, err := e.elevations(ctx, sampled)
	if err == nil && len(samples) == 0 {
		err = fmt.Errorf("no elevation samples: %w", ErrProviderEmpty)
	}
	if err != nil {
		skip(ctx, "elevation", 0, err)
		analysis := GradientProfile(nil)
		analysis.Error = providerNote(err)
		return analysis
	}

	profile := make([]ProfilePoint, len(samples))
	for i, s := range samples {
		profile[i] = ProfilePoint{
			Location:          s.Location,
			ElevationM:        s.ElevationM,
			DistanceFromStart: geo.DistanceFromStart(s.Location, route),
		}
	}
	return GradientProfile(profile)
}

// GradientProfile grades consecutive profile pairs. Pairs whose distance does
// not increase carry no gradient and are skipped.
func GradientProfile(profile []ProfilePoint) ElevationAnalysis {
	analysis := ElevationAnalysis{
		Profile:         profile,
		AscentSegments:  []ElevationSegment{},
		DescentSegments: []ElevationSegment{},
		RiskPoints:      []ElevationRiskPoint{},
	}
	if analysis.Profile == nil {
		analysis.Profile = []ProfilePoint{}
	}

	for i := 1; i < len(profile); i++ {
		prev, cur := profile[i-1], profile[i]
		elevDiff := cur.ElevationM - prev.ElevationM
		distDiff := cur.DistanceFromStart - prev.DistanceFromStart

		gradient, ok := classify.Gradient(elevDiff, distDiff)
		if !ok {
			continue
		}

		if classify.IsSignificantGradient(gradient) {
			seg := ElevationSegment{
				Start:           prev.Location,
				End:             cur.Location,
				ElevationChange: elevDiff,
				GradientPercent: gradient,
				DistanceKm:      distDiff,
			}
			if gradient > 0 {
				seg.SegmentType = SegmentAscent
				analysis.AscentSegments = append(analysis.AscentSegments, seg)
			} else {
				seg.SegmentType = SegmentDescent
				analysis.DescentSegments = append(analysis.DescentSegments, seg)
			}
		}

		if level, risky := classify.GradientRisk(gradient); risky {
			riskType := RiskSteepAscent
			if gradient < 0 {
				riskType = RiskSteepDescent
			}
			analysis.RiskPoints = append(analysis.RiskPoints, ElevationRiskPoint{
				Coordinates:     cur.Location,
				RiskLevel:       level,
				GradientPercent: gradient,
				ElevationM:      cur.ElevationM,
				RiskType:        riskType,
			})
		}
	}

	analysis.Statistics = gradientExtremes(analysis.AscentSegments, analysis.DescentSegments)

	var specific []string
	if n := len(analysis.RiskPoints); n > 0 {
		specific = append(specific,
			fmt.Sprintf("STEEP GRADIENT ALERT: %d steep sections detected", n),
			"Use lower gears on steep descents and avoid riding the brakes")
	}
	if analysis.Statistics.TotalAscentSegments > 0 {
		specific = append(specific, "Check engine cooling and load before long climbs")
	}
	analysis.Recommendations = Recommendations(specific,
		"Maintain safe following distance on gradients",
		"Check brakes before hilly sections")
	return analysis
}
