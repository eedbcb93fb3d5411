package enrich

import (
	"context"
	"slices"

	"github.com/dpup/routeintel/server/internal/lib/classify"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

const readingsPerSeason = 5

var seasonPeakMonths = map[string][]string{
	"winter":  {"December", "January", "February"},
	"monsoon": {"July", "August", "September"},
}

// SeasonalTraffic is the congestion estimate for one season.
type SeasonalTraffic struct {
	Season            string      `json:"season"`
	AverageCongestion float64     `json:"average_congestion"`
	CongestionLevel   string      `json:"congestion_level"`
	Readings          int         `json:"readings"`
	AffectedSegments  []geo.Point `json:"affected_segments"`
}

// SeasonalTrafficAnalysis summarizes congestion across seasons.
type SeasonalTrafficAnalysis struct {
	Patterns             []SeasonalTraffic `json:"seasonal_patterns"`
	PeakCongestionMonths []string          `json:"peak_congestion_months"`
	Recommendations      []string          `json:"recommendations"`
	Error                string            `json:"error,omitempty"`
}

// AnalyzeSeasonalTraffic reads traffic flow at sampled points for every
// season and grades the average slowdown against free flow.
func (e *Enricher) AnalyzeSeasonalTraffic(ctx context.Context, route geo.Route) SeasonalTrafficAnalysis {
	defer timePass("seasonal_traffic")()

	analysis := SeasonalTrafficAnalysis{
		Patterns:             []SeasonalTraffic{},
		PeakCongestionMonths: []string{},
	}
	sampled := geo.Sample(route, e.targets.SeasonalTraffic)
	readings := sampled[:min(len(sampled), readingsPerSeason)]

	var lastErr error
	for _, season := range classify.Seasons {
		pattern := SeasonalTraffic{Season: season, AffectedSegments: []geo.Point{}}

		var sum float64
		for i, p := range readings {
			if ctx.Err() != nil {
				break
			}
			flow, err := e.flowSegment(ctx, p)
			if err != nil {
				lastErr = err
				skip(ctx, "seasonal_traffic", i, err)
				continue
			}
			pct := CongestionPercent(flow)
			sum += pct
			pattern.Readings++
			if pct > 40 {
				pattern.AffectedSegments = append(pattern.AffectedSegments, p)
			}
		}

		// Failed readings count as free flow: the sum is averaged over every
		// point attempted.
		if pattern.Readings > 0 {
			pattern.AverageCongestion = round2(sum / float64(len(readings)))
			pattern.CongestionLevel = classify.Congestion(pattern.AverageCongestion)
		} else {
			pattern.CongestionLevel = "unknown"
		}
		analysis.Patterns = append(analysis.Patterns, pattern)

		if months, ok := seasonPeakMonths[season]; ok && pattern.AverageCongestion > 50 {
			for _, m := range months {
				if !slices.Contains(analysis.PeakCongestionMonths, m) {
					analysis.PeakCongestionMonths = append(analysis.PeakCongestionMonths, m)
				}
			}
		}
	}

	var specific []string
	peak := analysis.PeakCongestionMonths
	if slices.Contains(peak, "July") || slices.Contains(peak, "August") {
		specific = append(specific,
			"MONSOON ALERT: Expect 40-60% longer travel times during July-August",
			"Avoid travel during heavy rain warnings")
	}
	if slices.Contains(peak, "December") || slices.Contains(peak, "January") {
		specific = append(specific,
			"WINTER PEAK: Plan extra time during December-January holiday season",
			"Early morning travel (6-8 AM) recommended during winter months")
	}
	analysis.Recommendations = Recommendations(specific,
		"Check seasonal traffic updates before departure",
		"Plan alternate routes during festival seasons",
		"Monitor monsoon forecasts for route adjustments")

	if len(readings) > 0 && lastErr != nil && !anyReadings(analysis.Patterns) {
		analysis.Error = providerNote(lastErr)
	}
	return analysis
}

// CongestionPercent is the slowdown against free flow in percent. A zero
// free-flow speed means no slowdown.
func CongestionPercent(flow FlowReading) float64 {
	ratio := 1.0
	if flow.FreeFlowSpeed > 0 {
		ratio = flow.CurrentSpeed / flow.FreeFlowSpeed
	}
	return (1 - ratio) * 100
}

func anyReadings(patterns []SeasonalTraffic) bool {
	for _, p := range patterns {
		if p.Readings > 0 {
			return true
		}
	}
	return false
}
