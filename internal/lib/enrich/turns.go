package enrich

import (
	"sort"

	"github.com/dpup/routeintel/server/internal/lib/classify"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

const (
	minTurnAngle = 45.0
	maxTurns     = 50
)

// SharpTurn is a detected change of heading of at least 45 degrees.
type SharpTurn struct {
	Location       geo.Point `json:"location"`
	Angle          float64   `json:"angle"`
	Index          int       `json:"index"`
	Classification string    `json:"classification"`
}

// TurnAnalysis lists the sharpest turns and the route safety score.
type TurnAnalysis struct {
	Turns         []SharpTurn `json:"sharp_turns"`
	BlindSpots    int         `json:"blind_spots"`
	SharpDanger   int         `json:"sharp_danger_turns"`
	ModerateTurns int         `json:"moderate_turns"`
	SafetyScore   int         `json:"safety_score"`
}

// DetectSharpTurns samples the route and measures the heading change at every
// interior sample. Turns of 45 degrees or more are returned sharpest first,
// at most 50. Index is the position in the unsampled route.
func DetectSharpTurns(route geo.Route, target int) TurnAnalysis {
	analysis := TurnAnalysis{Turns: []SharpTurn{}}

	if len(route) >= 3 {
		sampled := geo.Sample(route, target)
		stride := geo.Stride(len(route), target)
		for i := 1; i < len(sampled)-1; i++ {
			angle := geo.TurnAngle(sampled[i-1], sampled[i], sampled[i+1])
			if angle < minTurnAngle {
				continue
			}
			angle = round2(angle)
			analysis.Turns = append(analysis.Turns, SharpTurn{
				Location:       sampled[i],
				Angle:          angle,
				Index:          i * stride,
				Classification: classify.TurnClass(angle),
			})
		}
		sort.SliceStable(analysis.Turns, func(a, b int) bool {
			return analysis.Turns[a].Angle > analysis.Turns[b].Angle
		})
		if len(analysis.Turns) > maxTurns {
			analysis.Turns = analysis.Turns[:maxTurns]
		}
	}

	for _, t := range analysis.Turns {
		switch {
		case t.Angle > 80:
			analysis.BlindSpots++
		case t.Angle >= 70:
			analysis.SharpDanger++
		default:
			analysis.ModerateTurns++
		}
	}
	analysis.SafetyScore = SafetyScore(analysis.BlindSpots, analysis.SharpDanger, analysis.ModerateTurns)
	return analysis
}

// SafetyScore starts at 100 and deducts 15 per blind spot, 10 per sharp
// danger turn and 5 per moderate turn, clamped to [0, 100].
func SafetyScore(blindSpots, sharpDanger, moderate int) int {
	score := 100 - 15*blindSpots - 10*sharpDanger - 5*moderate
	return max(0, min(100, score))
}
