package enrich

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/dpup/routeintel/server/internal/lib/geo"
)

const (
	HighwayNational = "National Highway"
	HighwayState    = "State Highway"

	unknownHighway = "Unknown Highway"
)

var (
	highwayKeywords = []string{"highway", "expressway", "nh-", "sh-", "freeway", "motorway"}
	htmlTag         = regexp.MustCompile(`<[^>]*>`)
)

// HighwaySegment is a directions step that travels on a major road.
type HighwaySegment struct {
	HighwayName       string  `json:"highway_name"`
	HighwayType       string  `json:"highway_type"`
	DistanceKm        float64 `json:"distance_km"`
	DurationMinutes   float64 `json:"duration_minutes"`
	DistanceFromStart float64 `json:"distance_from_start"`
	Instruction       string  `json:"instruction"`
}

// MajorHighway is a distinct highway and where the route first joins it.
type MajorHighway struct {
	Name                   string  `json:"name"`
	Type                   string  `json:"type"`
	FirstEncounterDistance float64 `json:"first_encounter_distance"`
}

// HighwayAnalysis summarizes major roads used by a route.
type HighwayAnalysis struct {
	MajorHighways        []MajorHighway   `json:"major_highways"`
	HighwaySegments      []HighwaySegment `json:"highway_segments"`
	TotalHighwayDistance float64          `json:"total_highway_distance"`
	HighwayPercentage    float64          `json:"highway_percentage"`
	RouteDistance        string           `json:"route_distance"`
	Error                string           `json:"error,omitempty"`
}

// IdentifyHighways requests directions between the route ends and picks the
// steps whose instructions name a highway. distanceText is the route's total
// distance as displayed (for example "245 km"); when empty the directions
// total is used.
func (e *Enricher) IdentifyHighways(ctx context.Context, route geo.Route, distanceText string) HighwayAnalysis {
	defer timePass("highways")()

	analysis := HighwayAnalysis{
		MajorHighways:   []MajorHighway{},
		HighwaySegments: []HighwaySegment{},
		RouteDistance:   distanceText,
	}
	if len(route) < 2 {
		return analysis
	}
	origin, _ := route.Start()
	destination, _ := route.End()

	res, err := e.directionsFor(ctx, origin, destination)
	if err != nil {
		skip(ctx, "highways", 0, err)
		analysis.Error = providerNote(err)
		return analysis
	}
	if len(res.Legs) == 0 {
		analysis.Error = providerNote(ErrProviderEmpty)
		return analysis
	}

	analysis.HighwaySegments = HighwaySegments(res.Legs)

	seen := make(map[string]bool)
	for _, seg := range analysis.HighwaySegments {
		analysis.TotalHighwayDistance += seg.DistanceKm
		if seen[seg.HighwayName] {
			continue
		}
		seen[seg.HighwayName] = true
		analysis.MajorHighways = append(analysis.MajorHighways, MajorHighway{
			Name:                   seg.HighwayName,
			Type:                   seg.HighwayType,
			FirstEncounterDistance: seg.DistanceFromStart,
		})
	}

	if analysis.RouteDistance == "" {
		analysis.RouteDistance = fmt.Sprintf("%.1f km", float64(res.TotalMeters())/1000)
	}
	analysis.HighwayPercentage = highwayPercentage(analysis.TotalHighwayDistance, analysis.RouteDistance)
	return analysis
}

// HighwaySegments walks every step of the legs, tracking distance from the
// start, and returns the steps that travel on a highway.
func HighwaySegments(legs []DirectionsLeg) []HighwaySegment {
	segments := []HighwaySegment{}
	var travelled float64
	for _, leg := range legs {
		for _, step := range leg.Steps {
			name, kind, ok := ParseHighway(step.Instruction)
			if ok {
				segments = append(segments, HighwaySegment{
					HighwayName:       name,
					HighwayType:       kind,
					DistanceKm:        float64(step.DistanceMeters) / 1000,
					DurationMinutes:   step.DurationSeconds / 60,
					DistanceFromStart: travelled,
					Instruction:       step.Instruction,
				})
			}
			travelled += float64(step.DistanceMeters) / 1000
		}
	}
	return segments
}

// ParseHighway extracts a highway name and type from a directions
// instruction. ok is false when no highway keyword appears. Instructions
// that mention a highway without a usable reference get "Unknown Highway".
func ParseHighway(instruction string) (name, kind string, ok bool) {
	text := strings.ToLower(html.UnescapeString(htmlTag.ReplaceAllString(instruction, "")))

	matched := false
	for _, kw := range highwayKeywords {
		if strings.Contains(text, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return "", "", false
	}

	kind = HighwayState
	if strings.Contains(text, "nh-") {
		kind = HighwayNational
	}

	name = unknownHighway
	switch {
	case strings.Contains(text, "nh-"):
		if ref := referenceAfter(text, "nh-"); ref != "" {
			name = "NH-" + ref
		}
	case strings.Contains(text, "sh-"):
		if ref := referenceAfter(text, "sh-"); ref != "" {
			name = "SH-" + ref
		}
	}
	return name, kind, true
}

func referenceAfter(text, prefix string) string {
	_, rest, _ := strings.Cut(text, prefix)
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

func highwayPercentage(highwayKm float64, routeDistance string) float64 {
	total := geo.ParseDistanceKm(routeDistance)
	if total <= 0 {
		return 0
	}
	return highwayKm / total * 100
}
