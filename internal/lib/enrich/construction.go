package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dpup/routeintel/server/internal/lib/geo"
)

const (
	ZoneActive  = "active"
	ZonePlanned = "planned"
)

var constructionKeywords = []string{
	"construction", "roadwork", "maintenance", "repair",
	"bridge work", "resurfacing", "lane closure",
}

// Layouts accepted for incident start times.
var incidentTimeLayouts = []string{
	time.RFC3339,
	"01/02/2006 15:04:05",
	"2006-01-02 15:04:05",
}

// ZoneLocation places a construction zone on a road.
type ZoneLocation struct {
	Coordinates geo.Point `json:"coordinates"`
	RoadName    string    `json:"road_name"`
	Direction   string    `json:"direction"`
}

// ConstructionZone is an incident recognized as roadwork.
type ConstructionZone struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	StartTime   string       `json:"start_time"`
	EndTime     string       `json:"end_time"`
	Severity    string       `json:"severity"`
	Location    ZoneLocation `json:"location"`
	Impact      string       `json:"impact"`
}

// ImpactAssessment grades the combined effect of active zones.
type ImpactAssessment struct {
	OverallImpact             string `json:"overall_impact"`
	TotalZones                int    `json:"total_zones"`
	DelayEstimate             string `json:"delay_estimate"`
	AlternateRouteRecommended bool   `json:"alternate_route_recommended"`
}

// ConstructionAnalysis summarizes roadwork along a route.
type ConstructionAnalysis struct {
	ActiveZones     []ConstructionZone `json:"active_construction"`
	PlannedZones    []ConstructionZone `json:"planned_construction"`
	Impact          ImpactAssessment   `json:"impact_assessment"`
	Recommendations []string           `json:"recommendations"`
	Error           string             `json:"error,omitempty"`
}

// AnalyzeConstruction lists incidents in the route's bounding box and keeps
// the ones that describe roadwork.
func (e *Enricher) AnalyzeConstruction(ctx context.Context, route geo.Route) ConstructionAnalysis {
	defer timePass("construction")()

	analysis := ConstructionAnalysis{
		ActiveZones:  []ConstructionZone{},
		PlannedZones: []ConstructionZone{},
	}
	if len(route) == 0 {
		analysis.Impact = AssessImpact(0, 0)
		analysis.Recommendations = constructionRecommendations(analysis.Impact, 0)
		return analysis
	}

	incidents, err := e.incidentsIn(ctx, geo.Bounds(route))
	if err != nil {
		skip(ctx, "construction", 0, err)
		analysis.Error = providerNote(err)
	}

	now := e.now()
	corridor := geo.Sample(route, 200)
	utils := geo.NewGeoUtils()
	for _, inc := range incidents {
		if !IsConstruction(inc) {
			continue
		}
		if e.corridorMeters > 0 && inc.Location != (geo.Point{}) {
			d, err := utils.PointToRoute(inc.Location, corridor)
			if err == nil && d > e.corridorMeters {
				continue
			}
		}

		zone := zoneFromIncident(inc, now)
		if zone.Status == ZonePlanned {
			analysis.PlannedZones = append(analysis.PlannedZones, zone)
		} else {
			analysis.ActiveZones = append(analysis.ActiveZones, zone)
		}
	}

	analysis.Impact = AssessImpact(len(analysis.ActiveZones), len(analysis.PlannedZones))
	analysis.Recommendations = constructionRecommendations(analysis.Impact, len(analysis.ActiveZones))
	return analysis
}

// IsConstruction reports whether the incident type or description names roadwork.
func IsConstruction(inc Incident) bool {
	text := strings.ToLower(inc.Type + " " + inc.Description)
	for _, kw := range constructionKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ZoneStatus is planned when the start time parses and lies after now;
// anything else, including an unparseable time, is active.
func ZoneStatus(startTime string, now time.Time) string {
	for _, layout := range incidentTimeLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(startTime)); err == nil {
			if t.After(now) {
				return ZonePlanned
			}
			return ZoneActive
		}
	}
	return ZoneActive
}

// AssessImpact grades the effect of active zones on travel time.
func AssessImpact(active, planned int) ImpactAssessment {
	impact := "minimal"
	switch {
	case active > 3:
		impact = "severe"
	case active > 1:
		impact = "moderate"
	}
	return ImpactAssessment{
		OverallImpact:             impact,
		TotalZones:                active + planned,
		DelayEstimate:             fmt.Sprintf("%d-%d minutes", 15*active, 30*active),
		AlternateRouteRecommended: active > 2,
	}
}

func zoneFromIncident(inc Incident, now time.Time) ConstructionZone {
	severity := inc.Criticality
	if severity == "" {
		severity = "minor"
	}
	road := inc.RoadName
	if road == "" {
		road = "Unknown Road"
	}
	return ConstructionZone{
		ID:          inc.ID,
		Description: inc.Description,
		Status:      ZoneStatus(inc.StartTime, now),
		StartTime:   inc.StartTime,
		EndTime:     inc.EndTime,
		Severity:    severity,
		Location: ZoneLocation{
			Coordinates: inc.Location,
			RoadName:    road,
			Direction:   inc.Direction,
		},
		Impact: inc.Type,
	}
}

func constructionRecommendations(impact ImpactAssessment, active int) []string {
	var specific []string
	if active > 0 {
		specific = append(specific,
			fmt.Sprintf("CONSTRUCTION ALERT: %d active construction zones detected", active),
			"Reduce speed in construction areas (25-40 km/h)",
			"Maintain extra following distance",
			"Follow temporary traffic signals and flaggers")
	}
	if impact.AlternateRouteRecommended {
		specific = append(specific,
			"CONSIDER ALTERNATE ROUTE: Multiple construction zones may cause significant delays")
	}
	return Recommendations(specific,
		"Check local traffic updates for construction schedule changes",
		"Plan extra 20-30 minutes for construction delays",
		"Be patient and courteous in construction zones")
}
