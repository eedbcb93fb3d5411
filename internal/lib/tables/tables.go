// Package tables builds printable coordinate tables for a route.
package tables

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/geo"
	"github.com/dpup/routeintel/server/internal/lib/poi"
)

const (
	mainTableRows = 50
	poisPerType   = 5
	poiNameRunes  = 30
	poiPlaceRunes = 40
	unknownDanger = "Unknown"
	slowTurnSpeed = "15-20 km/h"
	turnSpeed     = "25-30 km/h"
	slowTurnAngle = 80.0
)

// Describer names the place at a point.
type Describer interface {
	LocationDescription(ctx context.Context, p geo.Point) string
}

// MainRow is one sampled route point.
type MainRow struct {
	PointNumber         int     `json:"point_number"`
	Latitude            string  `json:"latitude"`
	Longitude           string  `json:"longitude"`
	CoordinatesDMS      string  `json:"coordinates_dms"`
	DistanceFromStart   float64 `json:"distance_from_start"`
	LocationDescription string  `json:"location_description"`
}

// CriticalRow is one sharp turn.
type CriticalRow struct {
	TurnNumber       int    `json:"turn_number"`
	Latitude         string `json:"latitude"`
	Longitude        string `json:"longitude"`
	TurnAngle        string `json:"turn_angle"`
	DangerLevel      string `json:"danger_level"`
	RecommendedSpeed string `json:"recommended_speed"`
}

// POIRow is one point of interest.
type POIRow struct {
	POINumber int    `json:"poi_number"`
	POIType   string `json:"poi_type"`
	Name      string `json:"name"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Location  string `json:"location"`
}

// RiskRow is one located hazard from the elevation or weather passes.
type RiskRow struct {
	RiskNumber int    `json:"risk_number"`
	RiskType   string `json:"risk_type"`
	RiskLevel  string `json:"risk_level"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`
	Detail     string `json:"detail"`
}

// Tables are the four printable tables of a route.
type Tables struct {
	Main     []MainRow     `json:"main_route_table"`
	Critical []CriticalRow `json:"critical_points_table"`
	POIs     []POIRow      `json:"poi_coordinates_table"`
	Risks    []RiskRow     `json:"risk_points_table"`
}

// Input carries the pass results the tables are built from.
type Input struct {
	Route      geo.Route
	Turns      []enrich.SharpTurn
	POIs       enrich.POIAnalysis
	RiskPoints []enrich.ElevationRiskPoint
	Summer     enrich.SummerRisks
	Monsoon    enrich.MonsoonRisks
	Winter     enrich.WinterRisks
}

// Build assembles every table. describer may be nil, in which case every
// location is "Unknown Location".
func Build(ctx context.Context, in Input, describer Describer) Tables {
	return Tables{
		Main:     MainTable(ctx, in.Route, describer),
		Critical: CriticalTable(in.Turns),
		POIs:     POITable(in.POIs, in.Route),
		Risks:    RiskTable(in),
	}
}

// MainTable samples at most 50 route points.
func MainTable(ctx context.Context, route geo.Route, describer Describer) []MainRow {
	sampled := geo.Sample(route, mainTableRows)
	sampled = sampled[:min(len(sampled), mainTableRows)]

	rows := make([]MainRow, 0, len(sampled))
	for i, p := range sampled {
		desc := "Unknown Location"
		if describer != nil && ctx.Err() == nil {
			desc = describer.LocationDescription(ctx, p)
		}
		rows = append(rows, MainRow{
			PointNumber:         i + 1,
			Latitude:            fmt.Sprintf("%.6f", p.Latitude),
			Longitude:           fmt.Sprintf("%.6f", p.Longitude),
			CoordinatesDMS:      geo.ToDMS(p.Latitude, p.Longitude),
			DistanceFromStart:   roundKm(geo.DistanceFromStart(p, route)),
			LocationDescription: desc,
		})
	}
	return rows
}

// CriticalTable lists every turn in the order given.
func CriticalTable(turns []enrich.SharpTurn) []CriticalRow {
	rows := make([]CriticalRow, 0, len(turns))
	for i, t := range turns {
		danger := t.Classification
		if danger == "" {
			danger = unknownDanger
		}
		speed := turnSpeed
		if t.Angle > slowTurnAngle {
			speed = slowTurnSpeed
		}
		rows = append(rows, CriticalRow{
			TurnNumber:       i + 1,
			Latitude:         fmt.Sprintf("%.6f", t.Location.Latitude),
			Longitude:        fmt.Sprintf("%.6f", t.Location.Longitude),
			TurnAngle:        fmt.Sprintf("%.1f°", t.Angle),
			DangerLevel:      danger,
			RecommendedSpeed: speed,
		})
	}
	return rows
}

// POITable lists up to five places per category, numbered across categories.
func POITable(pois enrich.POIAnalysis, route geo.Route) []POIRow {
	title := cases.Title(language.English)
	rows := []POIRow{}
	for _, c := range enrich.POICategories {
		places := pois[c.Name]
		for _, p := range places[:min(len(places), poisPerType)] {
			loc := poi.Locate(p.Name, p.Location, route)
			rows = append(rows, POIRow{
				POINumber: len(rows) + 1,
				POIType:   title.String(strings.ReplaceAll(c.Name, "_", " ")),
				Name:      truncate(p.Name, poiNameRunes),
				Latitude:  fmt.Sprintf("%.6f", loc.Latitude),
				Longitude: fmt.Sprintf("%.6f", loc.Longitude),
				Location:  truncate(p.Vicinity, poiPlaceRunes),
			})
		}
	}
	return rows
}

// RiskTable lists located hazards: steep gradients, then flood, landslide,
// fog, poor visibility and extreme heat points.
func RiskTable(in Input) []RiskRow {
	rows := []RiskRow{}
	add := func(kind, level string, p geo.Point, detail string) {
		rows = append(rows, RiskRow{
			RiskNumber: len(rows) + 1,
			RiskType:   kind,
			RiskLevel:  level,
			Latitude:   fmt.Sprintf("%.6f", p.Latitude),
			Longitude:  fmt.Sprintf("%.6f", p.Longitude),
			Detail:     detail,
		})
	}

	for _, r := range in.RiskPoints {
		add(r.RiskType, r.RiskLevel, r.Coordinates, fmt.Sprintf("%.1f%% gradient at %.0f m", r.GradientPercent, r.ElevationM))
	}
	for _, f := range in.Monsoon.FloodProneAreas {
		add("flood", f.RiskLevel, f.Location, fmt.Sprintf("%.0f mm rain at %.0f m", f.PrecipitationMM, f.ElevationM))
	}
	for _, l := range in.Monsoon.LandslideZones {
		add("landslide", l.RiskLevel, l.Location, fmt.Sprintf("%.0f mm rain at %.0f m", l.PrecipitationMM, l.ElevationM))
	}
	for _, f := range in.Winter.FogZones {
		add("fog", f.RiskLevel, f.Location, fmt.Sprintf("%.0f%% humidity at %.1f°C", f.Humidity, f.Temperature))
	}
	for _, v := range in.Winter.VisibilityRisks {
		add("visibility", v.RiskLevel, v.Location, fmt.Sprintf("%.0f m visibility", v.VisibilityMeters))
	}
	for _, h := range in.Summer.TemperatureHotspots {
		add("extreme_heat", h.RiskLevel, h.Location, fmt.Sprintf("%.1f°C", h.MaxTemperature))
	}
	return rows
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
