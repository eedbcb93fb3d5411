// Package classify holds the ordered threshold ladders used to turn provider
// readings into discrete terrain, traffic and risk categories. Every ladder
// is evaluated top-down and the first matching rung wins, so rung order is
// part of each function's contract.
package classify

import (
	"math"
	"slices"
	"time"
)

// Terrain types
const (
	TerrainUrban     = "urban"
	TerrainSemiUrban = "semi_urban"
	TerrainRural     = "rural"
)

// Route-level terrain classifications
const (
	RouteTerrainMixed              = "mixed"
	RouteTerrainPredominantlyUrban = "predominantly_urban"
	RouteTerrainPredominantlyRural = "predominantly_rural"
	RouteTerrainMixedUrban         = "mixed_urban"
	RouteTerrainMixedRural         = "mixed_rural"
)

// Risk levels shared by the weather ladders
const (
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
	RiskExtreme  = "extreme"
)

// Traffic levels
const (
	TrafficLight    = "light"
	TrafficModerate = "moderate"
	TrafficHeavy    = "heavy"
	TrafficSevere   = "severe"
)

var (
	urbanIndicators     = []string{"locality", "sublocality", "neighborhood", "administrative_area_level_2"}
	semiUrbanIndicators = []string{"administrative_area_level_3", "sublocality_level_1"}
)

// Terrain maps geocoder place-type tags to a terrain type. Urban indicators
// are checked before semi-urban ones; anything else, including an empty
// list, is rural.
func Terrain(types []string) string {
	if containsAny(types, urbanIndicators) {
		return TerrainUrban
	}
	if containsAny(types, semiUrbanIndicators) {
		return TerrainSemiUrban
	}
	return TerrainRural
}

// RouteTerrain classifies a whole route from its per-sample terrain counts.
func RouteTerrain(urban, semiUrban, rural int) string {
	total := urban + semiUrban + rural
	if total == 0 {
		return RouteTerrainMixed
	}

	urbanPct := float64(urban) / float64(total) * 100
	ruralPct := float64(rural) / float64(total) * 100

	switch {
	case urbanPct > 60:
		return RouteTerrainPredominantlyUrban
	case ruralPct > 60:
		return RouteTerrainPredominantlyRural
	case urbanPct > 30:
		return RouteTerrainMixedUrban
	default:
		return RouteTerrainMixedRural
	}
}

// TurnRiskLevel is the marker styling for a turn.
type TurnRiskLevel struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// TurnRisk grades a turn angle in degrees.
func TurnRisk(angle float64) TurnRiskLevel {
	switch {
	case angle > 80:
		return TurnRiskLevel{Label: "H", Color: "red"}
	case angle > 70:
		return TurnRiskLevel{Label: "M", Color: "orange"}
	default:
		return TurnRiskLevel{Label: "L", Color: "yellow"}
	}
}

// TurnClass names a detected turn for printable reports.
func TurnClass(angle float64) string {
	switch {
	case angle >= 90:
		return "EXTREME BLIND SPOT"
	case angle >= 80:
		return "HIGH-RISK BLIND SPOT"
	case angle >= 70:
		return "BLIND SPOT"
	case angle >= 60:
		return "HIGH-ANGLE TURN"
	default:
		return "SHARP TURN"
	}
}

// Gradient returns the slope in percent between two elevation samples.
// The second result is false when the distance delta is not positive; such
// pairs carry no gradient at all rather than a zero gradient.
func Gradient(elevationDiffM, distanceDiffKm float64) (float64, bool) {
	if distanceDiffKm <= 0 {
		return 0, false
	}
	return (elevationDiffM / (distanceDiffKm * 1000)) * 100, true
}

// IsSignificantGradient reports whether a gradient counts as a notable ascent or descent.
func IsSignificantGradient(gradient float64) bool {
	return math.Abs(gradient) > 5
}

// GradientRisk returns HIGH or MEDIUM for steep gradients. The second result
// is false when the gradient is not steep enough to be a risk point.
func GradientRisk(gradient float64) (string, bool) {
	abs := math.Abs(gradient)
	switch {
	case abs > 12:
		return "HIGH", true
	case abs > 8:
		return "MEDIUM", true
	default:
		return "", false
	}
}

// Congestion maps a congestion percentage to a traffic level.
func Congestion(pct float64) string {
	switch {
	case pct > 60:
		return TrafficSevere
	case pct > 40:
		return TrafficHeavy
	case pct > 20:
		return TrafficModerate
	default:
		return TrafficLight
	}
}

// FloodRisk grades flooding from precipitation (mm) and elevation (m).
func FloodRisk(precipitationMM, elevationM float64) string {
	switch {
	case precipitationMM > 150 && elevationM < 100:
		return RiskExtreme
	case precipitationMM > 100 && elevationM < 200:
		return RiskHigh
	case precipitationMM > 50:
		return RiskModerate
	default:
		return RiskLow
	}
}

// LandslideRisk grades landslides from elevation (m) and precipitation (mm).
func LandslideRisk(elevationM, precipitationMM float64) string {
	switch {
	case elevationM > 1000 && precipitationMM > 100:
		return RiskExtreme
	case elevationM > 500 && precipitationMM > 75:
		return RiskHigh
	case elevationM > 300 && precipitationMM > 50:
		return RiskModerate
	default:
		return RiskLow
	}
}

// FogRisk grades fog formation from relative humidity (%) and temperature (°C).
func FogRisk(humidity, temperatureC float64) string {
	switch {
	case humidity > 90 && temperatureC < 10:
		return RiskExtreme
	case humidity > 80 && temperatureC < 15:
		return RiskHigh
	case humidity > 70 && temperatureC < 20:
		return RiskModerate
	default:
		return RiskLow
	}
}

// Seasons in evaluation order
var Seasons = []string{"winter", "spring", "summer", "monsoon"}

// SeasonForMonth returns the travel season used for current-season advisories.
func SeasonForMonth(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "monsoon"
	default:
		return "summer"
	}
}

// CalendarSeason is the season shown for a month in the risk calendar.
// It differs from SeasonForMonth for the shoulder months.
func CalendarSeason(month time.Month) string {
	switch month {
	case time.November, time.December, time.January, time.February:
		return "winter"
	case time.March, time.April:
		return "spring"
	case time.June, time.July, time.August:
		return "monsoon"
	default:
		return "summer"
	}
}

func containsAny(haystack, needles []string) bool {
	for _, n := range needles {
		if slices.Contains(haystack, n) {
			return true
		}
	}
	return false
}
