package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTerrain(t *testing.T) {
	assert.Equal(t, TerrainRural, Terrain(nil))
	assert.Equal(t, TerrainRural, Terrain([]string{}))
	assert.Equal(t, TerrainRural, Terrain([]string{"route", "country"}))
	assert.Equal(t, TerrainUrban, Terrain([]string{"political", "locality"}))
	assert.Equal(t, TerrainUrban, Terrain([]string{"neighborhood"}))
	assert.Equal(t, TerrainSemiUrban, Terrain([]string{"administrative_area_level_3"}))

	// Urban indicators win over semi-urban ones
	assert.Equal(t, TerrainUrban, Terrain([]string{"sublocality_level_1", "sublocality"}))
}

func TestRouteTerrain(t *testing.T) {
	assert.Equal(t, RouteTerrainMixed, RouteTerrain(0, 0, 0))
	assert.Equal(t, RouteTerrainPredominantlyUrban, RouteTerrain(7, 2, 1))
	assert.Equal(t, RouteTerrainPredominantlyRural, RouteTerrain(1, 2, 7))
	assert.Equal(t, RouteTerrainMixedUrban, RouteTerrain(4, 3, 3))
	assert.Equal(t, RouteTerrainMixedRural, RouteTerrain(3, 3, 4))

	// Exactly 60% is not predominant
	assert.Equal(t, RouteTerrainMixedUrban, RouteTerrain(6, 4, 0))
	assert.Equal(t, RouteTerrainMixedRural, RouteTerrain(0, 4, 6))
}

func TestTurnRisk(t *testing.T) {
	assert.Equal(t, TurnRiskLevel{Label: "M", Color: "orange"}, TurnRisk(80.0))
	assert.Equal(t, TurnRiskLevel{Label: "H", Color: "red"}, TurnRisk(80.01))
	assert.Equal(t, TurnRiskLevel{Label: "L", Color: "yellow"}, TurnRisk(70.0))
	assert.Equal(t, TurnRiskLevel{Label: "M", Color: "orange"}, TurnRisk(70.5))
	assert.Equal(t, TurnRiskLevel{Label: "L", Color: "yellow"}, TurnRisk(0))
}

func TestTurnClass(t *testing.T) {
	assert.Equal(t, "EXTREME BLIND SPOT", TurnClass(90))
	assert.Equal(t, "HIGH-RISK BLIND SPOT", TurnClass(80))
	assert.Equal(t, "BLIND SPOT", TurnClass(75))
	assert.Equal(t, "HIGH-ANGLE TURN", TurnClass(60))
	assert.Equal(t, "SHARP TURN", TurnClass(45))
}

func TestGradient(t *testing.T) {
	_, ok := Gradient(50, 0)
	assert.False(t, ok, "zero distance delta carries no gradient")

	_, ok = Gradient(50, -0.5)
	assert.False(t, ok, "negative distance delta carries no gradient")

	g, ok := Gradient(50, 1)
	assert.True(t, ok)
	assert.InDelta(t, 5.0, g, 1e-9)
	assert.False(t, IsSignificantGradient(g), "exactly 5% is not significant")

	g, _ = Gradient(-60, 1)
	assert.InDelta(t, -6.0, g, 1e-9)
	assert.True(t, IsSignificantGradient(g))
	_, risky := GradientRisk(g)
	assert.False(t, risky)

	level, risky := GradientRisk(-9)
	assert.True(t, risky)
	assert.Equal(t, "MEDIUM", level)

	level, _ = GradientRisk(12)
	assert.Equal(t, "MEDIUM", level)

	level, _ = GradientRisk(12.5)
	assert.Equal(t, "HIGH", level)
}

func TestCongestion(t *testing.T) {
	assert.Equal(t, TrafficLight, Congestion(20))
	assert.Equal(t, TrafficModerate, Congestion(20.1))
	assert.Equal(t, TrafficHeavy, Congestion(41))
	assert.Equal(t, TrafficHeavy, Congestion(60))
	assert.Equal(t, TrafficSevere, Congestion(61))
}

func TestWeatherLadders(t *testing.T) {
	assert.Equal(t, RiskExtreme, FloodRisk(160, 50))
	assert.Equal(t, RiskModerate, FloodRisk(60, 300))
	assert.Equal(t, RiskHigh, FloodRisk(160, 150))
	assert.Equal(t, RiskModerate, FloodRisk(160, 500))
	assert.Equal(t, RiskLow, FloodRisk(50, 10))

	assert.Equal(t, RiskExtreme, LandslideRisk(1200, 120))
	assert.Equal(t, RiskHigh, LandslideRisk(1200, 80))
	assert.Equal(t, RiskModerate, LandslideRisk(400, 60))
	assert.Equal(t, RiskLow, LandslideRisk(200, 200))

	assert.Equal(t, RiskExtreme, FogRisk(95, 5))
	assert.Equal(t, RiskHigh, FogRisk(95, 12))
	assert.Equal(t, RiskModerate, FogRisk(75, 18))
	assert.Equal(t, RiskLow, FogRisk(95, 25))
}

func TestSeasons(t *testing.T) {
	assert.Equal(t, "winter", SeasonForMonth(time.January))
	assert.Equal(t, "spring", SeasonForMonth(time.April))
	assert.Equal(t, "monsoon", SeasonForMonth(time.July))
	assert.Equal(t, "summer", SeasonForMonth(time.October))

	assert.Equal(t, "winter", CalendarSeason(time.November))
	assert.Equal(t, "summer", CalendarSeason(time.May))
	assert.Equal(t, "monsoon", CalendarSeason(time.June))
}
