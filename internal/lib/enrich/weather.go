package enrich

import (
	"context"
	"time"

	"github.com/dpup/routeintel/server/internal/lib/classify"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

const readingsPerWeatherPass = 5

var (
	extremeHeatRecommendations = []string{
		"Check vehicle cooling system before travel",
		"Carry extra water and electrolytes",
		"Avoid travel during peak afternoon hours (12 PM - 4 PM)",
		"Monitor engine temperature closely",
		"Take frequent breaks in shaded areas",
	}

	fogSafetyMeasures = []string{
		"Use fog lights, not high beams",
		"Reduce speed significantly",
		"Increase following distance",
		"Use road markings for guidance",
		"Pull over safely if visibility is too poor",
	}

	seasonConcerns = map[string][]string{
		"winter":  {"Fog", "Poor visibility", "Cold weather"},
		"spring":  {"Dust storms", "Variable temperatures"},
		"summer":  {"Extreme heat", "Vehicle overheating", "Tire bursts"},
		"monsoon": {"Heavy rainfall", "Flooding", "Landslides", "Poor visibility"},
	}

	seasonAlerts = map[string]string{
		"summer":  "SUMMER ALERT: Plan extra cooling measures for extreme heat",
		"monsoon": "MONSOON ALERT: Monitor flood warnings and have evacuation plan",
		"winter":  "WINTER ALERT: Prepare for fog and low visibility conditions",
	}
)

// SeasonalCondition is the typical weather of one season along the route.
type SeasonalCondition struct {
	Season               string   `json:"season"`
	AverageTemperature   float64  `json:"average_temperature"`
	AverageHumidity      float64  `json:"average_humidity"`
	AveragePrecipitation float64  `json:"average_precipitation"`
	Readings             int      `json:"readings"`
	RiskAssessment       string   `json:"risk_assessment"`
	ExtremeWeatherEvents []string `json:"extreme_weather_events"`
}

// CalendarMonth is one entry of the month-by-month risk calendar.
type CalendarMonth struct {
	Month           string   `json:"month"`
	Season          string   `json:"season"`
	RiskLevel       string   `json:"risk_level"`
	PrimaryConcerns []string `json:"primary_concerns"`
}

// SeasonalConditions summarizes road conditions across the year.
type SeasonalConditions struct {
	Seasons         []SeasonalCondition `json:"seasonal_risks"`
	RiskCalendar    []CalendarMonth     `json:"risk_calendar"`
	Recommendations []string            `json:"seasonal_recommendations"`
	Error           string              `json:"error,omitempty"`
}

// TemperatureHotspot is a point with extreme heat.
type TemperatureHotspot struct {
	Location        geo.Point `json:"location"`
	MaxTemperature  float64   `json:"max_temperature"`
	RiskLevel       string    `json:"risk_level"`
	Recommendations []string  `json:"recommendations"`
}

// OverheatingZone is a point hot enough to stress engines and tires.
type OverheatingZone struct {
	Location    geo.Point `json:"location"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	RiskFactors []string  `json:"risk_factors"`
}

// SummerRisks summarizes heat exposure.
type SummerRisks struct {
	TemperatureHotspots []TemperatureHotspot `json:"temperature_hotspots"`
	OverheatingZones    []OverheatingZone    `json:"overheating_zones"`
	Recommendations     []string             `json:"summer_recommendations"`
	Error               string               `json:"error,omitempty"`
}

// FloodZone is a point at high risk of flooding.
type FloodZone struct {
	Location        geo.Point `json:"location"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	ElevationM      float64   `json:"elevation_m"`
	RiskLevel       string    `json:"risk_level"`
	SafetyMeasures  []string  `json:"safety_measures"`
}

// LandslideZone is a hilly point at risk of landslides.
type LandslideZone struct {
	Location        geo.Point `json:"location"`
	ElevationM      float64   `json:"elevation_m"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	RiskLevel       string    `json:"risk_level"`
	SafetyMeasures  []string  `json:"safety_measures"`
}

// MonsoonRisks summarizes rain exposure.
type MonsoonRisks struct {
	FloodProneAreas []FloodZone     `json:"flood_prone_areas"`
	LandslideZones  []LandslideZone `json:"landslide_zones"`
	Recommendations []string        `json:"monsoon_recommendations"`
	Error           string          `json:"error,omitempty"`
}

// FogZone is a point where fog is likely.
type FogZone struct {
	Location         geo.Point `json:"location"`
	Temperature      float64   `json:"temperature"`
	Humidity         float64   `json:"humidity"`
	VisibilityMeters float64   `json:"visibility_meters"`
	RiskLevel        string    `json:"risk_level"`
	SafetyMeasures   []string  `json:"safety_measures"`
}

// VisibilityRisk is a point with poor visibility.
type VisibilityRisk struct {
	Location         geo.Point `json:"location"`
	VisibilityMeters float64   `json:"visibility_meters"`
	RiskLevel        string    `json:"risk_level"`
	SafetyMeasures   []string  `json:"safety_measures"`
}

// WinterRisks summarizes fog and visibility exposure.
type WinterRisks struct {
	FogZones        []FogZone        `json:"fog_zones"`
	VisibilityRisks []VisibilityRisk `json:"visibility_risks"`
	Recommendations []string         `json:"winter_recommendations"`
	Error           string           `json:"error,omitempty"`
}

// seasonReadings fetches up to five readings for a season from the sampled
// route. The error is the last failure when no reading succeeded.
func (e *Enricher) seasonReadings(ctx context.Context, pass string, route geo.Route, season string) ([]WeatherReading, error) {
	sampled := geo.Sample(route, e.targets.Weather)
	sampled = sampled[:min(len(sampled), readingsPerWeatherPass)]

	readings := make([]WeatherReading, 0, len(sampled))
	var lastErr error
	for i, p := range sampled {
		if ctx.Err() != nil {
			break
		}
		r, err := e.seasonalWeather(ctx, p, season)
		if err != nil {
			lastErr = err
			skip(ctx, pass, i, err)
			continue
		}
		r.Location = p
		readings = append(readings, r)
	}
	if len(readings) > 0 {
		lastErr = nil
	}
	return readings, lastErr
}

// AnalyzeSeasonalConditions averages the weather of every season and builds
// a month-by-month risk calendar.
func (e *Enricher) AnalyzeSeasonalConditions(ctx context.Context, route geo.Route) SeasonalConditions {
	defer timePass("seasonal_conditions")()

	conditions := SeasonalConditions{Seasons: []SeasonalCondition{}}
	var lastErr error
	succeeded := 0
	for _, season := range classify.Seasons {
		readings, err := e.seasonReadings(ctx, "seasonal_conditions", route, season)
		if err != nil {
			lastErr = err
		}
		if len(readings) > 0 {
			succeeded++
		}
		conditions.Seasons = append(conditions.Seasons, SummarizeSeason(season, readings))
	}

	conditions.RiskCalendar = RiskCalendar(conditions.Seasons)

	var specific []string
	for _, s := range conditions.Seasons {
		if alert, ok := seasonAlerts[s.Season]; ok && s.RiskAssessment == classify.RiskHigh {
			specific = append(specific, alert)
		}
	}
	conditions.Recommendations = Recommendations(specific,
		"Monitor weather forecasts before departure",
		"Adjust travel plans based on seasonal risks",
		"Carry season-appropriate emergency supplies",
		"Plan alternate routes during high-risk periods",
	)

	if succeeded == 0 && lastErr != nil {
		conditions.Error = providerNote(lastErr)
	}
	return conditions
}

// SummarizeSeason averages readings and grades the season.
func SummarizeSeason(season string, readings []WeatherReading) SeasonalCondition {
	sc := SeasonalCondition{
		Season:               season,
		Readings:             len(readings),
		RiskAssessment:       classify.RiskLow,
		ExtremeWeatherEvents: []string{},
	}
	if len(readings) > 0 {
		n := float64(len(readings))
		for _, r := range readings {
			sc.AverageTemperature += r.TemperatureC
			sc.AverageHumidity += r.Humidity
			sc.AveragePrecipitation += r.PrecipitationMM
		}
		sc.AverageTemperature = round2(sc.AverageTemperature / n)
		sc.AverageHumidity = round2(sc.AverageHumidity / n)
		sc.AveragePrecipitation = round2(sc.AveragePrecipitation / n)
	}

	switch season {
	case "summer":
		if sc.AverageTemperature > 40 {
			sc.RiskAssessment = classify.RiskHigh
			sc.ExtremeWeatherEvents = append(sc.ExtremeWeatherEvents, "Extreme heat waves")
		}
	case "monsoon":
		sc.RiskAssessment = classify.RiskModerate
		if sc.AveragePrecipitation > 100 {
			sc.RiskAssessment = classify.RiskHigh
		}
		sc.ExtremeWeatherEvents = append(sc.ExtremeWeatherEvents, "Heavy rainfall")
	case "winter":
		if len(readings) > 0 {
			fog := classify.FogRisk(sc.AverageHumidity, sc.AverageTemperature)
			if fog == classify.RiskHigh || fog == classify.RiskExtreme {
				sc.RiskAssessment = classify.RiskHigh
				sc.ExtremeWeatherEvents = append(sc.ExtremeWeatherEvents, "Dense fog")
			}
		}
	}
	return sc
}

// RiskCalendar maps each month to its season's risk level and concerns.
func RiskCalendar(seasons []SeasonalCondition) []CalendarMonth {
	risk := make(map[string]string, len(seasons))
	for _, s := range seasons {
		risk[s.Season] = s.RiskAssessment
	}

	calendar := make([]CalendarMonth, 0, 12)
	for m := time.January; m <= time.December; m++ {
		season := classify.CalendarSeason(m)
		level := risk[season]
		if level == "" {
			level = classify.RiskLow
		}
		calendar = append(calendar, CalendarMonth{
			Month:           m.String(),
			Season:          season,
			RiskLevel:       level,
			PrimaryConcerns: seasonConcerns[season],
		})
	}
	return calendar
}

// AnalyzeSummerRisks finds heat hotspots and overheating zones.
func (e *Enricher) AnalyzeSummerRisks(ctx context.Context, route geo.Route) SummerRisks {
	defer timePass("summer")()

	readings, err := e.seasonReadings(ctx, "summer", route, "summer")
	risks := SummerRiskReadings(readings)
	risks.Error = providerNote(err)
	return risks
}

// SummerRiskReadings grades summer readings.
func SummerRiskReadings(readings []WeatherReading) SummerRisks {
	risks := SummerRisks{
		TemperatureHotspots: []TemperatureHotspot{},
		OverheatingZones:    []OverheatingZone{},
	}
	for _, r := range readings {
		if r.TemperatureC > 42 {
			risks.TemperatureHotspots = append(risks.TemperatureHotspots, TemperatureHotspot{
				Location:        r.Location,
				MaxTemperature:  r.TemperatureC,
				RiskLevel:       classify.RiskExtreme,
				Recommendations: extremeHeatRecommendations,
			})
		}
		if r.TemperatureC > 38 {
			risks.OverheatingZones = append(risks.OverheatingZones, OverheatingZone{
				Location:    r.Location,
				Temperature: r.TemperatureC,
				Humidity:    r.Humidity,
				RiskFactors: overheatingFactors(r.TemperatureC, r.Humidity),
			})
		}
	}

	var alerts []string
	if len(risks.TemperatureHotspots) > 2 {
		alerts = []string{
			"EXTREME HEAT ALERT: Multiple hotspots detected on route",
			"Consider night travel during extreme heat wave periods",
			"Carry emergency water supplies (minimum 10 liters)",
		}
	}
	risks.Recommendations = Recommendations(alerts,
		"Start travel early morning (5-7 AM) to avoid peak heat",
		"Check tire pressure and condition before travel",
		"Carry extra coolant and engine oil",
		"Plan stops every 2 hours in shaded areas",
	)
	return risks
}

func overheatingFactors(temp, humidity float64) []string {
	factors := []string{}
	if temp > 42 {
		factors = append(factors, "Extreme temperature - high engine stress")
	}
	if humidity > 70 {
		factors = append(factors, "High humidity - reduced cooling efficiency")
	}
	if temp > 38 && humidity > 60 {
		factors = append(factors, "Combined heat-humidity stress")
	}
	return factors
}

// AnalyzeMonsoonRisks finds flood-prone and landslide-prone points.
func (e *Enricher) AnalyzeMonsoonRisks(ctx context.Context, route geo.Route) MonsoonRisks {
	defer timePass("monsoon")()

	readings, err := e.seasonReadings(ctx, "monsoon", route, "monsoon")
	risks := MonsoonRiskReadings(readings)
	risks.Error = providerNote(err)
	return risks
}

// MonsoonRiskReadings grades monsoon readings. Heavy-rain points become flood
// zones at high or extreme risk; wet hill points become landslide zones at
// high or extreme risk.
func MonsoonRiskReadings(readings []WeatherReading) MonsoonRisks {
	risks := MonsoonRisks{
		FloodProneAreas: []FloodZone{},
		LandslideZones:  []LandslideZone{},
	}
	for _, r := range readings {
		if r.PrecipitationMM > 100 {
			level := classify.FloodRisk(r.PrecipitationMM, r.ElevationM)
			if level == classify.RiskHigh || level == classify.RiskExtreme {
				risks.FloodProneAreas = append(risks.FloodProneAreas, FloodZone{
					Location:        r.Location,
					PrecipitationMM: r.PrecipitationMM,
					ElevationM:      r.ElevationM,
					RiskLevel:       level,
					SafetyMeasures:  floodMeasures(level),
				})
			}
		}
		if r.ElevationM > 500 && r.PrecipitationMM > 50 {
			level := classify.LandslideRisk(r.ElevationM, r.PrecipitationMM)
			if level == classify.RiskHigh || level == classify.RiskExtreme {
				risks.LandslideZones = append(risks.LandslideZones, LandslideZone{
					Location:        r.Location,
					ElevationM:      r.ElevationM,
					PrecipitationMM: r.PrecipitationMM,
					RiskLevel:       level,
					SafetyMeasures:  landslideMeasures(level),
				})
			}
		}
	}

	var alerts []string
	if len(risks.FloodProneAreas) > 1 {
		alerts = append(alerts, "FLOOD ALERT: Multiple flood-prone areas on route - consider alternate path")
	}
	if len(risks.LandslideZones) > 0 {
		alerts = append(alerts, "LANDSLIDE ALERT: Hilly areas with landslide risk - travel during daylight only")
	}
	risks.Recommendations = Recommendations(alerts,
		"Monitor rainfall forecasts and flood warnings",
		"Carry emergency supplies including food, water, and phone charger",
		"Avoid travel during heavy rainfall warnings",
		"Keep emergency contact numbers ready",
	)
	return risks
}

func floodMeasures(level string) []string {
	switch level {
	case classify.RiskExtreme:
		return []string{
			"AVOID TRAVEL - Extreme flood risk",
			"If caught in flood, abandon vehicle and seek high ground",
			"Never drive through flowing water",
		}
	case classify.RiskHigh:
		return []string{
			"Monitor flood warnings continuously",
			"Avoid low-lying areas and underpasses",
			"Keep emergency supplies and communication ready",
		}
	default:
		return []string{
			"Stay alert for water accumulation",
			"Drive slowly through puddles",
			"Avoid standing water",
		}
	}
}

func landslideMeasures(level string) []string {
	measures := []string{
		"Watch for falling rocks and debris",
		"Avoid parking near steep slopes",
		"Listen for rumbling sounds",
	}
	if level == classify.RiskHigh || level == classify.RiskExtreme {
		measures = append(measures,
			"Consider alternate route if possible",
			"Travel during daylight hours only",
			"Inform authorities of travel plans")
	}
	return measures
}

// AnalyzeWinterRisks finds fog zones and poor-visibility points.
func (e *Enricher) AnalyzeWinterRisks(ctx context.Context, route geo.Route) WinterRisks {
	defer timePass("winter")()

	readings, err := e.seasonReadings(ctx, "winter", route, "winter")
	risks := WinterRiskReadings(readings)
	risks.Error = providerNote(err)
	return risks
}

// WinterRiskReadings grades winter readings.
func WinterRiskReadings(readings []WeatherReading) WinterRisks {
	risks := WinterRisks{
		FogZones:        []FogZone{},
		VisibilityRisks: []VisibilityRisk{},
	}
	for _, r := range readings {
		if r.Humidity > 80 && r.TemperatureC < 15 {
			risks.FogZones = append(risks.FogZones, FogZone{
				Location:         r.Location,
				Temperature:      r.TemperatureC,
				Humidity:         r.Humidity,
				VisibilityMeters: r.VisibilityM,
				RiskLevel:        classify.FogRisk(r.Humidity, r.TemperatureC),
				SafetyMeasures:   fogSafetyMeasures,
			})
		}
		if r.VisibilityM < 1000 {
			level := classify.RiskModerate
			if r.VisibilityM < 500 {
				level = classify.RiskHigh
			}
			risks.VisibilityRisks = append(risks.VisibilityRisks, VisibilityRisk{
				Location:         r.Location,
				VisibilityMeters: r.VisibilityM,
				RiskLevel:        level,
				SafetyMeasures:   visibilityMeasures(r.VisibilityM),
			})
		}
	}

	var alerts []string
	if len(risks.FogZones) > 2 {
		alerts = []string{
			"FOG ALERT: Multiple fog-prone areas detected",
			"Consider delaying travel during dense fog warnings",
			"Use GPS navigation as backup for poor visibility",
		}
	}
	risks.Recommendations = Recommendations(alerts,
		"Start travel after sunrise to avoid morning fog",
		"Use fog lights and maintain low speed in foggy conditions",
		"Keep windows slightly open to prevent fogging",
		"Carry warm clothing and emergency supplies",
	)
	return risks
}

func visibilityMeasures(visibility float64) []string {
	switch {
	case visibility < 50:
		return []string{"STOP - Do not drive", "Wait for visibility to improve"}
	case visibility < 200:
		return []string{"Drive very slowly", "Use hazard lights", "Follow road markings"}
	default:
		return []string{"Reduce speed", "Use headlights", "Stay alert"}
	}
}

// SeasonAdvisories are the alerts for the season of travel plus general
// precautions and emergency protocols.
type SeasonAdvisories struct {
	CurrentSeason        string              `json:"current_season"`
	CurrentSeasonAlerts  []string            `json:"current_season_alerts"`
	YearRoundPrecautions []string            `json:"year_round_precautions"`
	EmergencyProtocols   map[string][]string `json:"emergency_protocols"`
}

// BuildAdvisories picks the recommendations of the pass matching the season
// of at. Spring has no dedicated alerts.
func BuildAdvisories(at time.Time, summer SummerRisks, monsoon MonsoonRisks, winter WinterRisks) SeasonAdvisories {
	season := classify.SeasonForMonth(at.Month())
	adv := SeasonAdvisories{
		CurrentSeason:       season,
		CurrentSeasonAlerts: []string{},
		YearRoundPrecautions: []string{
			"Always check weather forecast before departure",
			"Carry emergency supplies appropriate for season",
			"Keep vehicle maintenance up to date",
			"Have emergency communication plan",
			"Know location of hospitals and service centers",
			"Keep fuel tank above half full",
			"Carry basic repair tools and spare tire",
			"Inform someone of your travel plans and expected arrival",
		},
		EmergencyProtocols: map[string][]string{
			"extreme_heat": {
				"Seek air-conditioned shelter immediately",
				"Drink water frequently, avoid alcohol",
				"Call 108 for medical emergency",
				"Pour water on vehicle engine if overheating",
			},
			"flood": {
				"Move to higher ground immediately",
				"Call 108 for rescue if trapped",
				"Do not drive through flowing water",
				"Wait for water to recede before continuing",
			},
			"fog": {
				"Pull over safely and turn on hazard lights",
				"Wait for fog to clear before continuing",
				"Use fog lights, not high beams",
				"Keep windows slightly open to prevent fogging",
			},
			"general": {
				"Emergency Services: 112",
				"Ambulance: 108",
				"Fire Services: 101",
				"Highway Patrol: 1033",
			},
		},
	}

	switch season {
	case "summer":
		adv.CurrentSeasonAlerts = summer.Recommendations
	case "monsoon":
		adv.CurrentSeasonAlerts = monsoon.Recommendations
	case "winter":
		adv.CurrentSeasonAlerts = winter.Recommendations
	}
	if adv.CurrentSeasonAlerts == nil {
		adv.CurrentSeasonAlerts = []string{}
	}
	return adv
}
