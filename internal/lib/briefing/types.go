// Package briefing turns the recommendation set of an enriched route into a
// short driver briefing written by an LLM.
package briefing

import (
	"context"
	"time"
)

// Input is the condensed view of an enriched route given to the narrator.
type Input struct {
	RouteName          string   `json:"route_name"`
	DistanceText       string   `json:"distance,omitempty"`
	SafetyScore        int      `json:"safety_score"`
	Terrain            string   `json:"terrain,omitempty"`
	ConstructionImpact string   `json:"construction_impact,omitempty"`
	Highlights         []string `json:"highlights,omitempty"`
	Recommendations    []string `json:"recommendations"`
}

// Briefing is the narrated summary of a route.
type Briefing struct {
	Headline        string    `json:"headline"`
	Summary         string    `json:"summary"`
	RiskLevel       string    `json:"risk_level"` // enum: low, moderate, high, severe
	TopRisks        []string  `json:"top_risks"`
	DriverChecklist []string  `json:"driver_checklist"`
	Model           string    `json:"model"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Narrator writes a briefing for a route.
type Narrator interface {
	Narrate(ctx context.Context, in Input) (Briefing, error)

	// Health check for AI service
	HealthCheck(ctx context.Context) error
}
