package briefing

import (
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"
)

// SystemPrompt instructs the model how to write a route briefing.
const SystemPrompt = `You are a road safety officer preparing drivers for a long-distance truck route.
You receive a JSON summary of an enriched route: its name, distance, safety score (0-100, higher is safer),
terrain, construction impact, notable highlights and the full list of recommendations produced by automated
analysis of terrain, elevation, traffic, construction, weather and sharp turns.

Instructions:
- Use only the facts in the input. Do not invent places, distances or hazards.
- Merge duplicate or overlapping recommendations.
- Order risks by how likely they are to cause an accident.
- Write for a driver, in plain language, without jargon.

Return valid JSON object with these exact fields:
- headline (string) – one line, max 100 chars, the single most important thing to know
- summary (string) – 2-4 sentences describing the route and its main hazards
- risk_level (enum) – "low" | "moderate" | "high" | "severe"
- top_risks (array of strings) – at most 5 hazards, most serious first
- driver_checklist (array of strings) – at most 8 concrete actions before and during the trip

Guidelines for risk_level:
• safety score below 40 or severe construction impact → at least "high"
• several monsoon flood or landslide zones → at least "high"
• otherwise judge from the number and seriousness of the recommendations`

// BriefingSchema defines the JSON schema for structured briefing output
var BriefingSchema = openai.ChatCompletionResponseFormatJSONSchema{
	Name:   "route_briefing",
	Strict: true,
	Schema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"headline": {
				"type": "string",
				"description": "Single most important thing to know, max 100 chars"
			},
			"summary": {
				"type": "string",
				"description": "2-4 sentence description of the route and its main hazards"
			},
			"risk_level": {
				"type": "string",
				"enum": ["low", "moderate", "high", "severe"],
				"description": "Overall risk of the route"
			},
			"top_risks": {
				"type": "array",
				"items": {"type": "string"},
				"description": "At most 5 hazards, most serious first"
			},
			"driver_checklist": {
				"type": "array",
				"items": {"type": "string"},
				"description": "At most 8 concrete driver actions"
			}
		},
		"required": ["headline", "summary", "risk_level", "top_risks", "driver_checklist"],
		"additionalProperties": false
	}`),
}
