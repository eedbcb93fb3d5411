package mapviz

import (
	"github.com/dpup/routeintel/server/internal/lib/classify"
	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/geo"
	"github.com/dpup/routeintel/server/internal/lib/poi"
)

const (
	DefaultRiskMapSize = "640x640"
	LayersMapSize      = "800x600"

	riskMarkerCap      = 15
	layerTurnCap       = 10
	layerHospitalCap   = 5
	layerElevationCap  = 5
	riskPathStride     = 5
	layersPathStride   = 8
	layerTurnMinAngle  = 70.0
	layerTurnHighAngle = 80.0
)

// Composer builds static map requests signed with an API key.
type Composer struct {
	apiKey  string
	baseURL string
}

// NewComposer creates a composer for the Google Static Maps endpoint.
func NewComposer(apiKey string) *Composer {
	return &Composer{apiKey: apiKey, baseURL: StaticMapsURL}
}

// NewComposerWithBaseURL creates a composer for another endpoint.
func NewComposerWithBaseURL(apiKey, baseURL string) *Composer {
	return &Composer{apiKey: apiKey, baseURL: baseURL}
}

// header starts a request centered on the route mean. ok is false for an
// empty route.
func (c *Composer) header(route geo.Route, size string) (Request, bool) {
	center, ok := geo.Center(route)
	if !ok {
		return Request{}, false
	}
	req := Request{BaseURL: c.baseURL}
	req.Add("center", latLng(center))
	req.Add("zoom", "10")
	req.Add("size", size)
	req.Add("maptype", "roadmap")
	return req, true
}

// RiskMap draws the route and up to 15 turns colored by risk.
func (c *Composer) RiskMap(route geo.Route, turns []enrich.SharpTurn, size string) (Request, bool) {
	if size == "" {
		size = DefaultRiskMapSize
	}
	req, ok := c.header(route, size)
	if !ok {
		return Request{}, false
	}
	req.Add("path", pathParam(route, riskPathStride))

	for _, t := range turns[:min(len(turns), riskMarkerCap)] {
		risk := classify.TurnRisk(t.Angle)
		req.Add("markers", marker(risk.Color, risk.Label, t.Location))
	}

	req.Add("key", c.apiKey)
	return req, true
}

// LayersMap draws the route with three marker layers: risky turns among the
// first ten, up to five hospitals and up to five elevation samples.
// Hospitals without known coordinates are placed along the route.
func (c *Composer) LayersMap(route geo.Route, turns []enrich.SharpTurn, hospitals []enrich.POI, elevation []enrich.ProfilePoint) (Request, bool) {
	req, ok := c.header(route, LayersMapSize)
	if !ok {
		return Request{}, false
	}
	req.Add("path", pathParam(route, layersPathStride))

	for _, t := range turns[:min(len(turns), layerTurnCap)] {
		if t.Angle <= layerTurnMinAngle {
			continue
		}
		color := "orange"
		if t.Angle > layerTurnHighAngle {
			color = "red"
		}
		req.Add("markers", marker(color, "R", t.Location))
	}

	for _, h := range hospitals[:min(len(hospitals), layerHospitalCap)] {
		req.Add("markers", marker("blue", "H", poi.Locate(h.Name, h.Location, route)))
	}

	for _, e := range elevation[:min(len(elevation), layerElevationCap)] {
		if e.Location == (geo.Point{}) {
			continue
		}
		req.Add("markers", marker("brown", "E", e.Location))
	}

	req.Add("key", c.apiKey)
	return req, true
}
