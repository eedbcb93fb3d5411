// Package mapviz composes static map requests and KML documents that show a
// route with its risk layers.
package mapviz

import (
	"strconv"
	"strings"

	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// StaticMapsURL is the Google Static Maps endpoint.
const StaticMapsURL = "https://maps.googleapis.com/maps/api/staticmap"

// Param is one query parameter. Keys may repeat.
type Param struct {
	Key   string
	Value string
}

// Request is an ordered static map request.
type Request struct {
	BaseURL string
	Params  []Param
}

// Add appends a parameter.
func (r *Request) Add(key, value string) {
	r.Params = append(r.Params, Param{Key: key, Value: value})
}

// Get returns the first value for key.
func (r Request) Get(key string) (string, bool) {
	for _, p := range r.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// All returns every value for key in order.
func (r Request) All(key string) []string {
	var values []string
	for _, p := range r.Params {
		if p.Key == key {
			values = append(values, p.Value)
		}
	}
	return values
}

// URL joins the base endpoint and the parameters in order. Values are not
// escaped; static map paths and markers use '|' and ':' literally.
func (r Request) URL() string {
	parts := make([]string, len(r.Params))
	for i, p := range r.Params {
		parts[i] = p.Key + "=" + p.Value
	}
	return r.BaseURL + "?" + strings.Join(parts, "&")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func latLng(p geo.Point) string {
	return formatFloat(p.Latitude) + "," + formatFloat(p.Longitude)
}

// pathParam draws every stride-th point as a blue line.
func pathParam(route geo.Route, stride int) string {
	var b strings.Builder
	b.WriteString("color:0x0000ff|weight:3")
	for i := 0; i < len(route); i += stride {
		b.WriteString("|")
		b.WriteString(latLng(route[i]))
	}
	return b.String()
}

func marker(color, label string, p geo.Point) string {
	return "color:" + color + "|label:" + label + "|" + latLng(p)
}
