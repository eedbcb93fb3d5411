package traffic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/paulmach/orb"

	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// HereBaseURL is the public HERE Traffic endpoint.
const HereBaseURL = "https://traffic.ls.hereapi.com"

// HereClient lists construction and roadwork incidents from the HERE Traffic API.
type HereClient struct {
	apiKey     string
	httpClient HTTPDoer
	baseURL    string
}

var _ enrich.IncidentProvider = (*HereClient)(nil)

// NewHereClient creates a new HERE traffic client
func NewHereClient(apiKey string) *HereClient {
	return NewHereClientWithHTTPDoer(apiKey, HereBaseURL, defaultHTTPClient())
}

// NewHereClientWithHTTPDoer creates a HERE client with a custom HTTP doer (for testing)
func NewHereClientWithHTTPDoer(apiKey, baseURL string, doer HTTPDoer) *HereClient {
	return &HereClient{
		apiKey:     apiKey,
		httpClient: doer,
		baseURL:    baseURL,
	}
}

// Incidents returns construction-type incidents inside the bounding box.
func (c *HereClient) Incidents(ctx context.Context, bound orb.Bound) ([]enrich.Incident, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("bbox", fmt.Sprintf("%f,%f;%f,%f", bound.Min.Lat(), bound.Min.Lon(), bound.Max.Lat(), bound.Max.Lon()))
	params.Set("type", "construction,roadwork")
	params.Set("criticality", "major,minor")

	requestURL := fmt.Sprintf("%s/traffic/6.3/incidents?%s", c.baseURL, params.Encode())

	var response hereIncidentsResponse
	if err := getJSON(ctx, c.httpClient, requestURL, &response); err != nil {
		return nil, fmt.Errorf("traffic incidents: %w", err)
	}

	items := response.TrafficItems.TrafficItem
	incidents := make([]enrich.Incident, 0, len(items))
	for _, item := range items {
		incidents = append(incidents, item.toIncident())
	}
	return incidents, nil
}

type hereIncidentsResponse struct {
	TrafficItems struct {
		TrafficItem []hereTrafficItem `json:"TRAFFIC_ITEM"`
	} `json:"TRAFFIC_ITEMS"`
}

type hereTrafficItem struct {
	ID          hereText `json:"TRAFFIC_ITEM_ID"`
	TypeDesc    hereText `json:"TRAFFIC_ITEM_TYPE_DESC"`
	Description hereText `json:"TRAFFIC_ITEM_DESCRIPTION"`
	Criticality hereText `json:"CRITICALITY"`
	StartTime   string   `json:"START_TIME"`
	EndTime     string   `json:"END_TIME"`
	Location    struct {
		Geoloc struct {
			Origin struct {
				Latitude  float64 `json:"LATITUDE"`
				Longitude float64 `json:"LONGITUDE"`
			} `json:"ORIGIN"`
		} `json:"GEOLOC"`
		Defined struct {
			Origin struct {
				Roadway struct {
					Description hereText `json:"DESCRIPTION"`
				} `json:"ROADWAY"`
				Direction hereText `json:"DIRECTION"`
			} `json:"ORIGIN"`
		} `json:"DEFINED"`
	} `json:"LOCATION"`
}

func (item hereTrafficItem) toIncident() enrich.Incident {
	origin := item.Location.Geoloc.Origin
	defined := item.Location.Defined.Origin
	return enrich.Incident{
		ID:          string(item.ID),
		Type:        string(item.TypeDesc),
		Description: string(item.Description),
		Criticality: string(item.Criticality),
		StartTime:   item.StartTime,
		EndTime:     item.EndTime,
		RoadName:    string(defined.Roadway.Description),
		Direction:   string(defined.Direction),
		Location:    geo.Point{Latitude: origin.Latitude, Longitude: origin.Longitude},
	}
}

// hereText flattens the shapes HERE uses for text fields: a bare string or
// number, an object carrying content/value/description, or a list of those.
// Lists resolve to their first non-empty entry.
type hereText string

func (t *hereText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = hereText(s)
	case '[':
		var list []hereText
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		for _, item := range list {
			if item != "" {
				*t = item
				break
			}
		}
	case '{':
		var obj struct {
			Content     string `json:"content"`
			Value       string `json:"value"`
			Description string `json:"description"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		switch {
		case obj.Content != "":
			*t = hereText(obj.Content)
		case obj.Value != "":
			*t = hereText(obj.Value)
		default:
			*t = hereText(obj.Description)
		}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*t = hereText(n.String())
	}
	return nil
}
