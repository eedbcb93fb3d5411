package enrich

import (
	"context"
	"strings"

	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// SupplyDetails describes the route origin.
type SupplyDetails struct {
	Coordinates       geo.Point          `json:"coordinates"`
	FormattedAddress  string             `json:"formatted_address"`
	PlaceName         string             `json:"place_name"`
	PlaceTypes        []string           `json:"place_types"`
	AddressComponents []AddressComponent `json:"address_components"`
}

// CustomerDetails describes the route destination.
type CustomerDetails struct {
	Coordinates       geo.Point          `json:"coordinates"`
	FormattedAddress  string             `json:"formatted_address"`
	CustomerName      string             `json:"customer_name"`
	PlaceTypes        []string           `json:"place_types"`
	AddressComponents []AddressComponent `json:"address_components"`
}

// EndpointDetails holds both ends of a route.
type EndpointDetails struct {
	Supply   SupplyDetails   `json:"supply"`
	Customer CustomerDetails `json:"customer"`
}

// DescribeEndpoints reverse-geocodes the first and last route points. A
// failed lookup leaves the address as "Unknown" with empty type lists.
func (e *Enricher) DescribeEndpoints(ctx context.Context, route geo.Route, supplyName, customerName string) EndpointDetails {
	defer timePass("endpoints")()

	var details EndpointDetails
	start, ok := route.Start()
	if !ok {
		return details
	}
	end, _ := route.End()

	details.Supply = SupplyDetails{
		Coordinates:       start,
		FormattedAddress:  "Unknown",
		PlaceName:         supplyName,
		PlaceTypes:        []string{},
		AddressComponents: []AddressComponent{},
	}
	if res, err := e.reverseGeocode(ctx, start); err != nil {
		skip(ctx, "endpoints", 0, err)
	} else {
		if res.FormattedAddress != "" {
			details.Supply.FormattedAddress = res.FormattedAddress
		}
		details.Supply.PlaceTypes = nonNil(res.Types)
		details.Supply.AddressComponents = nonNilComponents(res.AddressComponents)
		if details.Supply.PlaceName == "" && len(res.AddressComponents) > 0 {
			details.Supply.PlaceName = res.AddressComponents[0].LongName
		}
	}
	if details.Supply.PlaceName == "" {
		details.Supply.PlaceName = "Supply Location"
	}

	details.Customer = CustomerDetails{
		Coordinates:       end,
		FormattedAddress:  "Unknown",
		CustomerName:      customerName,
		PlaceTypes:        []string{},
		AddressComponents: []AddressComponent{},
	}
	if details.Customer.CustomerName == "" {
		details.Customer.CustomerName = "Customer Location"
	}
	if res, err := e.reverseGeocode(ctx, end); err != nil {
		skip(ctx, "endpoints", len(route)-1, err)
	} else {
		if res.FormattedAddress != "" {
			details.Customer.FormattedAddress = res.FormattedAddress
		}
		details.Customer.PlaceTypes = nonNil(res.Types)
		details.Customer.AddressComponents = nonNilComponents(res.AddressComponents)
	}

	return details
}

// LocationDescription returns the first comma-separated part of the point's
// address, or "Unknown Location" when it cannot be resolved.
func (e *Enricher) LocationDescription(ctx context.Context, p geo.Point) string {
	res, err := e.reverseGeocode(ctx, p)
	if err != nil {
		skip(ctx, "tables", 0, err)
		return "Unknown Location"
	}
	first, _, _ := strings.Cut(res.FormattedAddress, ",")
	if first = strings.TrimSpace(first); first == "" {
		return "Unknown Location"
	}
	return first
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilComponents(c []AddressComponent) []AddressComponent {
	if c == nil {
		return []AddressComponent{}
	}
	return c
}
