package enrich

import (
	"context"
	"errors"

	"github.com/paulmach/orb"
)

// combinedIncidents merges incident lists from several providers.
type combinedIncidents []IncidentProvider

// CombineIncidents returns a provider listing the union of incidents from
// providers. It fails only when every provider fails. Nil providers are
// ignored, and with none left the result is nil.
func CombineIncidents(providers ...IncidentProvider) IncidentProvider {
	var c combinedIncidents
	for _, p := range providers {
		if p != nil {
			c = append(c, p)
		}
	}
	switch len(c) {
	case 0:
		return nil
	case 1:
		return c[0]
	}
	return c
}

func (c combinedIncidents) Incidents(ctx context.Context, bound orb.Bound) ([]Incident, error) {
	var (
		out  []Incident
		errs []error
	)
	for _, p := range c {
		incidents, err := p.Incidents(ctx, bound)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, incidents...)
	}
	if len(errs) == len(c) {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
