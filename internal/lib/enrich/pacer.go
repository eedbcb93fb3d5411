package enrich

import (
	"context"
	"math"

	"golang.org/x/time/rate"
)

// Pacer spaces provider calls with a token bucket. It is shared by every
// pass of an Enricher so concurrent passes respect one combined budget.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer allows perSecond calls per second with the given burst. A
// non-positive rate disables pacing.
func NewPacer(perSecond float64, burst int) *Pacer {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 || math.IsInf(perSecond, 1) {
		limit = rate.Inf
	}
	return &Pacer{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until the next call may proceed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}
