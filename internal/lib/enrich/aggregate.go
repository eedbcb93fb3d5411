package enrich

import "math"

// Recommendations puts feature-specific lines ahead of a fixed general tail.
// The tail always appears, in order, at the end.
func Recommendations(specific []string, tail ...string) []string {
	out := make([]string, 0, len(specific)+len(tail))
	out = append(out, specific...)
	return append(out, tail...)
}

// Distribution counts annotations per category.
type Distribution map[string]int

// NewDistribution returns a distribution with every category present at zero.
func NewDistribution(categories ...string) Distribution {
	d := make(Distribution, len(categories))
	for _, c := range categories {
		d[c] = 0
	}
	return d
}

// Add counts one annotation of the category.
func (d Distribution) Add(category string) {
	d[category]++
}

// Total is the number of annotations counted.
func (d Distribution) Total() int {
	var total int
	for _, n := range d {
		total += n
	}
	return total
}

// Share returns the percentage of annotations in the category, 0 when empty.
func (d Distribution) Share(category string) float64 {
	total := d.Total()
	if total == 0 {
		return 0
	}
	return float64(d[category]) / float64(total) * 100
}

// Exceeds reports whether the category's share is strictly above pct.
func (d Distribution) Exceeds(category string, pct float64) bool {
	return d.Total() > 0 && d.Share(category) > pct
}

// GradientStatistics summarizes significant elevation segments.
type GradientStatistics struct {
	MaxAscentGradient    float64 `json:"max_ascent_gradient"`
	MaxDescentGradient   float64 `json:"max_descent_gradient"`
	AverageGradient      float64 `json:"average_gradient"`
	TotalAscentSegments  int     `json:"total_ascent_segments"`
	TotalDescentSegments int     `json:"total_descent_segments"`
}

// gradientExtremes computes the steepest ascent, the steepest descent (most
// negative) and the mean absolute gradient. Missing sides report 0.
func gradientExtremes(ascents, descents []ElevationSegment) GradientStatistics {
	stats := GradientStatistics{
		TotalAscentSegments:  len(ascents),
		TotalDescentSegments: len(descents),
	}

	var sumAbs float64
	for i, s := range ascents {
		if i == 0 || s.GradientPercent > stats.MaxAscentGradient {
			stats.MaxAscentGradient = s.GradientPercent
		}
		sumAbs += math.Abs(s.GradientPercent)
	}
	for i, s := range descents {
		if i == 0 || s.GradientPercent < stats.MaxDescentGradient {
			stats.MaxDescentGradient = s.GradientPercent
		}
		sumAbs += math.Abs(s.GradientPercent)
	}

	if n := len(ascents) + len(descents); n > 0 {
		stats.AverageGradient = sumAbs / float64(n)
	}
	return stats
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
