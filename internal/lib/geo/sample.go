package geo

// Sample picks every stride-th point of the route, starting at index 0, where
// stride = max(1, len(route)/target). A target of zero or less is treated as 1.
// A target at or above the route length returns the route unchanged.
func Sample(route Route, target int) Route {
	if target <= 0 {
		target = 1
	}
	if target >= len(route) {
		return route
	}

	stride := len(route) / target
	if stride < 1 {
		stride = 1
	}

	sampled := make(Route, 0, (len(route)+stride-1)/stride)
	for i := 0; i < len(route); i += stride {
		sampled = append(sampled, route[i])
	}
	return sampled
}

// Stride reports the step Sample uses for the given route length and target.
func Stride(length, target int) int {
	if target <= 0 {
		target = 1
	}
	if target >= length {
		return 1
	}
	return max(1, length/target)
}
