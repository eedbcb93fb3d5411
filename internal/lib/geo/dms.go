package geo

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ToDMS renders a coordinate pair as degrees, minutes and seconds, for
// example 12°30'0.0"N, 77°30'0.0"E. Non-finite input falls back to a
// six-decimal representation.
func ToDMS(lat, lng float64) string {
	if !isFinite(lat) || !isFinite(lng) {
		return fmt.Sprintf("%.6f, %.6f", lat, lng)
	}

	latD, latM, latS := splitDMS(math.Abs(lat))
	lngD, lngM, lngS := splitDMS(math.Abs(lng))

	latDir := "N"
	if lat < 0 {
		latDir = "S"
	}
	lngDir := "E"
	if lng < 0 {
		lngDir = "W"
	}

	return fmt.Sprintf("%d°%d'%.1f\"%s, %d°%d'%.1f\"%s",
		latD, latM, latS, latDir, lngD, lngM, lngS, lngDir)
}

// splitDMS rounds to tenths of a second before splitting, so seconds never
// render as 60.0.
func splitDMS(dd float64) (int, int, float64) {
	tenths := int64(math.Round(dd * 36000))
	d := tenths / 36000
	m := tenths % 36000 / 600
	s := float64(tenths%600) / 10
	return int(d), int(m), s
}

var dmsPattern = regexp.MustCompile(`(\d+)°(\d+)'([\d.]+)"([NSEW])`)

// ParseDMS converts a string produced by ToDMS back to decimal degrees.
func ParseDMS(s string) (float64, float64, error) {
	matches := dmsPattern.FindAllStringSubmatch(s, -1)
	if len(matches) != 2 {
		return 0, 0, fmt.Errorf("expected 2 DMS components, found %d", len(matches))
	}

	var values [2]float64
	for i, m := range matches {
		d, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		secs, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid seconds %q: %w", m[3], err)
		}
		v := float64(d) + float64(mins)/60 + secs/3600
		if m[4] == "S" || m[4] == "W" {
			v = -v
		}
		values[i] = v
	}
	return values[0], values[1], nil
}

// ParseDistanceKm parses a human distance such as "1,234.5 km". Malformed
// input yields 0.
func ParseDistanceKm(text string) float64 {
	cleaned := strings.ToLower(text)
	cleaned = strings.ReplaceAll(cleaned, "km", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || !isFinite(v) {
		return 0
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
