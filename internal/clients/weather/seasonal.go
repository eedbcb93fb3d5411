package weather

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// Visibility reported when no live reading is available.
const defaultVisibility = 10000

// seasonWindow is a span of whole months. yearOffset moves the start into an
// earlier year for seasons that wrap around January.
type seasonWindow struct {
	startMonth time.Month
	yearOffset int
	months     int
}

var seasonWindows = map[string]seasonWindow{
	"winter":  {startMonth: time.December, yearOffset: -1, months: 3},
	"spring":  {startMonth: time.March, months: 1},
	"summer":  {startMonth: time.April, months: 2},
	"monsoon": {startMonth: time.June, months: 4},
}

// SeasonalProvider derives typical seasonal weather from last year's archive
// and takes visibility from current conditions when a live client is set.
type SeasonalProvider struct {
	archive *ArchiveClient
	current *Client
	now     func() time.Time
}

var _ enrich.WeatherProvider = (*SeasonalProvider)(nil)

// NewSeasonalProvider composes the archive and optional live client.
func NewSeasonalProvider(archive *ArchiveClient, current *Client) *SeasonalProvider {
	return &SeasonalProvider{archive: archive, current: current, now: time.Now}
}

// Window returns the archive date range covering a season of the year before
// the reference time.
func Window(season string, ref time.Time) (time.Time, time.Time, error) {
	w, ok := seasonWindows[season]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown season %q: %w", season, enrich.ErrMalformedInput)
	}
	year := ref.Year() - 1 + w.yearOffset
	start := time.Date(year, w.startMonth, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, w.months, -1)
	return start, end, nil
}

// SeasonalWeather returns mean temperature and humidity, monthly average
// precipitation and ground elevation for the season at p.
func (s *SeasonalProvider) SeasonalWeather(ctx context.Context, p geo.Point, season string) (enrich.WeatherReading, error) {
	start, end, err := Window(season, s.now())
	if err != nil {
		return enrich.WeatherReading{}, err
	}

	summary, err := s.archive.Summarize(ctx, p, start, end)
	if err != nil {
		return enrich.WeatherReading{}, err
	}

	reading := enrich.WeatherReading{
		Location:        p,
		TemperatureC:    summary.MeanTemperatureC,
		Humidity:        summary.MeanHumidity,
		PrecipitationMM: summary.PrecipitationMM / float64(seasonWindows[season].months),
		ElevationM:      summary.ElevationM,
		VisibilityM:     defaultVisibility,
	}

	if s.current != nil {
		conditions, err := s.current.CurrentConditions(ctx, p)
		if err != nil {
			log.Printf("Visibility lookup failed at %.4f,%.4f, using default: %v", p.Latitude, p.Longitude, err)
		} else {
			reading.VisibilityM = conditions.VisibilityM
		}
	}
	return reading, nil
}
