// Command enrich-route enriches one route from the command line and writes
// the bundle as JSON, with optional workbook and KML exports.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/dpup/routeintel/server/internal/cache"
	"github.com/dpup/routeintel/server/internal/config"
	"github.com/dpup/routeintel/server/internal/lib/geo"
	"github.com/dpup/routeintel/server/internal/lib/tables"
	"github.com/dpup/routeintel/server/internal/services"
)

func main() {
	var (
		csvPath   = flag.String("csv", "", "Route CSV with lat,lng rows")
		polyline  = flag.String("polyline", "", "Encoded route polyline")
		originStr = flag.String("origin", "", "Origin coordinates (lat,lng), used with -dest")
		destStr   = flag.String("dest", "", "Destination coordinates (lat,lng)")
		supply    = flag.String("supply", "", "Supply location name")
		customer  = flag.String("customer", "", "Customer name")
		outPath   = flag.String("out", "", "Write the JSON bundle here instead of stdout")
		xlsxPath  = flag.String("xlsx", "", "Also write the tables workbook here")
		kmlPath   = flag.String("kml", "", "Also write the route KML here")
		timeout   = flag.Duration("timeout", 15*time.Minute, "Overall enrichment timeout")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Route Enrichment Tool\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nAPI keys are read from the environment or a .env file:\n")
		fmt.Printf("  GOOGLE_API_KEY (required), TOMTOM_API_KEY, HERE_API_KEY,\n")
		fmt.Printf("  OPENWEATHER_API_KEY, OPENAI_API_KEY, INCIDENT_FEED_URL\n")
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -csv=route.csv -supply=Depot -customer=Store -xlsx=route.xlsx\n", os.Args[0])
		fmt.Printf("  %s -origin=\"12.9716,77.5946\" -dest=\"12.2958,76.6394\" -kml=route.kml\n", os.Args[0])
		return
	}

	// A missing .env file is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	cfg := configFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration:\n%v", err)
	}

	req := services.EnrichRequest{
		Polyline:     *polyline,
		SupplyName:   *supply,
		CustomerName: *customer,
	}
	if *csvPath != "" {
		route, err := readRoute(*csvPath)
		if err != nil {
			log.Fatalf("Failed to read route: %v", err)
		}
		req.Route = route
	}
	if *originStr != "" || *destStr != "" {
		origin, err := parsePoint(*originStr)
		if err != nil {
			log.Fatalf("Invalid origin coordinates: %v", err)
		}
		dest, err := parsePoint(*destStr)
		if err != nil {
			log.Fatalf("Invalid destination coordinates: %v", err)
		}
		req.Origin, req.Destination = &origin, &dest
	}

	components, err := services.BuildPipeline(cfg, cache.NewCache())
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}
	reports := cache.NewMemoryReportStore(cache.NewCache(), cfg.Cache.ReportTTL)
	svc := services.NewEnrichmentService(components.Pipeline, components.Directions, reports)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	b, err := svc.Enrich(ctx, req)
	if err != nil {
		log.Fatalf("Enrichment failed: %v", err)
	}

	if err := writeTo(*outPath, os.Stdout, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}); err != nil {
		log.Fatalf("Failed to write bundle: %v", err)
	}
	if *xlsxPath != "" {
		if err := writeTo(*xlsxPath, nil, func(w io.Writer) error { return tables.WriteXLSX(w, b.Tables) }); err != nil {
			log.Fatalf("Failed to write workbook: %v", err)
		}
		log.Printf("Wrote tables to %s", *xlsxPath)
	}
	if *kmlPath != "" {
		if err := writeTo(*kmlPath, nil, b.WriteKML); err != nil {
			log.Fatalf("Failed to write KML: %v", err)
		}
		log.Printf("Wrote KML to %s", *kmlPath)
	}
}

// configFromEnv builds a one-shot configuration: no monitored routes, keys
// from the environment.
func configFromEnv() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Monitor.Routes = nil
	cfg.Providers.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	cfg.Providers.TomTomAPIKey = os.Getenv("TOMTOM_API_KEY")
	cfg.Providers.HereAPIKey = os.Getenv("HERE_API_KEY")
	cfg.Providers.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.Briefing.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if feed := os.Getenv("INCIDENT_FEED_URL"); feed != "" {
		cfg.Providers.IncidentFeeds = []string{feed}
	}
	return cfg
}

func readRoute(path string) (geo.Route, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return geo.ReadCSV(f)
}

func parsePoint(s string) (geo.Point, error) {
	var lat, lng float64
	if _, err := fmt.Sscanf(s, "%f,%f", &lat, &lng); err != nil {
		return geo.Point{}, err
	}
	return geo.NewPoint(lat, lng)
}

// writeTo writes to path, or to fallback when path is empty.
func writeTo(path string, fallback io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(fallback)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
