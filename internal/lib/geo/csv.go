package geo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV reads "lat,lng" rows into a route. Rows that do not parse or fall
// outside valid coordinate ranges are skipped, including a header row.
func ReadCSV(r io.Reader) (Route, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var route Route
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("failed to read route CSV: %w", err)
		}
		if len(record) < 2 {
			continue
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			continue
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			continue
		}

		point, err := NewPoint(lat, lng)
		if err != nil {
			continue
		}
		route = append(route, point)
	}

	return route, nil
}
