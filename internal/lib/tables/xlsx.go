package tables

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

// WriteXLSX writes the tables as a workbook with one sheet per table.
func WriteXLSX(w io.Writer, t Tables) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []sheet{
		{name: "Route", headers: []string{"Point", "Latitude", "Longitude", "DMS Format", "Distance (km)", "Location"}},
		{name: "Critical Turns", headers: []string{"Turn #", "Latitude", "Longitude", "Angle", "Danger Level", "Speed Limit"}},
		{name: "Points of Interest", headers: []string{"POI #", "Type", "Name", "Latitude", "Longitude", "Location"}},
		{name: "Risk Points", headers: []string{"Risk #", "Type", "Level", "Latitude", "Longitude", "Detail"}},
	}
	for _, r := range t.Main {
		sheets[0].rows = append(sheets[0].rows, []any{r.PointNumber, r.Latitude, r.Longitude, r.CoordinatesDMS, r.DistanceFromStart, r.LocationDescription})
	}
	for _, r := range t.Critical {
		sheets[1].rows = append(sheets[1].rows, []any{r.TurnNumber, r.Latitude, r.Longitude, r.TurnAngle, r.DangerLevel, r.RecommendedSpeed})
	}
	for _, r := range t.POIs {
		sheets[2].rows = append(sheets[2].rows, []any{r.POINumber, r.POIType, r.Name, r.Latitude, r.Longitude, r.Location})
	}
	for _, r := range t.Risks {
		sheets[3].rows = append(sheets[3].rows, []any{r.RiskNumber, r.RiskType, r.RiskLevel, r.Latitude, r.Longitude, r.Detail})
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, s := range sheets {
		index, err := f.NewSheet(s.name)
		if err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", s.name, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		if err := writeSheet(f, s, headerStyle); err != nil {
			return err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	for col, h := range s.headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(s.name, cell, h); err != nil {
			return fmt.Errorf("failed to write header %s: %w", cell, err)
		}
	}
	if err := f.SetRowStyle(s.name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %q: %w", s.name, err)
	}

	for r, values := range s.rows {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(s.name, cell, v); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}

	return f.SetColWidth(s.name, "A", "F", 18)
}
