// Package xlsx exports building data as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/geometry"
	"github.com/samirrijal/campusnav/internal/pkg/geospatial"
)

const (
	BuildingsSheet = "Buildings"
	DistancesSheet = "Distances"
)

// Build returns a workbook with one row per building (id, name, address,
// centroid) and a square matrix of centroid-to-centroid distances in meters.
func Build(buildings []domain.Building) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(BuildingsSheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(DistancesSheet); err != nil {
		f.Close()
		return nil, err
	}

	centroids := make([]domain.Coordinate, len(buildings))
	for i, b := range buildings {
		centroids[i] = geometry.PolygonCenter(b.Boundaries)
	}

	if err := writeBuildings(f, buildings, centroids); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s sheet: %w", BuildingsSheet, err)
	}
	if err := writeDistances(f, buildings, centroids); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s sheet: %w", DistancesSheet, err)
	}

	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// WriteFile builds the workbook and saves it to path.
func WriteFile(path string, buildings []domain.Building) error {
	f, err := Build(buildings)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, buildings []domain.Building) error {
	f, err := Build(buildings)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeBuildings(f *excelize.File, buildings []domain.Building, centroids []domain.Coordinate) error {
	sw, err := f.NewStreamWriter(BuildingsSheet)
	if err != nil {
		return err
	}
	header := []interface{}{"ID", "Name", "Address", "Centroid Lat", "Centroid Lon", "Vertices"}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, b := range buildings {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{b.ID, b.Name, b.Address, centroids[i].Lat, centroids[i].Lon, len(b.Boundaries)}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func writeDistances(f *excelize.File, buildings []domain.Building, centroids []domain.Coordinate) error {
	sw, err := f.NewStreamWriter(DistancesSheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, 0, len(buildings)+1)
	header = append(header, "")
	for _, b := range buildings {
		header = append(header, label(b))
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, from := range centroids {
		row := make([]interface{}, 0, len(buildings)+1)
		row = append(row, label(buildings[i]))
		for _, to := range centroids {
			// Whole meters keep the sheet readable.
			row = append(row, math.Round(geospatial.Haversine(from.Lat, from.Lon, to.Lat, to.Lon)))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func label(b domain.Building) string {
	if b.ID != "" {
		return b.ID
	}
	return b.Name
}
