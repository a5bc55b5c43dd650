package static

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonas-p/go-shp"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// Attribute names read from the shapefile's .dbf table. Only NAME is required.
const (
	fieldID      = "ID"
	fieldName    = "NAME"
	fieldAddress = "ADDRESS"
	fieldDescr   = "DESCR"
)

// LoadShapefile reads building footprints from a polygon shapefile in
// WGS 84 (X = longitude, Y = latitude). Only the outer ring of each
// record is used; holes and extra parts are ignored.
func LoadShapefile(path string) (*Store, error) {
	buildings, err := ReadShapefile(path)
	if err != nil {
		return nil, err
	}
	return New(buildings)
}

// ReadShapefile decodes building records without validating them.
func ReadShapefile(path string) ([]domain.Building, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile: %w", err)
	}
	defer func() { _ = reader.Close() }()

	idIdx := fieldIndex(reader, fieldID)
	nameIdx := fieldIndex(reader, fieldName)
	addrIdx := fieldIndex(reader, fieldAddress)
	descrIdx := fieldIndex(reader, fieldDescr)
	if nameIdx < 0 {
		return nil, fmt.Errorf("shapefile %s: required field %s not found", path, fieldName)
	}

	var buildings []domain.Building
	for reader.Next() {
		n, shape := reader.Shape()
		ring := outerRing(shape)
		if ring == nil {
			slog.Debug("skipping non-polygon shapefile record", "record", n)
			continue
		}

		buildings = append(buildings, domain.Building{
			ID:          attribute(reader, idIdx),
			Name:        attribute(reader, nameIdx),
			Address:     attribute(reader, addrIdx),
			Description: attribute(reader, descrIdx),
			Boundaries:  ring,
		})
	}

	if len(buildings) == 0 {
		return nil, ErrNoBuildings
	}
	return buildings, nil
}

// fieldIndex returns the index of a named field, or -1 if not found.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

func attribute(reader *shp.Reader, idx int) string {
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
}

// outerRing returns the first part of a polygon as coordinates, dropping
// the explicit closing vertex shapefiles carry.
func outerRing(s shp.Shape) []domain.Coordinate {
	p, ok := s.(*shp.Polygon)
	if !ok || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	end := int32(len(p.Points))
	if p.NumParts > 1 {
		end = p.Parts[1]
	}
	start := p.Parts[0]

	ring := make([]domain.Coordinate, 0, end-start)
	for i := start; i < end; i++ {
		ring = append(ring, domain.Coordinate{Lat: p.Points[i].Y, Lon: p.Points[i].X})
	}
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
	}
	return ring
}
