package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/usecases"
)

// coordinateParam reads an optional coordinate from two query keys. Both
// keys absent yields nil. One key absent, or a value that does not parse
// to a valid WGS 84 coordinate, is an error.
func coordinateParam(c *fiber.Ctx, latKey, lonKey string) (*domain.Coordinate, error) {
	latRaw, lonRaw := c.Query(latKey), c.Query(lonKey)
	if latRaw == "" && lonRaw == "" {
		return nil, nil
	}
	if latRaw == "" || lonRaw == "" {
		return nil, fmt.Errorf("%s and %s must be given together", latKey, lonKey)
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", latKey)
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", lonKey)
	}

	p := domain.Coordinate{Lat: lat, Lon: lon}
	if err := usecases.ValidateCoordinate(p); err != nil {
		return nil, err
	}
	return &p, nil
}

// requiredCoordinate is coordinateParam for mandatory coordinates.
func requiredCoordinate(c *fiber.Ctx, latKey, lonKey string) (domain.Coordinate, error) {
	p, err := coordinateParam(c, latKey, lonKey)
	if err != nil {
		return domain.Coordinate{}, err
	}
	if p == nil {
		return domain.Coordinate{}, fmt.Errorf("%s and %s are required", latKey, lonKey)
	}
	return *p, nil
}
