package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// ErrInvalidFootprint is returned for buildings PostGIS cannot store as a polygon.
var ErrInvalidFootprint = errors.New("footprint needs at least 3 vertices")

const srid = 4326

// BuildingRepo implements ports.BuildingRepository with pgx and PostGIS.
type BuildingRepo struct {
	db *DB
}

// NewBuildingRepo creates a new BuildingRepo.
func NewBuildingRepo(db *DB) *BuildingRepo {
	return &BuildingRepo{db: db}
}

// List returns all buildings in import order.
func (r *BuildingRepo) List(ctx context.Context) ([]domain.Building, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, address, description, ST_AsEWKB(footprint)
		FROM buildings
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query buildings: %w", err)
	}
	defer rows.Close()

	var buildings []domain.Building
	for rows.Next() {
		var (
			b   domain.Building
			raw []byte
		)
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.Description, &raw); err != nil {
			return nil, fmt.Errorf("scan building: %w", err)
		}
		b.Boundaries, err = decodeFootprint(raw)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", b.ID, err)
		}
		buildings = append(buildings, b)
	}
	return buildings, rows.Err()
}

// UpsertBatch replaces the building set in one transaction. Slice order
// becomes list order; rows not in buildings are removed.
func (r *BuildingRepo) UpsertBatch(ctx context.Context, buildings []domain.Building) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if err := upsertBuildings(ctx, tx, buildings); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func upsertBuildings(ctx context.Context, tx pgx.Tx, buildings []domain.Building) error {
	ids := make([]string, 0, len(buildings))
	for i, b := range buildings {
		id := b.ID
		if id == "" {
			id = b.Name
		}
		wkb, err := encodeFootprint(b.Boundaries)
		if err != nil {
			return fmt.Errorf("building %s: %w", id, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO buildings (id, position, name, address, description, footprint)
			VALUES ($1, $2, $3, $4, $5, ST_GeomFromEWKB($6))
			ON CONFLICT (id) DO UPDATE
			SET position = EXCLUDED.position, name = EXCLUDED.name,
			    address = EXCLUDED.address, description = EXCLUDED.description,
			    footprint = EXCLUDED.footprint, updated_at = now()
		`, id, i, b.Name, b.Address, b.Description, wkb)
		if err != nil {
			return fmt.Errorf("upsert building %s: %w", id, err)
		}
		ids = append(ids, id)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM buildings WHERE NOT (id = ANY($1))`, ids)
	if err != nil {
		return fmt.Errorf("prune buildings: %w", err)
	}
	if n := tag.RowsAffected(); n > 0 {
		slog.InfoContext(ctx, "pruned stale buildings", "count", n)
	}
	return nil
}

// Count returns the number of stored buildings.
func (r *BuildingRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM buildings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count buildings: %w", err)
	}
	return n, nil
}

// encodeFootprint closes the ring and marshals it as an SRID 4326 EWKB polygon.
func encodeFootprint(boundaries []domain.Coordinate) ([]byte, error) {
	if len(boundaries) < 3 {
		return nil, ErrInvalidFootprint
	}

	flat := make([]float64, 0, (len(boundaries)+1)*2)
	for _, c := range boundaries {
		flat = append(flat, c.Lon, c.Lat)
	}
	flat = append(flat, boundaries[0].Lon, boundaries[0].Lat)

	poly := geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}).SetSRID(srid)
	data, err := ewkb.Marshal(poly, ewkb.NDR)
	if err != nil {
		return nil, fmt.Errorf("encode footprint: %w", err)
	}
	return data, nil
}

// decodeFootprint returns the outer ring of an EWKB polygon without its
// closing vertex.
func decodeFootprint(data []byte) ([]domain.Coordinate, error) {
	g, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode footprint: %w", err)
	}
	poly, ok := g.(*geom.Polygon)
	if !ok {
		return nil, fmt.Errorf("decode footprint: unexpected geometry %T", g)
	}
	if poly.NumLinearRings() == 0 {
		return nil, nil
	}

	coords := poly.LinearRing(0).Coords()
	if n := len(coords); n > 1 && coords[0].Equal(geom.XY, coords[n-1]) {
		coords = coords[:n-1]
	}

	out := make([]domain.Coordinate, len(coords))
	for i, c := range coords {
		out[i] = domain.Coordinate{Lat: c.Y(), Lon: c.X()}
	}
	return out, nil
}
