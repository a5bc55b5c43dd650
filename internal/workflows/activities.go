package workflows

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/campusnav/internal/adapters/static"
	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/ports"
	"github.com/samirrijal/campusnav/internal/core/usecases"
	"github.com/samirrijal/campusnav/internal/pkg/config"
)

// ImportBatch is the validated output of ValidateBuildings.
type ImportBatch struct {
	Buildings []domain.Building
	Skipped   []string
}

// BuildingImportActivities holds the activity implementations for the import workflow.
type BuildingImportActivities struct {
	Repo      ports.BuildingRepository
	Buildings *usecases.BuildingService
}

// LoadBuildings reads footprints from the source named in input.
func (a *BuildingImportActivities) LoadBuildings(ctx context.Context, input BuildingImportInput) ([]domain.Building, error) {
	switch input.Source {
	case config.SourceShapefile:
		return static.ReadShapefile(input.Path)
	case config.SourceFile, config.SourceEmbedded:
		var (
			s   *static.Store
			err error
		)
		if input.Source == config.SourceEmbedded {
			s, err = static.Default()
		} else {
			s, err = static.LoadFile(input.Path)
		}
		if err != nil {
			return nil, err
		}
		return s.List(ctx)
	default:
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("unsupported import source %q", input.Source), "UnsupportedSource", nil)
	}
}

// ValidateBuildings drops records the store cannot hold and reports them.
func (a *BuildingImportActivities) ValidateBuildings(ctx context.Context, buildings []domain.Building) (*ImportBatch, error) {
	batch := &ImportBatch{}
	seen := make(map[string]bool, len(buildings))

	for i, b := range buildings {
		b.Name = strings.TrimSpace(b.Name)
		label := b.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}

		if reason := rejectReason(b, seen); reason != "" {
			slog.WarnContext(ctx, "skipping building", "building", label, "reason", reason)
			batch.Skipped = append(batch.Skipped, label+": "+reason)
			continue
		}
		batch.Buildings = append(batch.Buildings, b)
	}

	if len(batch.Buildings) == 0 {
		return nil, temporal.NewNonRetryableApplicationError("no valid buildings to import", "NoBuildings", static.ErrNoBuildings)
	}
	return batch, nil
}

func rejectReason(b domain.Building, seen map[string]bool) string {
	if b.Name == "" {
		return "missing name"
	}
	if len(b.Boundaries) < 3 {
		return "footprint needs at least 3 vertices"
	}
	for _, c := range b.Boundaries {
		if err := usecases.ValidateCoordinate(c); err != nil {
			return err.Error()
		}
	}
	key := b.ID
	if key == "" {
		key = b.Name
	}
	if seen[key] {
		return "duplicate id " + key
	}
	seen[key] = true
	return ""
}

// SnapshotBuildings returns the currently stored set, used to roll back.
func (a *BuildingImportActivities) SnapshotBuildings(ctx context.Context) ([]domain.Building, error) {
	return a.Repo.List(ctx)
}

// UpsertBuildings replaces the stored set and returns the stored count.
func (a *BuildingImportActivities) UpsertBuildings(ctx context.Context, buildings []domain.Building) (int, error) {
	if err := a.Repo.UpsertBatch(ctx, buildings); err != nil {
		return 0, fmt.Errorf("upsert buildings: %w", err)
	}
	n, err := a.Repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// RestoreBuildings puts a snapshot back (saga compensation).
func (a *BuildingImportActivities) RestoreBuildings(ctx context.Context, snapshot []domain.Building) error {
	if len(snapshot) == 0 {
		slog.WarnContext(ctx, "no snapshot to restore")
		return nil
	}
	if err := a.Repo.UpsertBatch(ctx, snapshot); err != nil {
		return fmt.Errorf("restore buildings: %w", err)
	}
	slog.InfoContext(ctx, "restored building snapshot", "count", len(snapshot))
	return nil
}

// InvalidateBuildingCache drops the cached building list.
func (a *BuildingImportActivities) InvalidateBuildingCache(ctx context.Context) error {
	if a.Buildings == nil {
		return nil
	}
	return a.Buildings.Invalidate(ctx)
}
