package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// TaskQueue is the default queue the import worker polls.
const TaskQueue = "campusnav-import"

// BuildingImportInput is the input for the import workflow.
type BuildingImportInput struct {
	Source string // embedded | file | shapefile
	Path   string
}

// BuildingImportResult summarises a finished import.
type BuildingImportResult struct {
	Imported int
	Skipped  []string
}

// BuildingImportWorkflow loads footprints, validates them, replaces the
// stored set and invalidates the building cache. If the stored count does
// not match what was written, the previous set is restored (saga
// compensation).
func BuildingImportWorkflow(ctx workflow.Context, input BuildingImportInput) (*BuildingImportResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting building import", "source", input.Source, "path", input.Path)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Load
	var loaded []domain.Building
	if err := workflow.ExecuteActivity(ctx, "LoadBuildings", input).Get(ctx, &loaded); err != nil {
		return nil, err
	}

	// Step 2: Validate
	var batch ImportBatch
	if err := workflow.ExecuteActivity(ctx, "ValidateBuildings", loaded).Get(ctx, &batch); err != nil {
		return nil, err
	}
	if len(batch.Skipped) > 0 {
		logger.Warn("Skipped invalid buildings", "count", len(batch.Skipped))
	}

	// Step 3: Snapshot for rollback
	var snapshot []domain.Building
	if err := workflow.ExecuteActivity(ctx, "SnapshotBuildings").Get(ctx, &snapshot); err != nil {
		return nil, err
	}

	// Step 4: Upsert and verify
	var stored int
	err := workflow.ExecuteActivity(ctx, "UpsertBuildings", batch.Buildings).Get(ctx, &stored)
	if err == nil && stored != len(batch.Buildings) {
		err = fmt.Errorf("stored %d buildings, expected %d", stored, len(batch.Buildings))
	}
	if err != nil {
		logger.Warn("upsert failed, restoring snapshot", "error", err)
		if rerr := workflow.ExecuteActivity(ctx, "RestoreBuildings", snapshot).Get(ctx, nil); rerr != nil {
			logger.Error("snapshot restore failed, stored buildings may be partial", "error", rerr, "snapshot", len(snapshot))
		}
		if cerr := workflow.ExecuteActivity(ctx, "InvalidateBuildingCache").Get(ctx, nil); cerr != nil {
			logger.Warn("cache invalidation failed after restore", "error", cerr)
		}
		return nil, err
	}

	// Step 5: Invalidate cache
	if err := workflow.ExecuteActivity(ctx, "InvalidateBuildingCache").Get(ctx, nil); err != nil {
		logger.Warn("cache invalidation failed; entries expire on their own", "error", err)
	}

	logger.Info("Building import finished", "imported", stored)
	return &BuildingImportResult{Imported: stored, Skipped: batch.Skipped}, nil
}
