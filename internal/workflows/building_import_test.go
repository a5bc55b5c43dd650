package workflows

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/usecases"
)

type memRepo struct {
	buildings []domain.Building
	upserts   [][]domain.Building
	countFn   func() int
	upsertErr func(attempt int) error
}

func (r *memRepo) List(ctx context.Context) ([]domain.Building, error) {
	return append([]domain.Building(nil), r.buildings...), nil
}

func (r *memRepo) UpsertBatch(ctx context.Context, buildings []domain.Building) error {
	r.upserts = append(r.upserts, buildings)
	if r.upsertErr != nil {
		if err := r.upsertErr(len(r.upserts)); err != nil {
			return err
		}
	}
	r.buildings = append([]domain.Building(nil), buildings...)
	return nil
}

func (r *memRepo) Count(ctx context.Context) (int, error) {
	if r.countFn != nil {
		return r.countFn(), nil
	}
	return len(r.buildings), nil
}

type memCache struct {
	data    map[string][]byte
	deletes int
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.deletes++
	delete(c.data, key)
	return nil
}

// recordingLogger keeps the messages logged at error level.
type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

var _ log.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Debug(msg string, keyvals ...interface{}) {}
func (l *recordingLogger) Info(msg string, keyvals ...interface{})  {}
func (l *recordingLogger) Warn(msg string, keyvals ...interface{})  {}

func (l *recordingLogger) Error(msg string, keyvals ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func newEnv(t *testing.T, acts *BuildingImportActivities) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	return newEnvWithLogger(t, acts, nil)
}

func newEnvWithLogger(t *testing.T, acts *BuildingImportActivities, logger log.Logger) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var s testsuite.WorkflowTestSuite
	if logger != nil {
		s.SetLogger(logger)
	}
	env := s.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(BuildingImportWorkflow)
	env.RegisterActivity(acts)
	return env
}

func newActivities(repo *memRepo) (*BuildingImportActivities, *memCache) {
	cache := &memCache{data: map[string][]byte{}}
	return &BuildingImportActivities{
		Repo:      repo,
		Buildings: usecases.NewBuildingService(repo, cache),
	}, cache
}

func TestBuildingImportWorkflow_Embedded(t *testing.T) {
	repo := &memRepo{}
	acts, cache := newActivities(repo)
	env := newEnv(t, acts)

	env.ExecuteWorkflow(BuildingImportWorkflow, BuildingImportInput{Source: "embedded"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res BuildingImportResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.Equal(t, 10, res.Imported)
	assert.Empty(t, res.Skipped)
	assert.Len(t, repo.buildings, 10)
	assert.Equal(t, 1, cache.deletes)
}

func TestBuildingImportWorkflow_SkipsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buildings.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": "A", "name": "Annex A", "boundaries": [
			{"latitude": 45.49, "longitude": -73.58},
			{"latitude": 45.49, "longitude": -73.57},
			{"latitude": 45.50, "longitude": -73.57}
		]},
		{"id": "B", "name": "Kiosk", "boundaries": [
			{"latitude": 45.49, "longitude": -73.58}
		]},
		{"id": "C", "name": "Off the map", "boundaries": [
			{"latitude": 95, "longitude": -73.58},
			{"latitude": 45.49, "longitude": -73.57},
			{"latitude": 45.50, "longitude": -73.57}
		]}
	]`), 0o644))

	repo := &memRepo{}
	acts, _ := newActivities(repo)
	env := newEnv(t, acts)

	env.ExecuteWorkflow(BuildingImportWorkflow, BuildingImportInput{Source: "file", Path: path})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res BuildingImportResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.Equal(t, 1, res.Imported)
	assert.Len(t, res.Skipped, 2)
	assert.Equal(t, "A", repo.buildings[0].ID)
}

func TestBuildingImportWorkflow_RestoresOnCountMismatch(t *testing.T) {
	previous := []domain.Building{{ID: "OLD", Name: "Old", Boundaries: []domain.Coordinate{
		{Lat: 1, Lon: 1}, {Lat: 1, Lon: 2}, {Lat: 2, Lon: 2},
	}}}
	repo := &memRepo{buildings: previous, countFn: func() int { return 3 }}
	acts, cache := newActivities(repo)
	env := newEnv(t, acts)

	env.ExecuteWorkflow(BuildingImportWorkflow, BuildingImportInput{Source: "embedded"})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())

	require.Len(t, repo.upserts, 2, "import then restore")
	assert.Len(t, repo.upserts[0], 10)
	assert.Equal(t, "OLD", repo.upserts[1][0].ID)
	assert.Equal(t, 1, cache.deletes)
}

func TestBuildingImportWorkflow_LogsFailedRestore(t *testing.T) {
	previous := []domain.Building{{ID: "OLD", Name: "Old", Boundaries: []domain.Coordinate{
		{Lat: 1, Lon: 1}, {Lat: 1, Lon: 2}, {Lat: 2, Lon: 2},
	}}}
	repo := &memRepo{
		buildings: previous,
		countFn:   func() int { return 3 },
		upsertErr: func(attempt int) error {
			if attempt > 1 {
				return errors.New("connection reset")
			}
			return nil
		},
	}
	acts, _ := newActivities(repo)
	logger := &recordingLogger{}
	env := newEnvWithLogger(t, acts, logger)

	env.ExecuteWorkflow(BuildingImportWorkflow, BuildingImportInput{Source: "embedded"})

	require.True(t, env.IsWorkflowCompleted())
	require.ErrorContains(t, env.GetWorkflowError(), "stored 3 buildings")

	logger.mu.Lock()
	defer logger.mu.Unlock()
	assert.Contains(t, logger.errors, "snapshot restore failed, stored buildings may be partial")
}

func TestBuildingImportWorkflow_UnsupportedSource(t *testing.T) {
	repo := &memRepo{}
	acts, _ := newActivities(repo)
	env := newEnv(t, acts)

	env.ExecuteWorkflow(BuildingImportWorkflow, BuildingImportInput{Source: "ftp"})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Empty(t, repo.upserts)
}

func TestValidateBuildings_AllInvalid(t *testing.T) {
	acts, _ := newActivities(&memRepo{})

	_, err := acts.ValidateBuildings(context.Background(), []domain.Building{{Name: ""}, {Name: "Dot", Boundaries: []domain.Coordinate{{}}}})
	assert.Error(t, err)
}

func TestValidateBuildings_Duplicates(t *testing.T) {
	acts, _ := newActivities(&memRepo{})
	tri := []domain.Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}}

	batch, err := acts.ValidateBuildings(context.Background(), []domain.Building{
		{ID: "X", Name: "First", Boundaries: tri},
		{ID: "X", Name: "Second", Boundaries: tri},
		{Name: "  Third ", Boundaries: tri},
	})
	require.NoError(t, err)
	require.Len(t, batch.Buildings, 2)
	assert.Equal(t, "Third", batch.Buildings[1].Name)
	assert.Len(t, batch.Skipped, 1)
}
