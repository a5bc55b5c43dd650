package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/ports"
	"github.com/samirrijal/campusnav/internal/pkg/metrics"
)

const (
	shuttleSnapshotKey = "shuttle:latest"
	// Seconds after which a point drops out of the snapshot. Also the key TTL.
	shuttleSnapshotTTL = 120
)

// ShuttleService accepts shuttle feed points and serves the latest snapshot.
type ShuttleService struct {
	publisher ports.EventPublisher
	cache     ports.CacheService
	now       func() time.Time

	// mu serialises the snapshot read-modify-write in Record.
	mu sync.Mutex
}

// NewShuttleService creates a new ShuttleService. Without a publisher,
// ingested points are recorded directly.
func NewShuttleService(publisher ports.EventPublisher, cache ports.CacheService) *ShuttleService {
	return &ShuttleService{publisher: publisher, cache: cache, now: time.Now}
}

// Ingest classifies points by id prefix and forwards buses and stations.
// Points with an unrecognised prefix are dropped. It returns the number accepted.
func (s *ShuttleService) Ingest(ctx context.Context, points []domain.ShuttlePoint) (int, error) {
	accepted := 0
	for i := range points {
		p := points[i]
		kind := p.Kind()
		if kind == domain.ShuttleUnknown {
			metrics.ShuttlePointsRejected.Inc()
			slog.DebugContext(ctx, "dropping shuttle point", "id", p.ID)
			continue
		}
		p.ReceivedAt = s.now().UTC()

		if s.publisher != nil {
			if err := s.publisher.PublishShuttlePoint(ctx, &p); err != nil {
				return accepted, fmt.Errorf("publish shuttle point %s: %w", p.ID, err)
			}
		} else if err := s.Record(ctx, &p); err != nil {
			return accepted, err
		}

		metrics.ShuttlePointsIngested.WithLabelValues(string(kind)).Inc()
		accepted++
	}
	return accepted, nil
}

// Record merges p into the latest snapshot, replacing any point with the
// same id and dropping points that have gone stale. A point without a
// ReceivedAt is stamped with the current time.
func (s *ShuttleService) Record(ctx context.Context, p *domain.ShuttlePoint) error {
	if s.cache == nil {
		return fmt.Errorf("shuttle snapshot store not configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	point := *p
	if point.ReceivedAt.IsZero() {
		point.ReceivedAt = s.now().UTC()
	}
	snapshot[point.ID] = point
	s.pruneStale(snapshot)

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode shuttle snapshot: %w", err)
	}
	if err := s.cache.Set(ctx, shuttleSnapshotKey, data, shuttleSnapshotTTL); err != nil {
		return fmt.Errorf("store shuttle snapshot: %w", err)
	}
	return nil
}

// Latest returns the current snapshot sorted by id. An empty kind returns
// buses and stations alike.
func (s *ShuttleService) Latest(ctx context.Context, kind domain.ShuttleKind) ([]domain.ShuttlePoint, error) {
	if s.cache == nil {
		return nil, nil
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.pruneStale(snapshot)

	points := make([]domain.ShuttlePoint, 0, len(snapshot))
	for _, p := range snapshot {
		if kind != "" && p.Kind() != kind {
			continue
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].ID < points[j].ID })
	return points, nil
}

// pruneStale removes points received more than shuttleSnapshotTTL seconds ago.
func (s *ShuttleService) pruneStale(snapshot map[string]domain.ShuttlePoint) {
	cutoff := s.now().Add(-shuttleSnapshotTTL * time.Second)
	for id, p := range snapshot {
		if p.ReceivedAt.Before(cutoff) {
			delete(snapshot, id)
		}
	}
}

// snapshot loads the stored snapshot; a missing or unreadable key is empty.
func (s *ShuttleService) snapshot(ctx context.Context) (map[string]domain.ShuttlePoint, error) {
	snapshot := make(map[string]domain.ShuttlePoint)
	data, err := s.cache.Get(ctx, shuttleSnapshotKey)
	if err != nil || len(data) == 0 {
		return snapshot, nil
	}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		slog.WarnContext(ctx, "discarding unreadable shuttle snapshot", "error", err)
		return make(map[string]domain.ShuttlePoint), nil
	}
	return snapshot, nil
}
