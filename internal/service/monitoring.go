package service

import (
	"context"
	"time"

	"sensornode/internal/models"
	"sensornode/internal/repository"
)

type MonitoringService struct {
	stateRepo   repository.StateRepo
	readingRepo repository.ReadingRepo
}

func NewMonitoringService(stateRepo repository.StateRepo, readingRepo repository.ReadingRepo) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo, readingRepo: readingRepo}
}

// GetState returns the latest persisted node snapshot. Before the first
// cycle completes it returns a baseline IDLE snapshot.
func (s *MonitoringService) GetState(ctx context.Context) (models.NodeState, error) {
	state, err := s.stateRepo.Load(ctx)
	if err != nil {
		return models.NodeState{}, err
	}
	if state.ID == 0 {
		return baselineState(), nil
	}
	state.UpdatedAt = toUTC(state.UpdatedAt)
	return state, nil
}

// RecentReadings returns archived cycles, newest first.
func (s *MonitoringService) RecentReadings(ctx context.Context, limit int) ([]models.StoredReading, error) {
	return s.readingRepo.ListRecent(ctx, limit)
}

// baselineState is the snapshot for a node that has never sampled.
func baselineState() models.NodeState {
	return models.NodeState{
		ID:         1, // schema enforces single-row state with id=1
		State:      models.StateIdle,
		LastSource: models.SourceNone,
		UpdatedAt:  time.Now().UTC(),
	}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
