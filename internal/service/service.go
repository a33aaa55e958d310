package service

import (
	"context"
	"time"

	"sensornode/internal/config"
	"sensornode/internal/hal"
	"sensornode/internal/logger"
	"sensornode/internal/models"
	"sensornode/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Cycle is the measurement-and-report loop: poll input, sample, resolve
// time, transmit, log. Trigger injects a manual sampling request, equivalent
// to a button press.
type Cycle interface {
	Run(ctx context.Context, poll time.Duration)
	Trigger(src models.Source) error
}

// Monitoring exposes read-only node state and the reading archive.
type Monitoring interface {
	GetState(ctx context.Context) (models.NodeState, error)
	RecentReadings(ctx context.Context, limit int) ([]models.StoredReading, error)
}

// EventLog exposes the append-only log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.NodeEvent, error)
}

// Simulator animates the simulated board so the agent produces realistic
// readings without hardware. Stop via context cancellation.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Cycle
	Monitoring
	EventLog
	Simulator
	Authorization
}

// Deps carries everything beyond the repository layer that services need.
type Deps struct {
	Cfg      *config.Config
	TZRegion string
	Board    hal.Board
	Sim      *hal.SimBoard // nil when running against real hardware
	Clock    TimeSource
	Poster   Poster
	Log      *logger.Logger
}

// NewService wires the repository layer and runtime deps into concrete
// services.
func NewService(repos *repository.Repository, d Deps) *Service {
	return &Service{
		Cycle:         NewCycleService(repos, d),
		Monitoring:    NewMonitoringService(repos.StateRepo, repos.ReadingRepo),
		EventLog:      NewEventLogService(repos.EventRepo),
		Simulator:     NewSimulatorService(d.Sim, d.Cfg.Sim, d.Cfg.Node),
		Authorization: NewAuthService(repos.Auth, d.Cfg.Auth),
	}
}
