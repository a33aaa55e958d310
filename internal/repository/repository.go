package repository

import (
	"context"
	"database/sql"
	"time"

	"sensornode/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// StateRepo persists the single-row node snapshot.
type StateRepo interface {
	Save(ctx context.Context, s models.NodeState) error
	Load(ctx context.Context) (models.NodeState, error)
}

// ReadingRepo archives completed cycles.
type ReadingRepo interface {
	Insert(ctx context.Context, r models.StoredReading) (int, error)
	ListRecent(ctx context.Context, limit int) ([]models.StoredReading, error)
}

// EventRepo is the append-only node event log.
type EventRepo interface {
	Append(ctx context.Context, e models.NodeEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.NodeEvent, error)
}

type Repository struct {
	StateRepo   StateRepo
	ReadingRepo ReadingRepo
	EventRepo   EventRepo
	Auth        Authorization
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		StateRepo:   NewStateSQLite(conn),
		ReadingRepo: NewReadingSQLite(conn),
		EventRepo:   NewEventSQLite(conn),
		Auth:        NewUserRepository(conn),
	}
}
