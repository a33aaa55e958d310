package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sensornode/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	nodeStateRowID = 1

	upsertStateSQL = `
		INSERT INTO node_state (id, state, last_source, last_value, last_iso, last_outcome, cycles_total, cycles_sent, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state=excluded.state,
			last_source=excluded.last_source,
			last_value=excluded.last_value,
			last_iso=excluded.last_iso,
			last_outcome=excluded.last_outcome,
			cycles_total=excluded.cycles_total,
			cycles_sent=excluded.cycles_sent,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT id, state, last_source, last_value, last_iso, last_outcome, cycles_total, cycles_sent, updated_at
		FROM node_state WHERE id=?
	`
)

// Save upserts the node_state row (id always 1).
func (r *StateSQLite) Save(ctx context.Context, state models.NodeState) error {
	tsUTC := state.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertStateSQL,
		nodeStateRowID,
		state.State,
		state.LastSource.String(),
		state.LastValue,
		state.LastISO,
		state.LastOutcome,
		state.CyclesTotal,
		state.CyclesSent,
		tsUTC,
	)
	return err
}

// Load fetches the single node_state row. A missing row yields the zero
// value so callers can detect "no state yet" via ID == 0.
func (r *StateSQLite) Load(ctx context.Context) (models.NodeState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, nodeStateRowID)

	var (
		s      models.NodeState
		source string
	)
	if err := row.Scan(
		&s.ID,
		&s.State,
		&source,
		&s.LastValue,
		&s.LastISO,
		&s.LastOutcome,
		&s.CyclesTotal,
		&s.CyclesSent,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NodeState{}, nil
		}
		return models.NodeState{}, err
	}

	s.LastSource = models.ParseSource(source)
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
