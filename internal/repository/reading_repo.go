package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sensornode/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

const (
	insertReadingSQL = `
		INSERT INTO node_readings (node_name, source, value, measured_iso, tz_region, attempted, status_code, stored_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectRecentReadingsSQL = `
		SELECT id, node_name, source, value, measured_iso, tz_region, attempted, status_code, stored_at
		FROM node_readings ORDER BY id DESC LIMIT ?
	`
)

const defaultListLimit = 50

// Insert archives one completed cycle and returns the new row ID.
func (r *ReadingSQLite) Insert(ctx context.Context, sr models.StoredReading) (int, error) {
	storedAt := sr.StoredAt
	if storedAt.IsZero() {
		storedAt = time.Now().UTC()
	} else {
		storedAt = storedAt.UTC()
	}

	res, err := r.db.ExecContext(ctx, insertReadingSQL,
		sr.NodeName,
		sr.Source.String(),
		sr.Value,
		sr.MeasuredISO,
		sr.TZRegion,
		sr.Attempted,
		sr.StatusCode,
		storedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert reading: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading insert id: %w", err)
	}
	return int(id), nil
}

// ListRecent returns the newest readings first, bounded by limit.
func (r *ReadingSQLite) ListRecent(ctx context.Context, limit int) ([]models.StoredReading, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := r.db.QueryContext(ctx, selectRecentReadingsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.StoredReading, 0, limit)
	for rows.Next() {
		var (
			sr     models.StoredReading
			source string
		)
		if err := rows.Scan(
			&sr.ID,
			&sr.NodeName,
			&source,
			&sr.Value,
			&sr.MeasuredISO,
			&sr.TZRegion,
			&sr.Attempted,
			&sr.StatusCode,
			&sr.StoredAt,
		); err != nil {
			return nil, err
		}
		sr.Source = models.ParseSource(source)
		sr.StoredAt = sr.StoredAt.UTC()
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
