package repository_test

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"sensornode/internal/models"
	"sensornode/internal/repository"
)

// sqlmockArgumentFunc adapts a predicate to sqlmock's Argument interface.
type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool { return f(v) }

func TestStateSQLite_Save_FillsUTCNowWhenTimeZero(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = conn.Close() }()

	repo := repository.NewStateSQLite(conn)

	state := models.NodeState{
		State:       models.StateIdle,
		LastSource:  models.SourceDistance,
		LastValue:   99.47,
		LastISO:     "2023-11-14T14:13:20",
		LastOutcome: models.OutcomeSent,
		CyclesTotal: 3,
		CyclesSent:  2,
		// UpdatedAt is zero
	}

	isUTCRecent := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok || tm.Location() != time.UTC {
			return false
		}
		now := time.Now().UTC()
		return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO node_state")).
		WithArgs(
			1,
			models.StateIdle,
			"distance",
			state.LastValue,
			state.LastISO,
			models.OutcomeSent,
			state.CyclesTotal,
			state.CyclesSent,
			isUTCRecent,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Load_NoRowYieldsZeroState(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = conn.Close() }()

	repo := repository.NewStateSQLite(conn)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, state, last_source")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "state", "last_source", "last_value", "last_iso",
			"last_outcome", "cycles_total", "cycles_sent", "updated_at",
		}))

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.ID != 0 {
		t.Fatalf("Load() on empty table = %+v, want zero state", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Load_ParsesSourceAndNormalizesUTC(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = conn.Close() }()

	repo := repository.NewStateSQLite(conn)

	locTokyo, _ := time.LoadLocation("Asia/Tokyo")
	stored := time.Date(2023, 11, 14, 23, 13, 20, 0, locTokyo)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, state, last_source")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "state", "last_source", "last_value", "last_iso",
			"last_outcome", "cycles_total", "cycles_sent", "updated_at",
		}).AddRow(1, models.StateIdle, "sound", 40.0, "2023-11-14T14:13:20", models.OutcomeSent, 7, 5, stored))

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.LastSource != models.SourceSound {
		t.Fatalf("LastSource = %v, want sound", got.LastSource)
	}
	if got.UpdatedAt.Location() != time.UTC {
		t.Fatalf("UpdatedAt not normalized to UTC: %v", got.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
