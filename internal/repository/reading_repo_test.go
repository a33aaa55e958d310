package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"sensornode/internal/models"
	"sensornode/internal/repository"
)

func TestReadingSQLite_Insert_ReturnsRowID(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = conn.Close() }()

	repo := repository.NewReadingSQLite(conn)

	storedAt := time.Date(2023, 11, 14, 22, 13, 21, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO node_readings")).
		WithArgs("Ultrasonic_Sensor", "distance", 99.47, "2023-11-14T14:13:20",
			"America/Los_Angeles", true, 200, storedAt).
		WillReturnResult(sqlmock.NewResult(12, 1))

	id, err := repo.Insert(context.Background(), models.StoredReading{
		NodeName:    "Ultrasonic_Sensor",
		Source:      models.SourceDistance,
		Value:       99.47,
		MeasuredISO: "2023-11-14T14:13:20",
		TZRegion:    "America/Los_Angeles",
		Attempted:   true,
		StatusCode:  200,
		StoredAt:    storedAt,
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if id != 12 {
		t.Fatalf("Insert() id = %d, want 12", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReadingSQLite_ListRecent_DefaultsLimitAndParsesSource(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = conn.Close() }()

	repo := repository.NewReadingSQLite(conn)

	rows := sqlmock.NewRows([]string{
		"id", "node_name", "source", "value", "measured_iso",
		"tz_region", "attempted", "status_code", "stored_at",
	}).
		AddRow(2, "Sound_Sensor_MAX4466", "sound", 40.0, "2023-11-14T14:20:00", "UTC", true, 200, time.Now().UTC()).
		AddRow(1, "Ultrasonic_Sensor", "distance", 99.47, "2023-11-14T14:13:20", "UTC", false, 0, time.Now().UTC())

	mock.ExpectQuery(regexp.QuoteMeta("FROM node_readings ORDER BY id DESC LIMIT ?")).
		WithArgs(50). // non-positive limit falls back to 50
		WillReturnRows(rows)

	got, err := repo.ListRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListRecent() returned %d rows, want 2", len(got))
	}
	if got[0].Source != models.SourceSound || got[1].Source != models.SourceDistance {
		t.Fatalf("source parsing wrong: %+v", got)
	}
	if got[1].Attempted || got[1].StatusCode != 0 {
		t.Fatalf("failed transmit row mangled: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
