package timesync

import (
	"context"
	"errors"
	"testing"
	"time"

	"sensornode/internal/config"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(config.TimeConfig{
		Servers:     []string{"a.test", "b.test"},
		ProbeAddr:   "probe.test:53",
		OffsetHours: -8,
		ConnectWait: 100 * time.Millisecond,
		ClockWait:   200 * time.Millisecond,
	}, nil)
}

func TestFormat_AppliesOffset(t *testing.T) {
	// 1700000000 = 2023-11-14T22:13:20Z; -8h shifts to 14:13:20.
	at := time.Unix(1700000000, 0).UTC()
	got := Format(at, -8*time.Hour, false)
	if got != "2023-11-14T14:13:20" {
		t.Fatalf("Format() = %q, want 2023-11-14T14:13:20", got)
	}
}

func TestFormat_UTCMarkerConditional(t *testing.T) {
	at := time.Unix(1700000000, 0).UTC()
	if got := Format(at, 0, true); got != "2023-11-14T22:13:20Z" {
		t.Fatalf("Format() with marker = %q", got)
	}
	if got := Format(at, 0, false); got != "2023-11-14T22:13:20" {
		t.Fatalf("Format() without marker = %q", got)
	}
}

func TestResolver_Success(t *testing.T) {
	r := testResolver(t)
	r.dial = func(string, time.Duration) error { return nil }
	r.query = func(string) (time.Time, error) {
		return time.Unix(1700000000, 0).UTC(), nil
	}

	got, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "2023-11-14T14:13:20" {
		t.Fatalf("Resolve() = %q, want 2023-11-14T14:13:20", got)
	}
}

func TestResolver_ConnectivityTimeout(t *testing.T) {
	r := testResolver(t)
	r.dial = func(string, time.Duration) error { return errors.New("unreachable") }
	r.query = func(string) (time.Time, error) {
		t.Fatal("query must not run without connectivity")
		return time.Time{}, nil
	}

	if _, err := r.Resolve(context.Background()); !errors.Is(err, ErrNoConnectivity) {
		t.Fatalf("Resolve() error = %v, want ErrNoConnectivity", err)
	}
}

func TestResolver_StaleClockTimesOut(t *testing.T) {
	r := testResolver(t)
	r.dial = func(string, time.Duration) error { return nil }
	// Clock stuck at epoch, below the validity threshold.
	r.query = func(string) (time.Time, error) {
		return time.Unix(0, 0), nil
	}

	if _, err := r.Resolve(context.Background()); !errors.Is(err, ErrClockInvalid) {
		t.Fatalf("Resolve() error = %v, want ErrClockInvalid", err)
	}
}

func TestResolver_RotatesServersOnFailure(t *testing.T) {
	r := testResolver(t)
	r.dial = func(string, time.Duration) error { return nil }
	var asked []string
	r.query = func(server string) (time.Time, error) {
		asked = append(asked, server)
		if server == "b.test" {
			return time.Unix(1700000000, 0).UTC(), nil
		}
		return time.Time{}, errors.New("no response")
	}

	if _, err := r.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(asked) != 2 || asked[0] != "a.test" || asked[1] != "b.test" {
		t.Fatalf("server rotation = %v, want [a.test b.test]", asked)
	}
}

func TestPollUntil_ImmediateSuccessSkipsWait(t *testing.T) {
	start := time.Now()
	ok := pollUntil(context.Background(), time.Second, time.Second, func() bool { return true })
	if !ok {
		t.Fatal("pollUntil() = false, want true")
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("pollUntil() waited despite immediate success")
	}
}

func TestPollUntil_HonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := pollUntil(ctx, time.Minute, time.Second, func() bool { return false })
	if ok {
		t.Fatal("pollUntil() = true after cancel")
	}
}
