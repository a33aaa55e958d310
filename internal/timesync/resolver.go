// Package timesync resolves a trusted wall-clock timestamp from SNTP and
// formats it for the ingest payload.
package timesync

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/beevik/ntp"

	"sensornode/internal/config"
	"sensornode/internal/logger"
)

// minValidUnix guards against an unset or garbage clock: anything at or
// before 2021-01-01T00:00:00Z is treated as not-yet-synced.
const minValidUnix = 1609459200

const (
	isoLayout     = "2006-01-02T15:04:05"
	probeInterval = 300 * time.Millisecond
	clockInterval = 250 * time.Millisecond
	queryTimeout  = 2 * time.Second
)

// Failure classes callers can branch on.
var (
	ErrNoConnectivity = errors.New("network unreachable within connect window")
	ErrClockInvalid   = errors.New("no valid network time within clock window")
)

// Resolver obtains network time and renders it as an offset-shifted ISO-8601
// string. Both the connectivity probe and the SNTP query are injectable so
// tests never touch the network.
type Resolver struct {
	servers     []string
	probeAddr   string
	offset      time.Duration
	appendUTC   bool
	connectWait time.Duration
	clockWait   time.Duration
	log         *logger.Logger

	dial  func(addr string, timeout time.Duration) error
	query func(server string) (time.Time, error)
}

// NewResolver builds a Resolver from config.
func NewResolver(cfg config.TimeConfig, log *logger.Logger) *Resolver {
	return &Resolver{
		servers:     cfg.Servers,
		probeAddr:   cfg.ProbeAddr,
		offset:      time.Duration(cfg.OffsetHours) * time.Hour,
		appendUTC:   cfg.AppendUTC,
		connectWait: cfg.ConnectWait,
		clockWait:   cfg.ClockWait,
		log:         log,
		dial:        tcpProbe,
		query:       sntpQuery,
	}
}

// Resolve blocks until it can produce a timestamp or one of the two bounded
// waits expires. Failure means "no report this cycle", never fatal.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if !r.ensureConnectivity(ctx) {
		return "", ErrNoConnectivity
	}

	now, ok := r.awaitValidClock(ctx)
	if !ok {
		return "", ErrClockInvalid
	}

	return Format(now, r.offset, r.appendUTC), nil
}

// ensureConnectivity probes the configured address until it answers or the
// connect window closes.
func (r *Resolver) ensureConnectivity(ctx context.Context) bool {
	return pollUntil(ctx, r.connectWait, probeInterval, func() bool {
		if err := r.dial(r.probeAddr, probeInterval); err != nil {
			return false
		}
		return true
	})
}

// awaitValidClock polls the time sources round-robin until one reports a
// time past the validity threshold or the clock window closes.
func (r *Resolver) awaitValidClock(ctx context.Context) (time.Time, bool) {
	if len(r.servers) == 0 {
		return time.Time{}, false
	}
	var got time.Time
	i := 0
	ok := pollUntil(ctx, r.clockWait, clockInterval, func() bool {
		server := r.servers[i%len(r.servers)]
		i++
		t, err := r.query(server)
		if err != nil {
			if r.log != nil {
				r.log.Debugw("sntp query failed", "server", server, "err", err)
			}
			return false
		}
		if t.Unix() <= minValidUnix {
			return false
		}
		got = t
		return true
	})
	return got, ok
}

// Format applies the fixed offset to a UTC instant and renders ISO-8601,
// optionally tagging the (shifted, so no longer UTC) string with 'Z'.
func Format(t time.Time, offset time.Duration, appendUTC bool) string {
	s := t.Add(offset).UTC().Format(isoLayout)
	if appendUTC {
		s += "Z"
	}
	return s
}

func tcpProbe(addr string, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return err
	}
	return conn.Close()
}

func sntpQuery(server string) (time.Time, error) {
	resp, err := ntp.QueryWithOptions(server, ntp.QueryOptions{Timeout: queryTimeout})
	if err != nil {
		return time.Time{}, err
	}
	if err := resp.Validate(); err != nil {
		return time.Time{}, err
	}
	return time.Now().Add(resp.ClockOffset).UTC(), nil
}
