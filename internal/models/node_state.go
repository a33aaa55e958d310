package models

import "time"

// NodeState is the current snapshot of the node: last completed cycle plus
// running counters. Persisted as a single row (id=1).
type NodeState struct {
	ID          int       `json:"id"`
	State       string    `json:"state"` // IDLE | SAMPLING
	LastSource  Source    `json:"last_source"`
	LastValue   float64   `json:"last_value"`
	LastISO     string    `json:"last_iso,omitempty"`
	LastOutcome string    `json:"last_outcome,omitempty"` // SENT | <error class>
	CyclesTotal int       `json:"cycles_total"`
	CyclesSent  int       `json:"cycles_sent"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Cycle state labels.
const (
	StateIdle     = "IDLE"
	StateSampling = "SAMPLING"
)

// Cycle outcome labels, one per error class plus success.
const (
	OutcomeSent         = "SENT"
	OutcomeNoTime       = "TIME_UNAVAILABLE"
	OutcomeSensorFault  = "SENSOR_TIMEOUT"
	OutcomeHTTPSetup    = "HTTP_SETUP_FAILED"
	OutcomeHTTPRejected = "HTTP_REJECTED"
)
