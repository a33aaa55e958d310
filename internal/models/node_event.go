package models

import "time"

// NodeEvent is a single log entry.
type NodeEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // BOOT | TRIGGER | SAMPLE | TRANSMIT | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

// Event types.
const (
	EventBoot     = "BOOT"
	EventTrigger  = "TRIGGER"
	EventSample   = "SAMPLE"
	EventTransmit = "TRANSMIT"
	EventError    = "ERROR"
)
