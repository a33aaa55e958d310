package models

import "time"

// Source identifies which sensor produced a reading.
type Source int

const (
	SourceNone Source = iota
	SourceDistance
	SourceSound
)

// String returns the wire/API label for the source.
func (s Source) String() string {
	switch s {
	case SourceDistance:
		return "distance"
	case SourceSound:
		return "sound"
	default:
		return "none"
	}
}

// ParseSource maps an API label back to a Source. Unknown labels yield SourceNone.
func ParseSource(s string) Source {
	switch s {
	case "distance":
		return SourceDistance
	case "sound":
		return SourceSound
	default:
		return SourceNone
	}
}

// Reading is one sampled measurement. It is a tagged value: Value belongs to
// Source (cm for distance, relative dB for sound); the payload encoder fills
// the unused wire field with zero for server compatibility.
type Reading struct {
	Source      Source  `json:"source"`
	Value       float64 `json:"value"`
	MeasuredISO string  `json:"measured_iso"` // ISO-8601, already offset-shifted
	TZRegion    string  `json:"tz_region"`
}

// StoredReading is a Reading archived after a completed cycle, together with
// the transmit outcome.
type StoredReading struct {
	ID          int       `json:"id"`
	NodeName    string    `json:"node_name"`
	Source      Source    `json:"source"`
	Value       float64   `json:"value"`
	MeasuredISO string    `json:"measured_iso"`
	TZRegion    string    `json:"tz_region"`
	Attempted   bool      `json:"attempted"`
	StatusCode  int       `json:"status_code"`
	StoredAt    time.Time `json:"stored_at"`
}

// TransmitResult reports the outcome of a single POST attempt. Attempted is
// false when the request never reached the point of an HTTP status
// (connection/setup failure); StatusCode is only meaningful when Attempted.
type TransmitResult struct {
	Attempted  bool   `json:"attempted"`
	StatusCode int    `json:"status_code"`
	Body       string `json:"body,omitempty"`
}

// OK reports whether the transmission was attempted and got a 2xx status.
func (r TransmitResult) OK() bool {
	return r.Attempted && r.StatusCode >= 200 && r.StatusCode < 300
}
