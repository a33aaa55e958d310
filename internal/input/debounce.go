// Package input turns raw button levels into at most one sampling request
// per poll, suppressing mechanical bounce.
package input

import (
	"time"

	"sensornode/internal/hal"
	"sensornode/internal/models"
)

// DefaultWindow is the debounce window used when none is configured.
const DefaultWindow = 250 * time.Millisecond

// Debouncer tracks the last accepted trigger per signal. It is owned by the
// cycle loop and must not be shared across goroutines.
type Debouncer struct {
	window       time.Duration
	lastDistance time.Time
	lastSound    time.Time
}

// NewDebouncer returns a Debouncer with the given window; non-positive
// windows fall back to DefaultWindow.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{window: window}
}

// Poll maps the current signal state to a sampling request. Both signals are
// independent; when both are active in the same poll the distance signal
// wins. Only the winning signal's last-fired time is updated.
func (d *Debouncer) Poll(distActive, soundActive bool, now time.Time) models.Source {
	if distActive && now.Sub(d.lastDistance) > d.window {
		d.lastDistance = now
		return models.SourceDistance
	}
	if soundActive && now.Sub(d.lastSound) > d.window {
		d.lastSound = now
		return models.SourceSound
	}
	return models.SourceNone
}

// Buttons adapts a DigitalReader pair of active-low pins to the two boolean
// signals Poll expects.
type Buttons struct {
	Reader      hal.DigitalReader
	DistancePin int
	SoundPin    int
}

// State reads both pins; a LOW level means pressed.
func (b Buttons) State() (distActive, soundActive bool) {
	return !b.Reader.Read(b.DistancePin), !b.Reader.Read(b.SoundPin)
}
