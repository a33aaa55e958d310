// Package hal abstracts the GPIO/ADC access that a real deployment would get
// from platform drivers. The interfaces are minimal on purpose: a board
// implementation for actual hardware lives behind the same three methods,
// while SimBoard lets the agent run end-to-end on a desktop machine.
package hal

import "time"

// DigitalReader reads the logic level of a digital pin. Buttons are wired
// active-low (pressed = false/LOW), matching INPUT_PULLUP wiring.
type DigitalReader interface {
	Read(pin int) bool
}

// AnalogReader samples a 10-bit ADC pin (0..1023).
type AnalogReader interface {
	Sample(pin int) int
}

// EchoTimer fires a trigger pulse and reports how long the echo pin stayed
// high, up to timeout. A zero duration means no echo was observed in time.
type EchoTimer interface {
	Echo(trigPin, echoPin int, timeout time.Duration) time.Duration
}

// Board is the full set of peripherals the node uses.
type Board interface {
	DigitalReader
	AnalogReader
	EchoTimer
}
