// Package sensor implements the two sampling functions: pulse-timing distance
// and averaged-analog sound level.
package sensor

import (
	"math"
	"time"

	"sensornode/internal/hal"
)

// cmPerUs converts an echo round-trip duration (µs) to one-way centimeters:
// speed of sound 0.0343 cm/µs, halved for the round trip.
const cmPerUs = 0.0343 / 2.0

// DefaultEchoTimeout bounds how long we wait for the echo to come back.
const DefaultEchoTimeout = 30 * time.Millisecond

// DistanceReader measures range with an HC-SR04 style trigger/echo pair.
type DistanceReader struct {
	timer   hal.EchoTimer
	trigPin int
	echoPin int
	timeout time.Duration
}

// NewDistanceReader wires a reader to its pins. A non-positive timeout falls
// back to DefaultEchoTimeout.
func NewDistanceReader(timer hal.EchoTimer, trigPin, echoPin int, timeout time.Duration) *DistanceReader {
	if timeout <= 0 {
		timeout = DefaultEchoTimeout
	}
	return &DistanceReader{timer: timer, trigPin: trigPin, echoPin: echoPin, timeout: timeout}
}

// Read returns the measured distance in centimeters. When no echo arrives
// within the timeout it returns NaN, never a stale value.
func (r *DistanceReader) Read() float64 {
	d := r.timer.Echo(r.trigPin, r.echoPin, r.timeout)
	if d <= 0 {
		return math.NaN()
	}
	return Convert(d)
}

// Convert turns a raw echo duration into centimeters.
func Convert(echo time.Duration) float64 {
	return float64(echo.Microseconds()) * cmPerUs
}
