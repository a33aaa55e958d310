package sensor

import (
	"math"
	"time"

	"sensornode/internal/hal"
)

const (
	// adcMidpoint is the expected quiet-room ADC level (10-bit, biased mic).
	adcMidpoint = 512.0
	// minLevel floors the deviation so log10 never goes non-finite.
	minLevel = 1.0

	defaultSamples = 200
	defaultSpacing = 200 * time.Microsecond
)

// SoundReader estimates a relative sound level from an analog microphone.
// The value is deliberately uncalibrated: it is a relative indicator only,
// guaranteed finite and >= 0, nothing more.
type SoundReader struct {
	adc     hal.AnalogReader
	pin     int
	samples int
	spacing time.Duration
}

// NewSoundReader builds a reader; non-positive samples/spacing use defaults.
func NewSoundReader(adc hal.AnalogReader, pin, samples int, spacing time.Duration) *SoundReader {
	if samples <= 0 {
		samples = defaultSamples
	}
	if spacing <= 0 {
		spacing = defaultSpacing
	}
	return &SoundReader{adc: adc, pin: pin, samples: samples, spacing: spacing}
}

// Read averages the configured number of ADC samples and maps the deviation
// from the mid-point onto a logarithmic scale.
func (r *SoundReader) Read() float64 {
	var sum int64
	for i := 0; i < r.samples; i++ {
		sum += int64(r.adc.Sample(r.pin))
		time.Sleep(r.spacing)
	}
	avg := float64(sum) / float64(r.samples)
	return Level(avg)
}

// Level converts an averaged ADC value into the relative dB-like figure:
// 20*log10(|avg - midpoint|), floored at minLevel and clamped to a finite,
// non-negative result.
func Level(avgADC float64) float64 {
	dev := math.Abs(avgADC - adcMidpoint)
	if dev < minLevel {
		dev = minLevel
	}
	db := 20.0 * math.Log10(dev)
	if math.IsNaN(db) || math.IsInf(db, 0) || db < 0 {
		return 0
	}
	return db
}
