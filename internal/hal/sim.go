package hal

import (
	"math"
	"sync"
	"time"
)

// Speed of sound used to turn the simulated target distance back into an
// echo duration: cm = µs * 0.0343 / 2, so µs = cm * 2 / 0.0343.
const usPerCm = 2.0 / 0.0343

// SimBoard is an in-memory Board. The simulator service animates the scene
// (target distance, sound level, button presses); the sensor and input code
// read it exactly as they would read hardware.
//
// Unlike the real single-loop node, the simulator goroutine and the cycle
// loop touch the board concurrently, so a mutex guards the scene state.
type SimBoard struct {
	mu sync.Mutex

	// scene
	distanceCM float64 // <= 0 means target out of range (echo timeout)
	soundADC   int     // mean ADC level around which samples jitter
	pressed    map[int]time.Time

	pressHold time.Duration
	noise     int
	seed      uint64
}

// NewSimBoard returns a board with a target 1m away and a quiet room.
func NewSimBoard() *SimBoard {
	return &SimBoard{
		distanceCM: 100,
		soundADC:   512,
		pressed:    make(map[int]time.Time),
		pressHold:  100 * time.Millisecond,
		noise:      3,
		seed:       0x9E3779B97F4A7C15,
	}
}

// SetDistance moves the simulated target. Zero or negative puts it out of
// echo range.
func (b *SimBoard) SetDistance(cm float64) {
	b.mu.Lock()
	b.distanceCM = cm
	b.mu.Unlock()
}

// SetSoundLevel sets the mean ADC level the microphone jitters around.
func (b *SimBoard) SetSoundLevel(adc int) {
	b.mu.Lock()
	b.soundADC = adc
	b.mu.Unlock()
}

// Press holds the given button pin low for a short window, like a human tap.
func (b *SimBoard) Press(pin int) {
	b.mu.Lock()
	b.pressed[pin] = time.Now().Add(b.pressHold)
	b.mu.Unlock()
}

// Read implements DigitalReader. Buttons are active-low: a pressed button
// reads false.
func (b *SimBoard) Read(pin int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	until, ok := b.pressed[pin]
	if ok && time.Now().Before(until) {
		return false
	}
	return true
}

// Sample implements AnalogReader with a little deterministic jitter so the
// averaged sound reading is not perfectly flat.
func (b *SimBoard) Sample(int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.soundADC + b.nextJitter()
	if v < 0 {
		v = 0
	}
	if v > 1023 {
		v = 1023
	}
	return v
}

// Echo implements EchoTimer: converts the scene distance to a round-trip
// duration, honoring the caller's timeout the way a missing echo would.
func (b *SimBoard) Echo(_, _ int, timeout time.Duration) time.Duration {
	b.mu.Lock()
	cm := b.distanceCM
	b.mu.Unlock()
	if cm <= 0 {
		return 0
	}
	d := time.Duration(math.Round(cm*usPerCm)) * time.Microsecond
	if d > timeout {
		return 0
	}
	return d
}

// nextJitter is a tiny xorshift PRNG; callers hold b.mu.
func (b *SimBoard) nextJitter() int {
	b.seed ^= b.seed << 13
	b.seed ^= b.seed >> 7
	b.seed ^= b.seed << 17
	if b.noise <= 0 {
		return 0
	}
	return int(b.seed%uint64(2*b.noise+1)) - b.noise
}
