package sensor

import (
	"math"
	"testing"
	"time"
)

type fakeEchoTimer struct {
	echo time.Duration
}

func (f fakeEchoTimer) Echo(_, _ int, _ time.Duration) time.Duration { return f.echo }

func TestDistanceReader_ConvertsEchoDuration(t *testing.T) {
	cases := []struct {
		echo time.Duration
		want float64
	}{
		{580 * time.Microsecond, 580 * 0.0343 / 2},   // ~10 cm
		{5830 * time.Microsecond, 5830 * 0.0343 / 2}, // ~1 m
		{time.Microsecond, 0.0343 / 2},
	}
	for _, tc := range cases {
		r := NewDistanceReader(fakeEchoTimer{echo: tc.echo}, 5, 1, 0)
		got := r.Read()
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("Read() with echo %v = %v, want %v", tc.echo, got, tc.want)
		}
	}
}

func TestDistanceReader_TimeoutYieldsNaN(t *testing.T) {
	r := NewDistanceReader(fakeEchoTimer{echo: 0}, 5, 1, 30*time.Millisecond)
	if got := r.Read(); !math.IsNaN(got) {
		t.Fatalf("Read() on timeout = %v, want NaN", got)
	}
}

type constantADC struct{ value int }

func (c constantADC) Sample(int) int { return c.value }

func TestSoundReader_MidpointClampsToZero(t *testing.T) {
	r := NewSoundReader(constantADC{value: 512}, 0, 10, time.Nanosecond)
	got := r.Read()
	if got != 0 {
		t.Fatalf("Read() at mid-point = %v, want 0", got)
	}
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("Read() at mid-point produced a non-finite value: %v", got)
	}
}

func TestSoundReader_DeviationMapsToLog(t *testing.T) {
	// avg 612 → deviation 100 → 20*log10(100) = 40 dB.
	r := NewSoundReader(constantADC{value: 612}, 0, 10, time.Nanosecond)
	if got := r.Read(); math.Abs(got-40) > 1e-9 {
		t.Fatalf("Read() = %v, want 40", got)
	}
}

func TestLevel_AlwaysFiniteNonNegative(t *testing.T) {
	for _, avg := range []float64{0, 1, 511.5, 512, 512.5, 1023, math.Inf(1)} {
		got := Level(avg)
		if math.IsNaN(got) || math.IsInf(got, 0) || got < 0 {
			t.Fatalf("Level(%v) = %v, want finite >= 0", avg, got)
		}
	}
}
