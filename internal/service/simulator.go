package service

import (
	"context"
	"math"
	"time"

	"sensornode/internal/config"
	"sensornode/internal/hal"
)

// Scene constants for the simulated environment.
const (
	simBaseDistanceCM  = 120.0 // target oscillates around this range
	simDistanceSwingCM = 80.0
	simSweepPeriod     = 40.0 // seconds for one full target sweep
	simQuietADC        = 512
	simBurstADC        = 160 // peak deviation during a sound burst
	simBurstPeriod     = 17.0
	simOutOfRangeEvery = 9 // every Nth sweep peak the target disappears
)

// SimulatorService animates the SimBoard: a target drifting back and forth,
// an occasionally noisy room, and (optionally) periodic button presses so an
// unattended node still reports.
type SimulatorService struct {
	board   *hal.SimBoard
	cfg     config.SimConfig
	nodeCfg config.NodeConfig
}

func NewSimulatorService(board *hal.SimBoard, cfg config.SimConfig, nodeCfg config.NodeConfig) *SimulatorService {
	return &SimulatorService{board: board, cfg: cfg, nodeCfg: nodeCfg}
}

// Run ticks at the given interval until ctx is canceled. With no SimBoard
// (real hardware) it returns immediately.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	if s.board == nil || !s.cfg.Enabled {
		return
	}

	t := time.NewTicker(tick)
	defer t.Stop()

	start := time.Now()
	var lastPress time.Time
	pressDistance := true

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			elapsed := now.Sub(start).Seconds()
			s.board.SetDistance(s.targetDistance(elapsed))
			s.board.SetSoundLevel(s.roomLevel(elapsed))

			if s.cfg.AutoPress && now.Sub(lastPress) >= s.cfg.PressInterval {
				lastPress = now
				if pressDistance {
					s.board.Press(s.nodeCfg.PinBtnDistance)
				} else {
					s.board.Press(s.nodeCfg.PinBtnSound)
				}
				pressDistance = !pressDistance
			}
		}
	}
}

// targetDistance sweeps the target sinusoidally; around every Nth peak it
// moves out of echo range so the sensor-timeout path gets exercised too.
func (s *SimulatorService) targetDistance(elapsed float64) float64 {
	sweep := elapsed / simSweepPeriod
	if int(sweep)%simOutOfRangeEvery == simOutOfRangeEvery-1 {
		return 0
	}
	return simBaseDistanceCM + simDistanceSwingCM*math.Sin(2*math.Pi*sweep)
}

// roomLevel is mostly quiet with periodic bursts.
func (s *SimulatorService) roomLevel(elapsed float64) int {
	burst := math.Sin(2 * math.Pi * elapsed / simBurstPeriod)
	if burst < 0.8 {
		return simQuietADC
	}
	return simQuietADC + int(simBurstADC*(burst-0.8)/0.2)
}
