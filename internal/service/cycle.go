package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"sensornode/internal/config"
	"sensornode/internal/input"
	"sensornode/internal/logger"
	"sensornode/internal/models"
	"sensornode/internal/repository"
	"sensornode/internal/sensor"
	"sensornode/internal/timesync"
	"sensornode/internal/transmit"
)

// TimeSource resolves the timestamp for a cycle.
type TimeSource interface {
	Resolve(ctx context.Context) (string, error)
}

// Poster performs the single POST attempt for an encoded body.
type Poster interface {
	Post(ctx context.Context, body string) (models.TransmitResult, error)
}

// Sampler reads one sensor value.
type Sampler interface {
	Read() float64
}

// ButtonSource reports the two debounce inputs (pressed = true).
type ButtonSource interface {
	State() (distActive, soundActive bool)
}

var errBusy = errors.New("sampling in progress, trigger dropped")

// CycleService is the cycle controller. It owns the debouncer and all
// per-cycle state; Run is the only goroutine that touches them, so one cycle
// completes before the next input is observed.
type CycleService struct {
	nodeCfg  config.NodeConfig
	tzRegion string

	buttons  ButtonSource
	debounce *input.Debouncer
	distance Sampler
	sound    Sampler
	clock    TimeSource
	poster   Poster

	stateRepo   repository.StateRepo
	readingRepo repository.ReadingRepo
	eventRepo   repository.EventRepo

	trigger chan models.Source
	log     *logger.Logger
}

// NewCycleService builds the controller from the shared deps, constructing
// the sensor readers over the HAL board.
func NewCycleService(repos *repository.Repository, d Deps) *CycleService {
	return &CycleService{
		nodeCfg:  d.Cfg.Node,
		tzRegion: d.TZRegion,
		buttons: input.Buttons{
			Reader:      d.Board,
			DistancePin: d.Cfg.Node.PinBtnDistance,
			SoundPin:    d.Cfg.Node.PinBtnSound,
		},
		debounce: input.NewDebouncer(d.Cfg.Node.Debounce),
		distance: newDistanceSampler(d),
		sound:    newSoundSampler(d),
		clock:    d.Clock,
		poster:   d.Poster,

		stateRepo:   repos.StateRepo,
		readingRepo: repos.ReadingRepo,
		eventRepo:   repos.EventRepo,

		trigger: make(chan models.Source, 1),
		log:     d.Log,
	}
}

func newDistanceSampler(d Deps) Sampler {
	return sensor.NewDistanceReader(d.Board, d.Cfg.Node.PinTrig, d.Cfg.Node.PinEcho, d.Cfg.Node.EchoTimeout)
}

func newSoundSampler(d Deps) Sampler {
	return sensor.NewSoundReader(d.Board, d.Cfg.Node.PinSound, d.Cfg.Node.SoundSamples, d.Cfg.Node.SampleSpacing)
}

// Run polls input until ctx is canceled. IDLE→SAMPLING happens on a
// debounced signal; SAMPLING→IDLE unconditionally once the cycle finishes.
func (s *CycleService) Run(ctx context.Context, poll time.Duration) {
	t := time.NewTicker(poll)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case src := <-s.trigger:
			// Manual triggers pass through the same debounce window.
			dist := src == models.SourceDistance
			if got := s.debounce.Poll(dist, !dist, time.Now()); got != models.SourceNone {
				s.runCycle(ctx, got)
			}
		case <-t.C:
			dist, sound := s.buttons.State()
			if got := s.debounce.Poll(dist, sound, time.Now()); got != models.SourceNone {
				s.runCycle(ctx, got)
			}
		}
	}
}

// Trigger queues one manual sampling request. It never blocks: if a cycle is
// already pending the request is rejected, matching the hardware behavior of
// a button press during SAMPLING.
func (s *CycleService) Trigger(src models.Source) error {
	if src != models.SourceDistance && src != models.SourceSound {
		return errors.New("unknown source")
	}
	select {
	case s.trigger <- src:
		return nil
	default:
		return errBusy
	}
}

// runCycle processes one reading to completion. Every failure class is
// logged and recorded; none is fatal, the loop simply returns to IDLE.
func (s *CycleService) runCycle(ctx context.Context, src models.Source) {
	s.appendEvent(ctx, models.EventTrigger, "sampling requested",
		map[string]any{"source": src.String()})
	s.saveState(ctx, func(st *models.NodeState) {
		st.State = models.StateSampling
	})

	var value float64
	switch src {
	case models.SourceDistance:
		value = s.distance.Read()
	case models.SourceSound:
		value = s.sound.Read()
	}

	if src == models.SourceDistance && math.IsNaN(value) {
		s.finish(ctx, src, value, "", models.OutcomeSensorFault, models.TransmitResult{})
		return
	}
	s.appendEvent(ctx, models.EventSample, "sensor read",
		map[string]any{"source": src.String(), "value": value})

	iso, err := s.clock.Resolve(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("time resolve failed", "class", timeSourceErrClass(err), "err", err)
		}
		s.finish(ctx, src, value, "", models.OutcomeNoTime, models.TransmitResult{})
		return
	}

	reading := models.Reading{
		Source:      src,
		Value:       value,
		MeasuredISO: iso,
		TZRegion:    s.tzRegion,
	}
	res, err := s.poster.Post(ctx, transmit.EncodeBody(reading, s.nodeName(src)))
	outcome := models.OutcomeSent
	switch {
	case err != nil:
		if s.log != nil {
			s.log.Errorw("transmit failed before a status", "err", err)
		}
		outcome = models.OutcomeHTTPSetup
	case !res.OK():
		outcome = models.OutcomeHTTPRejected
	}

	s.archive(ctx, reading, res)
	s.finish(ctx, src, value, iso, outcome, res)
}

// finish persists the IDLE state with counters and logs the outcome.
func (s *CycleService) finish(ctx context.Context, src models.Source, value float64, iso, outcome string, res models.TransmitResult) {
	s.saveState(ctx, func(st *models.NodeState) {
		st.State = models.StateIdle
		st.LastSource = src
		if math.IsNaN(value) {
			st.LastValue = 0
		} else {
			st.LastValue = value
		}
		st.LastISO = iso
		st.LastOutcome = outcome
		st.CyclesTotal++
		if outcome == models.OutcomeSent {
			st.CyclesSent++
		}
	})

	if outcome == models.OutcomeSent {
		s.appendEvent(ctx, models.EventTransmit, "reading sent",
			map[string]any{"source": src.String(), "status": res.StatusCode})
		if s.log != nil {
			s.log.Infow("data sent", "source", src.String(), "status", res.StatusCode)
		}
		return
	}

	meta := map[string]any{"source": src.String(), "outcome": outcome}
	if res.Attempted {
		meta["status"] = res.StatusCode
	}
	s.appendEvent(ctx, models.EventError, "cycle abandoned", meta)
	if s.log != nil {
		s.log.Errorw("cycle abandoned", "source", src.String(), "outcome", outcome)
	}
}

func (s *CycleService) nodeName(src models.Source) string {
	if src == models.SourceSound {
		return s.nodeCfg.SoundName
	}
	return s.nodeCfg.DistanceName
}

// saveState loads, mutates, and stores the single-row snapshot. Persistence
// errors are logged and swallowed: the cycle outcome must not depend on the
// local archive.
func (s *CycleService) saveState(ctx context.Context, mutate func(*models.NodeState)) {
	st, err := s.stateRepo.Load(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("state load failed", "err", err)
		}
		return
	}
	if st.ID == 0 {
		st = models.NodeState{ID: 1, State: models.StateIdle}
	}
	mutate(&st)
	st.UpdatedAt = time.Now().UTC()
	if err := s.stateRepo.Save(ctx, st); err != nil && s.log != nil {
		s.log.Errorw("state save failed", "err", err)
	}
}

func (s *CycleService) archive(ctx context.Context, r models.Reading, res models.TransmitResult) {
	_, err := s.readingRepo.Insert(ctx, models.StoredReading{
		NodeName:    s.nodeName(r.Source),
		Source:      r.Source,
		Value:       r.Value,
		MeasuredISO: r.MeasuredISO,
		TZRegion:    r.TZRegion,
		Attempted:   res.Attempted,
		StatusCode:  res.StatusCode,
		StoredAt:    time.Now().UTC(),
	})
	if err != nil && s.log != nil {
		s.log.Errorw("reading archive failed", "err", err)
	}
}

func (s *CycleService) appendEvent(ctx context.Context, typ, desc string, meta map[string]any) {
	err := s.eventRepo.Append(ctx, models.NodeEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil && s.log != nil {
		s.log.Errorw("event append failed", "err", err, "type", typ)
	}
}

// timeSourceErrClass maps resolver failures onto the two error classes for
// logging; unknown errors count as clock invalidity.
func timeSourceErrClass(err error) string {
	if errors.Is(err, timesync.ErrNoConnectivity) {
		return "connectivity"
	}
	return "clock"
}
