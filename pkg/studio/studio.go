// Package studio is the plot orchestrator: it owns the animation state
// machine, queries the DSP packages, and turns their output into draw
// command batches for the three logical canvases (example, spectrum,
// animation).
package studio

import (
	"errors"
	"fmt"
	"math"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wavelab/fourierdraw/pkg/draw"
	"github.com/wavelab/fourierdraw/pkg/dsp/fourier"
	"github.com/wavelab/fourierdraw/pkg/dsp/phasor"
	"github.com/wavelab/fourierdraw/pkg/dsp/signal"
	"github.com/wavelab/fourierdraw/pkg/util"
)

// ErrNotPlaying reports a tick delivered while the animation is not in
// the Playing state. A caller contract violation, not a crash.
var ErrNotPlaying = errors.New("studio: tick received while not playing")

// Mode is the animation state machine position.
type Mode int

const (
	ModeIdle Mode = iota
	ModePlaying
	ModePaused
	ModeStopped
)

var modeNames = map[Mode]string{
	ModeIdle:    "idle",
	ModePlaying: "playing",
	ModePaused:  "paused",
	ModeStopped: "stopped",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// TickSource is the host's frame scheduler. RequestTicks asks it to
// start delivering OnTick calls at display cadence; CancelTicks stops
// them. The studio never ticks itself.
type TickSource interface {
	RequestTicks()
	CancelTicks()
}

// noopTicks is the default tick source for drivers that call OnTick
// by hand (tests, the offline renderer).
type noopTicks struct{}

func (noopTicks) RequestTicks() {}
func (noopTicks) CancelTicks()  {}

type Options struct {
	// Canvas size in pixels, shared by all three canvases.
	Width  float64
	Height float64

	// TraceLength is the trailing-trace ring buffer capacity.
	TraceLength int

	// InitialSpeed is the starting playback rate. Zero means 1x.
	InitialSpeed float64
}

// Studio owns the one piece of mutable state in the system. It is not
// safe for concurrent use; the host adapter serializes access.
type Studio struct {
	opts     Options
	logger   zerolog.Logger
	writeAPI api.WriteAPI
	ticks    TickSource

	mode   Mode
	state  phasor.State
	band   fourier.Band
	kind   signal.Kind
	coeffs []fourier.Coefficient
	radius float64
	trace  *phasor.Trace

	inTick bool
}

type Option func(s *Studio)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Studio) { s.logger = logger }
}

func WithTickSource(ts TickSource) Option {
	return func(s *Studio) { s.ticks = ts }
}

func WithMetrics(writeAPI api.WriteAPI) Option {
	return func(s *Studio) { s.writeAPI = writeAPI }
}

func New(opts Options, options ...Option) (*Studio, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("studio: invalid canvas size %gx%g", opts.Width, opts.Height)
	}
	if opts.TraceLength <= 0 {
		opts.TraceLength = 256
	}
	speed := opts.InitialSpeed
	if speed <= 0 {
		speed = 1
	}
	if speed < phasor.MinSpeed {
		speed = phasor.MinSpeed
	} else if speed > phasor.MaxSpeed {
		speed = phasor.MaxSpeed
	}

	s := &Studio{
		opts:     opts,
		logger:   log.Logger,
		writeAPI: &util.NoopWriteAPI{},
		ticks:    noopTicks{},
		mode:     ModeIdle,
		state:    phasor.State{Speed: speed},
		trace:    phasor.NewTrace(opts.TraceLength),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *Studio) Mode() Mode         { return s.mode }
func (s *Studio) Phase() float64     { return s.state.Phase }
func (s *Studio) Speed() float64     { return s.state.Speed }
func (s *Studio) Band() fourier.Band { return s.band }
func (s *Studio) Kind() signal.Kind  { return s.kind }

// configure recomputes the coefficient set for a new band/kind pair
// and drops everything derived from the previous one.
func (s *Studio) configure(band fourier.Band, kind signal.Kind) {
	band = band.Canonical()
	elapsed := util.TimeOperationMicroseconds(func() {
		s.coeffs = fourier.Coefficients(kind, band)
	})
	s.band = band
	s.kind = kind
	s.radius = fourier.ChainRadius(s.coeffs)
	s.trace.Reset()

	s.logger.Debug().
		Str("signal", kind.String()).
		Int("k_min", band.KMin).
		Int("k_max", band.KMax).
		Int64("compute_us", elapsed).
		Msg("configured coefficients")

	s.writeAPI.WritePoint(influxdb2.NewPoint("studio.coefficients.compute",
		map[string]string{"signal": kind.String()},
		map[string]interface{}{
			"terms":       len(s.coeffs),
			"duration_us": elapsed,
		}, time.Now()))
}

// PlayPause drives the Idle/Stopped -> Playing <-> Paused transitions.
// Starting from Idle or Stopped configures the band and kind and asks
// the tick source for frames. Pressing it while Playing pauses with
// the phase frozen; pressing again resumes from the same phase.
// Changing the band or kind while Playing or Paused restarts the
// animation on the new configuration; stale coefficients and trace
// never survive a reconfiguration.
func (s *Studio) PlayPause(band fourier.Band, kind signal.Kind) {
	band = band.Canonical()
	changed := band != s.band || kind != s.kind

	switch s.mode {
	case ModeIdle, ModeStopped:
		s.configure(band, kind)
		s.state.Phase = 0
		s.startPlaying()
	case ModePlaying:
		if changed {
			s.Stop()
			s.configure(band, kind)
			s.startPlaying()
			return
		}
		s.mode = ModePaused
		s.state.Running = false
		s.ticks.CancelTicks()
		s.logger.Info().Float64("phase", s.state.Phase).Msg("paused")
	case ModePaused:
		if changed {
			s.Stop()
			s.configure(band, kind)
		}
		s.startPlaying()
	}
}

func (s *Studio) startPlaying() {
	s.mode = ModePlaying
	s.state.Running = true
	s.ticks.RequestTicks()
	s.logger.Info().
		Str("signal", s.kind.String()).
		Int("k_min", s.band.KMin).
		Int("k_max", s.band.KMax).
		Float64("speed", s.state.Speed).
		Msg("playing")
}

// Stop resets the animation completely: phase to zero, trace cleared,
// ticks cancelled. Safe to call from any state; repeating it is a
// no-op.
func (s *Studio) Stop() {
	if s.mode == ModeStopped {
		return
	}
	s.mode = ModeStopped
	s.state.Running = false
	s.state.Phase = 0
	s.trace.Reset()
	s.ticks.CancelTicks()
	s.logger.Info().Msg("stopped")
}

func (s *Studio) IncreaseSpeed() {
	s.state = phasor.IncreaseSpeed(s.state)
	s.logger.Debug().Float64("speed", s.state.Speed).Msg("speed up")
}

func (s *Studio) DecreaseSpeed() {
	s.state = phasor.DecreaseSpeed(s.state)
	s.logger.Debug().Float64("speed", s.state.Speed).Msg("speed down")
}

// OnTick advances the animation by dt seconds and returns the redraw
// batch for the animation canvas. Ticks outside Playing are reported
// with ErrNotPlaying; a tick arriving while another is still being
// processed is dropped rather than queued.
func (s *Studio) OnTick(dt float64) ([]draw.Command, error) {
	if s.mode != ModePlaying {
		s.logger.Warn().Str("mode", s.mode.String()).Msg("dropping tick outside playing state")
		return nil, ErrNotPlaying
	}
	if s.inTick {
		s.logger.Warn().Msg("dropping re-entrant tick")
		return nil, nil
	}
	s.inTick = true
	defer func() { s.inTick = false }()

	start := time.Now()
	s.state = phasor.Advance(s.state, dt)
	chain := phasor.Chain(s.coeffs, s.state.Phase)
	s.trace.Push(chain[len(chain)-1])
	cmds := s.animationFrame(chain)

	s.writeAPI.WritePoint(influxdb2.NewPoint("studio.frame",
		map[string]string{"signal": s.kind.String()},
		map[string]interface{}{
			"dt_ms":       dt * 1000,
			"commands":    len(cmds),
			"duration_us": time.Since(start).Microseconds(),
		}, time.Now()))

	return cmds, nil
}

// animationFrame renders the phasor chain: one faint circle per
// rotating vector, the vectors as green arrows laid tip to tail, and
// the trailing trace of past tips.
func (s *Studio) animationFrame(chain []fourier.Point) []draw.Command {
	p := NewPlotter(s.opts.Width, s.opts.Height)
	p.PreserveAspectRatio()
	p.HideGrid()
	r := s.radius * 1.1
	if r == 0 {
		r = 1
	}
	p.SetXRange(-r, r)
	p.SetYRange(-r, r)

	for i, c := range s.coeffs {
		mag := math.Hypot(c.Re, c.Im)
		if mag > 1e-9 {
			p.Circle(chain[i].X, chain[i].Y, mag, draw.LightGray, 1, 0.6)
		}
	}
	for i := range s.coeffs {
		p.Arrow(chain[i].X, chain[i].Y, chain[i+1].X, chain[i+1].Y, draw.TabGreen, 2)
	}

	if pts := s.trace.Points(); len(pts) >= 2 {
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for i, pt := range pts {
			xs[i] = pt.X
			ys[i] = pt.Y
		}
		p.LineAlpha(xs, ys, draw.TabOrange, 2, 0.9)
	}

	p.SetTitle(fmt.Sprintf("%s  k in [%d, %d]  speed %.2fx", s.kind, s.band.KMin, s.band.KMax, s.state.Speed))
	return p.Commands()
}

// PlotExample draws the original waveform and its truncated
// reconstruction over one period in a single synchronous batch. No
// state survives the call.
func (s *Studio) PlotExample(band fourier.Band, kind signal.Kind) ([]draw.Command, error) {
	const points = 512
	band = band.Canonical()
	coeffs := fourier.Coefficients(kind, band)

	phases, values := signal.Samples(kind, points)
	recon := make([]float64, points)
	for i, phi := range phases {
		recon[i] = fourier.Reconstruct(coeffs, phi)
	}

	p := NewPlotter(s.opts.Width, s.opts.Height)
	p.SetXRange(0, 2*math.Pi)
	p.SetYRange(-1.5, 1.5)
	if err := p.Line(phases, values, draw.TabBlue, 1); err != nil {
		return nil, err
	}
	if err := p.Line(phases, recon, draw.TabOrange, 2); err != nil {
		return nil, err
	}
	p.SetTitle(fmt.Sprintf("%s wave, k in [%d, %d]", kind, band.KMin, band.KMax))
	return p.Commands(), nil
}

// SpectrumFor draws the power spectrum of the band as bars.
func (s *Studio) SpectrumFor(band fourier.Band, kind signal.Kind) ([]draw.Command, error) {
	band = band.Canonical()
	spec := fourier.Spectrum(fourier.Coefficients(kind, band))

	ks := make([]float64, len(spec))
	powers := make([]float64, len(spec))
	maxPower := 0.0
	for i, e := range spec {
		ks[i] = float64(e.K)
		powers[i] = e.Power
		if e.Power > maxPower {
			maxPower = e.Power
		}
	}
	if maxPower == 0 {
		maxPower = 1
	}

	p := NewPlotter(s.opts.Width, s.opts.Height)
	p.SetXRange(float64(band.KMin)-1, float64(band.KMax)+1)
	p.SetYRange(-0.05*maxPower, maxPower*1.2)
	if band.Count() <= 20 {
		p.SetTicks(band.Count()+1, 8)
	}
	if err := p.Bars(ks, powers, draw.TabPurple, 0.8); err != nil {
		return nil, err
	}
	p.SetTitle(fmt.Sprintf("%s power spectrum", kind))
	return p.Commands(), nil
}
