package viz

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wavelab/fourierdraw/pkg/dsp/fourier"
	"github.com/wavelab/fourierdraw/pkg/dsp/signal"
	"github.com/wavelab/fourierdraw/pkg/studio"
)

// Session owns the serialization boundary around the studio. The core
// is single-threaded by design; every HTTP handler, producer, and
// frame tick goes through the session mutex. It also implements
// studio.TickSource: the studio asks for frames, the session's Run
// loop delivers them at display cadence with wall-clock deltas.
type Session struct {
	server    *Server
	logger    zerolog.Logger
	width     int
	height    int
	frameRate int

	mu     sync.Mutex
	studio *studio.Studio
	band   fourier.Band
	kind   signal.Kind

	// ticking and last are only touched with mu held: the studio
	// calls RequestTicks/CancelTicks from inside calls the session
	// already serializes.
	ticking bool
	last    time.Time
}

type SessionOptions struct {
	Width     int
	Height    int
	FrameRate int
	Band      fourier.Band
	Kind      signal.Kind
}

func NewSession(st *studio.Studio, server *Server, opts SessionOptions) *Session {
	if opts.FrameRate <= 0 {
		opts.FrameRate = 30
	}
	s := &Session{
		server:    server,
		logger:    log.Logger,
		width:     opts.Width,
		height:    opts.Height,
		frameRate: opts.FrameRate,
		studio:    st,
		band:      opts.Band.Canonical(),
		kind:      opts.Kind,
	}

	server.Register(ProducerFunc{CanvasName: "example", Fn: s.renderExample})
	server.Register(ProducerFunc{CanvasName: "spectrum", Fn: s.renderSpectrum})
	server.Handle(http.MethodGet, "/ctl/:action", s.handleControl)

	return s
}

func (s *Session) SetLogger(logger zerolog.Logger) { s.logger = logger }

// RequestTicks implements studio.TickSource. Caller already holds the
// session lock (it is only ever invoked from inside a studio call).
func (s *Session) RequestTicks() {
	s.ticking = true
	s.last = time.Time{}
}

func (s *Session) CancelTicks() {
	s.ticking = false
}

// Run delivers frame ticks while the studio has requested them.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.frameRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.mu.Lock()
			if !s.ticking {
				s.mu.Unlock()
				continue
			}
			var dt float64
			if !s.last.IsZero() {
				dt = now.Sub(s.last).Seconds()
			}
			s.last = now
			cmds, err := s.studio.OnTick(dt)
			s.mu.Unlock()

			if err != nil || len(cmds) == 0 {
				continue
			}
			img, err := Render("animation", s.width, s.height, cmds)
			if err != nil {
				s.logger.Error().Err(err).Msg("animation frame render failed")
				continue
			}
			s.server.Publish(img)
		}
	}
}

func (s *Session) renderExample() (*ImageContainer, error) {
	s.mu.Lock()
	cmds, err := s.studio.PlotExample(s.band, s.kind)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return Render("example", s.width, s.height, cmds)
}

func (s *Session) renderSpectrum() (*ImageContainer, error) {
	s.mu.Lock()
	cmds, err := s.studio.SpectrumFor(s.band, s.kind)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return Render("spectrum", s.width, s.height, cmds)
}

// handleControl is the thin UI wiring: /ctl/play, /ctl/stop,
// /ctl/faster, /ctl/slower with optional kmin/kmax/signal query
// parameters updating the active configuration.
func (s *Session) handleControl(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	band, kind := s.parseConfig(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch params.ByName("action") {
	case "play":
		s.band = band
		s.kind = kind
		s.studio.PlayPause(band, kind)
	case "stop":
		s.studio.Stop()
	case "faster":
		s.studio.IncreaseSpeed()
	case "slower":
		s.studio.DecreaseSpeed()
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseConfig reads band and signal overrides from the query string,
// falling back to the current configuration.
func (s *Session) parseConfig(r *http.Request) (fourier.Band, signal.Kind) {
	s.mu.Lock()
	band, kind := s.band, s.kind
	s.mu.Unlock()

	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("kmin")); err == nil {
		band.KMin = v
	}
	if v, err := strconv.Atoi(q.Get("kmax")); err == nil {
		band.KMax = v
	}
	if k, err := signal.Parse(q.Get("signal")); err == nil {
		kind = k
	}
	return band.Canonical(), kind
}
