package viz

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ImageContainer is one rendered canvas frame.
type ImageContainer struct {
	name string
	data []byte
}

func (i *ImageContainer) Name() string { return i.name }

// Data returns the encoded PNG bytes.
func (i *ImageContainer) Data() []byte { return i.data }

// Producer renders a canvas on demand. Static canvases (example plot,
// spectrum) are producers; the animation canvas is pushed by the
// session's frame loop instead.
type Producer interface {
	Name() string
	Render() (*ImageContainer, error)
}

// ProducerFunc adapts a closure into a Producer.
type ProducerFunc struct {
	CanvasName string
	Fn         func() (*ImageContainer, error)
}

func (p ProducerFunc) Name() string                     { return p.CanvasName }
func (p ProducerFunc) Render() (*ImageContainer, error) { return p.Fn() }

type route struct {
	method  string
	path    string
	handler httprouter.Handle
}

// Server is the HTTP viewer: an index page that auto-refreshes each
// canvas image, plus /img endpoints serving the latest PNGs. Static
// producers are re-rendered on an interval, and only while someone is
// actually looking.
type Server struct {
	port           int
	updateInterval time.Duration
	logger         zerolog.Logger

	mu         sync.RWMutex
	images     map[string]*ImageContainer
	producers  []Producer
	lastViewed time.Time

	routes []route
	srv    *http.Server
}

func NewServer(port int, updateInterval time.Duration) *Server {
	if updateInterval <= 0 {
		updateInterval = 250 * time.Millisecond
	}
	return &Server{
		port:           port,
		updateInterval: updateInterval,
		logger:         log.Logger,
		images:         make(map[string]*ImageContainer),
		srv:            &http.Server{Addr: fmt.Sprintf(":%d", port)},
	}
}

func (s *Server) SetLogger(logger zerolog.Logger) { s.logger = logger }

// Register adds a static canvas producer. Order of registration is the
// order on the index page.
func (s *Server) Register(p Producer) {
	s.mu.Lock()
	s.producers = append(s.producers, p)
	s.mu.Unlock()
}

// Publish stores a frame rendered elsewhere (the animation loop).
func (s *Server) Publish(img *ImageContainer) {
	s.mu.Lock()
	s.images[img.name] = img
	s.mu.Unlock()
}

// Handle mounts an extra route (the session's control endpoints).
// Must be called before Run.
func (s *Server) Handle(method, path string, h httprouter.Handle) {
	s.routes = append(s.routes, route{method: method, path: path, handler: h})
}

func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}

func (s *Server) viewed() {
	s.mu.Lock()
	s.lastViewed = time.Now()
	s.mu.Unlock()
}

// refreshLoop re-renders the static producers while the page is being
// watched.
func (s *Server) refreshLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.updateInterval):
			s.mu.RLock()
			stale := time.Since(s.lastViewed) > 5*time.Second
			producers := s.producers
			s.mu.RUnlock()
			if stale {
				continue
			}

			for _, p := range producers {
				img, err := p.Render()
				if err != nil {
					s.logger.Error().Err(err).Str("canvas", p.Name()).Msg("render failed")
					continue
				}
				s.Publish(img)
			}
		}
	}
}

func (s *Server) Run(ctx context.Context) error {
	go s.refreshLoop(ctx)

	router := httprouter.New()
	router.GET("/", s.handleIndex)
	router.GET("/img/:name", s.handleImage)
	for _, r := range s.routes {
		router.Handle(r.method, r.path, r.handler)
	}
	s.srv.Handler = router

	s.logger.Info().Int("port", s.port).Msg("viewer listening")
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.viewed()

	s.mu.RLock()
	names := make([]string, 0, len(s.producers)+1)
	for _, p := range s.producers {
		names = append(names, p.Name())
	}
	names = append(names, "animation")
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<html><head><title>fourierdraw</title></head><body style="background-color:#111;color:#eee;font-family:monospace">`)
	fmt.Fprint(w, `<div>
	<button onclick="ctl('play')">play/pause</button>
	<button onclick="ctl('stop')">stop</button>
	<button onclick="ctl('faster')">faster</button>
	<button onclick="ctl('slower')">slower</button>
	k: <input id="kmin" size="3" value="-8"> to <input id="kmax" size="3" value="8">
	signal: <select id="signal">
		<option>square</option><option>sine</option><option>triangle</option><option>step</option>
	</select>
	</div>`)
	fmt.Fprintf(w, `<script>
	function ctl(action) {
		var q = '?kmin=' + document.getElementById('kmin').value +
			'&kmax=' + document.getElementById('kmax').value +
			'&signal=' + document.getElementById('signal').value;
		fetch('/ctl/' + action + q);
	}
	window.onload = function() {
		var imgs = document.getElementsByTagName('img');
		setInterval(function() {
			for (var i = 0; i < imgs.length; i++) {
				imgs[i].src = imgs[i].src.split('?')[0] + '?' + Date.now();
			}
		}, %d);
	}
	</script>`, s.updateInterval.Milliseconds())
	fmt.Fprint(w, `<div style="display:flex;flex-wrap:wrap">`)
	for _, name := range names {
		fmt.Fprintf(w, `<div><img src="/img/%s?%d" alt="%s"/></div>`, name, time.Now().UnixMicro(), name)
	}
	fmt.Fprint(w, `</div></body></html>`)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	s.viewed()

	s.mu.RLock()
	img, ok := s.images[params.ByName("name")]
	s.mu.RUnlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(img.data)
}
