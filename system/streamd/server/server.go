package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/signadot/pjson/message"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the streamd server.
type Server struct {
	Spec Spec

	streams map[string]Stream
	metrics *metrics
	mux     *http.ServeMux

	// now is replaced in tests
	now func() time.Time
}

// New creates a new Server instance. Scripts are loaded separately with
// LoadScripts.
func New(spec *Spec) *Server {
	if spec.Log == nil {
		spec.Log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slogLevel(),
		}))
	}
	if spec.Config == nil {
		spec.Config = DefaultConfig()
	}
	if spec.Registry == nil {
		spec.Registry = prometheus.NewRegistry()
	}
	s := &Server{
		Spec:    *spec,
		streams: map[string]Stream{},
		metrics: newMetrics(spec.Registry),
		now:     time.Now,
	}
	if !spec.Config.NoDemo {
		s.streams[DemoStream] = Demo
	}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /streams", s.handleList)
	s.mux.HandleFunc("GET /streams/{name}", s.handleStream)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(spec.Registry, promhttp.HandlerOpts{}))
	return s
}

func slogLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// LoadScripts adds the scripts of Config.Scripts. A script named like an
// existing stream replaces it.
func (s *Server) LoadScripts() error {
	if s.Spec.Config.Scripts == "" {
		return nil
	}
	scripts, err := LoadScripts(s.Spec.Config.Scripts)
	if err != nil {
		return err
	}
	for name, steps := range scripts {
		s.streams[name] = func(time.Time) []Step { return steps }
		s.Spec.Log.Info("loaded script", "stream", name, "steps", len(steps))
	}
	return nil
}

// AddStream registers a stream under name.
func (s *Server) AddStream(name string, st Stream) {
	s.streams[name] = st
}

// Streams returns the stream names in sorted order.
func (s *Server) Streams() []string {
	return slices.Sorted(maps.Keys(s.streams))
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.Spec.Log.Info("listening", "addr", ln.Addr().String())
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on Config.Addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Spec.Config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.cors(w)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, name := range s.Streams() {
		fmt.Fprintln(w, name)
	}
}

type msgWriter interface {
	Write(*message.Message) error
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	st, ok := s.streams[name]
	if !ok {
		http.Error(w, fmt.Sprintf("no stream %q", name), http.StatusNotFound)
		return
	}
	id := uuid.NewString()
	log := s.Spec.Log.With("stream", name, "id", id)
	s.cors(w)
	w.Header().Set("X-Stream-Id", id)

	var (
		mw  msgWriter
		sse *message.SSEWriter
	)
	if wantsSSE(r) {
		sse = message.NewSSEWriter(w)
		mw = sse
	} else {
		mw = message.NewWriter(w)
	}

	s.metrics.started.WithLabelValues(name).Inc()
	s.metrics.active.Inc()
	defer s.metrics.active.Dec()
	start := time.Now()
	log.Info("stream started", "sse", sse != nil, "remote", r.RemoteAddr)

	if err := s.write(r.Context(), name, st(s.now()), mw); err != nil {
		s.metrics.aborted.WithLabelValues(name).Inc()
		log.Info("stream aborted", "error", err)
		return
	}
	if sse != nil {
		if err := sse.Done(); err != nil {
			log.Info("stream aborted", "error", err)
			return
		}
	}
	s.metrics.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	log.Info("stream complete", "elapsed", time.Since(start))
}

func (s *Server) write(ctx context.Context, name string, steps []Step, mw msgWriter) error {
	for _, step := range steps {
		if d := time.Duration(float64(step.Delay) * s.Spec.Config.Speed); d > 0 {
			t := time.NewTimer(d)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		if err := mw.Write(step.Message); err != nil {
			return err
		}
		s.metrics.messages.WithLabelValues(name, step.Message.Type).Inc()
	}
	return nil
}

func (s *Server) cors(w http.ResponseWriter) {
	if o := s.Spec.Config.AllowOrigin; o != "" {
		w.Header().Set("Access-Control-Allow-Origin", o)
	}
}

func wantsSSE(r *http.Request) bool {
	switch r.URL.Query().Get("sse") {
	case "1", "true":
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), message.SSEContentType)
}
