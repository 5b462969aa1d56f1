// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ik5/audchan"
	"github.com/ik5/audchan/audio"
	"github.com/ik5/audchan/backend/ebitenaudio"
	"github.com/ik5/audchan/backend/null"
	"github.com/ik5/audchan/loader"
	"github.com/ik5/audchan/prefs"
)

// Runtime is a manager wired to the backend, loader, preference store and
// metrics endpoint chosen by a Config.
type Runtime struct {
	Manager *audchan.Manager
	Loader  *loader.Dir
	// MetricsAddr is the bound metrics address, empty when disabled.
	MetricsAddr string

	logger  *slog.Logger
	server  *http.Server
	serveCh chan error
	closers []func() error
}

// OpenPrefs opens the store named by target.
func OpenPrefs(target string) (prefs.Store, func() error, error) {
	noop := func() error { return nil }

	switch {
	case target == "" || target == "memory":
		return prefs.NewMemory(), noop, nil
	case strings.HasPrefix(target, "sqlite:"):
		s, err := prefs.OpenSQL("sqlite", strings.TrimPrefix(target, "sqlite:"))
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case strings.HasPrefix(target, "mysql:"):
		s, err := prefs.OpenSQL("mysql", strings.TrimPrefix(target, "mysql:"))
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}

	switch strings.ToLower(filepath.Ext(target)) {
	case ".yaml", ".yml":
		f, err := prefs.OpenFile(target)
		if err != nil {
			return nil, nil, err
		}
		return f, noop, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", prefs.ErrUnknownDriver, target)
}

// backendFor picks the voice backend and the clip format it wants.
func backendFor(cfg Config) (audchan.BackendFactory, audio.Format) {
	if cfg.Headless {
		return null.Factory{}, audio.Format{SampleRate: cfg.SampleRate, Channels: 2}
	}

	f := ebitenaudio.NewFactory(ebaudio.NewContext(cfg.SampleRate))
	return f, f.Format()
}

// NewRuntime wires and initializes a manager for cfg.
func NewRuntime(cfg Config, logger *slog.Logger) (*Runtime, error) {
	return newRuntime(cfg, logger, nil)
}

func newRuntime(cfg Config, logger *slog.Logger, factory audchan.BackendFactory) (*Runtime, error) {
	rt := &Runtime{logger: logger}

	format := audio.Format{SampleRate: cfg.SampleRate, Channels: 2}
	if factory == nil {
		factory, format = backendFor(cfg)
	}

	rt.Loader = loader.NewDir(cfg.Assets,
		loader.WithFormat(format),
		loader.WithTTL(cfg.CacheTTL),
		loader.WithLogger(logger))
	rt.closers = append(rt.closers, rt.Loader.Close)

	if cfg.Watch {
		if err := rt.Loader.Watch(); err != nil {
			rt.close()
			return nil, fmt.Errorf("watching %s: %w", cfg.Assets, err)
		}
	}

	store, closeStore, err := OpenPrefs(cfg.Prefs)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("opening preferences: %w", err)
	}
	rt.closers = append(rt.closers, closeStore)

	opts := []audchan.Option{
		audchan.WithLoader(rt.Loader),
		audchan.WithPreferences(store),
		audchan.WithLogger(logger),
	}

	if cfg.Metrics.Listen != "" {
		mt, err := rt.serveMetrics(cfg.Metrics.Listen)
		if err != nil {
			rt.close()
			return nil, err
		}
		opts = append(opts, audchan.WithMetrics(mt))
	}

	rt.Manager = audchan.New(factory, opts...)
	if err := rt.Manager.Initialize(cfg.Setting()); err != nil {
		rt.close()
		return nil, fmt.Errorf("initializing audio channels: %w", err)
	}
	return rt, nil
}

func (rt *Runtime) serveMetrics(addr string) (*audchan.Metrics, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mt, err := audchan.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	}))

	rt.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	rt.serveCh = make(chan error, 1)
	go func() {
		rt.serveCh <- rt.server.Serve(ln)
	}()

	rt.MetricsAddr = ln.Addr().String()
	rt.logger.Info("serving metrics", "addr", rt.MetricsAddr)
	return mt, nil
}

// Close stops the manager, the metrics endpoint and every opened resource.
func (rt *Runtime) Close() error {
	var errs []error
	if rt.Manager != nil {
		errs = append(errs, rt.Manager.Close())
	}
	errs = append(errs, rt.close())
	return errors.Join(errs...)
}

func (rt *Runtime) close() error {
	var errs []error

	if rt.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = append(errs, rt.server.Shutdown(ctx))
		cancel()
		if err := <-rt.serveCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
		rt.server = nil
	}

	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i]())
	}
	rt.closers = nil
	return errors.Join(errs...)
}
