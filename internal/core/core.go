// Package core wires the solver, progress slot, display, and telemetry
// into one service with a managed lifecycle.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Osspial/nqueens/internal/config"
	"github.com/Osspial/nqueens/internal/display"
	"github.com/Osspial/nqueens/internal/emitter"
	"github.com/Osspial/nqueens/internal/progress"
	"github.com/Osspial/nqueens/internal/search"
)

// App is the main service orchestrator.
type App struct {
	cfg *config.Config

	// Core components
	reporter *progress.Reporter
	engine   *search.Engine
	sweeper  *search.Sweeper
	display  *display.Display
	emitter  *emitter.MQTTEmitter // nil when telemetry is disabled
	results  chan search.Sweep

	healthServer *http.Server

	// Lifecycle management
	started        time.Time
	mu             sync.RWMutex
	wg             sync.WaitGroup
	isRunning      bool
	sweepsDone     uint64
	solutionsFound uint64
	lastSize       int
}

// New creates a service instance from the config file at configPath.
// An empty path runs with the built-in defaults.
func New(configPath string) (*App, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	return newFromConfig(cfg)
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

func newFromConfig(cfg *config.Config) (*App, error) {
	slog.Info("configuration loaded",
		"instance_id", cfg.InstanceID,
		"engine", cfg.Search.Engine,
	)

	a := &App{
		cfg:      cfg,
		reporter: progress.New(),
		results:  make(chan search.Sweep, 8),
	}

	a.engine = search.New(a.reporter, search.Config{
		Variant: cfg.Search.Engine,
		Workers: cfg.Search.Workers,
	})
	a.sweeper = search.NewSweeper(a.engine, a.reporter,
		time.Duration(cfg.Search.HoldMS)*time.Millisecond, a.results)

	if cfg.Display.Enabled {
		a.display = display.New(a.reporter, os.Stdout, cfg.Display.ClearScreen)
	}

	if cfg.Telemetry.Enabled {
		em, err := emitter.NewMQTTEmitter(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create emitter: %w", err)
		}
		a.emitter = em
	}

	return a, nil
}

// Run starts the service and blocks until the context is cancelled or
// the search fails.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.isRunning {
		a.mu.Unlock()
		return fmt.Errorf("service is already running")
	}
	a.isRunning = true
	a.started = time.Now()
	a.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slog.Info("nqueens service starting",
		"instance_id", a.cfg.InstanceID,
		"engine", a.engine.Variant(),
		"workers", a.engine.Workers(),
	)

	// Connect telemetry. The solver keeps running without a broker, the
	// client retries in the background and picks it up when it appears.
	if a.emitter != nil {
		if err := a.emitter.Connect(ctx); err != nil {
			slog.Warn("telemetry unavailable, continuing without it", "error", err)
		}
	}

	if a.cfg.Health.Port > 0 {
		a.startHealthServer(a.cfg.Health.Port)
	}

	if a.display != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.display.Run(ctx)
		}()
	}

	// Sweep forwarder (stats, metrics, telemetry)
	a.wg.Add(1)
	go a.forwardSweeps(ctx)

	if a.emitter != nil {
		a.wg.Add(1)
		go a.emitHealth(ctx)
	}

	// The solver itself
	errCh := make(chan error, 1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		errCh <- a.sweeper.Run(ctx)
	}()

	slog.Info("nqueens service running",
		"display", a.display != nil,
		"telemetry", a.emitter != nil,
	)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("search failed: %w", err)
		}
	}

	slog.Info("nqueens service run loop exiting")
	return nil
}

// Shutdown performs graceful shutdown of all components.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	if !a.isRunning {
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()

	slog.Info("shutting down nqueens service")

	// Shutdown sequence (order is important!):
	// 1. Close the progress slot so a blocked display drains and exits
	a.reporter.Close()

	// 2. Stop the health listener
	if a.healthServer != nil {
		if err := a.healthServer.Shutdown(ctx); err != nil {
			slog.Error("failed to stop health server", "error", err)
		}
	}

	// 3. Wait for goroutines to finish (without holding the lock)
	slog.Info("waiting for goroutines to finish")
	a.wg.Wait()
	slog.Info("all goroutines finished")

	// 4. Disconnect MQTT
	if a.emitter != nil {
		if err := a.emitter.Disconnect(); err != nil {
			slog.Error("failed to disconnect mqtt", "error", err)
		}
	}

	stats := a.reporter.Stats()
	a.mu.Lock()
	uptime := time.Since(a.started)
	a.isRunning = false
	a.mu.Unlock()

	slog.Info("nqueens service shutdown complete",
		"uptime", uptime,
		"results_published", stats.Published,
		"results_dropped", stats.Dropped,
	)

	return nil
}

// forwardSweeps consumes completed sweeps from the sweeper and fans
// them out to stats, metrics, and telemetry.
func (a *App) forwardSweeps(ctx context.Context) {
	defer a.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case s := <-a.results:
			a.recordSweep(s)
		}
	}
}

func (a *App) recordSweep(s search.Sweep) {
	sweepsTotal.Inc()
	solutionsTotal.Add(float64(s.Solutions))
	sweepDuration.Observe(s.Elapsed.Seconds())
	lastCompletedSize.Set(float64(s.Size))

	stats := a.reporter.Stats()
	progressPublished.Set(float64(stats.Published))
	progressDropped.Set(float64(stats.Dropped))

	a.mu.Lock()
	a.sweepsDone++
	a.solutionsFound += s.Solutions
	a.lastSize = s.Size
	a.mu.Unlock()

	if a.emitter != nil {
		payload := emitter.SweepPayload{
			InstanceID: a.cfg.InstanceID,
			SweepID:    s.SweepID,
			Size:       s.Size,
			Solutions:  s.Solutions,
			ElapsedMS:  s.Elapsed.Milliseconds(),
			Engine:     s.Variant,
			Workers:    s.Workers,
			Timestamp:  time.Now().UTC(),
		}
		if err := a.emitter.PublishSweep(payload); err != nil {
			slog.Debug("sweep telemetry dropped", "error", err, "size", s.Size)
		}
	}
}

// emitHealth publishes periodic health beats on the telemetry topic.
func (a *App) emitHealth(ctx context.Context) {
	defer a.wg.Done()

	interval := time.Duration(a.cfg.Telemetry.HealthIntervalS) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			health := a.HealthCheck()
			payload := emitter.HealthPayload{
				InstanceID:       a.cfg.InstanceID,
				Status:           health.Status,
				SearchingSize:    health.Progress.LastSize,
				SweepsTotal:      health.SweepsTotal,
				SolutionsTotal:   health.SolutionsTotal,
				ResultsPublished: health.Progress.Published,
				ResultsDropped:   health.Progress.Dropped,
				UptimeS:          health.UptimeSeconds,
				Timestamp:        time.Now().UTC(),
			}
			if err := a.emitter.PublishHealth(payload); err != nil {
				slog.Debug("health telemetry dropped", "error", err)
			}
		}
	}
}

// Summary prints the end-of-session report when the display is enabled.
func (a *App) Summary() {
	if a.display != nil {
		a.display.Summary()
	}
}

// ShutdownTimeout returns the configured graceful shutdown timeout.
// Returns a default of 5 seconds if not configured.
func (a *App) ShutdownTimeout() time.Duration {
	timeout := time.Duration(a.cfg.ShutdownTimeoutS) * time.Second
	if timeout == 0 {
		return 5 * time.Second // Default
	}
	return timeout
}
