package core

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProgressHealth reports the state of the progress slot with drop rate.
type ProgressHealth struct {
	Published    uint64  `json:"published"`
	Dropped      uint64  `json:"dropped"`
	DropRate     float64 `json:"drop_rate"`
	LastSolution uint64  `json:"last_solution"`
	LastSize     int     `json:"last_size"`
}

// HealthStatus represents the health state of the nqueens service.
type HealthStatus struct {
	Status            string         `json:"status"` // "healthy", "degraded", "unhealthy"
	UptimeSeconds     int64          `json:"uptime_seconds"`
	Engine            string         `json:"engine"`
	SweepsTotal       uint64         `json:"sweeps_total"`
	SolutionsTotal    uint64         `json:"solutions_total"`
	LastCompletedSize int            `json:"last_completed_size"`
	MQTTConnected     bool           `json:"mqtt_connected"`
	Progress          ProgressHealth `json:"progress"`
}

// HealthCheck returns the current health status of the service.
func (a *App) HealthCheck() HealthStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()

	status := HealthStatus{
		Status:            "healthy",
		UptimeSeconds:     int64(time.Since(a.started).Seconds()),
		Engine:            a.engine.Variant(),
		SweepsTotal:       a.sweepsDone,
		SolutionsTotal:    a.solutionsFound,
		LastCompletedSize: a.lastSize,
	}

	stats := a.reporter.Stats()
	var dropRate float64
	if total := stats.Published + stats.Dropped; total > 0 {
		dropRate = float64(stats.Dropped) / float64(total)
	}
	status.Progress = ProgressHealth{
		Published: stats.Published,
		Dropped:   stats.Dropped,
		DropRate:  dropRate,
		LastSize:  stats.LastSize,
	}
	// Non-consuming peek at the slot; a solution ordinal only means
	// something once a board has actually been published.
	if res, ok := a.reporter.Latest(); ok && res.HasBoard {
		status.Progress.LastSolution = res.Solution
	}

	if a.emitter != nil {
		status.MQTTConnected = a.emitter.Stats().Connected
	}

	// Determine overall health status
	if !a.isRunning {
		status.Status = "unhealthy"
	} else if a.emitter != nil && !status.MQTTConnected {
		status.Status = "degraded"
	}

	return status
}

// LivenessHandler handles /health (simple liveness check).
// Returns 200 if the service process is alive.
func (a *App) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	response := map[string]interface{}{
		"status": "alive",
		"uptime": int64(time.Since(a.started).Seconds()),
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// ReadinessHandler handles /readiness (detailed readiness check).
// Returns 200 only if the service is searching.
func (a *App) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := a.HealthCheck()

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(health)
}

// startHealthServer starts the HTTP health check server on the given
// port. The listener runs in its own goroutine and is stopped during
// Shutdown.
func (a *App) startHealthServer(port int) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", a.LivenessHandler)
	mux.HandleFunc("/readiness", a.ReadinessHandler)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	a.healthServer = server

	slog.Info("starting health check server",
		"port", port,
		"endpoints", []string{"/health", "/readiness", "/metrics"},
	)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("health check server failed", "error", err)
		}
	}()
}
