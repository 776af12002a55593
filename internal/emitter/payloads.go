package emitter

import "time"

// SweepPayload is emitted on the solutions topic after each completed
// sweep. Individual boards are not emitted, only the per-size totals.
type SweepPayload struct {
	InstanceID string    `json:"instance_id" msgpack:"instance_id"`
	SweepID    string    `json:"sweep_id" msgpack:"sweep_id"`
	Size       int       `json:"size" msgpack:"size"`
	Solutions  uint64    `json:"solutions" msgpack:"solutions"`
	ElapsedMS  int64     `json:"elapsed_ms" msgpack:"elapsed_ms"`
	Engine     string    `json:"engine" msgpack:"engine"`
	Workers    int       `json:"workers" msgpack:"workers"`
	Timestamp  time.Time `json:"timestamp" msgpack:"timestamp"`
}

// HealthPayload is emitted periodically on the health topic.
type HealthPayload struct {
	InstanceID       string    `json:"instance_id" msgpack:"instance_id"`
	Status           string    `json:"status" msgpack:"status"`
	SearchingSize    int       `json:"searching_size" msgpack:"searching_size"`
	SweepsTotal      uint64    `json:"sweeps_total" msgpack:"sweeps_total"`
	SolutionsTotal   uint64    `json:"solutions_total" msgpack:"solutions_total"`
	ResultsPublished uint64    `json:"results_published" msgpack:"results_published"`
	ResultsDropped   uint64    `json:"results_dropped" msgpack:"results_dropped"`
	UptimeS          int64     `json:"uptime_s" msgpack:"uptime_s"`
	Timestamp        time.Time `json:"timestamp" msgpack:"timestamp"`
}
