// Package config loads and validates the service configuration.
package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config represents the complete nqueens service configuration.
type Config struct {
	InstanceID       string          `yaml:"instance_id"`        // default: generated
	ShutdownTimeoutS int             `yaml:"shutdown_timeout_s"` // graceful shutdown timeout in seconds
	Logging          LoggingConfig   `yaml:"logging"`
	Search           SearchConfig    `yaml:"search"`
	Display          DisplayConfig   `yaml:"display"`
	Telemetry        TelemetryConfig `yaml:"telemetry"`
	Health           HealthConfig    `yaml:"health"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// SearchConfig selects the engine and its pacing.
type SearchConfig struct {
	Engine  string `yaml:"engine"`  // sequential, parallel
	Workers int    `yaml:"workers"` // parallel fan-out width; 0 = one per CPU
	HoldMS  int    `yaml:"hold_ms"` // pause after each sweep so the result stays visible
}

// DisplayConfig controls the terminal renderer.
type DisplayConfig struct {
	Enabled     bool `yaml:"enabled"`
	ClearScreen bool `yaml:"clear_screen"`
}

// TelemetryConfig controls the optional MQTT emitter.
type TelemetryConfig struct {
	Enabled         bool            `yaml:"enabled"`
	Broker          string          `yaml:"broker"`       // host:port
	TopicPrefix     string          `yaml:"topic_prefix"` // topics are {prefix}/{instance_id}/{kind}
	Codec           string          `yaml:"codec"`        // msgpack, json
	QoS             map[string]byte `yaml:"qos"`          // per message kind: solutions, health
	HealthIntervalS int             `yaml:"health_interval_s"`
}

// HealthConfig controls the HTTP health endpoint. A port of 0 disables
// the listener, which is the default for an interactive terminal run.
type HealthConfig struct {
	Port int `yaml:"port"`
}

// Default returns a configuration that runs the interactive solver with
// the parallel engine and no telemetry.
func Default() *Config {
	return &Config{
		InstanceID:       fmt.Sprintf("nqueens-%s", uuid.NewString()[:8]),
		ShutdownTimeoutS: 5,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Search: SearchConfig{
			Engine:  "parallel",
			Workers: 0,
			HoldMS:  2000,
		},
		Display: DisplayConfig{
			Enabled:     true,
			ClearScreen: true,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			TopicPrefix: "nqueens",
			Codec:       "msgpack",
			QoS: map[string]byte{
				"solutions": 1,
				"health":    0,
			},
			HealthIntervalS: 30,
		},
		Health: HealthConfig{Port: 0},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.InstanceID == "" {
		cfg.InstanceID = fmt.Sprintf("nqueens-%s", uuid.NewString()[:8])
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks every enumerated and ranged field.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	switch c.Search.Engine {
	case "sequential", "parallel":
	default:
		return fmt.Errorf("search.engine must be sequential or parallel, got %q", c.Search.Engine)
	}
	if c.Search.Workers < 0 {
		return fmt.Errorf("search.workers must be >= 0, got %d", c.Search.Workers)
	}
	if c.Search.HoldMS < 0 {
		return fmt.Errorf("search.hold_ms must be >= 0, got %d", c.Search.HoldMS)
	}

	if c.ShutdownTimeoutS <= 0 {
		return fmt.Errorf("shutdown_timeout_s must be > 0, got %d", c.ShutdownTimeoutS)
	}

	if c.Health.Port < 0 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be in [0, 65535], got %d", c.Health.Port)
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Broker == "" {
			return fmt.Errorf("telemetry.broker is required when telemetry is enabled")
		}
		if c.Telemetry.TopicPrefix == "" {
			return fmt.Errorf("telemetry.topic_prefix is required when telemetry is enabled")
		}
		switch c.Telemetry.Codec {
		case "msgpack", "json":
		default:
			return fmt.Errorf("telemetry.codec must be msgpack or json, got %q", c.Telemetry.Codec)
		}
		for kind, qos := range c.Telemetry.QoS {
			if qos > 2 {
				return fmt.Errorf("telemetry.qos.%s must be 0, 1, or 2, got %d", kind, qos)
			}
		}
		if c.Telemetry.HealthIntervalS <= 0 {
			return fmt.Errorf("telemetry.health_interval_s must be > 0, got %d", c.Telemetry.HealthIntervalS)
		}
	}

	return nil
}
