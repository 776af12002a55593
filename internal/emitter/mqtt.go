// Package emitter publishes sweep results and health beats to an MQTT
// broker. The solver never depends on it, telemetry is strictly fire
// and forget.
package emitter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Osspial/nqueens/internal/config"
)

// MQTTEmitter publishes solver telemetry to an MQTT broker.
type MQTTEmitter struct {
	cfg    *config.Config
	codec  Codec
	client mqtt.Client

	mu        sync.RWMutex
	published map[string]uint64 // count per topic
	errors    uint64
	connected bool
}

// NewMQTTEmitter creates an emitter for the configured broker and codec.
func NewMQTTEmitter(cfg *config.Config) (*MQTTEmitter, error) {
	codec, err := NewCodec(cfg.Telemetry.Codec)
	if err != nil {
		return nil, err
	}
	return &MQTTEmitter{
		cfg:       cfg,
		codec:     codec,
		published: make(map[string]uint64),
	}, nil
}

// Connect establishes the connection to the MQTT broker. The client
// keeps retrying in the background after a timeout here, so a late
// broker still picks up telemetry once it appears.
func (e *MQTTEmitter) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", e.cfg.Telemetry.Broker))
	opts.SetClientID(e.cfg.InstanceID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		e.mu.Lock()
		e.connected = true
		e.mu.Unlock()
		slog.Info("mqtt connection established",
			"broker", e.cfg.Telemetry.Broker,
			"client_id", e.cfg.InstanceID,
			"codec", e.codec.Name())
	}

	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		e.mu.Lock()
		e.connected = false
		e.mu.Unlock()
		slog.Warn("mqtt connection lost, will auto-reconnect",
			"error", err,
			"broker", e.cfg.Telemetry.Broker,
			"max_retry_interval", "30s")
	}

	e.client = mqtt.NewClient(opts)

	slog.Info("connecting to mqtt broker", "broker", e.cfg.Telemetry.Broker)

	token := e.client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}

	e.mu.Lock()
	e.connected = true
	e.mu.Unlock()

	return nil
}

// PublishSweep publishes the totals of a completed sweep.
func (e *MQTTEmitter) PublishSweep(p SweepPayload) error {
	return e.publish("solutions", p)
}

// PublishHealth publishes a periodic health beat.
func (e *MQTTEmitter) PublishHealth(p HealthPayload) error {
	return e.publish("health", p)
}

func (e *MQTTEmitter) publish(kind string, v any) error {
	if !e.isConnected() {
		e.mu.Lock()
		e.errors++
		e.mu.Unlock()
		return fmt.Errorf("mqtt not connected")
	}

	topic := e.topic(kind)
	qos := e.getQoS(kind)

	payload, err := e.codec.Marshal(v)
	if err != nil {
		e.mu.Lock()
		e.errors++
		e.mu.Unlock()
		return fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}

	token := e.client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		e.mu.Lock()
		e.errors++
		e.mu.Unlock()
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		e.mu.Lock()
		e.errors++
		e.mu.Unlock()
		return fmt.Errorf("publish failed: %w", err)
	}

	e.mu.Lock()
	e.published[topic]++
	e.mu.Unlock()

	slog.Debug("telemetry published",
		"topic", topic,
		"qos", qos,
		"size", len(payload),
	)

	return nil
}

// Disconnect closes the MQTT connection.
func (e *MQTTEmitter) Disconnect() error {
	if e.client != nil && e.client.IsConnected() {
		e.client.Disconnect(250) // 250ms grace period
		slog.Info("mqtt disconnected")
	}

	e.mu.Lock()
	e.connected = false
	e.mu.Unlock()

	return nil
}

// Stats returns emitter statistics.
func (e *MQTTEmitter) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	published := make(map[string]uint64)
	for k, v := range e.published {
		published[k] = v
	}

	return Stats{
		Connected: e.connected,
		Published: published,
		Errors:    e.errors,
	}
}

// Stats contains emitter statistics.
type Stats struct {
	Connected bool
	Published map[string]uint64
	Errors    uint64
}

// isConnected returns connection status.
func (e *MQTTEmitter) isConnected() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.connected
}

// topic builds {prefix}/{instance_id}/{kind}.
func (e *MQTTEmitter) topic(kind string) string {
	return fmt.Sprintf("%s/%s/%s", e.cfg.Telemetry.TopicPrefix, e.cfg.InstanceID, kind)
}

// getQoS returns the QoS level for a message kind.
func (e *MQTTEmitter) getQoS(kind string) byte {
	if qos, ok := e.cfg.Telemetry.QoS[kind]; ok {
		return qos
	}
	return 0 // default QoS 0
}
