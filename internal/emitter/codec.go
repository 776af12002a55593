package emitter

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec serializes telemetry payloads for the wire.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Name() string
}

// NewCodec returns the codec selected in the telemetry config.
func NewCodec(name string) (Codec, error) {
	switch name {
	case "msgpack":
		return msgpackCodec{}, nil
	case "json":
		return jsonCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

type msgpackCodec struct{}

func (msgpackCodec) Marshal(v any) ([]byte, error) { return msgpack.Marshal(v) }
func (msgpackCodec) Name() string                  { return "msgpack" }

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }
func (jsonCodec) Name() string                  { return "json" }
