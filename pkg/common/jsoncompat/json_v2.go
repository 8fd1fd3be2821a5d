//go:build jsonv2

package jsoncompat

import json "encoding/json/v2"

const Backend = "encoding/json/v2"

// Marshal sorts map keys like the v1 encoder so encoded payloads are stable.
func Marshal(v any) ([]byte, error) { return json.Marshal(v, json.Deterministic(true)) }

// Unmarshal rejects duplicate object keys, unlike the v1 decoder.
func Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
