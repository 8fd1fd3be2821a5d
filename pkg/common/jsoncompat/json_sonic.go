//go:build sonic && !jsonv2

package jsoncompat

import "github.com/bytedance/sonic"

const Backend = "sonic"

// ConfigStd keeps map keys sorted so encoded filter payloads stay stable.
var api = sonic.ConfigStd

func Marshal(v any) ([]byte, error) { return api.Marshal(v) }

func Unmarshal(data []byte, v any) error { return api.Unmarshal(data, v) }
