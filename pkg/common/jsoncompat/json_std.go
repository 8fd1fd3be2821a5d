//go:build !jsonv2 && !sonic

package jsoncompat

import "encoding/json"

const Backend = "encoding/json"

func Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
