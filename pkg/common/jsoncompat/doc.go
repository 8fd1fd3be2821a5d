// Package jsoncompat selects the JSON implementation at build time.
//
// The standard library is used by default. Build with -tags jsonv2 for
// encoding/json/v2 or -tags sonic for github.com/bytedance/sonic.
package jsoncompat
