// Package urlstate maps the address bar query string to the campsite list
// state and back.
//
// The query carries two parameters:
//
//	page=2&filters=%7B%22country%22%3A%22US%22%7D
//
// where filters is a JSON object holding only the fields that differ from
// their defaults. Both directions are pure; reading and writing the address
// bar is left to the caller.
package urlstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/matst80/campsite-finder/pkg/common/jsoncompat"
	"github.com/matst80/campsite-finder/pkg/types"
)

const (
	PageParam    = "page"
	FiltersParam = "filters"
)

var ErrMalformedFilters = errors.New("malformed filters payload")

type State struct {
	Page    int
	Filters types.FilterState
}

func (s State) Encode() string {
	return Encode(s.Page, s.Filters)
}

type queryParams struct {
	Page    string `schema:"page"`
	Filters string `schema:"filters"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// Decode never fails. A missing or invalid page becomes 1 and a filters
// payload that cannot be decoded in full becomes the default filter state.
func Decode(rawQuery string) State {
	state := State{
		Page:    1,
		Filters: types.DefaultFilterState(),
	}
	// ParseQuery keeps every pair it could parse next to the error
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))

	var params queryParams
	if err := decoder.Decode(&params, values); err != nil {
		return state
	}
	if page, err := strconv.Atoi(strings.TrimSpace(params.Page)); err == nil && page > 0 {
		state.Page = page
	}
	if params.Filters != "" {
		if f, err := DecodeFilters([]byte(params.Filters)); err == nil {
			state.Filters = f
		}
	}
	return state
}

func DecodeURL(u *url.URL) State {
	if u == nil {
		return Decode("")
	}
	return Decode(u.RawQuery)
}

// DecodeFilters decodes a filters payload on top of the defaults. Unknown
// keys are ignored, null means unset. Any other problem returns the default
// state together with an error wrapping ErrMalformedFilters.
func DecodeFilters(payload []byte) (types.FilterState, error) {
	var raw map[string]json.RawMessage
	if err := jsoncompat.Unmarshal(payload, &raw); err != nil {
		return types.DefaultFilterState(), fmt.Errorf("%w: %v", ErrMalformedFilters, err)
	}
	f := types.DefaultFilterState()
	for name, data := range raw {
		field, ok := f.Lookup(name)
		if !ok {
			continue
		}
		if err := field.Decode(data); err != nil {
			return types.DefaultFilterState(), fmt.Errorf("%w: %s: %v", ErrMalformedFilters, name, err)
		}
	}
	return f, nil
}

// EncodeFilters returns the JSON object of every non default field.
func EncodeFilters(f types.FilterState) ([]byte, error) {
	payload := make(map[string]any)
	for _, nf := range f.Fields() {
		if nf.Field.IsDefault() {
			continue
		}
		payload[nf.Name] = nf.Field.Any()
	}
	return jsoncompat.Marshal(payload)
}

// Encode builds the query string without a leading "?".
func Encode(page int, f types.FilterState) string {
	payload, err := EncodeFilters(f)
	if err != nil {
		payload = []byte("{}")
	}
	var b strings.Builder
	b.WriteString(PageParam)
	b.WriteByte('=')
	b.WriteString(strconv.Itoa(page))
	b.WriteByte('&')
	b.WriteString(FiltersParam)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(string(payload)))
	return b.String()
}

// Canonical is the encoding Decode(rawQuery) would be written back as.
func Canonical(rawQuery string) string {
	return Decode(rawQuery).Encode()
}
