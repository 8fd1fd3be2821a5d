package client

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gorilla/schema"
	"github.com/matst80/campsite-finder/pkg/types"
)

// PlacesLimit is the number of places returned per lookup.
const PlacesLimit = 25

var encoder = schema.NewEncoder()

type pageParams struct {
	Limit   int    `schema:"limit"`
	Offset  int    `schema:"offset"`
	SortBy  string `schema:"sort_by,omitempty"`
	SortDir string `schema:"sort_dir,omitempty"`
}

// SearchValues builds the search API query: paging, sort and every set
// filter. List filters become repeated parameters.
func SearchValues(page, itemsPerPage int, filters types.FilterState) (url.Values, error) {
	if page < 1 {
		page = 1
	}
	values := url.Values{}
	err := encoder.Encode(pageParams{
		Limit:   itemsPerPage,
		Offset:  (page - 1) * itemsPerPage,
		SortBy:  string(filters.SortBy),
		SortDir: string(filters.SortDir),
	}, values)
	if err != nil {
		return nil, err
	}
	for _, nf := range filters.Fields() {
		if nf.Sort || !nf.Field.IsSet() {
			continue
		}
		if err = addField(values, nf); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func PlaceValues(filters types.PlaceFilters) (url.Values, error) {
	values := url.Values{}
	if err := encoder.Encode(pageParams{Limit: PlacesLimit}, values); err != nil {
		return nil, err
	}
	for _, nf := range filters.Fields() {
		if !nf.Field.IsSet() {
			continue
		}
		if err := addField(values, nf); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func addField(values url.Values, nf types.NamedField) error {
	switch v := nf.Field.Any().(type) {
	case string:
		values.Add(nf.Name, v)
	case int:
		values.Add(nf.Name, strconv.Itoa(v))
	case float64:
		values.Add(nf.Name, strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		values.Add(nf.Name, strconv.FormatBool(v))
	case types.Country:
		values.Add(nf.Name, string(v))
	case types.StateList:
		addAll(values, nf.Name, v)
	case types.CampsiteTypeList:
		addAll(values, nf.Name, v)
	case types.ToiletTypeList:
		addAll(values, nf.Name, v)
	case types.Distance:
		values.Add(nf.Name+"_value", strconv.FormatFloat(v.Value, 'f', -1, 64))
		values.Add(nf.Name+"_units", string(v.Units))
		values.Add(nf.Name+"_lat", strconv.FormatFloat(v.Lat, 'f', -1, 64))
		values.Add(nf.Name+"_lon", strconv.FormatFloat(v.Lon, 'f', -1, 64))
	default:
		return fmt.Errorf("unsupported filter value %s: %T", nf.Name, v)
	}
	return nil
}

func addAll[T ~string](values url.Values, key string, list []T) {
	for _, v := range list {
		values.Add(key, string(v))
	}
}
