package urlstate

import (
	"net/url"
	"testing"

	"github.com/matst80/campsite-finder/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullFilterState() types.FilterState {
	return types.FilterState{
		SearchStrCt:           types.Set("lake"),
		NameCt:                types.Set("pine | fir"),
		CodeCt:                types.Set("NF"),
		State:                 types.Set(types.StateList{"CO", "UT"}),
		Country:               types.Set(types.CountryUS),
		CampsiteType:          types.Set(types.CampsiteTypeList{"NF", "BLM"}),
		MonthOpenLt:           types.Set(5),
		MonthCloseGt:          types.Set(9),
		ElevationFtGt:         types.Set(1000),
		ElevationFtLt:         types.Set(9000),
		NumCampsitesGt:        types.Set(10),
		NumCampsitesLt:        types.Set(200),
		NearestTownDistanceLt: types.Set(12.5),
		MaxRvLengthGt:         types.Set(30),
		ToiletType:            types.Set(types.ToiletTypeList{types.ToiletVault}),
		HasRvHookup:           types.Set(true),
		HasWaterHookup:        types.Set(false),
		HasElectricHookup:     types.Set(true),
		HasSewerHookup:        types.Set(false),
		HasSanitaryDump:       types.Set(true),
		HasToilets:            types.Set(true),
		HasDrinkingWater:      types.Set(true),
		HasShowers:            types.Set(false),
		AcceptsReservations:   types.Set(true),
		AcceptsPets:           types.Set(true),
		LowNoFee:              types.Set(false),
		Distance:              types.Set(types.Distance{Value: 50, Units: types.DistanceMiles, Lat: 39.74, Lon: -104.99}),
		SortBy:                types.SortByCampsiteType,
		SortDir:               types.SortDesc,
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		page    int
		filters types.FilterState
	}{
		{"defaults", 1, types.DefaultFilterState()},
		{"all set", 7, fullFilterState()},
		{"sort only", 3, types.FilterState{SortBy: types.SortByCode, SortDir: types.SortDesc}},
		{"one filter", 12, types.FilterState{Country: types.Set(types.CountryCA), SortBy: types.SortByName, SortDir: types.SortAsc}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decode(Encode(tc.page, tc.filters))
			assert.Equal(t, tc.page, got.Page)
			assert.True(t, tc.filters.Equal(got.Filters))
			assert.Equal(t, tc.filters, got.Filters)
		})
	}
}

func TestDefaultsEncodeToEmptyPayload(t *testing.T) {
	q := Encode(1, types.DefaultFilterState())
	assert.Equal(t, "page=1&filters=%7B%7D", q)
	assert.Equal(t, q, Canonical(q))

	payload, err := EncodeFilters(types.DefaultFilterState())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(payload))
}

func TestMalformedQueryFallsBack(t *testing.T) {
	for _, raw := range []string{
		"filters=not-json&page=abc",
		"?page=-4&filters=%5B1%2C2%5D",
		"page=0&filters=%7B%22country%22%3A%22MX%22%7D",
		"page=1.5&filters=%7B%22month_open__lt%22%3A%22may%22%7D",
		"filters=%7B%22country%22%3A%22US%22%2C%22sort_by%22%3A%22price%22%7D",
		"%zz",
		"",
	} {
		got := Decode(raw)
		assert.Equal(t, 1, got.Page, raw)
		assert.True(t, got.Filters.IsDefault(), raw)
	}
}

func TestDecodeIgnoresUnknownKeys(t *testing.T) {
	got := Decode("page=4&utm_source=mail&filters=%7B%22country%22%3A%22US%22%2C%22radius%22%3A%7B%22value%22%3A5%7D%7D")
	assert.Equal(t, 4, got.Page)
	assert.Equal(t, types.CountryUS, got.Filters.Country.Value())
	assert.Equal(t, 1, countSet(got.Filters))
}

func TestDecodeNullIsUnset(t *testing.T) {
	got := Decode("filters=" + url.QueryEscape(`{"name__ct":null,"state":[],"sort_dir":null}`))
	assert.True(t, got.Filters.IsDefault())
}

func TestDecodeFiltersReportsMalformed(t *testing.T) {
	f, err := DecodeFilters([]byte(`{"has_showers":"yes"}`))
	assert.ErrorIs(t, err, ErrMalformedFilters)
	assert.True(t, f.IsDefault())

	_, err = DecodeFilters([]byte(`[]`))
	assert.ErrorIs(t, err, ErrMalformedFilters)
}

func TestEncodeExample(t *testing.T) {
	f := types.DefaultFilterState()
	f.Country = types.Set(types.CountryUS)
	f.SortDir = types.SortDesc
	assert.Equal(t, "page=1&filters=%7B%22country%22%3A%22US%22%2C%22sort_dir%22%3A%22desc%22%7D", Encode(1, f))

	got := Decode("?page=2&filters=%7B%22country%22%3A%22US%22%7D")
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, types.CountryUS, got.Filters.Country.Value())
	assert.Equal(t, types.SortAsc, got.Filters.SortDir)
}

func TestDecodeURL(t *testing.T) {
	u, err := url.Parse("https://camp.example/campsites?page=3")
	require.NoError(t, err)
	assert.Equal(t, 3, DecodeURL(u).Page)
	assert.Equal(t, 1, DecodeURL(nil).Page)
}

func TestIncompleteDistanceFallsBack(t *testing.T) {
	got := Decode("page=3&filters=" + url.QueryEscape(`{"country":"US","distance":{"value":5}}`))
	assert.Equal(t, 3, got.Page)
	assert.True(t, got.Filters.IsDefault())

	got = Decode("filters=" + url.QueryEscape(`{"distance":{"value":5,"units":"km","lat":45.5,"lon":-73.6}}`))
	assert.Equal(t, types.DistanceKilometers, got.Filters.Distance.Value().Units)
	assert.Equal(t, 1, countSet(got.Filters))
}

func countSet(f types.FilterState) int {
	n := 0
	for _, nf := range f.Fields() {
		if !nf.Sort && nf.Field.IsSet() {
			n++
		}
	}
	return n
}
