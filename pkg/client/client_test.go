package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matst80/campsite-finder/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(url string) *Client {
	return New(Config{
		BaseURL:      url,
		Timeout:      2 * time.Second,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	})
}

const onePage = `{"items":[{"id":"0b6f1c0e-5f3a-4a5e-9a3e-1d2f3c4b5a69","name":"Pine Lake","state":"CO","country":"US"}],"num_total_results":41}`

func TestSearchSendsPagingSortAndFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/campsites", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "20", q.Get("limit"))
		assert.Equal(t, "40", q.Get("offset"))
		assert.Equal(t, "state", q.Get("sort_by"))
		assert.Equal(t, "desc", q.Get("sort_dir"))
		assert.Equal(t, []string{"CO", "UT"}, q["state"])
		assert.Equal(t, "true", q.Get("has_showers"))
		assert.Equal(t, "12.5", q.Get("nearest_town_distance__lt"))
		assert.Equal(t, "lake", q.Get("search_str__ct"))
		assert.NotContains(t, q, "country")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(onePage))
	}))
	defer srv.Close()

	f := types.DefaultFilterState()
	f.SortBy = types.SortByState
	f.SortDir = types.SortDesc
	f.State = types.Set(types.StateList{"CO", "UT"})
	f.HasShowers = types.Set(true)
	f.NearestTownDistanceLt = types.Set(12.5)
	f.SearchStrCt = types.Set("lake")

	res, err := testClient(srv.URL).Search(context.Background(), 3, types.ItemsPerPage, f)
	require.NoError(t, err)
	assert.Equal(t, 41, res.NumTotalResults)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Pine Lake", res.Items[0].Name)
	assert.Equal(t, "0b6f1c0e-5f3a-4a5e-9a3e-1d2f3c4b5a69", res.Items[0].ID.String())
}

func TestSearchRetriesOnceOnServerError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).Search(context.Background(), 1, types.ItemsPerPage, types.DefaultFilterState())
	assert.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestSearchRecoversOnRetry(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(onePage))
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).Search(context.Background(), 1, types.ItemsPerPage, types.DefaultFilterState())
	require.NoError(t, err)
	assert.Equal(t, 41, res.NumTotalResults)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestSearchDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), 1, types.ItemsPerPage, types.DefaultFilterState())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestSearchEmptyBodyGivesEmptyItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"num_total_results":0}`))
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).Search(context.Background(), 1, types.ItemsPerPage, types.DefaultFilterState())
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestIdenticalSearchesShareOneRequest(t *testing.T) {
	var attempts atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		started <- struct{}{}
		<-release
		w.Write([]byte(onePage))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	f := types.DefaultFilterState()
	f.Country = types.Set(types.CountryCA)

	var wg sync.WaitGroup
	results := make([]int, 2)
	search := func(i int) {
		defer wg.Done()
		res, err := c.Search(context.Background(), 2, types.ItemsPerPage, f)
		if assert.NoError(t, err) {
			results[i] = res.NumTotalResults
		}
	}
	wg.Add(2)
	go search(0)
	<-started
	go search(1)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), attempts.Load())
	assert.Equal(t, []int{41, 41}, results)
}

func TestCancelledCallerDoesNotFailSharedSearch(t *testing.T) {
	var attempts atomic.Int32
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		started <- struct{}{}
		<-release
		w.Write([]byte(onePage))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	f := types.DefaultFilterState()
	f.State = types.Set(types.StateList{"UT"})

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Search(first, 1, types.ItemsPerPage, f)
		firstErr <- err
	}()
	<-started

	secondDone := make(chan struct{})
	var res *types.CampsiteList
	var err error
	go func() {
		defer close(secondDone)
		res, err = c.Search(context.Background(), 1, types.ItemsPerPage, f)
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	<-secondDone
	require.NoError(t, err)
	assert.Equal(t, 41, res.NumTotalResults)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestPlaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "0", q.Get("offset"))
		assert.Equal(t, "25", q.Get("limit"))
		assert.Equal(t, "US", q.Get("country"))
		assert.Equal(t, "bould", q.Get("search_str__ct"))
		assert.NotContains(t, q, "state_province")
		assert.NotContains(t, q, "sort_by")
		w.Write([]byte(`[{"id":"7d3c8c1a-2b4e-4f6a-8c9d-0e1f2a3b4c5d","name":"Boulder","state_province":"CO","country":"US","lat":40.01,"lon":-105.27}]`))
	}))
	defer srv.Close()

	places, err := testClient(srv.URL).Places(context.Background(), types.PlaceFilters{
		Country:     types.Set(types.CountryUS),
		SearchStrCt: types.Set("bould"),
	})
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Boulder", places[0].Name)
	assert.Equal(t, types.State("CO"), places[0].StateProvince)
}

func TestSearchValuesFirstPage(t *testing.T) {
	values, err := SearchValues(0, 20, types.DefaultFilterState())
	require.NoError(t, err)
	assert.Equal(t, "limit=20&offset=0&sort_by=name&sort_dir=asc", values.Encode())
}

func TestSearchValuesFlattenDistance(t *testing.T) {
	f := types.DefaultFilterState()
	f.Distance = types.Set(types.Distance{Value: 30, Units: types.DistanceMiles, Lat: 44.43, Lon: -110.59})
	values, err := SearchValues(1, 20, f)
	require.NoError(t, err)
	assert.Equal(t, "30", values.Get("distance_value"))
	assert.Equal(t, "mi", values.Get("distance_units"))
	assert.Equal(t, "44.43", values.Get("distance_lat"))
	assert.Equal(t, "-110.59", values.Get("distance_lon"))
	assert.NotContains(t, values, "distance")
}
