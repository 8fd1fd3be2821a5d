package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/schema"
	"github.com/matst80/campsite-finder/pkg/common"
	"github.com/matst80/campsite-finder/pkg/liststate"
	"github.com/matst80/campsite-finder/pkg/session"
	"github.com/matst80/campsite-finder/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type placeLookup interface {
	Places(ctx context.Context, filters types.PlaceFilters) ([]types.Place, error)
}

type app struct {
	fetcher  liststate.Fetcher
	places   placeLookup
	tracker  types.Tracking
	wsConfig session.Config
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.HandleFunc("/campsites", common.JsonHandler(a.tracker, a.Campsites))
		r.HandleFunc("/places", common.JsonHandler(a.tracker, a.Places))
	})
	r.Get("/ws", session.Handler(a.fetcher, a.tracker, a.wsConfig))
	return r
}

func (a *app) controllerOptions(ctx context.Context, sessionId int) []liststate.Option {
	opts := []liststate.Option{
		liststate.WithContext(ctx),
		liststate.WithSessionID(sessionId),
	}
	if a.tracker != nil {
		opts = append(opts, liststate.WithTracker(a.tracker))
	}
	return opts
}

// Campsites resolves the list state from the request query, the same way a
// deep link is resolved, and returns the settled snapshot. A failed search
// is reported in the snapshot error flag.
func (a *app) Campsites(w http.ResponseWriter, r *http.Request, sessionId int) (any, error) {
	ctrl := liststate.New(a.fetcher, a.controllerOptions(r.Context(), sessionId)...)
	defer ctrl.Close()

	ctrl.NavigateIn(r.URL.RawQuery)
	ctrl.Wait()
	return ctrl.Snapshot(), nil
}

type placeQuery struct {
	StateProvince []string `schema:"state_province"`
	Country       string   `schema:"country"`
	SearchStrCt   string   `schema:"search_str__ct"`
}

func (q placeQuery) filters() (types.PlaceFilters, error) {
	f := types.PlaceFilters{}
	if len(q.StateProvince) > 0 {
		states := make(types.StateList, 0, len(q.StateProvince))
		for _, s := range q.StateProvince {
			states = append(states, types.State(s))
		}
		if err := states.Validate(); err != nil {
			return f, err
		}
		f.StateProvince = types.Set(states)
	}
	if q.Country != "" {
		c := types.Country(q.Country)
		if err := c.Validate(); err != nil {
			return f, err
		}
		f.Country = types.Set(c)
	}
	if q.SearchStrCt != "" {
		f.SearchStrCt = types.Set(q.SearchStrCt)
	}
	return f, nil
}

func (a *app) Places(w http.ResponseWriter, r *http.Request, sessionId int) (any, error) {
	var q placeQuery
	if err := decoder.Decode(&q, r.URL.Query()); err != nil {
		return nil, common.BadRequest(err)
	}
	filters, err := q.filters()
	if err != nil {
		return nil, common.BadRequest(err)
	}
	places, err := a.places.Places(r.Context(), filters)
	if err != nil {
		return nil, common.BadGateway(err)
	}
	return places, nil
}
