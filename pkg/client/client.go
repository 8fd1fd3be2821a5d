// Package client talks to the campsite search API.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/matst80/campsite-finder/pkg/common/jsoncompat"
	"github.com/matst80/campsite-finder/pkg/query"
	"github.com/matst80/campsite-finder/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

var ErrUnexpectedStatus = errors.New("unexpected status from search api")

var (
	name   = "github.com/matst80/campsite-finder/pkg/client"
	tracer = otel.Tracer(name)

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campsites_api_request_duration_seconds",
		Help:    "Duration of requests to the campsite search api",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	noSharedSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campsites_api_shared_searches_total",
		Help: "The total number of searches answered by an identical in-flight request",
	})
	noRequestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campsites_api_errors_total",
		Help: "The total number of failed requests to the campsite search api",
	}, []string{"endpoint"})
)

type Config struct {
	BaseURL      string
	Timeout      time.Duration
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:      baseURL,
		Timeout:      10 * time.Second,
		RetryWaitMin: 200 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
	}
}

// Client runs campsite searches and place lookups. A failed request is
// retried once on connection errors and 5xx or 429 responses. Identical
// searches running at the same time share one request.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	group   singleflight.Group
}

func New(cfg Config) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 1
	rc.RetryWaitMin = cfg.RetryWaitMin
	rc.RetryWaitMax = cfg.RetryWaitMax
	rc.Logger = log.Default()
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    rc,
	}
}

// Search fetches one page of campsites matching filters. The shared request
// is detached from the caller that started it; a cancelled caller returns
// its own ctx.Err() while the others keep waiting.
func (c *Client) Search(ctx context.Context, page, itemsPerPage int, filters types.FilterState) (*types.CampsiteList, error) {
	key := query.Build(page, filters).Key()
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.search(shared, page, itemsPerPage, filters)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			noSharedSearches.Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*types.CampsiteList), nil
	}
}

func (c *Client) search(ctx context.Context, page, itemsPerPage int, filters types.FilterState) (*types.CampsiteList, error) {
	ctx, span := tracer.Start(ctx, "campsites.search", trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("items_per_page", itemsPerPage),
		attribute.String("sort_by", string(filters.SortBy)),
		attribute.String("sort_dir", string(filters.SortDir)),
	))
	defer span.End()

	values, err := SearchValues(page, itemsPerPage, filters)
	if err != nil {
		return nil, err
	}

	result := &types.CampsiteList{}
	if err = c.getJSON(ctx, "campsites", values, result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if result.Items == nil {
		result.Items = []types.Campsite{}
	}
	span.SetAttributes(attribute.Int("results", result.NumTotalResults))
	return result, nil
}

// Places looks up at most PlacesLimit places matching filters.
func (c *Client) Places(ctx context.Context, filters types.PlaceFilters) ([]types.Place, error) {
	ctx, span := tracer.Start(ctx, "places.list", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	values, err := PlaceValues(filters)
	if err != nil {
		return nil, err
	}
	places := make([]types.Place, 0)
	if err = c.getJSON(ctx, "places", values, &places); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("results", len(places)))
	return places, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, values url.Values, target any) error {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	u := c.baseURL + "/" + endpoint + "?" + values.Encode()
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		noRequestErrors.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("error requesting %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		noRequestErrors.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, endpoint, res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		noRequestErrors.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("error reading %s response: %w", endpoint, err)
	}
	if err = jsoncompat.Unmarshal(body, target); err != nil {
		noRequestErrors.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("error decoding %s response: %w", endpoint, err)
	}
	return nil
}
