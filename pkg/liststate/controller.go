// Package liststate owns the filter, sort and page state of the campsite
// list and keeps it in step with the address bar and the search API.
//
// The address bar is only read through NavigateIn and only written through
// the Navigator. Fetches start once the page is resolved from a URL, and a
// response is applied only while the state it was requested for is still
// current.
package liststate

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/matst80/campsite-finder/pkg/listview"
	"github.com/matst80/campsite-finder/pkg/query"
	"github.com/matst80/campsite-finder/pkg/types"
	"github.com/matst80/campsite-finder/pkg/urlstate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Unresolved is the page before the URL has been read.
const Unresolved = 0

var (
	ErrUnresolved     = errors.New("page not resolved yet")
	ErrInvalidPage    = errors.New("page must be 1 or greater")
	ErrPageOutOfRange = errors.New("page out of range")
)

var (
	noFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campsites_list_fetches_total",
		Help: "The total number of searches issued by list controllers",
	})
	noStale = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campsites_list_stale_responses_total",
		Help: "The total number of search responses discarded because the list state moved on",
	})
	noFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campsites_list_fetch_failures_total",
		Help: "The total number of searches that ended in an error",
	})
	noURLWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campsites_list_url_writes_total",
		Help: "The total number of address bar writes",
	}, []string{"mode"})
)

// Fetcher is the search API as seen by the controller.
type Fetcher interface {
	Search(ctx context.Context, page, itemsPerPage int, filters types.FilterState) (*types.CampsiteList, error)
}

type Option func(*Controller)

func WithNavigator(nav Navigator) Option {
	return func(c *Controller) {
		c.nav = nav
	}
}

func WithTracker(trk types.Tracking) Option {
	return func(c *Controller) {
		c.tracker = trk
	}
}

func WithSessionID(id int) Option {
	return func(c *Controller) {
		c.sessionId = id
	}
}

// WithContext sets the parent context of every fetch.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		c.parent = ctx
	}
}

func WithItemsPerPage(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.itemsPerPage = n
		}
	}
}

type listener struct {
	id int
	fn func(Snapshot)
}

type fetchRequest struct {
	id      query.Identity
	page    int
	filters types.FilterState
}

// effects are collected under the lock and run after it is released.
type effects struct {
	navigate  bool
	url       string
	mode      Mode
	fetch     *fetchRequest
	notify    bool
	snapshot  Snapshot
	listeners []listener
}

type Controller struct {
	mu sync.Mutex
	wg sync.WaitGroup

	parent       context.Context
	ctx          context.Context
	cancel       context.CancelFunc
	fetcher      Fetcher
	nav          Navigator
	tracker      types.Tracking
	sessionId    int
	itemsPerPage int

	page    int
	filters types.FilterState
	lastURL string

	// requested is the identity of the last issued fetch, applied the
	// identity result and failed belong to.
	requested query.Identity
	applied   query.Identity
	result    *types.CampsiteList
	failed    bool

	version   uint64
	listeners []listener
	nextId    int
}

func New(fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		parent:       context.Background(),
		fetcher:      fetcher,
		itemsPerPage: types.ItemsPerPage,
		page:         Unresolved,
		filters:      types.DefaultFilterState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(c.parent)
	return c
}

// NavigateIn replaces the state with the one encoded in rawQuery. It is
// the only transition that takes filters from outside, and it is how the
// page gets resolved. An incoming URL that is not in canonical form is
// rewritten with ModeReplace.
func (c *Controller) NavigateIn(rawQuery string) {
	st := urlstate.Decode(rawQuery)

	c.mu.Lock()
	c.page = st.Page
	c.filters = st.Filters
	c.lastURL = strings.TrimPrefix(rawQuery, "?")
	eff := c.commitLocked(ModeReplace)
	c.mu.Unlock()

	c.run(eff)
}

// SetFilters replaces the filter state. Any difference resets the page to
// 1; the same filters are a no-op.
func (c *Controller) SetFilters(f types.FilterState) {
	f = f.Normalize()

	c.mu.Lock()
	if f.Equal(c.filters) {
		c.mu.Unlock()
		return
	}
	c.filters = f
	c.resetPageLocked()
	eff := c.commitLocked(ModePush)
	c.mu.Unlock()

	c.run(eff)
}

// UpdateFilters applies fn to a copy of the current filters and commits
// the result like SetFilters.
func (c *Controller) UpdateFilters(fn func(f *types.FilterState)) {
	f := c.Filters()
	fn(&f)
	c.SetFilters(f)
}

func (c *Controller) ToggleSortDir() {
	c.mu.Lock()
	c.filters.SortDir = c.filters.SortDir.Toggle()
	c.resetPageLocked()
	eff := c.commitLocked(ModePush)
	c.mu.Unlock()

	c.run(eff)
}

// SetSortBy changes the sort field. Like every change of ordering it
// starts over from page 1.
func (c *Controller) SetSortBy(sortBy types.SortBy) error {
	if err := sortBy.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.filters.SortBy == sortBy {
		c.mu.Unlock()
		return nil
	}
	c.filters.SortBy = sortBy
	c.resetPageLocked()
	eff := c.commitLocked(ModePush)
	c.mu.Unlock()

	c.run(eff)
	return nil
}

// SetPage moves to page. Pages beyond the last one are rejected once a
// result is known; while loading only the lower bound is checked.
func (c *Controller) SetPage(page int) error {
	c.mu.Lock()
	if c.page == Unresolved {
		c.mu.Unlock()
		return ErrUnresolved
	}
	if page < 1 {
		c.mu.Unlock()
		return ErrInvalidPage
	}
	if c.result != nil {
		if last := max(listview.TotalPages(c.result, c.itemsPerPage), 1); page > last {
			c.mu.Unlock()
			return ErrPageOutOfRange
		}
	}
	if page == c.page {
		c.mu.Unlock()
		return nil
	}
	c.page = page
	eff := c.commitLocked(ModePush)
	c.mu.Unlock()

	c.run(eff)
	return nil
}

// ClearFilters goes back to the default filters, sort included, on page 1.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	if c.filters.IsDefault() && c.page <= 1 {
		c.mu.Unlock()
		return
	}
	c.filters = types.DefaultFilterState()
	c.resetPageLocked()
	eff := c.commitLocked(ModePush)
	c.mu.Unlock()

	c.run(eff)
}

// Retry issues the current search again after a failure.
func (c *Controller) Retry() {
	c.mu.Lock()
	if c.page == Unresolved || !c.failed {
		c.mu.Unlock()
		return
	}
	c.requested = query.Identity{}
	eff := c.commitLocked(ModePush)
	c.mu.Unlock()

	c.run(eff)
}

func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) Resolved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page != Unresolved
}

func (c *Controller) Filters() types.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// Identity returns false until the page is resolved.
func (c *Controller) Identity() (query.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.identityLocked()
	return id, !id.IsZero()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// OnChange registers fn to receive a snapshot after every change. fn runs
// outside the controller lock, possibly on a fetch goroutine. The returned
// func removes the listener.
func (c *Controller) OnChange(fn func(Snapshot)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextId++
	id := c.nextId
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		kept := make([]listener, 0, len(c.listeners))
		for _, l := range c.listeners {
			if l.id != id {
				kept = append(kept, l)
			}
		}
		c.listeners = kept
	}
}

// Wait blocks until every issued fetch has returned. It must not be
// called concurrently with transitions.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight fetches; their results are dropped.
func (c *Controller) Close() {
	c.cancel()
}

func (c *Controller) resetPageLocked() {
	if c.page != Unresolved {
		c.page = 1
	}
}

func (c *Controller) identityLocked() query.Identity {
	if c.page == Unresolved {
		return query.Identity{}
	}
	return query.Build(c.page, c.filters)
}

// commitLocked records a change: it bumps the version and, once the page
// is resolved, schedules the URL write and the fetch the new state needs.
func (c *Controller) commitLocked(mode Mode) effects {
	eff := effects{notify: true, mode: mode}
	c.version++
	if c.page != Unresolved {
		if u := urlstate.Encode(c.page, c.filters); u != c.lastURL {
			c.lastURL = u
			eff.navigate = true
			eff.url = u
		}
		if id := c.identityLocked(); id != c.requested {
			c.requested = id
			c.applied = query.Identity{}
			c.result = nil
			c.failed = false
			eff.fetch = &fetchRequest{id: id, page: c.page, filters: c.filters}
			c.wg.Add(1)
		}
	}
	eff.snapshot = c.snapshotLocked()
	eff.listeners = c.listeners
	return eff
}

func (c *Controller) run(eff effects) {
	if eff.navigate && c.nav != nil {
		noURLWrites.WithLabelValues(eff.mode.String()).Inc()
		c.nav.Navigate(eff.url, eff.mode)
	}
	if eff.notify {
		for _, l := range eff.listeners {
			l.fn(eff.snapshot)
		}
	}
	// started after the listeners so they see this version before the
	// response
	if eff.fetch != nil {
		go c.fetch(*eff.fetch)
	}
}

func (c *Controller) fetch(req fetchRequest) {
	defer c.wg.Done()
	noFetches.Inc()

	result, err := c.fetcher.Search(c.ctx, req.page, c.itemsPerPage, req.filters)
	if c.ctx.Err() != nil {
		return
	}

	c.mu.Lock()
	if c.identityLocked() != req.id {
		c.mu.Unlock()
		noStale.Inc()
		return
	}
	if err != nil {
		noFailures.Inc()
		log.Printf("campsite search failed for page %d: %v", req.page, err)
		c.result = nil
		c.failed = true
	} else {
		if result == nil {
			result = &types.CampsiteList{Items: []types.Campsite{}}
		}
		c.result = result
		c.failed = false
	}
	c.applied = req.id
	c.version++
	snapshot := c.snapshotLocked()
	listeners := c.listeners
	trk, sessionId := c.tracker, c.sessionId
	c.mu.Unlock()

	if err == nil && trk != nil {
		go trk.TrackSearch(sessionId, req.filters, result.NumTotalResults, req.page)
	}
	for _, l := range listeners {
		l.fn(snapshot)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Version:        c.version,
		Page:           c.page,
		Resolved:       c.page != Unresolved,
		Filters:        c.filters,
		AppliedFilters: listview.AppliedFilterCount(c.filters),
		ResetDisabled:  listview.ResetDisabled(c.filters),
	}
	if s.Resolved {
		s.identity = c.identityLocked()
		s.Query = urlstate.Encode(c.page, c.filters)
		s.Fetching = c.applied != s.identity
		if !s.Fetching {
			s.Error = c.failed
			s.Result = c.result
		}
	}
	s.TotalPages = listview.TotalPages(s.Result, c.itemsPerPage)
	if s.Result != nil {
		s.ResultRange = listview.ResultRange(c.page, c.itemsPerPage, s.Result.NumTotalResults)
	}
	s.Summary = listview.ResultSummary(s.Fetching, s.Result)
	s.ShowPagination = listview.ShowPagination(s.Fetching, s.Error, s.Result)
	return s
}
