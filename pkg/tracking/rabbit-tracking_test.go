package tracking

import (
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/matst80/campsite-finder/pkg/messaging"
	"github.com/matst80/campsite-finder/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic messaging.ChangeTopic
	data  any
}

type memoryPublisher struct {
	mu     sync.Mutex
	events []published
	closed bool
	err    error
}

func (p *memoryPublisher) Publish(topic messaging.ChangeTopic, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{topic: topic, data: data})
	return p.err
}

func (p *memoryPublisher) Close() error {
	p.closed = true
	return nil
}

func TestTrackSearchPublishesOnClose(t *testing.T) {
	pub := &memoryPublisher{}
	trk := NewTracking(pub)

	f := types.DefaultFilterState()
	f.Country = types.Set(types.CountryUS)
	f.SortDir = types.SortDesc
	trk.TrackSearch(9, f, 137, 2)
	require.NoError(t, trk.Close())

	assert.True(t, pub.closed)
	require.Len(t, pub.events, 1)
	assert.Equal(t, messaging.SearchPerformed, pub.events[0].topic)

	ev, ok := pub.events[0].data.(SearchEvent)
	require.True(t, ok)
	assert.Equal(t, 9, ev.SessionId)
	assert.Equal(t, EventSearch, ev.Event)
	assert.Equal(t, "campsites", ev.Context)
	assert.Equal(t, 1, ev.AppliedFilters)
	assert.Equal(t, 137, ev.NumberOfResults)
	assert.Equal(t, 2, ev.Page)
	assert.JSONEq(t, `{"country":"US","sort_dir":"desc"}`, string(ev.Filters))
	assert.Equal(t, "page=2&filters=%7B%22country%22%3A%22US%22%2C%22sort_dir%22%3A%22desc%22%7D", ev.Query)

	body, err := messaging.Encode(ev)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"noi":137`)
	assert.Contains(t, string(body), `"session_id":9`)
}

func TestTrackSessionPrefersRealIp(t *testing.T) {
	pub := &memoryPublisher{}
	trk := NewTracking(pub)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "10.0.0.2")
	r.Header.Set("X-Real-Ip", "10.0.0.1")
	r.Header.Set("User-Agent", "test-agent")
	trk.TrackSession(5, r)
	require.NoError(t, trk.Close())

	require.Len(t, pub.events, 1)
	assert.Equal(t, messaging.SessionStarted, pub.events[0].topic)
	s := pub.events[0].data.(Session)
	assert.Equal(t, "10.0.0.1", s.Ip)
	assert.Equal(t, "test-agent", s.UserAgent)
	assert.Equal(t, EventSession, s.Event)
}

func TestPublishErrorsDoNotStopQueue(t *testing.T) {
	pub := &memoryPublisher{err: errors.New("channel closed")}
	trk := NewTracking(pub)
	trk.TrackSearch(1, types.DefaultFilterState(), 0, 1)
	trk.TrackSearch(1, types.DefaultFilterState(), 0, 1)
	require.NoError(t, trk.Close())
	assert.Len(t, pub.events, 2)
}

var _ types.Tracking = (*RabbitTracking)(nil)
