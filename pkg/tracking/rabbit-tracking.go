// Package tracking publishes browsing analytics.
package tracking

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/matst80/campsite-finder/pkg/common"
	"github.com/matst80/campsite-finder/pkg/listview"
	"github.com/matst80/campsite-finder/pkg/messaging"
	"github.com/matst80/campsite-finder/pkg/types"
	"github.com/matst80/campsite-finder/pkg/urlstate"
)

const (
	EventSession uint16 = 0
	EventSearch  uint16 = 1
)

const trackingContext = "campsites"

type queued struct {
	topic messaging.ChangeTopic
	data  any
}

// RabbitTracking queues events and publishes them in the background, so
// tracking never blocks a request.
type RabbitTracking struct {
	publisher messaging.Publisher
	queue     *common.QueueHandler[queued]
}

func NewRabbitTracking(url string) (*RabbitTracking, error) {
	publisher, err := messaging.NewRabbitPublisher(url, messaging.GlobalPrefix, messaging.SearchPerformed, messaging.SessionStarted)
	if err != nil {
		return nil, err
	}
	return NewTracking(publisher), nil
}

func NewTracking(publisher messaging.Publisher) *RabbitTracking {
	t := &RabbitTracking{publisher: publisher}
	t.queue = common.NewQueueHandler(t.publish, 50, time.Second)
	return t
}

func (t *RabbitTracking) publish(items []queued) {
	for _, item := range items {
		if err := t.publisher.Publish(item.topic, item.data); err != nil {
			log.Printf("Error sending %s event: %v", item.topic, err)
		}
	}
}

// Close publishes what is queued and closes the connection.
func (t *RabbitTracking) Close() error {
	t.queue.Close()
	return t.publisher.Close()
}

type BaseEvent struct {
	SessionId int    `json:"session_id"`
	Context   string `json:"context,omitempty"`
	Event     uint16 `json:"event"`
	Timestamp int64  `json:"ts"`
}

func newBaseEvent(event uint16, sessionId int) BaseEvent {
	return BaseEvent{
		SessionId: sessionId,
		Context:   trackingContext,
		Event:     event,
		Timestamp: time.Now().Unix(),
	}
}

type Session struct {
	BaseEvent
	UserAgent    string `json:"user_agent,omitempty"`
	Ip           string `json:"ip,omitempty"`
	Language     string `json:"language,omitempty"`
	PragmaHeader string `json:"pragma,omitempty"`
	Referer      string `json:"referer,omitempty"`
}

func (t *RabbitTracking) TrackSession(sessionId int, r *http.Request) {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}

	t.queue.Add(queued{topic: messaging.SessionStarted, data: Session{
		BaseEvent:    newBaseEvent(EventSession, sessionId),
		Language:     r.Header.Get("Accept-Language"),
		UserAgent:    r.UserAgent(),
		Ip:           ip,
		PragmaHeader: r.Header.Get("Pragma"),
		Referer:      r.Header.Get("Referer"),
	}})
}

// SearchEvent is one applied search. Filters holds only the fields that
// differ from their defaults, like the shareable URL.
type SearchEvent struct {
	BaseEvent
	Filters         json.RawMessage `json:"filters"`
	AppliedFilters  int             `json:"applied_filters"`
	NumberOfResults int             `json:"noi"`
	Page            int             `json:"page"`
	Query           string          `json:"query"`
}

func (t *RabbitTracking) TrackSearch(sessionId int, filters types.FilterState, resultLen int, page int) {
	payload, err := urlstate.EncodeFilters(filters)
	if err != nil {
		log.Printf("Error encoding search event filters: %v", err)
		return
	}
	t.queue.Add(queued{topic: messaging.SearchPerformed, data: SearchEvent{
		BaseEvent:       newBaseEvent(EventSearch, sessionId),
		Filters:         payload,
		AppliedFilters:  listview.AppliedFilterCount(filters),
		NumberOfResults: resultLen,
		Page:            page,
		Query:           urlstate.Encode(page, filters),
	}})
}
