// Package session runs a live campsite list over a websocket: navigation
// and user input come in, address bar writes and state snapshots go out.
package session

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matst80/campsite-finder/pkg/common"
	"github.com/matst80/campsite-finder/pkg/common/jsoncompat"
	"github.com/matst80/campsite-finder/pkg/liststate"
	"github.com/matst80/campsite-finder/pkg/types"
	"github.com/matst80/campsite-finder/pkg/urlstate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ErrUnknownMessage = errors.New("unknown message type")

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campsites_ws_sessions",
		Help: "The number of open websocket sessions",
	})
	noMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campsites_ws_messages_total",
		Help: "The total number of inbound websocket messages",
	}, []string{"type"})
)

type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PingInterval time.Duration
	SendBuffer   int
}

func DefaultConfig() Config {
	return Config{
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Second,
		PingInterval: 25 * time.Second,
		SendBuffer:   32,
	}
}

// Session owns one controller and one connection. Only the write loop
// writes to the connection.
type Session struct {
	conn   *websocket.Conn
	ctrl   *liststate.Controller
	config Config

	send      chan Outbound
	done      chan struct{}
	closeOnce sync.Once

	// mu orders state messages so a client never sees a version go back
	mu          sync.Mutex
	lastVersion uint64
	stopListen  func()
}

func New(conn *websocket.Conn, fetcher liststate.Fetcher, config Config, opts ...liststate.Option) *Session {
	s := &Session{
		conn:   conn,
		config: config,
		send:   make(chan Outbound, max(config.SendBuffer, 1)),
		done:   make(chan struct{}),
	}
	opts = append(opts, liststate.WithNavigator(liststate.NavigatorFunc(s.navigate)))
	s.ctrl = liststate.New(fetcher, opts...)
	s.stopListen = s.ctrl.OnChange(s.publish)
	return s
}

func (s *Session) Controller() *liststate.Controller {
	return s.ctrl
}

// Run sends the initial state and serves the connection until it closes.
func (s *Session) Run() {
	activeSessions.Inc()
	defer activeSessions.Dec()

	go s.writeLoop()
	s.publish(s.ctrl.Snapshot())
	s.readLoop()
}

func (s *Session) navigate(rawQuery string, mode liststate.Mode) {
	s.enqueue(Outbound{Type: TypeURL, Mode: mode.String(), Query: rawQuery})
}

func (s *Session) publish(snapshot liststate.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snapshot.Version < s.lastVersion {
		return
	}
	s.lastVersion = snapshot.Version
	s.enqueue(Outbound{Type: TypeState, State: &snapshot})
}

func (s *Session) sendError(err error) {
	s.enqueue(Outbound{Type: TypeError, Error: err.Error()})
}

func (s *Session) enqueue(msg Outbound) {
	select {
	case s.send <- msg:
	case <-s.done:
	}
}

func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		var msg Inbound
		if err := jsoncompat.Unmarshal(data, &msg); err != nil {
			s.sendError(fmt.Errorf("invalid message: %w", err))
			continue
		}
		if err := s.Handle(msg); err != nil {
			s.sendError(err)
		}
	}
}

// Handle applies one inbound message to the controller.
func (s *Session) Handle(msg Inbound) error {
	noMessages.WithLabelValues(msg.Type).Inc()
	switch msg.Type {
	case TypeNavigate:
		s.ctrl.NavigateIn(msg.Query)
	case TypeSetFilters:
		f, err := urlstate.DecodeFilters(msg.Filters)
		if err != nil {
			return err
		}
		s.ctrl.SetFilters(f)
	case TypeToggleSortDir:
		s.ctrl.ToggleSortDir()
	case TypeSetSortBy:
		return s.ctrl.SetSortBy(msg.SortBy)
	case TypeSetPage:
		return s.ctrl.SetPage(msg.Page)
	case TypeClearFilters:
		s.ctrl.ClearFilters()
	case TypeRetry:
		s.ctrl.Retry()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	return nil
}

func (s *Session) writeLoop() {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case msg := <-s.send:
			data, err := jsoncompat.Marshal(msg)
			if err != nil {
				log.Printf("websocket encode error: %v", err)
				continue
			}
			s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("websocket write error: %v", err)
				s.Close()
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.config.WriteTimeout)); err != nil {
				s.Close()
				return
			}
		}
	}
}

// Close stops the session and drops in-flight searches.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.stopListen()
		s.ctrl.Close()
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.conn.Close()
	})
}

// Handler upgrades requests to live sessions. Each session gets its own
// controller tracked under the caller's session cookie.
func Handler(fetcher liststate.Fetcher, trk types.Tracking, config Config) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		sessionId := common.HandleSessionCookie(trk, w, r)
		conn, err := upgrader.Upgrade(w, r, w.Header())
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}
		opts := []liststate.Option{liststate.WithSessionID(sessionId)}
		if trk != nil {
			opts = append(opts, liststate.WithTracker(trk))
		}
		New(conn, fetcher, config, opts...).Run()
	}
}
