package discovery

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// clientMessage is one UI event from the browser.
type clientMessage struct {
	Action string `json:"action"` // input | tab | type | genre | year | sort | reset | submit
	Value  string `json:"value,omitempty"`
}

// serverMessage wraps a push to the browser.
type serverMessage struct {
	Type    string      `json:"type"` // results | query_param
	Payload interface{} `json:"payload"`
}

// LiveHandler upgrades connections into live search sessions. Each session
// owns one Coordinator: keystrokes and facet events flow in, debounced and
// deduplicated result sets flow out.
type LiveHandler struct {
	service *Service
	config  CoordinatorConfig
	logger  zerolog.Logger
}

// NewLiveHandler creates a live search handler.
func NewLiveHandler(service *Service, config CoordinatorConfig, logger zerolog.Logger) *LiveHandler {
	return &LiveHandler{
		service: service,
		config:  config,
		logger:  logger.With().Str("component", "live").Logger(),
	}
}

// Handle upgrades the request and runs the session until the peer goes away.
// GET /api/v1/discovery/live
func (h *LiveHandler) Handle(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	session := &liveSession{
		id:     id,
		conn:   conn,
		logger: h.logger.With().Str("session", id).Logger(),
	}
	session.coordinator = NewCoordinator(h.service, h.config, session.logger)

	session.run()
	return nil
}

// liveSession is one connected client's query session.
type liveSession struct {
	id          string
	conn        *websocket.Conn
	coordinator *Coordinator
	logger      zerolog.Logger

	writeMu sync.Mutex
	done    chan struct{}
}

func (s *liveSession) run() {
	s.done = make(chan struct{})

	defer func() {
		close(s.done)
		s.coordinator.Close()
		s.conn.Close()
		s.logger.Debug().Msg("Live session closed")
	}()

	s.coordinator.SetHandler(func(update Update) {
		s.send(serverMessage{Type: "results", Payload: update})
	})
	s.coordinator.Start()

	go s.pingLoop()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	s.logger.Debug().Msg("Live session started")

	for {
		var msg clientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn().Err(err).Msg("Live session read failed")
			}
			return
		}
		s.handleMessage(msg)
	}
}

func (s *liveSession) handleMessage(msg clientMessage) {
	switch msg.Action {
	case "input":
		s.coordinator.SetInput(msg.Value)
	case "tab":
		s.coordinator.SetTab(ParseTab(msg.Value))
	case "type":
		s.coordinator.SetType(msg.Value)
	case "genre":
		if id, err := strconv.Atoi(msg.Value); err == nil {
			s.coordinator.ToggleGenre(id)
		}
	case "year":
		s.coordinator.ToggleYear(msg.Value)
	case "sort":
		s.coordinator.SetSort(msg.Value)
	case "reset":
		s.coordinator.ResetFilters()
	case "submit":
		param := s.coordinator.Submit()
		s.send(serverMessage{Type: "query_param", Payload: param})
	default:
		s.logger.Debug().Str("action", msg.Action).Msg("Unknown live action")
	}
}

func (s *liveSession) send(msg serverMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Debug().Err(err).Msg("Live session write failed")
	}
}

func (s *liveSession) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.writeMu.Lock()
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
