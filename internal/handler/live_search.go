package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"address-search/internal/location"
	"address-search/internal/models"
	"address-search/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message types exchanged over the live search socket.
const (
	MessageQuery    = "query"
	MessageCancel   = "cancel"
	MessageLocation = "location"
	MessageSession  = "session"
	MessageResult   = "result"
	MessageError    = "error"
)

// LiveSearchService builds per-connection orchestrators
type LiveSearchService interface {
	Sources() service.Sources
	NewOrchestrator(sources service.Sources, sink service.Sink, opts ...service.Option) *service.Orchestrator
}

// LiveSearchHandler runs one search session per WebSocket connection
type LiveSearchHandler struct {
	service LiveSearchService
	logger  zerolog.Logger
}

// NewLiveSearchHandler creates a new live search handler
func NewLiveSearchHandler(svc LiveSearchService, logger zerolog.Logger) *LiveSearchHandler {
	return &LiveSearchHandler{service: svc, logger: logger}
}

type clientMessage struct {
	Type      string   `json:"type"`
	Text      string   `json:"text"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type serverMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	Payload   *searchResponse `json:"payload,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type liveSession struct {
	id     string
	conn   *websocket.Conn
	mu     sync.Mutex
	logger zerolog.Logger
}

func (s *liveSession) send(msg serverMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Warn().Err(err).Str("type", msg.Type).Msg("failed to write to live search client")
	}
}

func (s *liveSession) publish(r service.SearchResult) {
	resp := newSearchResponse(r)
	s.send(serverMessage{Type: MessageResult, Payload: &resp})
}

func (s *liveSession) fail(message string) {
	s.send(serverMessage{Type: MessageError, Error: message})
}

// LiveSearch handles GET /ws/search. Every text change the client sends is
// submitted to the session's orchestrator; every completed pass is pushed back.
//
//	@Summary	Live search session over WebSocket
//	@Router		/ws/search [get]
func (h *LiveSearchHandler) LiveSearch(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to upgrade live search connection")
		return
	}

	s := &liveSession{id: uuid.New().String(), conn: conn}
	s.logger = h.logger.With().Str("session_id", s.id).Logger()

	ctx, cancel := context.WithCancel(c.Request.Context())
	sources := h.service.Sources()
	var provider *location.Provider
	if sources.Location != nil {
		provider = location.NewOverlay(sources.Location)
	} else {
		provider = location.NewProvider()
	}
	sources.Location = provider
	orch := h.service.NewOrchestrator(sources, s.publish, service.WithContext(ctx), service.WithLogger(s.logger))

	defer func() {
		cancel()
		orch.Wait()
		_ = conn.Close()
		s.logger.Debug().Msg("live search client disconnected")
	}()

	s.logger.Debug().Msg("live search client connected")
	s.send(serverMessage{Type: MessageSession, SessionID: s.id})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn().Err(err).Msg("live search connection error")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.fail("malformed message")
			continue
		}

		switch msg.Type {
		case MessageQuery:
			orch.Submit(msg.Text)
		case MessageCancel:
			orch.Submit("")
		case MessageLocation:
			if msg.Latitude == nil || msg.Longitude == nil {
				s.fail("location requires latitude and longitude")
				continue
			}
			if err := provider.Update(models.Coordinate{Latitude: *msg.Latitude, Longitude: *msg.Longitude}); err != nil {
				s.fail(err.Error())
			}
		default:
			s.fail("unknown message type " + msg.Type)
		}
	}
}
