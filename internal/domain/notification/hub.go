package notification

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"drycleaning/internal/domain/order"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// BoardEvent is what shop screens receive for every order change.
type BoardEvent struct {
	Type  order.EventType `json:"type"`
	Order order.Event     `json:"order"`
}

type screen struct {
	operatorID int64
	conn       *websocket.Conn
	send       chan []byte
}

// Hub keeps the websocket connections of the shop's order board screens.
type Hub struct {
	mu      sync.RWMutex
	screens map[*screen]struct{}
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		screens: make(map[*screen]struct{}),
		log:     log,
	}
}

func (h *Hub) register(s *screen) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.screens[s] = struct{}{}
}

func (h *Hub) unregister(s *screen) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.screens[s]; ok {
		delete(h.screens, s)
		close(s.send)
	}
}

// Connected returns the number of open screens.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.screens)
}

// Broadcast pushes an event to every screen. Slow screens miss it.
func (h *Hub) Broadcast(event BoardEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("marshal board event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.screens {
		select {
		case s.send <- data:
		default:
			h.log.Warn("board screen too slow, event dropped", zap.Int64("operator_id", s.operatorID))
		}
	}
}

// ServeWS registers the connection and blocks until it closes.
func (h *Hub) ServeWS(conn *websocket.Conn, operatorID int64) {
	s := &screen{
		operatorID: operatorID,
		conn:       conn,
		send:       make(chan []byte, 64),
	}
	h.register(s)
	h.log.Info("board screen connected", zap.Int64("operator_id", operatorID))

	go h.writePump(s)
	h.readPump(s)
}

// readPump only drains control frames; screens do not talk back.
func (h *Hub) readPump(s *screen) {
	defer func() {
		h.unregister(s)
		s.conn.Close()
		h.log.Info("board screen disconnected", zap.Int64("operator_id", s.operatorID))
	}()

	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("board screen read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(s *screen) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
