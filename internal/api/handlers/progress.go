package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/wonny/argus/pkg/logger"
)

// ProgressEvent is one simulation progress tick pushed over WebSocket
type ProgressEvent struct {
	Strategy  string `json:"strategy"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// ProgressHub fans simulation progress out to WebSocket subscribers.
// ⭐ SSOT: 진행 상태 브로드캐스트는 여기서만 — 엔진은 훅만 호출
type ProgressHub struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	// gorilla 연결은 동시 writer를 하나만 허용
	writeMu sync.Mutex
}

// NewProgressHub creates an empty hub
func NewProgressHub(log *logger.Logger) *ProgressHub {
	return &ProgressHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 대시보드는 다른 오리진에서 접속
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  log.Component("progress_hub"),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeWS upgrades the connection and keeps it registered until it closes
// GET /ws/simulations/progress
func (h *ProgressHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.WithField("clients", count).Debug("WebSocket client connected")

	// 구독 전용 채널 — 읽기 루프는 연결 종료 감지 용도
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast pushes one event to every connected client.
// 쓰기 실패한 연결은 제거
func (h *ProgressHub) Broadcast(ev ProgressEvent) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, conn := range conns {
		if err := conn.WriteJSON(ev); err != nil {
			h.remove(conn)
		}
	}
}

// ClientCount returns the number of connected subscribers
func (h *ProgressHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *ProgressHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}
