package game

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

// watcherHub fans position updates out to every connected websocket.
type watcherHub struct {
	mu       sync.Mutex
	watchers map[*websocket.Conn]struct{}
	log      *zap.SugaredLogger
}

func newWatcherHub(log *zap.SugaredLogger) *watcherHub {
	return &watcherHub{
		watchers: make(map[*websocket.Conn]struct{}),
		log:      log,
	}
}

func (h *watcherHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.watchers[conn] = struct{}{}
}

func (h *watcherHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.watchers[conn]; ok {
		delete(h.watchers, conn)
		conn.Close()
	}
}

func (h *watcherHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

// send writes v to a single watcher.
func (h *watcherHub) send(conn *websocket.Conn, v any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return writeJSON(conn, v)
}

// broadcast writes v to all watchers and drops the ones that fail.
func (h *watcherHub) broadcast(v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.watchers {
		if err := writeJSON(conn, v); err != nil {
			h.log.Warnw("dropping watcher", "remote", conn.RemoteAddr().String(), "error", err)
			delete(h.watchers, conn)
			conn.Close()
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}
