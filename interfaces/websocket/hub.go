package websocket

import (
	"context"
	"sync"

	"booklog-backend/infrastructure/observability"

	"go.uber.org/zap"
)

// Hub tracks the open graph sessions of every profile and fans out change
// notifications to them
type Hub struct {
	// One profile can have several sessions open
	sessions map[string]map[*Session]bool
	mu       sync.RWMutex

	register   chan *Session
	unregister chan *Session
	changes    chan string

	ctx     context.Context
	cancel  context.CancelFunc
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewHub creates a new hub. metrics may be nil.
func NewHub(metrics *observability.Metrics, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		sessions:   make(map[string]map[*Session]bool),
		register:   make(chan *Session, 100),
		unregister: make(chan *Session, 100),
		changes:    make(chan string, 1000),
		ctx:        ctx,
		cancel:     cancel,
		metrics:    metrics,
		logger:     logger,
	}
}

// Run starts the hub's main event loop
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info("Hub shutting down")
			h.closeAllSessions()
			return

		case s := <-h.register:
			h.registerSession(s)

		case s := <-h.unregister:
			h.unregisterSession(s)

		case owner := <-h.changes:
			h.notifyOwner(owner)
		}
	}
}

// Stop closes every session and ends Run
func (h *Hub) Stop() {
	h.logger.Info("Stopping WebSocket hub")
	h.cancel()
}

// NotifyBooksChanged tells the owner's open sessions to rebuild their graph. It never
// blocks the caller; when the queue is full the notification is dropped.
func (h *Hub) NotifyBooksChanged(owner string) {
	select {
	case h.changes <- owner:
	default:
		h.logger.Warn("Change queue full, notification dropped", zap.String("owner", owner))
	}
}

// GetConnectionCount returns the number of open sessions of owner
func (h *Hub) GetConnectionCount(owner string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[owner])
}

func (h *Hub) remove(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerSession(s *Session) {
	// A session that closed before its registration was processed stays out
	select {
	case <-s.Done():
		return
	default:
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[s.owner] == nil {
		h.sessions[s.owner] = make(map[*Session]bool)
	}
	h.sessions[s.owner][s] = true
	h.metrics.SessionOpened()

	h.logger.Info("Session registered",
		zap.String("owner", s.owner),
		zap.String("sessionID", s.id),
		zap.Int("ownerSessions", len(h.sessions[s.owner])),
	)
}

func (h *Hub) unregisterSession(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions, ok := h.sessions[s.owner]
	if !ok || !sessions[s] {
		return
	}
	delete(sessions, s)
	if len(sessions) == 0 {
		delete(h.sessions, s.owner)
	}
	h.metrics.SessionClosed()

	h.logger.Info("Session unregistered",
		zap.String("owner", s.owner),
		zap.String("sessionID", s.id),
		zap.Int("remainingSessions", len(sessions)),
	)
}

func (h *Hub) notifyOwner(owner string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sessions := h.sessions[owner]
	if len(sessions) == 0 {
		h.logger.Debug("No open sessions for owner", zap.String("owner", owner))
		return
	}
	for s := range sessions {
		s.booksChanged()
	}
	h.logger.Debug("Books change delivered",
		zap.String("owner", owner),
		zap.Int("sessions", len(sessions)),
	)
}

// closeAllSessions ends every session during shutdown
func (h *Hub) closeAllSessions() {
	h.mu.Lock()
	all := h.sessions
	h.sessions = make(map[string]map[*Session]bool)
	h.mu.Unlock()

	for _, sessions := range all {
		for s := range sessions {
			s.Close()
			h.metrics.SessionClosed()
		}
	}
	h.logger.Info("All sessions closed")
}
