package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"booklog-backend/domain/layout"
	knowledge "booklog-backend/domain/services"
	"booklog-backend/infrastructure/observability"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	sendBufferSize    = 256
	commandBufferSize = 64

	// FrameBudget is the time one animation frame may take
	FrameBudget = 16 * time.Millisecond
)

// GraphSource builds the graph and simulation a live view draws
type GraphSource interface {
	BuildGraph(ctx context.Context, owner string) (*knowledge.KnowledgeGraph, error)
	NewSimulation(g *knowledge.KnowledgeGraph, p layout.Presentation) *layout.Simulation
}

type rebuildResult struct {
	generation uint64
	graph      *knowledge.KnowledgeGraph
	err        error
}

// Session is one browser's live view of a profile's knowledge graph. A single run
// goroutine owns the simulation; the read pump feeds it commands and the write pump
// drains its output.
type Session struct {
	id      string
	owner   string
	hub     *Hub
	conn    *websocket.Conn
	graphs  GraphSource
	metrics *observability.Metrics
	logger  *zap.Logger

	send     chan []byte
	commands chan Command
	changed  chan struct{}
	rebuilt  chan rebuildResult

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	view          *liveView
	generation    uint64
	frameInterval time.Duration
}

// NewSession creates a session for owner on an upgraded connection
func NewSession(
	owner string,
	p layout.Presentation,
	hub *Hub,
	conn *websocket.Conn,
	graphs GraphSource,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New().String()
	return &Session{
		id:            id,
		owner:         owner,
		hub:           hub,
		conn:          conn,
		graphs:        graphs,
		metrics:       metrics,
		logger:        logger.With(zap.String("owner", owner), zap.String("sessionID", id)),
		send:          make(chan []byte, sendBufferSize),
		commands:      make(chan Command, commandBufferSize),
		changed:       make(chan struct{}, 1),
		rebuilt:       make(chan rebuildResult),
		ctx:           ctx,
		cancel:        cancel,
		view:          newLiveView(p),
		frameInterval: FrameBudget,
	}
}

// Start registers the session and starts its goroutines
func (s *Session) Start() {
	s.hub.register <- s

	go s.writePump()
	go s.readPump()
	go s.run()

	s.enqueue(MessageTypeConnected, map[string]string{
		"sessionId": s.id,
		"owner":     s.owner,
	})
}

// ID returns the session's connection ID
func (s *Session) ID() string {
	return s.id
}

// Owner returns the profile whose graph the session shows
func (s *Session) Owner() string {
	return s.owner
}

// Done is closed when the session ends
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// booksChanged asks the session to rebuild. Repeated signals collapse into one.
func (s *Session) booksChanged() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// Close ends the session. The write pump sends the close frame and releases the
// connection.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.hub.remove(s)
		s.logger.Info("Graph session closed")
	})
}

func (s *Session) run() {
	defer s.Close()

	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	s.rebuild()
	for {
		select {
		case <-s.ctx.Done():
			return

		case cmd := <-s.commands:
			if err := s.view.apply(cmd); err != nil {
				s.logger.Debug("Command rejected", zap.String("command", cmd.Type), zap.Error(err))
				s.enqueue(MessageTypeError, ErrorPayload{Message: err.Error(), Command: cmd.Type})
			}

		case <-s.changed:
			s.enqueue(MessageTypeBooksChanged, nil)
			s.rebuild()

		case res := <-s.rebuilt:
			s.install(res)

		case <-ticker.C:
			s.step()
		}
	}
}

// rebuild loads the graph in the background. Only the newest rebuild is installed;
// results finishing after the session closed are dropped.
func (s *Session) rebuild() {
	s.generation++
	generation := s.generation
	go func() {
		g, err := s.graphs.BuildGraph(s.ctx, s.owner)
		select {
		case s.rebuilt <- rebuildResult{generation: generation, graph: g, err: err}:
		case <-s.ctx.Done():
			s.logger.Debug("Discarding graph built after session closed")
		}
	}()
}

func (s *Session) install(res rebuildResult) {
	if res.generation != s.generation {
		s.logger.Debug("Discarding stale graph", zap.Uint64("generation", res.generation))
		return
	}
	if res.err != nil {
		s.logger.Error("Failed to build graph", zap.Error(res.err))
		s.enqueue(MessageTypeError, ErrorPayload{Message: "지식 그래프를 불러오지 못했습니다."})
		return
	}

	s.view.load(res.graph, s.graphs.NewSimulation(res.graph, s.view.presentation))
	s.enqueue(MessageTypeGraph, s.view.graphPayload())
}

// step advances the layout by one frame and pushes the positions
func (s *Session) step() {
	start := time.Now()
	if !s.view.advance() {
		return
	}
	msg, err := encodeMessage(MessageTypeFrame, s.view.frame())
	if err != nil {
		s.logger.Error("Failed to encode frame", zap.Error(err))
		return
	}

	elapsed := time.Since(start)
	over := elapsed > FrameBudget
	s.metrics.RecordLayoutStep(elapsed, over)
	if over {
		s.logger.Warn("Layout step exceeded frame budget",
			zap.Duration("elapsed", elapsed),
			zap.Int("nodes", s.view.sim.Len()),
		)
	}

	// Frames are superseded by the next one, so a full buffer drops instead of blocking
	select {
	case s.send <- msg:
	default:
		s.logger.Debug("Dropping frame for slow client")
	}
}

// enqueue queues a message that must reach the client
func (s *Session) enqueue(messageType string, data interface{}) {
	msg, err := encodeMessage(messageType, data)
	if err != nil {
		s.logger.Error("Failed to encode message", zap.String("type", messageType), zap.Error(err))
		return
	}
	select {
	case s.send <- msg:
	case <-s.ctx.Done():
	}
}

// readPump decodes client commands and hands them to the run goroutine
func (s *Session) readPump() {
	defer s.Close()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("WebSocket read error", zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			s.logger.Warn("Binary messages not supported")
			continue
		}

		var cmd Command
		if err := json.Unmarshal(bytes.TrimSpace(message), &cmd); err != nil {
			s.enqueue(MessageTypeError, ErrorPayload{Message: "invalid command: " + err.Error()})
			continue
		}

		select {
		case s.commands <- cmd:
		case <-s.ctx.Done():
			return
		}
	}
}

// writePump writes queued messages and keeps the connection alive with pings
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		s.Close()
	}()

	for {
		select {
		case <-s.ctx.Done():
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case message := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Debug("Failed to write message", zap.Error(err))
				return
			}

			// Add queued messages to the current batch
			n := len(s.send)
			for i := 0; i < n; i++ {
				if err := s.conn.WriteMessage(websocket.TextMessage, <-s.send); err != nil {
					s.logger.Debug("Failed to write batched message", zap.Error(err))
					return
				}
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Debug("Failed to send ping", zap.Error(err))
				return
			}
		}
	}
}
