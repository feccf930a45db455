package websocket

import (
	"net/http"
	"strconv"
	"strings"

	"booklog-backend/domain/layout"
	"booklog-backend/infrastructure/observability"
	"booklog-backend/pkg/auth"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server upgrades authenticated requests into live graph sessions
type Server struct {
	hub      *Hub
	graphs   GraphSource
	upgrader websocket.Upgrader
	config   *ServerConfig
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// ServerConfig holds WebSocket server configuration
type ServerConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	// AllowedOrigins lists browser origins that may connect; empty or "*" allows any
	AllowedOrigins []string
	// MaxSessionsPerOwner bounds the open sessions of one profile
	MaxSessionsPerOwner int
}

// DefaultServerConfig returns default WebSocket server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadBufferSize:      1024,
		WriteBufferSize:     4096,
		MaxSessionsPerOwner: 10,
	}
}

// NewServer creates a new WebSocket server
func NewServer(hub *Hub, graphs GraphSource, config *ServerConfig, metrics *observability.Metrics, logger *zap.Logger) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	s := &Server{
		hub:     hub,
		graphs:  graphs,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  config.ReadBufferSize,
		WriteBufferSize: config.WriteBufferSize,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// HandleWebSocket handles GET /graph/live. The profile comes from the auth
// middleware; the initial drawing surface from the mode, width and height parameters.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if s.config.MaxSessionsPerOwner > 0 && s.hub.GetConnectionCount(user.ProfileName) >= s.config.MaxSessionsPerOwner {
		s.logger.Warn("Session limit exceeded",
			zap.String("owner", user.ProfileName),
			zap.Int("currentSessions", s.hub.GetConnectionCount(user.ProfileName)),
		)
		http.Error(w, "Connection limit exceeded", http.StatusTooManyRequests)
		return
	}

	q := r.URL.Query()
	width, _ := strconv.Atoi(q.Get("width"))
	height, _ := strconv.Atoi(q.Get("height"))
	p, err := layout.ParsePresentation(q.Get("mode"), width, height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection",
			zap.Error(err),
			zap.String("remoteAddr", r.RemoteAddr),
		)
		return
	}

	session := NewSession(user.ProfileName, p, s.hub, conn, s.graphs, s.metrics, s.logger)
	session.Start()

	s.logger.Info("Graph session established",
		zap.String("owner", session.Owner()),
		zap.String("sessionID", session.ID()),
		zap.String("mode", string(p.Mode)),
		zap.String("remoteAddr", r.RemoteAddr),
	)
}

// Hub returns the session hub
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.config.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range s.config.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	s.logger.Warn("WebSocket origin rejected", zap.String("origin", origin))
	return false
}
