package di

import (
	"booklog-backend/application/services"
	"booklog-backend/infrastructure/config"
	"booklog-backend/infrastructure/observability"
	"booklog-backend/interfaces/http/rest"
	"booklog-backend/interfaces/websocket"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *observability.Metrics
	Store     *Store
	Hub       *websocket.Hub
	Books     *services.BookService
	Graphs    *services.GraphService
	Challenge *services.ChallengeService
	Router    *rest.Router
}
