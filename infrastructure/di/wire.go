//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"booklog-backend/application/services"
	"booklog-backend/infrastructure/config"
	"booklog-backend/interfaces/http/rest/handlers"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideStore,
	ProvideProfileRepository,
	ProvideBookRepository,
	ProvideMetadataExtractor,
	ProvideKeywordExtractor,
	ProvideCoverSearcher,
	ProvideJWTService,
	ProvideHub,
	ProvideChangeNotifier,
	ProvideKeywordFilter,
	ProvideGraphBuilder,
	ProvideAuthService,
	ProvideBookService,
	services.NewAutofillService,
	ProvideGraphService,
	ProvideChallengeService,
	ProvideErrorHandler,
	handlers.NewProfileHandler,
	handlers.NewBookHandler,
	handlers.NewAutofillHandler,
	handlers.NewGraphHandler,
	handlers.NewChallengeHandler,
	ProvideWebSocketServer,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container. The returned cleanup stops the
// hub and closes the store.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
