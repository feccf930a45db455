package di

import (
	"context"
	"fmt"

	"booklog-backend/application/ports"
	"booklog-backend/application/services"
	knowledge "booklog-backend/domain/services"
	"booklog-backend/infrastructure/ai/gemini"
	"booklog-backend/infrastructure/config"
	"booklog-backend/infrastructure/covers/googlebooks"
	"booklog-backend/infrastructure/observability"
	"booklog-backend/infrastructure/persistence/sqlite"
	"booklog-backend/infrastructure/persistence/supabase"
	"booklog-backend/interfaces/http/rest"
	"booklog-backend/interfaces/http/rest/handlers"
	"booklog-backend/interfaces/websocket"
	"booklog-backend/pkg/auth"
	pkgerrors "booklog-backend/pkg/errors"

	"go.uber.org/zap"
)

// Store is the persistence adapter selected by configuration
type Store struct {
	Profiles  ports.ProfileRepository
	Books     ports.BookRepository
	Functions supabase.FunctionInvoker
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}

// ProvideMetrics returns the Prometheus metrics, or nil when they are disabled
func ProvideMetrics(cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics()
}

// ProvideStore opens the configured store. The local SQLite store is migrated and
// seeded with the family's profiles.
func ProvideStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreSupabase:
		client, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using Supabase store", zap.String("url", cfg.Supabase.URL))
		return &Store{
			Profiles:  supabase.NewProfileRepository(client),
			Books:     supabase.NewBookRepository(client),
			Functions: client.Functions,
		}, func() {}, nil

	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		if err := sqlite.RunMigrations(ctx, db, logger); err != nil {
			cleanup()
			return nil, nil, err
		}
		repo := sqlite.NewRepository(db)
		created, err := repo.EnsureProfiles(ctx, cfg.Family)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		logger.Info("Using SQLite store",
			zap.String("path", cfg.Store.SQLitePath),
			zap.Int("profilesCreated", created),
		)

		store := &Store{Profiles: repo, Books: repo}
		// Link and photo extraction still goes through the hosted edge function when configured
		if cfg.Supabase.URL != "" && cfg.Supabase.AnonKey != "" {
			client, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			store.Functions = client.Functions
		}
		return store, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// ProvideProfileRepository exposes the store's profile repository
func ProvideProfileRepository(store *Store) ports.ProfileRepository {
	return store.Profiles
}

// ProvideBookRepository exposes the store's book repository
func ProvideBookRepository(store *Store) ports.BookRepository {
	return store.Books
}

// ProvideMetadataExtractor creates the process-book edge function client
func ProvideMetadataExtractor(cfg *config.Config, store *Store, logger *zap.Logger) ports.MetadataExtractor {
	if store.Functions == nil {
		logger.Warn("Supabase edge functions not configured; link and photo autofill are disabled")
		return supabase.NewMetadataExtractor(nil, cfg.Supabase.ProcessBookFunction, logger)
	}
	return supabase.NewMetadataExtractor(store.Functions, cfg.Supabase.ProcessBookFunction, logger)
}

// ProvideKeywordExtractor creates the Gemini keyword client
func ProvideKeywordExtractor(cfg *config.Config, metrics *observability.Metrics, logger *zap.Logger) ports.KeywordExtractor {
	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set; books are saved without keywords")
	}
	return gemini.NewClient(gemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
		Timeout: cfg.Gemini.Timeout,
	}, metrics, logger)
}

// ProvideCoverSearcher creates the Google Books client
func ProvideCoverSearcher(cfg *config.Config, metrics *observability.Metrics, logger *zap.Logger) ports.CoverSearcher {
	return googlebooks.NewClient(googlebooks.Config{
		BaseURL: cfg.GoogleBooks.BaseURL,
		APIKey:  cfg.GoogleBooks.APIKey,
		Timeout: cfg.GoogleBooks.Timeout,
	}, metrics, logger)
}

// ProvideJWTService creates the session token service
func ProvideJWTService(cfg *config.Config) (*auth.JWTService, error) {
	return auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
}

// ProvideHub creates the live session hub and starts its loop. The cleanup stops it.
func ProvideHub(metrics *observability.Metrics, logger *zap.Logger) (*websocket.Hub, func()) {
	hub := websocket.NewHub(metrics, logger)
	go hub.Run()
	return hub, hub.Stop
}

// ProvideChangeNotifier routes book changes to the hub
func ProvideChangeNotifier(hub *websocket.Hub) ports.ChangeNotifier {
	return hub
}

// ProvideKeywordFilter uses the configured stop words in place of the built-in list
func ProvideKeywordFilter(cfg *config.Config) *knowledge.KeywordFilter {
	if len(cfg.StopWords) > 0 {
		return knowledge.NewKeywordFilterWithStopWords(cfg.StopWords)
	}
	return knowledge.NewKeywordFilter()
}

// ProvideGraphBuilder creates the knowledge graph builder
func ProvideGraphBuilder(filter *knowledge.KeywordFilter) *knowledge.GraphBuilder {
	return knowledge.NewGraphBuilder(filter, knowledge.DefaultKeywordsPerBook)
}

// ProvideAuthService creates the profile login service
func ProvideAuthService(profiles ports.ProfileRepository, tokens *auth.JWTService, cfg *config.Config, logger *zap.Logger) *services.AuthService {
	return services.NewAuthService(profiles, tokens, cfg.Family, logger)
}

// ProvideBookService creates the book service
func ProvideBookService(
	books ports.BookRepository,
	extractor ports.KeywordExtractor,
	filter *knowledge.KeywordFilter,
	notifier ports.ChangeNotifier,
	logger *zap.Logger,
) *services.BookService {
	return services.NewBookService(books, extractor, filter, notifier, logger)
}

// ProvideGraphService creates the graph service with the configured layout
func ProvideGraphService(books ports.BookRepository, builder *knowledge.GraphBuilder, cfg *config.Config, logger *zap.Logger) *services.GraphService {
	return services.NewGraphService(books, builder, cfg.Layout, logger)
}

// ProvideChallengeService creates the reading challenge service
func ProvideChallengeService(
	books ports.BookRepository,
	profiles ports.ProfileRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *services.ChallengeService {
	return services.NewChallengeService(books, profiles, cfg.Family, cfg.MemberColors, logger)
}

// ProvideErrorHandler creates the HTTP error handler; stack traces are shown in development
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideWebSocketServer creates the live graph endpoint
func ProvideWebSocketServer(
	hub *websocket.Hub,
	graphs *services.GraphService,
	cfg *config.Config,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *websocket.Server {
	wsConfig := websocket.DefaultServerConfig()
	wsConfig.AllowedOrigins = cfg.AllowedOrigins
	return websocket.NewServer(hub, graphs, wsConfig, metrics, logger)
}

// ProvideRouter assembles the HTTP router
func ProvideRouter(
	cfg *config.Config,
	profiles *handlers.ProfileHandler,
	books *handlers.BookHandler,
	autofill *handlers.AutofillHandler,
	graphs *handlers.GraphHandler,
	challenge *handlers.ChallengeHandler,
	live *websocket.Server,
	authService *services.AuthService,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(
		rest.RouterConfig{EnableCORS: cfg.EnableCORS, AllowedOrigins: cfg.AllowedOrigins},
		profiles, books, autofill, graphs, challenge, live, authService, metrics, logger,
	)
}
