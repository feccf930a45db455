package rest

import (
	"encoding/json"
	"net/http"

	"booklog-backend/infrastructure/observability"
	"booklog-backend/interfaces/http/rest/handlers"
	"booklog-backend/interfaces/http/rest/middleware"
	"booklog-backend/interfaces/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig holds the transport settings of the router
type RouterConfig struct {
	EnableCORS     bool
	AllowedOrigins []string
}

// Router creates and configures the HTTP router
type Router struct {
	config        RouterConfig
	profiles      *handlers.ProfileHandler
	books         *handlers.BookHandler
	autofill      *handlers.AutofillHandler
	graphs        *handlers.GraphHandler
	challenge     *handlers.ChallengeHandler
	live          *websocket.Server
	authenticator middleware.Authenticator
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// NewRouter creates a new router instance. metrics may be nil.
func NewRouter(
	config RouterConfig,
	profiles *handlers.ProfileHandler,
	books *handlers.BookHandler,
	autofill *handlers.AutofillHandler,
	graphs *handlers.GraphHandler,
	challenge *handlers.ChallengeHandler,
	live *websocket.Server,
	authenticator middleware.Authenticator,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Router {
	return &Router{
		config:        config,
		profiles:      profiles,
		books:         books,
		autofill:      autofill,
		graphs:        graphs,
		challenge:     challenge,
		live:          live,
		authenticator: authenticator,
		metrics:       metrics,
		logger:        logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.config.EnableCORS {
		origins := rt.config.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		// The profile picker and the family challenge are open to everyone at home
		r.Get("/profiles", rt.profiles.ListProfiles)
		r.Post("/profiles/{profileID}/login", rt.profiles.Login)
		r.Get("/challenge", rt.challenge.GetBoard)
		r.Get("/challenge/chart.svg", rt.challenge.ChartSVG)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.authenticator, rt.logger))

			r.Route("/books", func(r chi.Router) {
				r.Get("/", rt.books.ListBooks)
				r.Post("/", rt.books.CreateBook)
				r.Put("/{bookID}", rt.books.UpdateBook)
				r.Delete("/{bookID}", rt.books.DeleteBook)
			})

			r.Route("/autofill", func(r chi.Router) {
				r.Post("/link", rt.autofill.FromLink)
				r.Post("/image", rt.autofill.FromImage)
				r.Post("/cover", rt.autofill.SearchCover)
			})

			r.Route("/graph", func(r chi.Router) {
				r.Get("/", rt.graphs.GetGraph)
				r.Get("/snapshot.svg", rt.graphs.SnapshotSVG)
				r.Get("/snapshot.png", rt.graphs.SnapshotPNG)
				r.Get("/print", rt.graphs.Print)
				if rt.live != nil {
					r.Get("/live", rt.live.HandleWebSocket)
				}
			})
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}
