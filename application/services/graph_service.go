package services

import (
	"context"
	"sync"

	"booklog-backend/application/ports"
	"booklog-backend/domain/layout"
	knowledge "booklog-backend/domain/services"
	pkgerrors "booklog-backend/pkg/errors"

	"go.uber.org/zap"
)

// maxSnapshotTicks bounds the layout run behind a static snapshot
const maxSnapshotTicks = 1000

// GraphService builds knowledge graphs from a profile's current books and lays them out
type GraphService struct {
	books   ports.BookRepository
	builder *knowledge.GraphBuilder
	logger  *zap.Logger

	mu     sync.RWMutex
	params layout.Params
}

// NewGraphService creates a graph service
func NewGraphService(books ports.BookRepository, builder *knowledge.GraphBuilder, params layout.Params, logger *zap.Logger) *GraphService {
	return &GraphService{
		books:   books,
		builder: builder,
		params:  params.WithDefaults(),
		logger:  logger,
	}
}

// SetLayoutParams replaces the tuning used by simulations created from now on
func (s *GraphService) SetLayoutParams(p layout.Params) {
	s.mu.Lock()
	s.params = p.WithDefaults()
	s.mu.Unlock()
	s.logger.Info("Layout parameters updated",
		zap.Float64("linkDistance", p.LinkDistance),
		zap.Float64("chargeStrength", p.ChargeStrength),
		zap.Float64("collideRadius", p.CollideRadius),
	)
}

// LayoutParams returns the current tuning
func (s *GraphService) LayoutParams() layout.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// BuildGraph rebuilds the owner's graph from the stored books
func (s *GraphService) BuildGraph(ctx context.Context, owner string) (*knowledge.KnowledgeGraph, error) {
	books, err := s.books.ListBooksByOwner(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "load books for graph")
	}
	g := s.builder.Build(books)

	stats := g.Stats()
	s.logger.Debug("Knowledge graph built",
		zap.String("owner", owner),
		zap.Int("books", stats.Books),
		zap.Int("authors", stats.Authors),
		zap.Int("keywords", stats.Keywords),
	)
	return g, nil
}

// NewSimulation starts a fresh layout of g sized for the presentation
func (s *GraphService) NewSimulation(g *knowledge.KnowledgeGraph, p layout.Presentation) *layout.Simulation {
	return layout.NewSimulation(g, float64(p.Width), float64(p.Height), s.LayoutParams())
}

// Snapshot builds the owner's graph, runs its layout to rest and returns the final frame
func (s *GraphService) Snapshot(ctx context.Context, owner string, p layout.Presentation, viewport layout.Viewport) (*layout.Frame, error) {
	g, err := s.BuildGraph(ctx, owner)
	if err != nil {
		return nil, err
	}
	sim := s.NewSimulation(g, p)
	ticks := sim.RunUntilStable(maxSnapshotTicks)

	s.logger.Debug("Snapshot layout finished",
		zap.String("owner", owner),
		zap.Int("ticks", ticks),
		zap.Float64("alpha", sim.Alpha()),
	)
	frame := layout.FrameOf(sim, viewport, p)
	return &frame, nil
}
