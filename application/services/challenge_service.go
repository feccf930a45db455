package services

import (
	"context"

	"booklog-backend/application/ports"
	"booklog-backend/domain/core/entities"
	knowledge "booklog-backend/domain/services"
	pkgerrors "booklog-backend/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMemberColors are the bar colors of the default family
var DefaultMemberColors = map[string]string{
	"아빠": "#4a90e2",
	"엄마": "#e91e63",
	"찬민": "#2ecc71",
	"재민": "#f39c12",
}

const fallbackMemberColor = "#6d5dfc"

// ChallengeBoard is the reading challenge for one metric
type ChallengeBoard struct {
	Metric  knowledge.Metric         `json:"metric"`
	Stats   []knowledge.ProfileStats `json:"stats"`
	Bars    []knowledge.ChartBar     `json:"bars"`
	Ranking []string                 `json:"ranking"`
	Winner  string                   `json:"winner,omitempty"`
}

// ChallengeService compares reading totals across the family
type ChallengeService struct {
	books    ports.BookRepository
	profiles ports.ProfileRepository
	family   []string
	colors   map[string]string
	logger   *zap.Logger
}

// NewChallengeService creates a challenge service
func NewChallengeService(
	books ports.BookRepository,
	profiles ports.ProfileRepository,
	family []string,
	colors map[string]string,
	logger *zap.Logger,
) *ChallengeService {
	if colors == nil {
		colors = DefaultMemberColors
	}
	return &ChallengeService{books: books, profiles: profiles, family: family, colors: colors, logger: logger}
}

// Board loads all books and profiles concurrently and ranks the family by metric.
// Configured family members come first in their fixed order, other stored profiles after.
func (s *ChallengeService) Board(ctx context.Context, metric knowledge.Metric) (*ChallengeBoard, error) {
	var (
		books    []entities.BookRecord
		profiles []entities.Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = s.books.ListAllBooks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = s.profiles.ListProfiles(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(err, "load challenge data")
	}

	names := append([]string(nil), s.family...)
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	for _, p := range profiles {
		if !known[p.Name] {
			known[p.Name] = true
			names = append(names, p.Name)
		}
	}

	stats := knowledge.Aggregate(books, names)
	board := &ChallengeBoard{Metric: metric, Stats: stats}

	for _, ranked := range knowledge.Ranking(stats, metric) {
		board.Ranking = append(board.Ranking, ranked.Name)
	}
	if winner, ok := knowledge.Winner(stats, metric); ok {
		board.Winner = winner.Name
	}

	for _, st := range stats {
		value := st.Value(metric)
		rank := knowledge.Rank(st.Name, stats, metric)
		color, ok := s.colors[st.Name]
		if !ok {
			color = fallbackMemberColor
		}
		board.Bars = append(board.Bars, knowledge.ChartBar{
			Name:          st.Name,
			Value:         value,
			HeightPercent: knowledge.BarHeight(value, stats, metric),
			Rank:          rank,
			Medal:         knowledge.MedalFor(rank, value),
			Color:         color,
		})
	}

	s.logger.Debug("Challenge board computed",
		zap.String("metric", string(metric)),
		zap.Int("books", len(books)),
		zap.String("winner", board.Winner),
	)
	return board, nil
}

// Unit is the value suffix shown on the chart for a metric
func Unit(m knowledge.Metric) string {
	if m == knowledge.MetricWords {
		return "자"
	}
	return "권"
}
