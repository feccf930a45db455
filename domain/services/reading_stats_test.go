package services

import (
	"testing"

	"booklog-backend/domain/core/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	books := []entities.BookRecord{
		{OwnerID: "엄마", ReviewWordCount: 120},
		{OwnerID: "엄마", ReviewWordCount: 30},
		{OwnerID: "찬민", ReviewWordCount: 500},
		{OwnerID: "손님", ReviewWordCount: 999},
	}

	stats := Aggregate(books, entities.DefaultFamily)

	assert.Equal(t, []ProfileStats{
		{Name: "아빠"},
		{Name: "엄마", Count: 2, Words: 150},
		{Name: "찬민", Count: 1, Words: 500},
		{Name: "재민"},
	}, stats)
}

func TestRanking_StableTies(t *testing.T) {
	stats := []ProfileStats{{Name: "A", Count: 3}, {Name: "B", Count: 3}, {Name: "C", Count: 1}}

	ranked := Ranking(stats, MetricCount)
	names := []string{ranked[0].Name, ranked[1].Name, ranked[2].Name}
	assert.Equal(t, []string{"A", "B", "C"}, names)

	winner, ok := Winner(stats, MetricCount)
	require.True(t, ok)
	assert.Equal(t, "A", winner.Name)

	assert.Equal(t, 0, Rank("A", stats, MetricCount))
	assert.Equal(t, 1, Rank("B", stats, MetricCount))
	assert.Equal(t, 2, Rank("C", stats, MetricCount))
	assert.Equal(t, NoRank, Rank("Z", stats, MetricCount))
}

func TestRank_ByWords(t *testing.T) {
	stats := []ProfileStats{
		{Name: "A", Count: 5, Words: 10},
		{Name: "B", Count: 1, Words: 900},
		{Name: "C", Count: 2, Words: 50},
		{Name: "D", Count: 9, Words: 5},
	}
	assert.Equal(t, 0, Rank("B", stats, MetricWords))
	assert.Equal(t, NoRank, Rank("D", stats, MetricWords))
	assert.Equal(t, 0, Rank("D", stats, MetricCount))
}

func TestMedalFor(t *testing.T) {
	assert.Equal(t, MedalGold, MedalFor(0, 3))
	assert.Equal(t, MedalNone, MedalFor(0, 0))
	assert.Equal(t, MedalSilver, MedalFor(1, 1))
	assert.Equal(t, MedalBronze, MedalFor(2, 1))
	assert.Equal(t, MedalNone, MedalFor(2, 0))
	assert.Equal(t, MedalNone, MedalFor(NoRank, 10))
}

func TestWinner_RequiresNonZero(t *testing.T) {
	_, ok := Winner([]ProfileStats{{Name: "A"}, {Name: "B"}}, MetricCount)
	assert.False(t, ok)
	_, ok = Winner(nil, MetricCount)
	assert.False(t, ok)
}

func TestBarHeight(t *testing.T) {
	stats := []ProfileStats{{Name: "A", Count: 4}, {Name: "B", Count: 2}, {Name: "C"}}

	assert.InDelta(t, 75.0, BarHeight(4, stats, MetricCount), 1e-9)
	assert.InDelta(t, 37.5, BarHeight(2, stats, MetricCount), 1e-9)
	assert.InDelta(t, 0.0, BarHeight(0, stats, MetricCount), 1e-9)

	empty := []ProfileStats{{Name: "A"}, {Name: "B"}}
	assert.InDelta(t, 0.0, BarHeight(0, empty, MetricWords), 1e-9)
}

func TestParseMetric(t *testing.T) {
	for in, want := range map[string]Metric{"": MetricCount, "count": MetricCount, "words": MetricWords, "totalWords": MetricWords} {
		got, err := ParseMetric(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMetric("pages")
	assert.Error(t, err)
}
