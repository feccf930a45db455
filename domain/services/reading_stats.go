package services

import (
	"fmt"
	"sort"

	"booklog-backend/domain/core/entities"
)

// Metric selects the value profiles are ranked by
type Metric string

const (
	MetricCount Metric = "count"
	MetricWords Metric = "words"
)

// ParseMetric accepts "count", "words" and the long form "totalWords"; empty means count
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "", string(MetricCount):
		return MetricCount, nil
	case string(MetricWords), "totalWords":
		return MetricWords, nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

// Medal is the visual distinction of a ranked profile
type Medal string

const (
	MedalGold   Medal = "gold"
	MedalSilver Medal = "silver"
	MedalBronze Medal = "bronze"
	MedalNone   Medal = ""
)

// NoRank is returned by Rank for profiles outside the podium
const NoRank = -1

// barHeadroomPercent is the bar height of the top value, leaving room above it
const barHeadroomPercent = 75.0

// ProfileStats is one profile's reading totals
type ProfileStats struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Words int    `json:"words"`
}

// Value returns the selected metric
func (s ProfileStats) Value(m Metric) int {
	if m == MetricWords {
		return s.Words
	}
	return s.Count
}

// Aggregate totals books per profile name, in the order of names. Books owned by
// names outside the list are ignored.
func Aggregate(books []entities.BookRecord, names []string) []ProfileStats {
	stats := make([]ProfileStats, len(names))
	index := make(map[string]int, len(names))
	for i, name := range names {
		stats[i].Name = name
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	for _, b := range books {
		i, ok := index[b.OwnerID]
		if !ok {
			continue
		}
		stats[i].Count++
		stats[i].Words += b.ReviewWordCount
	}
	return stats
}

// Ranking sorts a copy of stats by metric, highest first. Ties keep the input order.
func Ranking(stats []ProfileStats, m Metric) []ProfileStats {
	ranked := append([]ProfileStats(nil), stats...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value(m) > ranked[j].Value(m)
	})
	return ranked
}

// Rank returns 0, 1 or 2 for the podium places of name, NoRank otherwise
func Rank(name string, stats []ProfileStats, m Metric) int {
	for i, s := range Ranking(stats, m) {
		if s.Name == name {
			if i > 2 {
				return NoRank
			}
			return i
		}
	}
	return NoRank
}

// MedalFor maps a rank to its medal. Only non-zero values earn one, so rank 0 with
// value 0 is not a winner.
func MedalFor(rank, value int) Medal {
	if value <= 0 {
		return MedalNone
	}
	switch rank {
	case 0:
		return MedalGold
	case 1:
		return MedalSilver
	case 2:
		return MedalBronze
	default:
		return MedalNone
	}
}

// Winner returns the sole first-place profile, if its value is non-zero
func Winner(stats []ProfileStats, m Metric) (ProfileStats, bool) {
	ranked := Ranking(stats, m)
	if len(ranked) == 0 || ranked[0].Value(m) <= 0 {
		return ProfileStats{}, false
	}
	return ranked[0], true
}

// BarHeight is the bar height in percent: value / max(all values, 1) * 75
func BarHeight(value int, stats []ProfileStats, m Metric) float64 {
	top := 1
	for _, s := range stats {
		if v := s.Value(m); v > top {
			top = v
		}
	}
	return float64(value) / float64(top) * barHeadroomPercent
}

// ChartBar is one profile column of the challenge chart
type ChartBar struct {
	Name          string  `json:"name"`
	Value         int     `json:"value"`
	HeightPercent float64 `json:"heightPercent"`
	Rank          int     `json:"rank"`
	Medal         Medal   `json:"medal,omitempty"`
	Color         string  `json:"color"`
}
