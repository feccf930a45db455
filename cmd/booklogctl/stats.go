package main

import (
	"fmt"
	"io"
	"strings"

	"booklog-backend/application/services"
	knowledge "booklog-backend/domain/services"
	"booklog-backend/infrastructure/di"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var medalPrinters = map[knowledge.Medal]*color.Color{
	knowledge.MedalGold:   color.New(color.FgYellow, color.Bold),
	knowledge.MedalSilver: color.New(color.FgWhite, color.Bold),
	knowledge.MedalBronze: color.New(color.FgRed),
}

func statsCmd() *cobra.Command {
	var metric string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the family reading challenge",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := knowledge.ParseMetric(metric)
			if err != nil {
				return err
			}
			return withContainer(cmd.Context(), func(c *di.Container) error {
				board, err := c.Challenge.Board(cmd.Context(), m)
				if err != nil {
					return err
				}
				printBoard(cmd.OutOrStdout(), board)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&metric, "metric", string(knowledge.MetricCount), "count or words")
	return cmd
}

// printBoard writes one line per profile in family order with a bar scaled to its height
func printBoard(w io.Writer, board *services.ChallengeBoard) {
	unit := services.Unit(board.Metric)
	brand.Fprintf(w, "📚 독서 챌린지 (%s)\n", board.Metric)

	width := 0
	for _, bar := range board.Bars {
		if n := len([]rune(bar.Name)); n > width {
			width = n
		}
	}

	for _, bar := range board.Bars {
		name := bar.Name + strings.Repeat(" ", width-len([]rune(bar.Name)))
		blocks := strings.Repeat("█", int(bar.HeightPercent/5))
		line := fmt.Sprintf("  %s  %-15s %d%s", name, blocks, bar.Value, unit)
		if p, ok := medalPrinters[bar.Medal]; ok {
			p.Fprintf(w, "%s  %d위\n", line, bar.Rank+1)
			continue
		}
		fmt.Fprintln(w, line)
	}

	if board.Winner != "" {
		good.Fprintf(w, "🏆 %s\n", board.Winner)
	} else {
		subtle.Fprintln(w, "아직 기록이 없습니다")
	}
}
