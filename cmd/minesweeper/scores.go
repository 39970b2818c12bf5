package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-minesweeper/internal/platform/tui"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
	flagScoresTUI   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [preset]",
	Short: "Show best times",
	Long: `Display the fastest wins and round statistics for a preset.
Without a preset, prints a summary of every board that was played.

Examples:
  minesweeper scores
  minesweeper scores expert
  minesweeper scores custom-20x12-40 --limit 20
  minesweeper scores --tui
  minesweeper scores beginner --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of best times to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every result of the preset")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse best times interactively")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening results database: %w", err)
	}
	defer store.Close()

	if flagScoresTUI {
		rc := runtimeConfig()
		_, err := tui.RunScoreboard(games, store, rc.ScreenW, rc.ScreenH)
		return err
	}

	if len(args) == 0 {
		if flagScoresClear {
			return errors.New("--clear needs a preset")
		}
		return printSummary(store)
	}

	id := args[0]
	game, err := games.Create(id)
	if err != nil {
		return fmt.Errorf("%w\nRun 'minesweeper list' to see available boards", err)
	}

	if flagScoresClear {
		if err := store.ClearResults(id); err != nil {
			return err
		}
		fmt.Printf("Cleared results for %s.\n", game.Title())
		return nil
	}

	return printBoard(store, id, game.Title())
}

func printBoard(store *storage.Store, id, title string) error {
	best, err := store.BestTimes(id, flagScoresLimit)
	if err != nil {
		return err
	}
	stats, err := store.GetGameStats(id)
	if err != nil {
		return err
	}

	fmt.Printf("Best Times - %s\n", title)
	fmt.Println()

	if len(best) == 0 {
		fmt.Println("No wins recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'minesweeper play %s' to set the first best time!\n", id)
	} else {
		fmt.Printf("  %-4s  %-6s  %-12s  %s\n", "Rank", "Time", "Player", "Date")
		fmt.Printf("  %-4s  %-6s  %-12s  %s\n", "----", "----", "------", "----")
		for i, r := range best {
			fmt.Printf("  %-4d  %-6s  %-12s  %s\n",
				i+1, fmt.Sprintf("%ds", r.Seconds), playerName(r.Player), r.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	fmt.Println()
	fmt.Printf("Played %d, won %d (%.0f%%)\n", stats.Played, stats.Wins, 100*stats.WinRate())
	if stats.Wins > 0 {
		fmt.Printf("Best %ds, average win %.1fs\n", stats.BestTime, stats.AvgWinTime)
	}

	recent, err := store.RecentResults(id, 5)
	if err != nil {
		return err
	}
	if len(recent) > 0 {
		fmt.Println()
		fmt.Println("Recent rounds:")
		for _, r := range recent {
			outcome := "lost"
			if r.Won {
				outcome = "won "
			}
			fmt.Printf("  %s  %s  %4ds  %3d cells  %s\n",
				r.CreatedAt.Format("2006-01-02 15:04"), outcome, r.Seconds, r.Revealed, playerName(r.Player))
		}
	}
	return nil
}

func printSummary(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No rounds recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	fmt.Printf("  %-20s  %6s  %4s  %5s  %s\n", "Board", "Played", "Won", "Best", "Last played")
	for _, id := range ids {
		st := all[id]
		best := "-"
		if st.Wins > 0 {
			best = fmt.Sprintf("%ds", st.BestTime)
		}
		fmt.Printf("  %-20s  %6d  %4d  %5s  %s\n",
			id, st.Played, st.Wins, best, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func playerName(p string) string {
	if p == "" {
		return "local"
	}
	return p
}
