package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var flagClearScores bool

var scoresCmd = &cobra.Command{
	Use:   "scores <variant>",
	Short: "Show high scores for a variant",
	Long: `Display the top 10 results for the specified variant.

Examples:
  match3 scores match3
  match3 scores match3_cascade
  match3 scores match3 --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete all recorded results for the variant")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := args[0]

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown variant %q, run 'match3 list' to see available variants", gameID)
	}
	title := registry.Title(gameID)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open results database: %w", err)
	}
	defer store.Close()

	if flagClearScores {
		if err := store.ClearResults(gameID); err != nil {
			return err
		}
		fmt.Printf("Cleared results for %s.\n", title)
		return nil
	}

	results, err := store.TopResults(gameID, 10)
	if err != nil {
		return fmt.Errorf("cannot retrieve results: %w", err)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'match3 play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-7s  %-10s  %s\n", "Rank", "Coins", "Swaps", "Matches", "Difficulty", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-7s  %-10s  %s\n", "----", "-----", "-----", "-------", "----------", "----")
	for i, r := range results {
		difficulty := r.Difficulty
		if difficulty == "" {
			difficulty = "-"
		}
		fmt.Printf("  %-4d  %-8d  %-5d  %-7d  %-10s  %s\n",
			i+1, r.Coins, r.Swaps, r.Windows, difficulty, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if stats, err := store.GameStats(gameID); err == nil {
		fmt.Printf("Best: %d   Games: %d   Average: %.0f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
	return nil
}
