package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available variants",
	Long: `Shows every registered match-3 variant with its best recorded score,
when the results database can be opened.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No variants available.")
		return nil
	}

	// The listing works without a database, it just has no scores
	stats := map[string]*storage.GameStats{}
	if store, err := storage.Open(flagDBPath); err == nil {
		if all, err := store.AllGameStats(); err == nil {
			stats = all
		}
		store.Close()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tTITLE\tBEST\tGAMES")
	for _, g := range games {
		best, played := "-", "0"
		if st, ok := stats[g.ID]; ok {
			best, played = fmt.Sprint(st.HighScore), fmt.Sprint(st.GamesCount)
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", g.ID, g.Title, best, played)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Run '%s play <id>' to play a variant.\n", cmd.Root().Name())
	return nil
}
