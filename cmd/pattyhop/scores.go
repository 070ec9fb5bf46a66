package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkarpov/pattyhop/internal/registry"
	"github.com/dkarpov/pattyhop/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores <mode>",
	Short: "Show high scores for a mode",
	Long: `Display the top 10 high scores and recent runs for the specified mode.

Examples:
  pattyhop scores delivery
  pattyhop scores delivery_endless`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if mode exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'pattyhop list' to see available modes.")
		os.Exit(1)
	}

	title := registry.Title(gameID)

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Get top scores
	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	// Display scores
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'pattyhop play %s' to set the first high score!\n", gameID)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")

	// Print scores
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, dateStr)
	}

	// Show high score
	fmt.Println()
	if highScore, err := store.HighScore(gameID); err == nil {
		fmt.Printf("Best: %d\n", highScore)
	}

	// Recent run details, when recorded
	runs, err := store.RecentRuns(gameID, 5)
	if err != nil || len(runs) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Recent runs:")
	fmt.Printf("  %-10s  %-10s  %-6s  %-5s  %-8s  %s\n",
		"Score", "Delivered", "Missed", "Falls", "Time", "Date")
	for _, r := range runs {
		fmt.Printf("  %-10d  %-10d  %-6d  %-5d  %3dm%02ds  %s\n",
			r.Score, r.Deliveries, r.MissedOrders, r.Falls,
			r.Duration/60, r.Duration%60,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
