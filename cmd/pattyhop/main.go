// pattyhop is a terminal 3D platformer about delivering burgers.
//
// Usage:
//
//	pattyhop list              - List available game modes
//	pattyhop play <mode>       - Play a mode
//	pattyhop menu              - Start menu to pick modes interactively
//	pattyhop serve             - Start SSH server for remote play
//	pattyhop scores <mode>     - Show high scores for a mode
//
// Global flags:
//
//	--seed <value>  - Set RNG seed for reproducible worlds
//	--db <path>     - Set database path (default: ~/.pattyhop/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkarpov/pattyhop/internal/engine"

	// Import game modes to register them
	_ "github.com/dkarpov/pattyhop/internal/games/delivery"
)

var (
	// Global flags
	flagSeed      int64
	flagDBPath    string
	flagAntialias bool
	flagLowPower  bool
	flagNoShadows bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pattyhop",
	Short: "Patty Hop - Deliver burgers across floating platforms",
	Long: `Patty Hop is a terminal 3D platformer: hop across floating platforms,
collect the ingredients an order calls for, and deliver the finished
burger before the deadline.

Available commands:
  list     - Show all available game modes
  play     - Play a specific mode directly
  menu     - Interactive mode picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  pattyhop list
  pattyhop play delivery
  pattyhop menu
  pattyhop serve --ssh :2222
  pattyhop scores delivery`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.pattyhop/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().BoolVar(&flagAntialias, "antialias", false, "Enable sub-cell edge shading")
	rootCmd.PersistentFlags().BoolVar(&flagLowPower, "low-power", false, "Reduced frame rate and quality for slow terminals")
	rootCmd.PersistentFlags().BoolVar(&flagNoShadows, "no-shadows", false, "Disable drop shadows")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// renderConfig builds the surface configuration from the global flags.
func renderConfig() engine.RenderConfig {
	cfg := engine.RenderConfig{
		Antialiasing:   flagAntialias,
		ShadowsEnabled: !flagNoShadows,
	}
	if flagLowPower {
		cap := 1.0
		cfg.MaxCellRatio = &cap
	}
	return cfg
}
