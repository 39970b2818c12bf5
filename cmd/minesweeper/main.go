// minesweeper is a terminal Minesweeper with local play, a preset menu,
// best-time tracking and an SSH server for remote players.
//
// Usage:
//
//	minesweeper list               - List board presets
//	minesweeper play [preset]      - Play a board directly
//	minesweeper menu               - Pick a board interactively
//	minesweeper scores [preset]    - Show best times and stats
//	minesweeper serve              - Start SSH server for remote play
//	minesweeper config             - Print the default presets file
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 30)
//	--seed <value>   - Set RNG seed for reproducible boards
//	--db <path>      - Set database path (default: ~/.minesweeper/scores.db)
//	--config <path>  - Use a presets file instead of the search path
//	--layouts <dir>  - Extra directory of layout files
//	--debug          - Verbose logging
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper/layouts"
	"github.com/vovakirdan/tui-minesweeper/internal/registry"
)

var (
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagLayouts string
	flagDebug   bool
)

// Set up by the root command before any subcommand runs.
var (
	appConfig config.Config
	games     *registry.Registry
	logger    *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "minesweeper",
	Short: "Minesweeper in your terminal",
	Long: `Minesweeper for the terminal: clear the board without touching a mine.

Available commands:
  list     - Show board presets
  play     - Play a board directly
  menu     - Interactive board picker
  scores   - View best times
  serve    - Start SSH server for remote play
  config   - Print the default presets file

Examples:
  minesweeper play
  minesweeper play expert
  minesweeper play --width 20 --height 12 --mines 40
  minesweeper menu
  minesweeper serve --ssh :2222
  minesweeper scores expert`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.minesweeper/scores.db", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a presets YAML file")
	rootCmd.PersistentFlags().StringVar(&flagLayouts, "layouts", "", "Extra directory of layout files")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads the presets and layouts and builds the game registry.
func setup(_ *cobra.Command, _ []string) error {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "minesweeper",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	appConfig = cfg
	logger.Debug("presets loaded", "count", len(cfg.Presets), "default", cfg.Default)

	games = registry.New()
	minesweeper.Register(games, appConfig)

	found, err := layouts.LoadDirs(appConfig.Limits, append([]string{flagLayouts}, config.LayoutDirs()...)...)
	if err != nil {
		logger.Warn("some layout directories were skipped", "error", err)
	}
	minesweeper.RegisterLayouts(games, found, appConfig.Display)
	logger.Debug("layouts loaded", "count", len(found))
	return nil
}

// runtimeConfig sizes the screen from the terminal, falling back to 80x24.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}
