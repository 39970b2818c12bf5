package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper/layouts"
	"github.com/vovakirdan/tui-minesweeper/internal/platform/tui"
	"github.com/vovakirdan/tui-minesweeper/internal/registry"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

var (
	flagWidth  int
	flagHeight int
	flagMines  int
	flagLayout string
)

var playCmd = &cobra.Command{
	Use:   "play [preset]",
	Short: "Play a board",
	Long: `Start playing the given preset, the default preset, or a custom board.

Controls:
  Arrows/WASD/hjkl  - Move cursor
  Space/Enter       - Reveal (on an open number: chord)
  F                 - Flag
  C                 - Chord
  Mouse             - Left reveal, right flag, middle chord
  R                 - New board
  Ctrl+S            - Save board screenshot
  Esc/Q             - Quit

Examples:
  minesweeper play
  minesweeper play expert
  minesweeper play custom-20x12-40
  minesweeper play --width 20 --height 12 --mines 40 --seed 7
  minesweeper play layout-cross
  minesweeper play --layout ./puzzle.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagWidth, "width", 0, "Custom board width")
	playCmd.Flags().IntVar(&flagHeight, "height", 0, "Custom board height")
	playCmd.Flags().IntVar(&flagMines, "mines", 0, "Custom board mine count")
	playCmd.Flags().StringVar(&flagLayout, "layout", "", "Play a layout file")
}

func runPlay(cmd *cobra.Command, args []string) error {
	game, err := playGame(cmd, args)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open results database", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	_, err = tui.Run(game, store, runtimeConfig())
	return err
}

// playGame builds the game from a layout file or a board ID.
func playGame(cmd *cobra.Command, args []string) (registry.Game, error) {
	if flagLayout != "" {
		if len(args) > 0 || cmd.Flags().Changed("width") || cmd.Flags().Changed("height") || cmd.Flags().Changed("mines") {
			return nil, errors.New("--layout cannot be combined with a preset or custom size")
		}
		l, err := layouts.LoadFile(flagLayout, appConfig.Limits)
		if err != nil {
			return nil, err
		}
		return minesweeper.NewFixed(l, appConfig.Display), nil
	}

	id, err := boardID(cmd, args)
	if err != nil {
		return nil, err
	}
	game, err := games.Create(id)
	if err != nil {
		return nil, fmt.Errorf("%w\nRun 'minesweeper list' to see available boards", err)
	}
	return game, nil
}

// boardID resolves the positional preset or the custom size flags.
func boardID(cmd *cobra.Command, args []string) (string, error) {
	custom := cmd.Flags().Changed("width") || cmd.Flags().Changed("height") || cmd.Flags().Changed("mines")
	switch {
	case custom && len(args) > 0:
		return "", errors.New("give either a preset or --width/--height/--mines, not both")
	case custom:
		def := appConfig.DefaultPreset()
		w, h, m := def.Width, def.Height, def.Mines
		if cmd.Flags().Changed("width") {
			w = flagWidth
		}
		if cmd.Flags().Changed("height") {
			h = flagHeight
		}
		if cmd.Flags().Changed("mines") {
			m = flagMines
		}
		p, err := appConfig.Custom(w, h, m)
		if err != nil {
			return "", err
		}
		return p.ID, nil
	case len(args) == 1:
		return args[0], nil
	default:
		return appConfig.DefaultPreset().ID, nil
	}
}
