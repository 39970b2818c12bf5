package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List board presets",
	Long:  `Shows the configured board presets, loaded layouts and the custom board syntax.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	presets := games.List()

	maxIDLen := 2 // "ID" header
	for _, g := range presets {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Println("Board presets:")
	fmt.Println()
	fmt.Printf("  %-*s  %-14s  %s\n", maxIDLen, "ID", "Title", "Board")
	fmt.Printf("  %-*s  %-14s  %s\n", maxIDLen, "--", "-----", "-----")
	for _, g := range presets {
		marker := ""
		if g.ID == appConfig.Default {
			marker = "  (default)"
		}
		fmt.Printf("  %-*s  %-14s  %s%s\n", maxIDLen, g.ID, g.Title, g.Summary, marker)
	}

	fmt.Println()
	fmt.Printf("Custom boards: custom-WxH-M, up to %dx%d (e.g. custom-20x12-40).\n",
		appConfig.Limits.MaxWidth, appConfig.Limits.MaxHeight)
	fmt.Println("Layouts: YAML files in ~/.minesweeper/layouts or ./layouts are listed as layout-<id>.")
	fmt.Println("Run 'minesweeper play <id>' to play a board.")
}
