// circle-clicker is a small game: click the shrinking circles before they
// vanish.
//
// Usage:
//
//	circle-clicker [play]          - Play in a desktop window
//	circle-clicker term            - Play inside the terminal
//	circle-clicker scores [mode]   - Show the best runs
//	circle-clicker config          - Print the resolved configuration
//
// Global flags:
//
//	--config <path>      - Config file (default: search ~/.circle-clicker, ./configs)
//	--difficulty <name>  - Starting difficulty preset
//	--seed <value>       - RNG seed (0 = time based)
//	--db <path>          - Score database path
//	--mute               - Disable sound
//	--debug              - Show debug info
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig     string
	flagDifficulty string
	flagSeed       uint64
	flagDBPath     string
	flagMute       bool
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "circle-clicker",
	Short: "Click the circles before they shrink away",
	Long: `Circle Clicker spawns shrinking circles. Click one to score a point,
miss or let one vanish and you lose a point. The run ends when the last
clickable circle is gone.

Examples:
  circle-clicker
  circle-clicker term --difficulty hard
  circle-clicker scores easy
  circle-clicker config > my-config.yaml`,
	SilenceUsage: true,
	RunE:         runPlay,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a config YAML file")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset (e.g. easy, hard)")
	pf.Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "", "Path to the scores database")
	pf.BoolVar(&flagMute, "mute", false, "Disable sound")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.BoolVar(&flagDebug, "debug", false, "Show debug info (ImGui overlay on desktop, status line in the terminal)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(termCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}
