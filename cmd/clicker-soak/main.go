// clicker-soak runs the game headless with a bot for a fixed time and prints
// a timing, memory and gameplay report.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/plus3/circles/game"
)

var (
	flagDuration       time.Duration
	flagSeed           uint64
	flagMissRate       float64
	flagClickEvery     int
	flagDifficulty     string
	flagGCPauseMetrics bool
	flagVerbose        bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "clicker-soak",
	Short:        "Run the game headless with a bot and report on it",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.DurationVar(&flagDuration, "duration", 10*time.Second, "The total duration the soak should run for.")
	f.Uint64Var(&flagSeed, "seed", 1, "World and bot seed.")
	f.Float64Var(&flagMissRate, "miss-rate", 0.1, "Chance that a bot click deliberately misses.")
	f.IntVar(&flagClickEvery, "click-every", 12, "Frames between bot clicks.")
	f.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset (default: first preset).")
	f.BoolVar(&flagGCPauseMetrics, "gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	f.BoolVar(&flagVerbose, "verbose", false, "Log game events.")
}

func run(cmd *cobra.Command, args []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "soak",
	})

	gameLogger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "game", Level: log.WarnLevel})
	if flagVerbose {
		gameLogger.SetLevel(log.DebugLevel)
	}

	settings := game.DefaultSettings()
	if flagDifficulty != "" {
		settings.Difficulty = flagDifficulty
		if err := settings.Validate(); err != nil {
			return err
		}
	}

	recorder := &game.MemoryRecorder{}
	w := game.NewWorld(game.Options{
		Settings: settings,
		Seed:     flagSeed,
		Logger:   gameLogger,
		Recorder: recorder,
	})
	bot := NewBot(w, flagSeed, flagMissRate, flagClickEvery)

	report := &Report{
		Duration:       flagDuration,
		Seed:           flagSeed,
		Difficulty:     settings.Current().Name,
		MissRate:       flagMissRate,
		GCPauseMetrics: flagGCPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("running soak", "duration", flagDuration, "seed", flagSeed)
	ctx, cancel := context.WithTimeout(context.Background(), flagDuration)
	defer cancel()

	const dt = 1.0 / 60
	startTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			bot.Act()
			updateStart := time.Now()
			w.Update(dt)
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			w.DrainSounds()
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.SimulatedTime = time.Duration(float64(report.TotalUpdates) * dt * float64(time.Second))
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.Results = recorder.Results
	report.Bot = bot
	report.Scheduler = w.Scheduler.Stats()
	report.Entities = w.Storage.CollectStats()

	logger.Info("soak finished", "updates", report.TotalUpdates, "games", len(report.Results))

	fmt.Println("\n--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")
	return nil
}
