package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/plus3/circles/scores"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [difficulty]",
	Short: "Show the best runs",
	Long: `Display the best recorded runs, optionally for one difficulty.

Examples:
  circle-clicker scores
  circle-clicker scores hard --limit 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffe9ba"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	bestStyle   = cellStyle.Foreground(lipgloss.Color("#8cff9e"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

func runScores(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	difficulty := ""
	if len(args) == 1 {
		difficulty = args[0]
	}

	store, err := scores.Open(cfg.Scores.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.TopScores(difficulty, flagLimit)
	if err != nil {
		return err
	}
	total, err := store.Count(difficulty)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, renderScores(difficulty, runs, total, time.Now()))
	return nil
}

// renderScores formats runs as a table with dates relative to now.
func renderScores(difficulty string, runs []scores.Run, total int, now time.Time) string {
	title := "High Scores"
	if difficulty != "" {
		title += " - " + difficulty
	}
	if len(runs) == 0 {
		return titleStyle.Render(title) + "\n\nNo scores recorded yet.\n" +
			faintStyle.Render("Run 'circle-clicker' to set the first one!")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "Score", "Mode", "Hits", "Misses", "Expired", "Accuracy", "Time", "When").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == 0:
				return bestStyle
			default:
				return cellStyle
			}
		})

	for i, run := range runs {
		t.Row(
			strconv.Itoa(i+1),
			strconv.Itoa(run.Score),
			run.Difficulty,
			strconv.Itoa(run.Hits),
			strconv.Itoa(run.Misses),
			strconv.Itoa(run.Expired),
			fmt.Sprintf("%.0f%%", run.Accuracy()*100),
			run.Duration.Round(100*time.Millisecond).String(),
			humanize.RelTime(run.CreatedAt, now, "ago", "from now"),
		)
	}

	footer := faintStyle.Render(fmt.Sprintf("%s runs recorded", humanize.Comma(int64(total))))
	return titleStyle.Render(title) + "\n" + t.Render() + "\n" + footer
}
