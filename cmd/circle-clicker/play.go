package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/plus3/circles/audio"
	"github.com/plus3/circles/frontend/desktop"
	"github.com/plus3/circles/frontend/terminal"
	"github.com/plus3/circles/game"
)

var (
	flagDebug   bool
	flagLogFile string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in a desktop window",
	Long: `Open a window and play.

Controls:
  Left click  - Click circles and buttons
  Esc         - Quit`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Play inside the terminal",
	Long: `Play in the terminal using mouse reporting. Circles are drawn as
blocks of coloured cells.

Controls:
  Left click       - Click circles and buttons
  Esc/Q/Ctrl+C     - Quit`,
	Args: cobra.NoArgs,
	RunE: runTerm,
}

func init() {
	termCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (default: discard)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := a.gameOptions()
	if err != nil {
		return err
	}
	g, err := desktop.New(opts, desktop.Options{
		Title:     a.cfg.Window.Title,
		VSync:     a.cfg.Window.VSync,
		Resizable: a.cfg.Window.Resizable,
		Debug:     flagDebug,
		Audio:     a.cfg.Audio.Enabled,
		Volume:    a.cfg.Audio.Volume,
		Logger:    a.logger,
	})
	if err != nil {
		return err
	}

	a.logger.Info("starting", "frontend", "desktop", "difficulty", opts.Settings.Current().Name)
	return desktop.Run(g)
}

var errNotTerminal = errors.New("term: stdout is not a terminal")

func runTerm(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	out, closeLog, err := openLogFile(flagLogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := newApp(out)
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := a.gameOptions()
	if err != nil {
		return err
	}
	screen, err := terminal.Open()
	if err != nil {
		return err
	}

	player := audio.Open(a.cfg.Audio.Enabled, a.cfg.Audio.Volume, a.logger)
	defer player.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := game.NewWorld(opts)
	a.logger.Info("starting", "frontend", "terminal", "difficulty", opts.Settings.Current().Name)
	tui := terminal.New(screen, w, player)
	tui.SetDebug(flagDebug)
	return tui.Run(ctx)
}
