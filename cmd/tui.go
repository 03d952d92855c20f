package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/player"
	"github.com/desertthunder/ytplay/internal/shared"
	"github.com/desertthunder/ytplay/internal/ui"
	"github.com/urfave/cli/v3"
)

const defaultTUILog = "./tmp/ytplay-tui.log"

// TUI launches the interactive player.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}

	feed, err := models.ParseFeed(cmd.String("feed"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.Log.File
	if logPath == "" {
		logPath = defaultTUILog
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, _, err := r.feeds()
	if err != nil {
		return err
	}

	known := &durations{}
	resource, release, err := r.resource(ctx, r.config.Audio.Backend, known, 1)
	if err != nil {
		return err
	}
	defer release()

	screen := ui.NewScreen()
	opts, err := r.playerOptions(resource, screen)
	if err != nil {
		return err
	}

	ctrl, err := player.New(opts)
	if err != nil {
		return err
	}
	ctrl.Start()

	limit := cmd.Int("limit")
	model := ui.NewModel(ctx, ctrl, screen, ui.Feed{
		Name: feed.Name,
		Tag:  feed.Tag,
		Fetch: func(ctx context.Context) ([]models.Track, error) {
			tracks, err := engine.Fetch(ctx, feed, limit)
			known.add(tracks)
			return tracks, err
		},
	}, r.logger)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	ctrl.BeforeUnload()

	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
