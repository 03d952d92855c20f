package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytplay/internal/formatter"
	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
	"github.com/desertthunder/ytplay/internal/tasks"
	"github.com/urfave/cli/v3"
)

// TracksList prints the tracks in the local cache, most played first.
func (r *Runner) TracksList(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}

	_, repo, err := r.feeds()
	if err != nil {
		return err
	}

	tracks, err := repo.Tracks(cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list cached tracks: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	if len(tracks) == 0 {
		return r.writePlain("No cached tracks. Run 'ytplay tracks fetch' first.\n")
	}

	r.writePlain("%s\n", formatter.TrackTable(tracks))
	return r.writePlain("%d cached tracks\n", len(tracks))
}

// TracksFetch fetches one feed and writes its tracks through to the cache.
func (r *Runner) TracksFetch(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}

	feed, err := models.ParseFeed(cmd.String("feed"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	engine, _, err := r.feeds()
	if err != nil {
		return err
	}

	tracks, err := engine.Fetch(ctx, feed, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", feed.Name, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Feed: %s", feed.Name))
	r.writePlain("%s\n", formatter.TrackTable(tracks))
	return r.writePlain("%d tracks\n", len(tracks))
}

// TracksSync fetches several feeds concurrently with progress output.
func (r *Runner) TracksSync(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}

	names := cmd.StringSlice("feed")
	feeds := make([]models.Feed, 0, len(names))
	for _, name := range names {
		feed, err := models.ParseFeed(name)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		feeds = append(feeds, feed)
	}

	format := cmd.String("format")
	switch format {
	case "", "json", "csv", "markdown", "txt":
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	engine, _, err := r.feeds()
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, len(feeds)*3)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	result, err := engine.Sync(ctx, progress, feeds, tasks.SyncOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  r.config.API.RateLimit,
		Limit:      cmd.Int("limit"),
	})
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlainHeader("Sync Summary")
	r.writePlain("Feeds:     %d\n", result.TotalFeeds)
	r.writePlain("Succeeded: %d\n", result.SuccessfulFeeds)
	r.writePlain("Failed:    %d\n", result.FailedFeeds)
	r.writePlain("Cached:    %d tracks\n", result.TracksCached)
	if result.ManifestPath != "" {
		r.writePlain("Manifest:  %s\n", result.ManifestPath)
	}

	for _, res := range result.Results {
		if !res.Success {
			r.writePlain("  ✗ %s: %s\n", res.Feed.Name, res.ErrorText)
		}
	}
	return nil
}
