package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/desertthunder/ytplay/internal/audio"
	"github.com/desertthunder/ytplay/internal/events"
	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/player"
	"github.com/desertthunder/ytplay/internal/shared"
	"github.com/urfave/cli/v3"
)

// durations maps audio URLs to track lengths for the simulated backend.
type durations struct {
	mu sync.RWMutex
	m  map[string]float64
}

func (d *durations) add(tracks []models.Track) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.m == nil {
		d.m = make(map[string]float64, len(tracks))
	}
	for _, t := range tracks {
		d.m[t.AudioURL] = t.Duration
	}
}

func (d *durations) lookup(url string) float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.m[url]
}

// resource builds the configured audio backend. The returned func releases it.
func (r *Runner) resource(ctx context.Context, backend string, known *durations, speed float64) (player.Resource, func(), error) {
	switch backend {
	case "simulated":
		sim := audio.NewSimulated(known.lookup, speed)
		tick := r.config.Audio.Tick
		if tick <= 0 {
			tick = audio.DefaultTick
		}

		runCtx, cancel := context.WithCancel(ctx)
		go sim.Run(runCtx, tick)
		return sim, cancel, nil

	case "speaker", "":
		spk, err := audio.NewSpeaker(r.config.Audio, r.httpClient, r.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", shared.ErrNoSource, err)
		}
		return spk, func() { spk.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown audio backend %q", shared.ErrInvalidArgument, backend)
	}
}

// Play runs the controller headless over a feed until interrupted or --for elapses.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
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
	if len(tracks) == 0 {
		return fmt.Errorf("%w: feed %s has no tracks", shared.ErrEmptyQueue, feed.Name)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if d := cmd.Duration("for"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	backend := cmd.String("backend")
	if backend == "" {
		backend = r.config.Audio.Backend
	}

	known := &durations{}
	known.add(tracks)

	resource, release, err := r.resource(ctx, backend, known, cmd.Float("speed"))
	if err != nil {
		return err
	}
	defer release()

	opts, err := r.playerOptions(resource, player.NopView{})
	if err != nil {
		return err
	}

	ctrl, err := player.New(opts)
	if err != nil {
		return err
	}

	ctrl.Bus().Subscribe(events.TrackChange, func(e events.Event) {
		if e.Track == nil {
			return
		}
		r.writePlain("▶ %s", e.Track.Title)
		if e.Track.Artist != "" {
			r.writePlain(" by %s", e.Track.Artist)
		}
		r.writePlain(" [%s]\n", shared.FormatDuration(e.Track.Duration))
	})
	ctrl.Bus().Subscribe(events.ModeChange, func(e events.Event) {
		r.logger.Info("mode changed", "shuffle", e.Shuffle, "repeat", e.Repeat)
	})

	ctrl.Start()

	if cmd.Bool("resume") && ctrl.CurrentTrack() != nil {
		r.logger.Info("resuming last session", "track", ctrl.CurrentTrack().Title)
		err = ctrl.Refresh(tracks, feed.Tag)
	} else {
		err = ctrl.LoadQueue(tracks, cmd.Int("index"), feed.Tag)
	}
	if err != nil {
		return err
	}

	if cmd.IsSet("shuffle") && cmd.Bool("shuffle") != ctrl.Shuffle() {
		ctrl.ToggleShuffle()
	}
	if cmd.IsSet("repeat") && cmd.Bool("repeat") != ctrl.Repeat() {
		ctrl.ToggleRepeat()
	}

	err = ctrl.Run(ctx)
	ctrl.BeforeUnload()

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
