package main

import (
	"context"

	"github.com/desertthunder/ytplay/internal/shared"
	"github.com/desertthunder/ytplay/internal/state"
	"github.com/urfave/cli/v3"
)

// StateShow prints the persisted playback session.
func (r *Runner) StateShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}

	store, err := r.stateStore()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(store.Snapshot(), cmd.Bool("pretty"))
	}

	entries, err := store.Entries()
	if err != nil {
		return err
	}

	r.writePlainHeader("Player state (" + store.Prefix() + ")")
	if len(entries) == 0 {
		return r.writePlain("No saved session\n")
	}

	snap := store.Snapshot()
	if snap.Track != nil {
		r.writePlain("Track:    %s (%s)\n", snap.Track.Title, snap.Track.ID)
		r.writePlain("Position: %s / %s\n", shared.FormatDuration(snap.Position), shared.FormatDuration(snap.Track.Duration))
	}
	r.writePlain("Playing:  %v\n", snap.Playing)
	r.writePlain("Shuffle:  %v (%d played)\n", snap.Shuffle, len(snap.History))
	r.writePlain("Repeat:   %v\n", snap.Repeat)

	r.writePlainln("Raw keys:")
	for _, key := range state.SortedKeys(entries) {
		r.writePlain("  %-14s %s\n", key, entries[key])
	}
	return nil
}

// StateReset deletes every persisted player key.
func (r *Runner) StateReset(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}

	store, err := r.stateStore()
	if err != nil {
		return err
	}

	store.Reset()
	r.logger.Info("player state cleared", "prefix", store.Prefix())
	return r.writePlain("✓ Player state cleared\n")
}
