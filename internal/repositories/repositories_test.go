package repositories

import (
	"errors"
	"testing"

	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
	th "github.com/desertthunder/ytplay/internal/testing"
)

func sampleTrack(id, title string) models.Track {
	return models.Track{
		ID:       models.TrackID(id),
		Title:    title,
		Artist:   "Artist " + id,
		AudioURL: "https://cdn.example.com/" + id + ".mp3",
		Duration: 180,
	}
}

func TestNextSequence(t *testing.T) {
	db := th.NewTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "tracks")
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for table without sequence, got %v", err)
	}
}

func TestStateRepository(t *testing.T) {
	t.Run("Get missing key", func(t *testing.T) {
		repo := NewStateRepository(th.NewTestDB(t))

		value, ok, err := repo.Get("player:last_track")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok || value != "" {
			t.Errorf("expected missing key, got %q (ok=%v)", value, ok)
		}
	})

	t.Run("Set And Get", func(t *testing.T) {
		repo := NewStateRepository(th.NewTestDB(t))

		if err := repo.Set("player:shuffle", "true"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		value, ok, err := repo.Get("player:shuffle")
		if err != nil || !ok {
			t.Fatalf("Get failed: ok=%v err=%v", ok, err)
		}
		if value != "true" {
			t.Errorf("expected true, got %q", value)
		}
	})

	t.Run("Set overwrites", func(t *testing.T) {
		repo := NewStateRepository(th.NewTestDB(t))

		_ = repo.Set("player:last_position", "12.5")
		if err := repo.Set("player:last_position", "42"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		value, _, _ := repo.Get("player:last_position")
		if value != "42" {
			t.Errorf("expected 42, got %q", value)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewStateRepository(th.NewTestDB(t))

		_ = repo.Set("player:repeat", "true")
		if err := repo.Delete("player:repeat"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, ok, _ := repo.Get("player:repeat"); ok {
			t.Error("expected key to be gone after delete")
		}
		if err := repo.Delete("player:repeat"); err != nil {
			t.Errorf("deleting a missing key should not fail: %v", err)
		}
	})

	t.Run("List filters by prefix", func(t *testing.T) {
		repo := NewStateRepository(th.NewTestDB(t))

		_ = repo.Set("player:shuffle", "false")
		_ = repo.Set("player:history", "[0,2]")
		_ = repo.Set("other:shuffle", "true")
		_ = repo.Set("player_x", "1")

		entries, err := repo.List("player:")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
		}
		if entries["player:history"] != "[0,2]" {
			t.Errorf("unexpected history value %q", entries["player:history"])
		}
	})
}

func TestTrackRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		repo := NewTrackRepository(th.NewTestDB(t))

		track := models.NewCachedTrack(0, sampleTrack("7", "Song"))
		if err := repo.Create(track); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if track.ID() == "" {
			t.Fatal("expected generated ID")
		}
		if track.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", track.Sequence())
		}

		got, err := repo.Get(track.ID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.TrackID() != "7" || got.Track().Title != "Song" || got.Track().Duration != 180 {
			t.Errorf("unexpected track %+v", got.Track())
		}
	})

	t.Run("Create rejects invalid track", func(t *testing.T) {
		repo := NewTrackRepository(th.NewTestDB(t))

		if err := repo.Create(models.NewCachedTrack(0, models.Track{ID: "1"})); err == nil {
			t.Error("expected validation error for missing title")
		}
	})

	t.Run("GetByTrackID not found", func(t *testing.T) {
		repo := NewTrackRepository(th.NewTestDB(t))

		_, err := repo.GetByTrackID("404")
		if !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewTrackRepository(th.NewTestDB(t))

		track := models.NewCachedTrack(0, sampleTrack("1", "Old"))
		_ = repo.Create(track)

		updated := track.Track()
		updated.Title = "New"
		track.SetTrack(updated)

		if err := repo.Update(track); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		got, _ := repo.GetByTrackID("1")
		if got.Track().Title != "New" {
			t.Errorf("expected title New, got %s", got.Track().Title)
		}

		missing := models.NewCachedTrack(0, sampleTrack("2", "x"))
		missing.SetID("nope")
		if err := repo.Update(missing); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})

	t.Run("IncrementPlayCount", func(t *testing.T) {
		repo := NewTrackRepository(th.NewTestDB(t))
		_ = repo.Create(models.NewCachedTrack(0, sampleTrack("3", "Song")))

		for range 2 {
			if err := repo.IncrementPlayCount("3"); err != nil {
				t.Fatalf("IncrementPlayCount failed: %v", err)
			}
		}

		got, _ := repo.GetByTrackID("3")
		if got.Track().PlayCount != 2 {
			t.Errorf("expected play count 2, got %d", got.Track().PlayCount)
		}

		if err := repo.IncrementPlayCount("404"); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewTrackRepository(th.NewTestDB(t))

		track := models.NewCachedTrack(0, sampleTrack("1", "Song"))
		_ = repo.Create(track)

		if err := repo.Delete(track.ID()); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := repo.Get(track.ID()); err == nil {
			t.Error("expected error getting deleted track")
		}
		if err := repo.Delete(track.ID()); err == nil {
			t.Error("expected error deleting twice")
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewTrackRepository(th.NewTestDB(t))

		for _, id := range []string{"c", "a", "b"} {
			if err := repo.Create(models.NewCachedTrack(0, sampleTrack(id, "Song "+id))); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(all))
		}
		if all[0].TrackID() != "c" || all[2].TrackID() != "b" {
			t.Error("expected tracks in insertion order")
		}

		byArtist, _ := repo.List(map[string]any{"artist": "Artist a"})
		if len(byArtist) != 1 || byArtist[0].TrackID() != "a" {
			t.Errorf("expected single track for artist filter, got %d", len(byArtist))
		}

		limited, _ := repo.Tracks(2)
		if len(limited) != 2 {
			t.Errorf("expected 2 tracks with limit, got %d", len(limited))
		}
	})
}

func TestTrackCacheAdapter(t *testing.T) {
	t.Run("CacheTracks inserts and refreshes", func(t *testing.T) {
		repo := NewTrackRepository(th.NewTestDB(t))
		cache := NewTrackCacheAdapter(repo)

		n, err := cache.CacheTracks([]models.Track{sampleTrack("1", "One"), sampleTrack("2", "Two"), {Title: "no id"}})
		if err != nil {
			t.Fatalf("CacheTracks failed: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 cached tracks, got %d", n)
		}

		renamed := sampleTrack("1", "One (Remastered)")
		if err := cache.CacheTrack(renamed); err != nil {
			t.Fatalf("CacheTrack failed: %v", err)
		}

		all, _ := repo.List(nil)
		if len(all) != 2 {
			t.Fatalf("expected deduplicated cache of 2, got %d", len(all))
		}

		got, _ := repo.GetByTrackID("1")
		if got.Track().Title != "One (Remastered)" {
			t.Errorf("expected refreshed title, got %s", got.Track().Title)
		}
		if got.Sequence() != 1 {
			t.Errorf("refresh should keep the original sequence, got %d", got.Sequence())
		}
	})

	t.Run("CacheTracks stops on invalid track", func(t *testing.T) {
		cache := NewTrackCacheAdapter(NewTrackRepository(th.NewTestDB(t)))

		n, err := cache.CacheTracks([]models.Track{sampleTrack("1", "One"), {ID: "2"}})
		if err == nil {
			t.Error("expected error for track without title")
		}
		if n != 1 {
			t.Errorf("expected 1 cached track before failure, got %d", n)
		}
	})
}
