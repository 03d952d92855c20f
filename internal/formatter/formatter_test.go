package formatter

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ytplay/internal/models"
	th "github.com/desertthunder/ytplay/internal/testing"
)

func sampleExport() *models.FeedExport {
	return &models.FeedExport{
		Feed:      models.Feed{Name: "artist:42", Tag: models.ArtistTag("42")},
		FetchedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Tracks: []models.Track{
			{
				ID:        "track1",
				Title:     "Song One",
				Artist:    "Artist One",
				AudioURL:  "https://cdn.example.com/1.mp3",
				Duration:  180,
				PlayCount: 1234567,
			},
			{
				ID:       "track2",
				Title:    "Song Two",
				AudioURL: "https://cdn.example.com/2.mp3",
				Duration: 65.5,
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Title,Artist,Duration,Plays,AudioURL") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "track1,Song One,Artist One,180,1234567,https://cdn.example.com/1.mp3") {
			t.Errorf("CSV missing track1 record, got: %s", output)
		}
		if !strings.Contains(output, "track2,Song Two,,65.5,0,") {
			t.Errorf("CSV missing track2 record, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport(), "cover.jpg")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		for _, want := range []string{
			"# artist:42",
			"![Cover](cover.jpg)",
			"**Tracks**: 2",
			"**Total time**: 4:05",
			"**Fetched**: 2025-03-01T12:00:00Z",
			"1. Artist One - Song One [3:00] (1,234,567 plays)",
			"2. Unknown Artist - Song Two [1:05]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown Without Cover", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport(), "")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if strings.Contains(string(data), "![Cover]") {
			t.Error("Markdown should not reference a cover")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Feed: artist:42\nTracks: 2\n\n") {
			t.Errorf("unexpected text header, got:\n%s", output)
		}
		if !strings.Contains(output, "1. Artist One - Song One") {
			t.Errorf("text missing first track, got:\n%s", output)
		}
	})

	t.Run("TrackTable", func(t *testing.T) {
		out := TrackTable(sampleExport().Tracks)

		for _, want := range []string{"Title", "Song One", "Unknown Artist", "3:00", "1,234,567"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q, got:\n%s", want, out)
			}
		}
	})
}

func TestWriters(t *testing.T) {
	export := sampleExport()

	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "feed")

		res, err := WriteCSVExport(export, base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		if res.TracksFile != base+"_tracks.csv" {
			t.Errorf("unexpected tracks file %s", res.TracksFile)
		}
		th.AssertFileExists(t, res.TracksFile)
		th.AssertFileExists(t, res.MetadataFile)

		meta := th.MustReadFile(t, res.MetadataFile)
		if !strings.Contains(meta, `"track_count": 2`) {
			t.Errorf("metadata missing track count, got %s", meta)
		}
		if strings.Contains(meta, "Song One") {
			t.Error("metadata should not contain tracks")
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		t.Run("With Cover Image", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("jpeg-bytes"))
			}))
			defer server.Close()

			dir := filepath.Join(t.TempDir(), "md")
			res, err := WriteMarkdownExport(export, dir, server.URL+"/cover.jpg")
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			if res.CoverImage == "" {
				t.Fatal("expected cover image to be saved")
			}
			if len(res.Files) != 2 {
				t.Errorf("expected 2 files, got %v", res.Files)
			}
			if got := th.MustReadFile(t, res.CoverImage); got != "jpeg-bytes" {
				t.Errorf("unexpected cover contents %q", got)
			}
			if !strings.Contains(th.MustReadFile(t, filepath.Join(dir, "README.md")), "![Cover](cover.jpg)") {
				t.Error("README should reference the cover")
			}
		})

		t.Run("Cover Download Failure", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			dir := filepath.Join(t.TempDir(), "md")
			res, err := WriteMarkdownExport(export, dir, server.URL)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}
			if res.CoverImage != "" || len(res.Files) != 1 {
				t.Errorf("expected README only, got %+v", res)
			}
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feed.txt")

		got, err := WriteTextExport(export, path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("WriteJSONExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feed.json")

		if _, err := WriteJSONExport(export, path); err != nil {
			t.Fatalf("WriteJSONExport failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		if !strings.Contains(content, `"track1"`) || !strings.Contains(content, `"artist:42"`) {
			t.Errorf("JSON missing export data, got %s", content)
		}
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")

		if err := WriteManifest(map[string]int{"total_feeds": 2}, "csv", path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		if !strings.Contains(content, `"format": "csv"`) {
			t.Errorf("manifest missing format, got %s", content)
		}
		if !strings.Contains(content, `"total_feeds": 2`) {
			t.Errorf("manifest missing summary, got %s", content)
		}
	})

	t.Run("DownloadImage Empty URL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})
}
