// package formatter provides functions to export feed data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
)

// ExportToCSV converts a FeedExport to CSV format with columns: ID, Title, Artist, Duration, Plays, AudioURL
func ExportToCSV(export *models.FeedExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Duration", "Plays", "AudioURL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range export.Tracks {
		record := []string{
			track.ID.String(),
			track.Title,
			track.Artist,
			strconv.FormatFloat(track.Duration, 'f', -1, 64),
			strconv.Itoa(track.PlayCount),
			track.AudioURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a FeedExport to Markdown format with optional cover image
func ExportToMarkdown(export *models.FeedExport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Feed.Name)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(export.Tracks))
	fmt.Fprintf(&buf, "**Total time**: %s\n", shared.FormatDuration(export.TotalDuration()))
	if !export.FetchedAt.IsZero() {
		fmt.Fprintf(&buf, "**Fetched**: %s\n", export.FetchedAt.UTC().Format(time.RFC3339))
	}

	buf.WriteString("\n## Tracks\n\n")
	for i, track := range export.Tracks {
		plays := ""
		if track.PlayCount > 0 {
			plays = fmt.Sprintf(" (%s plays)", shared.FormatNumber(track.PlayCount))
		}
		fmt.Fprintf(&buf, "%d. %s - %s [%s]%s\n", i+1, track.ArtistName(), track.Title, shared.FormatDuration(track.Duration), plays)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a FeedExport to plain text format
func ExportToText(export *models.FeedExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Feed: %s\n", export.Feed.Name)
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(export.Tracks))

	for i, track := range export.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.ArtistName(), track.Title)
	}

	return buf.Bytes(), nil
}

// TrackTable renders tracks as a bordered terminal table.
func TrackTable(tracks []models.Track) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "ID", "Title", "Artist", "Time", "Plays").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for i, track := range tracks {
		t.Row(
			strconv.Itoa(i+1),
			track.ID.String(),
			track.Title,
			track.ArtistName(),
			shared.FormatDuration(track.Duration),
			shared.FormatNumber(track.PlayCount),
		)
	}

	return t.Render()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// feedMetadata is the track-less summary written next to CSV exports.
type feedMetadata struct {
	Feed       models.Feed `json:"feed"`
	FetchedAt  time.Time   `json:"fetched_at"`
	TrackCount int         `json:"track_count"`
	TotalTime  string      `json:"total_time"`
}

// ToMetadataJSON generates a JSON representation of feed metadata (without tracks)
func ToMetadataJSON(export *models.FeedExport) ([]byte, error) {
	return shared.MarshalJSON(feedMetadata{
		Feed:       export.Feed,
		FetchedAt:  export.FetchedAt,
		TrackCount: len(export.Tracks),
		TotalTime:  shared.FormatDuration(export.TotalDuration()),
	}, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a feed to CSV format with accompanying metadata JSON file.
//
// Defaults to the feed slug as the base filename & creates {base}_tracks.csv and {base}_metadata.json
func WriteCSVExport(export *models.FeedExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Feed.Slug()
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a feed to Markdown format in a dedicated directory.
//
// Directory name defaults to the feed slug.
// The imageURL parameter is optional - if provided, attempts to download the cover image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(export *models.FeedExport, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.Feed.Slug()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(export, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a feed to plain text format.
//
// Defaults to {slug}_tracks.txt as the filename.
func WriteTextExport(export *models.FeedExport, path string) (string, error) {
	if path == "" {
		path = export.Feed.Slug() + "_tracks.txt"
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteJSONExport writes the full export, tracks included, as indented JSON.
func WriteJSONExport(export *models.FeedExport, path string) (string, error) {
	if path == "" {
		path = export.Feed.Slug() + ".json"
	}

	data, err := shared.MarshalJSON(export, true)
	if err != nil {
		return "", fmt.Errorf("JSON marshal failed: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("JSON write failed: %w", err)
	}

	return path, nil
}

// WriteManifest writes a sync summary as indented JSON.
func WriteManifest(summary any, format, path string) error {
	manifest := struct {
		Format      string    `json:"format"`
		GeneratedAt time.Time `json:"generated_at"`
		Summary     any       `json:"summary"`
	}{format, time.Now().UTC(), summary}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
