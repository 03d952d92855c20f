package models

import (
	"fmt"
	"strings"
	"time"
)

// Feed names a track listing the API serves.
type Feed struct {
	Name string   `json:"name"`
	Tag  QueueTag `json:"tag"`
}

// Built-in feeds.
var (
	TrendingFeed = Feed{Name: "trending", Tag: FeedTag("trending")}
	PopularFeed  = Feed{Name: "popular", Tag: QueueTag{Kind: QueuePopular}}
)

// ParseFeed reads "trending", "popular" or "artist:<id>".
func ParseFeed(s string) (Feed, error) {
	switch s = strings.TrimSpace(s); {
	case s == "" || s == TrendingFeed.Name:
		return TrendingFeed, nil
	case s == PopularFeed.Name:
		return PopularFeed, nil
	case strings.HasPrefix(s, "artist:"):
		id := strings.TrimPrefix(s, "artist:")
		if id == "" {
			return Feed{}, fmt.Errorf("artist feed requires an id: %q", s)
		}
		return Feed{Name: s, Tag: ArtistTag(id)}, nil
	default:
		return Feed{}, fmt.Errorf("unknown feed %q (want trending, popular or artist:<id>)", s)
	}
}

// FeedExport is a fetched feed ready to be written to disk.
type FeedExport struct {
	Feed      Feed      `json:"feed"`
	FetchedAt time.Time `json:"fetched_at"`
	Tracks    []Track   `json:"tracks"`
}

// TotalDuration sums the track durations in seconds.
func (e *FeedExport) TotalDuration() float64 {
	var total float64
	for _, t := range e.Tracks {
		total += t.Duration
	}
	return total
}

// Slug is a filesystem-safe form of the feed name.
func (f Feed) Slug() string {
	return strings.NewReplacer(":", "_", "/", "_", " ", "_").Replace(f.Name)
}
