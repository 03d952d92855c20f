// Package tasks fetches, caches and exports track feeds with real-time progress reporting.
//
// # Core Operations
//
// [FeedEngine] has two operations:
//
//  1. [FeedEngine.Fetch] : one feed for the player
//     - Fetches trending, popular or artist:<id> from the API
//     - Writes the tracks through to the local cache
//     - Falls back to cached tracks when the API is unreachable
//
//  2. [FeedEngine.Sync] : many feeds at once
//     - Fetches feeds through a rate limited worker pool
//     - Caches every track
//     - Optionally exports each feed (json, csv, markdown, txt) and writes a manifest
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values over a channel. Sends never block: a full channel
// drops the update.
//
// # Track Caching
//
// The optional [TrackCacher] persists fetched tracks (repositories.TrackCacheAdapter). Cache
// failures are logged and never fail a fetch.
package tasks
