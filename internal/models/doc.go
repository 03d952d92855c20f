// Package models defines the domain entities shared by the player, its storage and its collaborators.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing API data
//   - [Track] : one playable audio item, as returned by the streaming API
//   - [QueueTag] : identifies where a queue came from (feed, artist, popular)
//   - [Snapshot] : the playback state persisted between runs
//
// 2. Persistent Entities: Database-backed models
//   - [CachedTrack] : track metadata cached locally after every list fetch
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
