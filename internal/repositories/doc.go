// Package repositories implements SQLite persistence for the player.
//
// Key Implementations:
//   - [StateRepository] : key/value rows backing the persisted playback state ([state.KV])
//   - [TrackRepository] : track metadata cache keyed by the API track id
//   - [TrackCacheAdapter] : deduplicating writer used after every list fetch
//
// Sequence numbers provide stable insertion ordering for cached tracks independent of ids and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
