// Package services talks to the music streaming API.
//
// # Tracks
//
// [TracksService] fetches track listings (trending, popular, an artist's popular tracks) and
// reports plays with POST tracks/{id}/play. Requests carry the configured access token as a
// bearer token through an [oauth2.StaticTokenSource] client.
//
// List endpoints answer with either {"tracks": [...]} or {"data": {"tracks": [...]}}; both
// decode to []models.Track.
//
// # Play counting
//
// [PlayCounter] implements the player's notifier: it forwards to the API and bumps the local
// cache's play count. A failed call is returned to the caller, which logs it; playback never
// waits on it.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrAPIRequest] : transport failure or unexpected status
//   - [shared.ErrServiceUnavailable] : 5xx from the API
//   - [shared.ErrNotAuthenticated] : 401 or 403 from the API
//   - [shared.ErrInvalidInput] : empty track or artist id
package services
