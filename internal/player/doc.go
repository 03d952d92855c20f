// Package player implements the playback controller: one audio resource, a track queue with
// shuffle and repeat-one policies, seek and volume handling, and persistence of the session so it
// can be resumed after a restart.
//
// A [Controller] is constructed explicitly with [New]. Rendering goes through an injected [View],
// persistence through a [state.Store], and state transitions are published on an [events.Bus].
//
// The controller is not safe for concurrent use. Resource events and timer callbacks are turned
// into steps delivered by [Controller.Next]; whichever goroutine runs them (see [Controller.Run])
// must also be the one calling the controller's operations.
package player
