package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Playback errors
	ErrInvalidTrack     = fmt.Errorf("invalid track")
	ErrTrackNotInQueue  = fmt.Errorf("track not in queue")
	ErrEmptyQueue       = fmt.Errorf("queue is empty")
	ErrPlaybackRejected = fmt.Errorf("playback request rejected")
	ErrNoSource         = fmt.Errorf("no audio source")
	ErrUnsupportedMedia = fmt.Errorf("unsupported media type")

	// Storage errors
	ErrStorage       = fmt.Errorf("storage failure")
	ErrCorruptState  = fmt.Errorf("corrupt persisted state")
	ErrTrackNotFound = fmt.Errorf("track not found")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
