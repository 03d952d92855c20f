// Package audio provides the audio resources the player drives.
//
//   - [Speaker] : decodes mp3/wav with beep and plays through the system speaker
//   - [Simulated] : a clock-driven stand-in with no output, used for headless runs and dry runs
//
// Both emit [player.ResourceEvent] values tagged with the source they belong to.
package audio
