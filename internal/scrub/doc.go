// Package scrub implements pointer interaction for continuous bar controls.
//
// A [Bar] maps horizontal pointer positions to a fraction in [0, 1] and is used by both the progress
// and the volume bar. A [Gesture] tells taps from drags by distance and elapsed time; [Pager] uses it
// for carousel-style paging of track lists.
package scrub
