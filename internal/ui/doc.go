// Package ui implements the interactive terminal player using bubbletea's Elm architecture.
//
// The [Model] shows a feed of tracks in a [list.Model] above a footer with the now-playing line,
// a progress bar, a volume bar and contextual help. A [Screen] is handed to the player as its
// view; the controller writes into it and the Model renders it.
//
// Controller work (resource events, resume timers) is pumped through bubbletea: a command blocks
// on [player.Controller.Next] and returns the step as a message, which runs inside Update. Key and
// mouse handlers call the controller on the same goroutine, so the controller never sees
// concurrent access.
//
// The progress and volume bars use [scrub.Bar]: progress commits on release and snaps back on a
// short accidental drag, volume applies live. Horizontal drags over the track list page through
// it with a [scrub.Pager].
//
// Keyboard navigation uses vim-style bindings for the list (j/k, enter, /) with player keys
// (space, n, p, ",", ".", +, -, m, s, r, a) and help displayed via charmbracelet/bubbles/help.
package ui
