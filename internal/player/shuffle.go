package player

import (
	"slices"

	"github.com/desertthunder/ytplay/internal/state"
)

// pickShuffled chooses the next index so that no index repeats until every one has been played.
//
// The current index joins the history first; a full history starts a new cycle. A single-track
// queue therefore clears and reselects index 0 on every call.
func (c *Controller) pickShuffled() int {
	n := len(c.queue)
	history := pruneHistory(c.history, n)

	if !slices.Contains(history, c.index) {
		history = append(history, c.index)
	}
	if len(history) >= n {
		history = history[:0]
	}

	candidates := make([]int, 0, n-len(history))
	for i := range n {
		if !slices.Contains(history, i) {
			candidates = append(candidates, i)
		}
	}

	pick := candidates[c.rand.IntN(len(candidates))]
	c.setHistory(append(history, pick))
	return pick
}

func (c *Controller) setHistory(history []int) {
	if history == nil {
		history = []int{}
	}
	c.history = history
	c.store.Save(state.KeyHistory, c.history)
}

// pruneHistory drops indices outside a queue of length n and duplicates.
func pruneHistory(history []int, n int) []int {
	pruned := make([]int, 0, len(history))
	for _, i := range history {
		if i >= 0 && i < n && !slices.Contains(pruned, i) {
			pruned = append(pruned, i)
		}
	}
	return pruned
}
