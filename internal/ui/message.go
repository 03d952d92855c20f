package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/player"
)

var (
	_ tea.Msg = tracksFetchedMsg{}
	_ tea.Msg = stepMsg(nil)
	_ tea.Msg = stoppedMsg{}
)

// tracksFetchedMsg carries the result of loading the feed.
type tracksFetchedMsg struct {
	tracks []models.Track
	err    error
}

// stepMsg is one unit of controller work to run inside Update.
type stepMsg player.Step

// stoppedMsg reports that the step pump ended.
type stoppedMsg struct {
	err error
}
