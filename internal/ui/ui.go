package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/ytplay/internal/events"
	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/player"
	"github.com/desertthunder/ytplay/internal/scrub"
	"github.com/desertthunder/ytplay/internal/shared"
)

const (
	labelWidth  = 6 // "%5s " before each bar
	volumeWidth = 20
	seekStep    = 5.0
	volumeStep  = 0.05
)

// Feed is the list shown in the player and the tag its queue carries.
type Feed struct {
	Name  string
	Tag   models.QueueTag
	Fetch func(ctx context.Context) ([]models.Track, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	player *player.Controller
	screen *Screen
	feed   Feed
	logger *log.Logger

	width  int
	height int

	tracks   []models.Track
	rows     *rowState
	list     list.Model
	pager    *scrub.Pager
	dragging bool
	progress progress.Model
	volume   progress.Model

	err  error
	help help.Model
	keys keyMap

	now  func() time.Time
	subs []string
}

// NewModel creates the player TUI. screen must be the view the controller was created with.
func NewModel(ctx context.Context, ctrl *player.Controller, screen *Screen, feed Feed, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.DiscardLogger()
	}

	m := &Model{
		ctx:      ctx,
		player:   ctrl,
		screen:   screen,
		feed:     feed,
		logger:   shared.WithLogger(logger, "component", "ui"),
		rows:     &rowState{},
		pager:    scrub.NewPager(1, 1),
		progress: progress.New(progress.WithGradient(styles.primary, styles.accent), progress.WithoutPercentage()),
		volume:   progress.New(progress.WithSolidFill(styles.accent), progress.WithoutPercentage(), progress.WithWidth(volumeWidth)),
		help:     help.New(),
		keys:     newKeyMap(),
		now:      time.Now,
	}

	m.list = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.list.Title = feed.Name
	m.list.SetShowHelp(false)
	m.list.DisableQuitKeybindings()

	screen.RenderVolume(ctrl.Volume(), ctrl.Muted())
	if t := ctrl.CurrentTrack(); t != nil {
		m.rows.active, m.rows.playing = t.ID, ctrl.IsPlaying()
	}
	for _, kind := range []events.Kind{events.TrackChange, events.Play, events.Pause} {
		m.subs = append(m.subs, ctrl.Bus().Subscribe(kind, m.rows.observe))
	}

	m.bindBars()
	return m
}

// bindBars connects the screen's bars to the controller.
func (m *Model) bindBars() {
	seek, vol := m.screen.seek, m.screen.vol
	seek.Now, vol.Now = m.clock, m.clock

	seek.OnBegin = m.player.BeginSeek
	seek.OnEnd = m.player.EndSeek
	seek.OnCommit = m.player.SeekFraction
	seek.OnPreview = func(v float64, visible bool) {
		m.screen.preview, m.screen.previewing = v, visible
	}

	vol.OnApply = m.player.SetVolume
}

func (m *Model) clock() time.Time { return m.now() }

// Close removes the model's event subscriptions.
func (m *Model) Close() {
	for _, id := range m.subs {
		m.player.Bus().Unsubscribe(id)
	}
	m.subs = nil
}

// Init starts the step pump and fetches the feed.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForStep(), m.fetchTracks())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case stepMsg:
		msg()
		return m, m.waitForStep()

	case stoppedMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case tracksFetchedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("failed to load %s: %w", m.feed.Name, msg.err)
			m.logger.Error("failed to fetch tracks", "feed", m.feed.Name, "error", msg.err)
			return m, nil
		}
		m.setTracks(msg.tracks)
		if err := m.player.Refresh(m.tracks, m.feed.Tag); err != nil {
			m.report(err)
		}
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m.updateList(msg)
}

// View renders the track list and the player footer.
func (m *Model) View() string {
	listHeight := m.listHeight()
	body := lipgloss.NewStyle().Height(listHeight).MaxHeight(listHeight).Render(m.list.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		m.renderNowPlaying(),
		m.renderProgress(),
		m.renderVolume(),
		m.renderHelp(),
	)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.player.BeforeUnload()
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		m.playSelected()
	case key.Matches(msg, m.keys.playAll):
		m.report(m.player.PlayAll(m.tracks, m.feed.Tag))
	case key.Matches(msg, m.keys.playPause):
		m.player.TogglePlayPause()
	case key.Matches(msg, m.keys.next):
		m.report(m.player.Advance())
	case key.Matches(msg, m.keys.prev):
		m.report(m.player.Retreat())
	case key.Matches(msg, m.keys.forward):
		m.player.Seek(m.player.Position() + seekStep)
	case key.Matches(msg, m.keys.rewind):
		m.player.Seek(m.player.Position() - seekStep)
	case key.Matches(msg, m.keys.volUp):
		m.player.SetVolume(m.player.Volume() + volumeStep)
	case key.Matches(msg, m.keys.volDown):
		m.player.SetVolume(m.player.Volume() - volumeStep)
	case key.Matches(msg, m.keys.mute):
		m.player.ToggleMute()
	case key.Matches(msg, m.keys.shuffle):
		m.player.ToggleShuffle()
	case key.Matches(msg, m.keys.repeat):
		m.player.ToggleRepeat()
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
	default:
		return m.updateList(msg)
	}
	return m, nil
}

// playSelected activates the selected row: rows of the playing feed toggle or jump within the
// queue, rows of another feed replace the queue.
func (m *Model) playSelected() {
	item, ok := m.list.SelectedItem().(trackItem)
	if !ok {
		return
	}

	if m.player.IsQueueFromTag(m.feed.Tag) {
		err := m.player.PlayTrack(item.track.ID)
		if !errors.Is(err, shared.ErrTrackNotInQueue) {
			m.report(err)
			return
		}
	}

	m.report(m.player.LoadQueue(m.tracks, models.IndexOf(m.tracks, item.track.ID), m.feed.Tag))
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x := float64(msg.X)
	listHeight := m.listHeight()
	progressY, volumeY := listHeight+1, listHeight+2
	seek, vol := m.screen.seek, m.screen.vol

	switch msg.Action {
	case tea.MouseActionPress:
		switch {
		case msg.Button == tea.MouseButtonWheelUp && msg.Y == volumeY:
			m.player.SetVolume(m.player.Volume() + volumeStep)
		case msg.Button == tea.MouseButtonWheelDown && msg.Y == volumeY:
			m.player.SetVolume(m.player.Volume() - volumeStep)
		case msg.Button != tea.MouseButtonLeft:
		case msg.Y == progressY && seek.Contains(x) && m.player.CurrentTrack() != nil:
			seek.PointerDown(x)
		case msg.Y == volumeY && vol.Contains(x):
			vol.PointerDown(x)
		case msg.Y < listHeight:
			m.dragging = true
			m.pager.DragStart(x, m.now())
		}

	case tea.MouseActionMotion:
		switch {
		case seek.Active():
			seek.PointerMove(x)
		case vol.Active():
			vol.PointerMove(x)
		case msg.Y == progressY:
			seek.PointerMove(x)
		default:
			seek.Leave()
		}

	case tea.MouseActionRelease:
		switch {
		case seek.Active():
			seek.PointerUp(x)
		case vol.Active():
			vol.PointerUp(x)
		case m.dragging:
			m.dragging = false
			if m.pager.DragEnd(x, m.now()) {
				m.list.Paginator.Page = m.pager.Index()
			}
		}
	}
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.syncPager()
	return m, cmd
}

func (m *Model) syncPager() {
	m.pager.Resize(m.list.Paginator.TotalPages, 1)
	m.pager.Go(m.list.Paginator.Page)
}

func (m *Model) setTracks(tracks []models.Track) {
	m.tracks = tracks
	m.list.SetItems(toItems(tracks, m.rows))
	m.syncPager()
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	m.list.SetSize(width, m.listHeight())
	m.help.Width = width

	barWidth := max(10, width-2*labelWidth)
	m.progress.Width = barWidth
	m.screen.seek.Left, m.screen.seek.Width = labelWidth, float64(barWidth)
	m.screen.vol.Left, m.screen.vol.Width = labelWidth, volumeWidth
	m.syncPager()
}

// listHeight is the space left above the footer: now playing, progress, volume and help.
func (m *Model) listHeight() int {
	helpLines := 1
	if m.help.ShowAll {
		for _, col := range m.keys.FullHelp() {
			helpLines = max(helpLines, len(col))
		}
	}
	return max(0, m.height-3-helpLines)
}

// report logs and shows a failed player action.
func (m *Model) report(err error) {
	if err == nil {
		return
	}
	m.err = err
	m.logger.Warn("player action failed", "error", err)
}

func (m *Model) waitForStep() tea.Cmd {
	return func() tea.Msg {
		step, ok := m.player.Next(m.ctx)
		if !ok {
			return stoppedMsg{err: m.ctx.Err()}
		}
		return stepMsg(step)
	}
}

func (m *Model) fetchTracks() tea.Cmd {
	return func() tea.Msg {
		if m.feed.Fetch == nil {
			return tracksFetchedMsg{}
		}
		tracks, err := m.feed.Fetch(m.ctx)
		return tracksFetchedMsg{tracks: tracks, err: err}
	}
}

func (m *Model) renderNowPlaying() string {
	t := m.screen.Track()
	if t == nil {
		return styles.muted.Render("Nothing playing")
	}

	icon := "❚❚"
	if m.screen.Playing() {
		icon = "▶ "
	}
	return fmt.Sprintf("%s %s • %s", icon, styles.title.Render(t.Title), t.ArtistName())
}

func (m *Model) renderProgress() string {
	line := fmt.Sprintf("%5s %s %s",
		shared.FormatDuration(m.screen.Elapsed()),
		m.progress.ViewAs(m.screen.Progress()),
		shared.FormatDuration(m.screen.duration),
	)
	if m.screen.previewing && m.screen.duration > 0 {
		line += styles.help.Render(" → " + shared.FormatDuration(m.screen.preview*m.screen.duration))
	}
	return line
}

func (m *Model) renderVolume() string {
	level := player.LevelFor(m.screen.volume, m.screen.muted)

	var modes []string
	if m.screen.shuffle {
		modes = append(modes, styles.ok.Render("shuffle"))
	}
	if m.screen.repeat {
		modes = append(modes, styles.ok.Render("repeat"))
	}

	return fmt.Sprintf("%5s %s %3.0f%%  %s",
		string(level),
		m.volume.ViewAs(m.screen.vol.Value()),
		m.screen.vol.Value()*100,
		strings.Join(modes, " "),
	)
}

func (m *Model) renderHelp() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}
	return m.help.View(m.keys)
}
