package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/vidvault/internal/formatter"
	"github.com/desertthunder/vidvault/internal/models"
	"github.com/desertthunder/vidvault/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	VideoListView
	ConfirmDeleteView
	ExportView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx              context.Context
	view             ViewState
	engine           *tasks.LibraryEngine
	width            int
	height           int
	playlistList     list.Model
	playlists        []models.Playlist
	videoList        list.Model
	selectedPlaylist *models.Playlist
	progressChan     chan tasks.ProgressUpdate
	progress         tasks.ProgressUpdate
	result           *formatter.BulkExportResult
	err              error
	help             help.Model
	keys             keyMap
}

// NewModel creates a new TUI model around the library engine.
//
// The caller must already be logged in; Init surfaces the engine's
// session error otherwise.
func NewModel(ctx context.Context, engine *tasks.LibraryEngine) *Model {
	return &Model{
		ctx:    ctx,
		view:   PlaylistListView,
		engine: engine,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by loading the current user's playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlistList.Width() == 0 {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.videoList.Width() == 0 {
			m.videoList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case VideoListView:
			return m.handleVideoListKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.playlists = msg.playlists
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Your Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		m.view = PlaylistListView
		return m, nil

	case playlistOpenedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = PlaylistListView
			return m, nil
		}
		m.selectedPlaylist = msg.playlist
		items := make([]list.Item, len(msg.playlist.Videos))
		for i, video := range msg.playlist.Videos {
			items[i] = videoItem{video: video}
		}
		m.videoList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.videoList.Title = fmt.Sprintf("Videos in '%s'", msg.playlist.Name)
		m.videoList.SetSize(m.width-4, m.height-8)
		m.view = VideoListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case exportCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		if m.progressChan != nil {
			m.progressChan = nil
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case VideoListView:
		return m.renderVideoList()
	case ConfirmDeleteView:
		return m.renderConfirm()
	case ExportView:
		return m.renderExport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) selectedPlaylistItem() (models.Playlist, bool) {
	selected := m.playlistList.SelectedItem()
	if selected == nil {
		return models.Playlist{}, false
	}
	item, ok := selected.(playlistItem)
	return item.playlist, ok
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if pl, ok := m.selectedPlaylistItem(); ok {
			return m, m.openPlaylist(pl.ID)
		}
	case "d":
		if pl, ok := m.selectedPlaylistItem(); ok {
			m.selectedPlaylist = &pl
			m.view = ConfirmDeleteView
			return m, nil
		}
	case "e":
		if pl, ok := m.selectedPlaylistItem(); ok {
			m.selectedPlaylist = &pl
			m.view = ExportView
			return m, m.startExport(pl.ID)
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleVideoListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, m.fetchPlaylists()
	case "x":
		selected := m.videoList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(videoItem); ok && m.selectedPlaylist != nil {
				return m, m.removeVideo(m.selectedPlaylist.ID, item.video.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.videoList, cmd = m.videoList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = PlaylistListView
		return m, nil
	case "y":
		if m.selectedPlaylist != nil {
			return m, m.deletePlaylist(m.selectedPlaylist.ID)
		}
		m.view = PlaylistListView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.selectedPlaylist = nil
		m.result = nil
		m.err = nil
		return m, m.fetchPlaylists()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case VideoListView:
		m.videoList, cmd = m.videoList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.engine.Playlists()
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) openPlaylist(playlistID string) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.engine.Playlist(playlistID)
		return playlistOpenedMsg{playlist: playlist, err: err}
	}
}

func (m *Model) removeVideo(playlistID, videoID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.engine.RemoveVideo(playlistID, videoID); err != nil {
			return playlistOpenedMsg{err: err}
		}
		playlist, err := m.engine.Playlist(playlistID)
		return playlistOpenedMsg{playlist: playlist, err: err}
	}
}

func (m *Model) deletePlaylist(playlistID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.engine.DeletePlaylist(playlistID); err != nil {
			return playlistsFetchedMsg{err: err}
		}
		playlists, err := m.engine.Playlists()
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) startExport(playlistID string) tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan

	go func() {
		result, err := m.engine.BulkExport(m.ctx, progress, []string{playlistID}, tasks.BulkExportOpts{Format: "json"})
		m.result = result
		m.err = err
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return exportCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return exportCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.export, m.keys.delete, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderVideoList() string {
	helpKeys := []key.Binding{m.keys.remove, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.videoList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	if m.selectedPlaylist == nil {
		return ""
	}

	title := styles.title.Render(fmt.Sprintf("Delete '%s'?", m.selectedPlaylist.Name))
	info := fmt.Sprintf("\nPlaylist: %s\nVideos: %d\n\nSaved videos in this playlist will be freed for re-saving.\n",
		m.selectedPlaylist.Name, len(m.selectedPlaylist.Videos))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderExport() string {
	title := styles.title.Render("Exporting Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.ExportPlaylist:
		phase = fmt.Sprintf("Exporting (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Preparing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Export failed: %v\n\nPress r to go back, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to go back, q to quit")
	}

	title := styles.ok.Render("✓ Export Complete!")
	info := fmt.Sprintf(
		"\nPlaylists: %d\nSucceeded: %d\nOutput: %s\nManifest: %s",
		m.result.TotalPlaylists,
		m.result.SuccessfulExports,
		m.result.OutputDirectory,
		m.result.ManifestPath,
	)

	var failed string
	if m.result.FailedExports > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed to export %d playlists:", m.result.FailedExports)))
		for _, entry := range m.result.Results {
			if !entry.Success {
				failed += fmt.Sprintf("\n  • %s: %s", entry.PlaylistName, entry.Error)
			}
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
