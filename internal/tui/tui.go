// Package tui provides a Bubble Tea terminal user interface for
// deezer-downloader.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/deezer-downloader/internal/config"
	"github.com/handiism/deezer-downloader/internal/deezer"
	"github.com/handiism/deezer-downloader/internal/download"
	"github.com/handiism/deezer-downloader/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	albumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateResolving
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// Download manager reference
	manager *download.Manager
	events  chan download.ProgressEvent

	// Resolved content
	url         string
	title       string
	totalTracks int

	// Download progress
	downloadedFiles int32
	failedFiles     int32
	receivedBytes   int64

	// Options
	flac       bool
	playlist   bool
	skipFailed bool
	verbose    bool

	width  int
	height int
}

// NewModel creates a new TUI model on top of loaded settings.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "https://www.deezer.com/album/302127"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:      StateInput,
		textInput:  ti,
		spinner:    sp,
		progress:   prog,
		settings:   settings,
		logs:       make([]LogEntry, 0),
		events:     make(chan download.ProgressEvent, 64),
		ctx:        ctx,
		cancel:     cancel,
		flac:       settings.ParsedBitrate() == model.BitrateFLAC,
		playlist:   settings.WritePlaylist,
		skipFailed: settings.SkipFailedTracks,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries a manager notification into the log pane.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// ResolveDoneMsg is sent when the link has been resolved.
	ResolveDoneMsg struct {
		Title   string
		Tracks  int
		Manager *download.Manager
		Err     error
	}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Files  int32
		Failed int32
		Bytes  int64
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading || m.state == StateResolving {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.url = m.textInput.Value()
				m.state = StateResolving
				return m, tea.Batch(m.resolveLink(), m.waitForEvent(), m.spinner.Tick)
			}

		case "f":
			if m.state == StateInput {
				m.flac = !m.flac
			}

		case "p":
			if m.state == StateInput {
				m.playlist = !m.playlist
			}

		case "s":
			if m.state == StateInput {
				m.skipFailed = !m.skipFailed
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for new download
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.url = ""
				m.title = ""
				m.totalTracks = 0
				m.downloadedFiles = 0
				m.failedFiles = 0
				m.receivedBytes = 0
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level != download.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			// Keep only last 10 logs
			if len(m.logs) > 10 {
				m.logs = m.logs[len(m.logs)-10:]
			}
		}
		cmds = append(cmds, m.waitForEvent())

	case ResolveDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.title = msg.Title
			m.totalTracks = msg.Tracks
			m.manager = msg.Manager
			m.state = StateDownloading
			// Start the actual download and tick for progress updates
			cmds = append(cmds, m.startDownload(), m.tickProgress())
		}

	case DownloadDoneMsg:
		m.downloadedFiles = msg.Files
		m.failedFiles = msg.Failed
		m.receivedBytes = msg.Bytes
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateDownloading {
			downloaded, failed := m.manager.Stats()
			m.downloadedFiles = downloaded
			m.failedFiles = failed
			m.receivedBytes = m.manager.BytesDownloaded()

			// Calculate percentage and animate progress bar
			var percent float64
			if m.totalTracks > 0 {
				percent = float64(downloaded+failed) / float64(m.totalTracks)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent relays the next manager notification into the UI.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// bitrate returns the effective download quality for the current
// toggles.
func (m Model) bitrate() model.Bitrate {
	if m.flac {
		return model.BitrateFLAC
	}
	if b := m.settings.ParsedBitrate(); b != model.BitrateFLAC {
		return b
	}
	return model.BitrateMP3320
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎵 Deezer Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download music from Deezer"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateResolving:
		b.WriteString(m.viewResolving())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter Deezer track or album URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	// Options
	check := func(on bool) string {
		if on {
			return "[×]"
		}
		return "[ ]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s FLAC quality (f)\n", check(m.flac)))
	b.WriteString(fmt.Sprintf("  %s Create playlist (p)\n", check(m.playlist)))
	b.WriteString(fmt.Sprintf("  %s Skip failed tracks (s)\n", check(m.skipFailed)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (v)\n", check(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.settings.OutputDir)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Bitrate: %s", m.bitrate())))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewResolving() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Resolving link..."))
	b.WriteString("\n\n")

	// Show logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if m.title != "" {
		b.WriteString(successStyle.Render("Downloading:"))
		b.WriteString("\n")
		b.WriteString(albumStyle.Render(fmt.Sprintf("  ♪ %s", m.title)))
		b.WriteString("\n\n")
	}

	// Progress bar
	var percent float64
	if m.totalTracks > 0 {
		percent = float64(m.downloadedFiles+m.failedFiles) / float64(m.totalTracks)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Tracks: %d/%d | Downloaded: %.2f MB",
		m.downloadedFiles,
		m.totalTracks,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")

	// Logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	summary := fmt.Sprintf(
		"✨ Download Complete!\n\n"+
			"%s\n"+
			"Tracks: %d\n"+
			"Size: %.2f MB",
		m.title,
		m.downloadedFiles,
		float64(m.receivedBytes)/1024/1024,
	)
	if m.failedFiles > 0 {
		summary += fmt.Sprintf("\nFailed: %d", m.failedFiles)
	}
	b.WriteString(boxStyle.Render(summary))

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • f: flac • p: playlist • s: skip failed • v: verbose • esc: quit"
	case StateResolving, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// resolveLink authenticates, resolves the entered URL, and builds the
// manager the download will run on.
func (m *Model) resolveLink() tea.Cmd {
	return func() tea.Msg {
		if m.settings.ARL == "" {
			return ResolveDoneMsg{Err: fmt.Errorf("no arl cookie configured, set DEEZER_ARL or add it to the settings file")}
		}

		link, err := deezer.ParseLink(m.url)
		if err != nil {
			return ResolveDoneMsg{Err: err}
		}

		session := deezer.NewSession(m.settings.ARL, nil)
		if err := session.Refresh(m.ctx); err != nil {
			return ResolveDoneMsg{Err: err}
		}

		events := m.events
		manager := download.NewManager(session, &download.Options{
			Concurrency:      m.settings.Concurrency,
			SkipFailedTracks: m.skipFailed,
			OnEvent: func(event download.ProgressEvent) {
				select {
				case events <- event:
				default:
				}
			},
		})

		switch link.Kind {
		case deezer.LinkTrack:
			track, err := manager.Catalog().Track(m.ctx, link.ID)
			if err != nil {
				return ResolveDoneMsg{Err: err}
			}
			return ResolveDoneMsg{
				Title:   fmt.Sprintf("%s - %s", track.Artist, track.Title),
				Tracks:  1,
				Manager: manager,
			}

		case deezer.LinkAlbum:
			album, err := manager.Catalog().Album(m.ctx, link.ID)
			if err != nil {
				return ResolveDoneMsg{Err: err}
			}
			return ResolveDoneMsg{
				Title:   fmt.Sprintf("%s - %s", album.Artist, album.Title),
				Tracks:  len(album.Summaries),
				Manager: manager,
			}

		default:
			return ResolveDoneMsg{Err: &download.UnsupportedKindError{Kind: string(link.Kind)}}
		}
	}
}

// startDownload starts the actual download in background.
func (m *Model) startDownload() tea.Cmd {
	return func() tea.Msg {
		if m.manager == nil {
			return DownloadDoneMsg{Err: fmt.Errorf("no manager")}
		}

		_, err := m.manager.SaveByURL(m.ctx, m.url, download.SaveOptions{
			Dir:           m.settings.OutputDir,
			Bitrate:       m.bitrate(),
			CoverSize:     m.settings.ParsedCoverSize(),
			CoverMaxEdge:  m.settings.CoverMaxEdge,
			WritePlaylist: m.playlist,
		})
		downloaded, failed := m.manager.Stats()

		// With skip-failed the per-track errors were already surfaced
		// as events; partial success still counts as done.
		if err != nil && m.skipFailed && downloaded > 0 {
			err = nil
		}

		return DownloadDoneMsg{
			Files:  downloaded,
			Failed: failed,
			Bytes:  m.manager.BytesDownloaded(),
			Err:    err,
		}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
