package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Jokaes/txt-to-youtube-music/internal/models"
	"github.com/Jokaes/txt-to-youtube-music/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RunView ViewState = iota
	ResultView
)

// recentLimit bounds the rolling outcome log shown under the progress bar.
const recentLimit = 8

// StartFunc launches the batch, streaming updates into progress until the
// run finishes. It owns closing nothing; the model closes over the channel.
type StartFunc func(progress chan<- tasks.ProgressUpdate) (*models.RunRecord, error)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	start        StartFunc
	total        int
	bar          progress.Model
	progressChan chan tasks.ProgressUpdate
	done         chan runCompleteMsg
	current      tasks.ProgressUpdate
	recent       []tasks.ProgressUpdate
	record       *models.RunRecord
	err          error
	help         help.Model
	keys         keyMap
	width        int
	height       int
}

// NewModel creates a new TUI model. total is the number of input queries,
// used to scale the progress bar; start runs the batch.
func NewModel(ctx context.Context, total int, start StartFunc) *Model {
	return &Model{
		ctx:   ctx,
		view:  RunView,
		start: start,
		total: total,
		bar:   progress.New(progress.WithDefaultGradient()),
		help:  help.New(),
		keys:  newKeyMap(),
	}
}

// Init starts the batch immediately; there is nothing to browse first.
func (m *Model) Init() tea.Cmd {
	return m.startRun()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(msg.Width-4, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case progressUpdateMsg:
		m.current = tasks.ProgressUpdate(msg)
		if m.current.Result != tasks.ResultNone {
			m.recent = append(m.recent, m.current)
			if len(m.recent) > recentLimit {
				m.recent = m.recent[len(m.recent)-recentLimit:]
			}
		}
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.record = msg.record
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

// startRun launches the batch in a goroutine and begins draining progress.
func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	done := make(chan runCompleteMsg, 1)
	go func() {
		record, err := m.start(m.progressChan)
		done <- runCompleteMsg{record: record, err: err}
		close(m.progressChan)
	}()
	m.done = done

	return m.waitForProgress()
}

// waitForProgress blocks on the next progress event; a closed channel means
// the run finished and the completion message is ready.
func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.progressChan
		if !ok {
			return <-m.done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Building playlist")

	var percent float64
	if m.total > 0 {
		percent = float64(m.current.Step) / float64(m.total)
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(percent))
	b.WriteString("\n\n")
	b.WriteString(m.current.Message)
	b.WriteString("\n")

	for _, update := range m.recent {
		b.WriteString("\n  ")
		b.WriteString(renderOutcome(update))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

// renderOutcome colors one per-query result line.
func renderOutcome(update tasks.ProgressUpdate) string {
	switch update.Result {
	case tasks.ResultAdded:
		label := string(update.Query)
		if update.Track != nil {
			label = update.Track.Display()
		}
		return styles.ok.Render("✓ ") + label
	case tasks.ResultDuplicate:
		return styles.warn.Render(fmt.Sprintf("= %s (duplicate)", update.Query))
	case tasks.ResultNotFound:
		return styles.warn.Render(fmt.Sprintf("? %s (not found)", update.Query))
	case tasks.ResultFailed:
		return styles.err.Render(fmt.Sprintf("✗ %s", update.Query))
	default:
		return update.Message
	}
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Run failed: %v", m.err)) +
			"\n\n" + m.help.ShortHelpView(m.keys.ShortHelp())
	}
	if m.record == nil {
		return styles.err.Render("No result available") +
			"\n\n" + m.help.ShortHelpView(m.keys.ShortHelp())
	}

	report := m.record.Report
	title := styles.ok.Render("✓ Playlist ready")
	info := fmt.Sprintf(
		"\nPlaylist: %s\nURL: %s\n\nProcessed %d: %d added, %d failed, %d not found, %d duplicates\n",
		m.record.PlaylistTitle,
		m.record.PlaylistURL(),
		report.Total,
		len(report.Successful),
		len(report.Failed),
		len(report.NotFound),
		len(report.Duplicates),
	)

	var missed string
	if len(report.Failed)+len(report.NotFound) > 0 {
		lines := make([]string, 0, len(report.Failed)+len(report.NotFound))
		for _, query := range report.NotFound {
			lines = append(lines, fmt.Sprintf("  ? %s", query))
		}
		for _, query := range report.Failed {
			lines = append(lines, fmt.Sprintf("  ✗ %s", query))
		}
		missed = "\n" + styles.warn.Render("Unmatched queries:") + "\n" + strings.Join(lines, "\n") + "\n"
	}

	return fmt.Sprintf("%s\n%s%s\n%s", title, info, missed, m.help.ShortHelpView(m.keys.ShortHelp()))
}

// Record returns the finished run, if any, for post-TUI reporting.
func (m *Model) Record() (*models.RunRecord, error) {
	return m.record, m.err
}
