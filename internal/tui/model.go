package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"procqa/internal/export"
	"procqa/internal/history"
)

// ChatPort is the TUI-facing subset of the answer service.
type ChatPort interface {
	Answer(ctx context.Context, question string) (string, error)
}

// StatsPort renders collection statistics.
type StatsPort interface {
	Stats(ctx context.Context) (string, error)
}

// ExportPort writes the conversation transcript to disk.
type ExportPort interface {
	Export() (string, error)
}

const welcomeText = "Ask a question about the indexed manuals."

// Model is the Bubble Tea model for the chat application.
type Model struct {
	chat       ChatPort
	stats      StatsPort
	exporter   ExportPort
	transcript *history.Log
	timeout    time.Duration

	input    textinput.Model
	viewport viewport.Model
	content  string
	status   string
	ready    bool
}

// New creates a new TUI model instance.
func New(chat ChatPort, stats StatsPort, exporter ExportPort, transcript *history.Log, timeout time.Duration, intro string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return Model{
		chat:       chat,
		stats:      stats,
		exporter:   exporter,
		transcript: transcript,
		timeout:    timeout,
		input:      ti,
		viewport:   vp,
		content:    welcomeText,
		status:     intro,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state. Actions
// run synchronously, one at a time; failures land in the status line and
// never exit the program.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around answer and input boxes
		_, ah := answerBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + key hints
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ah)
		m.viewport.SetContent(m.content)
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if q := strings.TrimSpace(m.input.Value()); q != "" {
				m.ask(q)
				return m, nil
			}
		case "ctrl+e":
			m.export()
			return m, nil
		case "ctrl+s":
			m.showStats()
			return m, nil
		case "ctrl+r":
			m.transcript.Reset()
			m.setContent(welcomeText)
			m.input.SetValue("")
			m.status = "History cleared."
			return m, nil
		case "ctrl+l":
			m.setContent(welcomeText)
			m.input.SetValue("")
			m.status = "Cleared."
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Procedure Manual Q&A")
	hints := hintStyle.Render("Enter: ask  Ctrl+E: export  Ctrl+S: stats  Ctrl+R: reset  Ctrl+L: clear  Esc: quit")
	answer := answerBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + hints + "\n" + answer + "\n" + input + "\n" + status
}

func (m *Model) ask(question string) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	answer, err := m.chat.Answer(ctx, question)
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	m.setContent(answer)
	m.status = fmt.Sprintf("Answered %q", question)
	m.input.SetValue("")
}

func (m *Model) export() {
	path, err := m.exporter.Export()
	switch {
	case errors.Is(err, export.ErrNothingToExport):
		m.status = "No conversation to export."
	case err != nil:
		m.status = "Error: " + err.Error()
	default:
		m.status = "Conversation exported: " + path
	}
}

func (m *Model) showStats() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	report, err := m.stats.Stats(ctx)
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	m.setContent(report)
	m.status = "Statistics refreshed."
}

func (m *Model) setContent(text string) {
	m.content = text
	m.viewport.SetContent(text)
	m.viewport.GotoTop()
}

var (
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
