// Package tui is the terminal front end: a bubbletea program that renders the
// open game from snapshots and sends typed commands to the session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/minicasino/internal/casino"
	"github.com/lox/minicasino/internal/round"
)

// Model is the bubbletea model for a casino session
type Model struct {
	session *casino.Manager
	bridge  *Bridge
	logger  *log.Logger

	// UI components
	logViewport viewport.Model
	input       textinput.Model

	gameLog     []string
	lastMessage map[round.Kind]string
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	width       int
	height      int
	initialized bool
}

// snapshotMsg wakes the model when the session has published.
type snapshotMsg struct{}

// New creates a model for session. Call Close when the program exits.
func New(session *casino.Manager, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Type a command (help for the list)"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 64
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &Model{
		session:     session,
		bridge:      NewBridge(session),
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
		lastMessage: make(map[round.Kind]string),
		focusedPane: 1,
	}
	m.AddLogEntry(InfoStyle.Render("Welcome! Type help for commands."))
	return m
}

// Close detaches the model from the session.
func (m *Model) Close() {
	m.bridge.Close()
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForSnapshot())
}

// waitForSnapshot returns a command that blocks until the bridge signals
func (m *Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		<-m.bridge.signal
		return snapshotMsg{}
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case snapshotMsg:
		for _, snap := range m.bridge.Drain() {
			m.recordSnapshot(snap)
		}
		cmds = append(cmds, m.waitForSnapshot())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.input.Focus()
			} else {
				m.focusedPane = 0
				m.input.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				line := strings.TrimSpace(m.input.Value())
				m.input.SetValue("")
				if m.Submit(line) {
					m.quitting = true
					return m, tea.Quit
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Submit runs a typed line and reports whether the user asked to quit.
func (m *Model) Submit(line string) bool {
	if l := strings.ToLower(line); l == "quit" || l == "exit" {
		return true
	}
	if line != "" {
		m.AddLogEntry(InfoStyle.Render("> " + line))
	}

	text, err := m.bridge.Execute(line)
	switch {
	case err != nil:
		// Game rejections are logged from the snapshot that carries them.
		var rej *round.RejectError
		if !errors.As(err, &rej) {
			m.AddLogEntry(ErrorStyle.Render(err.Error()))
		}
	case text != "":
		m.AddLogEntry(text)
	}
	return false
}

// recordSnapshot logs a game's message the first time it appears.
func (m *Model) recordSnapshot(snap round.Snapshot) {
	text := snap.Message.Text
	if text == m.lastMessage[snap.Game] {
		return
	}
	m.lastMessage[snap.Game] = text
	if text == "" {
		return
	}
	entry := fmt.Sprintf("[%s] %s", snap.Game, text)
	m.AddLogEntry(messageStyle(snap.Message.Severity).Render(entry))
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Board and input pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1))
	actionPane := actionStyle.Render(actionContent)

	// Sidebar pane (right of the log)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	// Log pane
	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows balance, navigation and autoplay
func (m *Model) renderSidebarPane() string {
	var content strings.Builder

	content.WriteString(WarningStyle.Render(fmt.Sprintf("Balance: $%d", m.session.Balance())))
	content.WriteString("\n\n")
	content.WriteString(InfoStyle.Render("At: " + m.session.Current()))
	content.WriteString("\n")

	for _, k := range []round.Kind{round.Roulette, round.Uno} {
		if m.session.Autoplaying(k) {
			content.WriteString(SuccessStyle.Render(fmt.Sprintf("Autoplay: %s", k)))
			content.WriteString("\n")
		}
	}
	if m.session.Balance() == 0 {
		content.WriteString("\n")
		content.WriteString(ErrorStyle.Render("Game Over"))
	}
	return content.String()
}

// renderActionPane renders the board, the input and help
func (m *Model) renderActionPane() string {
	var content strings.Builder

	if machine := m.bridge.Machine(); machine != nil {
		content.WriteString(renderBoard(machine.Snapshot()))
	} else {
		snaps := make([]round.Snapshot, 0, len(round.Kinds))
		for _, machine := range m.session.Machines() {
			snaps = append(snaps, machine.Snapshot())
		}
		content.WriteString(renderLobby(snaps, m.session.Balance()))
	}
	content.WriteString("\n\n")
	content.WriteString(m.input.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(HelpStyle.Render("Log focused: ↑↓ scroll, Home/End, Tab to input"))
	} else {
		content.WriteString(HelpStyle.Render("Tab to scroll log • help for commands • Ctrl+C to quit"))
	}
	return content.String()
}

// AddLogEntry adds an entry to the game log
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns a copy of the log entries.
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
}

// Run starts the terminal UI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, session *casino.Manager, logger *log.Logger) error {
	model := New(session, logger)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
