package tui

import "github.com/charmbracelet/lipgloss"

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	BoardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ActionsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// unoColorStyles colour Uno cards by suit colour.
var unoColorStyles = map[string]lipgloss.Style{
	"red":    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	"blue":   lipgloss.NewStyle().Foreground(lipgloss.Color("#4D96FF")).Bold(true),
	"green":  lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77")).Bold(true),
	"yellow": lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD93D")).Bold(true),
	"wild":   lipgloss.NewStyle().Foreground(lipgloss.Color("#C77DFF")).Bold(true),
}
