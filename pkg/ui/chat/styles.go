package chat

import "github.com/charmbracelet/lipgloss"

// theme groups reusable styles for chat UI regions.
type theme struct {
	header      lipgloss.Style
	headerMeta  lipgloss.Style
	divider     lipgloss.Style
	userBox     lipgloss.Style
	userTitle   lipgloss.Style
	orlemBox    lipgloss.Style
	orlemTitle  lipgloss.Style
	systemLine  lipgloss.Style
	statusOn    lipgloss.Style
	statusOff   lipgloss.Style
	statusMic   lipgloss.Style
	panelBox    lipgloss.Style
	panelTitle  lipgloss.Style
	panelCount  lipgloss.Style
	panelEntry  lipgloss.Style
	panelEmpty  lipgloss.Style
	hint        lipgloss.Style
	inputLabel  lipgloss.Style
	input       lipgloss.Style
	viewport    lipgloss.Style
	sessionInfo lipgloss.Style
}

// defaultTheme defines the meeting room visual palette used by the chat UI.
func defaultTheme() theme {
	return theme{
		header: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("24")),
		headerMeta: lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")),
		divider: lipgloss.NewStyle().
			Foreground(lipgloss.Color("60")),
		userBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1),
		userTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("214")).
			Padding(0, 1),
		orlemBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("44")).
			Padding(0, 1),
		orlemTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("44")).
			Padding(0, 1),
		systemLine: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("244")),
		statusOn: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("114")).
			Padding(0, 1),
		statusOff: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("160")).
			Padding(0, 1),
		statusMic: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("203")).
			Padding(0, 1),
		panelBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1),
		panelTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("117")),
		panelCount: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		panelEntry: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		panelEmpty: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("240")),
		hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		inputLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")),
		input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("67")).
			Padding(0, 1),
		viewport: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1),
		sessionInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color("103")),
	}
}
