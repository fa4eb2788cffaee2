package chat

import (
	"context"
	"fmt"
	"strings"

	"orlem/pkg/client"
	"orlem/pkg/panels"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	statusConnected    = "Conectado — ouvindo"
	statusDisconnected = "Desconectado — tentando reconectar…"
	statusRecording    = "● gravando"

	panelEntryLimit = 6
)

// Controller is the slice of the client the chat UI drives.
type Controller interface {
	SendText(ctx context.Context, text string)
	Summarize(ctx context.Context)
	Diarize(ctx context.Context)
	EndMeeting(ctx context.Context)
	Save(ctx context.Context)
	ToggleCapture(ctx context.Context)
	SessionID() string
}

type chatLine struct {
	role client.Role
	text string
}

type panelView struct {
	list    panels.List
	entries []string
	count   string
}

type feedEventMsg struct {
	event client.Event
}

type feedClosedMsg struct{}

type model struct {
	ctx        context.Context
	controller Controller
	events     <-chan client.Event

	theme     theme
	input     textinput.Model
	viewport  viewport.Model
	lines     []chatLine
	panels    [4]panelView
	width     int
	height    int
	isReady   bool
	followLog bool
	connected bool
	recording bool
	sessionID string
}

func newModel(ctx context.Context, controller Controller, events <-chan client.Event) *model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "Fala com o Orlem…"
	in.Focus()
	in.CharLimit = 0

	vp := viewport.New(80, 16)

	m := &model{
		ctx:        ctx,
		controller: controller,
		events:     events,
		theme:      defaultTheme(),
		input:      in,
		viewport:   vp,
		width:      110,
		height:     30,
		followLog:  true,
		sessionID:  controller.SessionID(),
	}
	for i := range m.panels {
		m.panels[i].list = panels.List(i)
	}
	m.lines = append(m.lines, chatLine{role: client.RoleSystem, text: client.Greeting})

	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitEventCmd(m.events))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.resizeComponents()
		m.refreshViewport(false)
		m.isReady = true
		return m, nil
	case feedEventMsg:
		m.applyEvent(typed.event)
		return m, waitEventCmd(m.events)
	case feedClosedMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		switch typed.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+r":
			m.controller.Summarize(m.ctx)
			return m, nil
		case "ctrl+d":
			m.controller.Diarize(m.ctx)
			return m, nil
		case "ctrl+e":
			m.controller.EndMeeting(m.ctx)
			return m, nil
		case "ctrl+o":
			m.controller.Save(m.ctx)
			return m, nil
		case "ctrl+t":
			m.controller.ToggleCapture(m.ctx)
			return m, nil
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.SetValue("")
			m.followLog = true
			m.controller.SendText(m.ctx, text)
			return m, nil
		}

		if handled := m.handleViewportKey(typed); handled {
			return m, nil
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyEvent folds one client event into the view state.
func (m *model) applyEvent(event client.Event) {
	switch event.Type {
	case client.EventChatLine:
		m.lines = append(m.lines, chatLine{role: event.Role, text: event.Text})
		m.refreshViewport(false)
	case client.EventPanelEntry:
		panel := &m.panels[event.List]
		panel.entries = append(panel.entries, event.Text)
		panel.count = event.CountLabel
	case client.EventConnState:
		m.connected = event.Connected
	case client.EventSessionID:
		m.sessionID = event.SessionID
	case client.EventMicState:
		m.recording = event.Recording
	}
}

func (m *model) View() string {
	if !m.isReady {
		m.resizeComponents()
		m.refreshViewport(false)
	}

	header := m.theme.header.Width(m.width - 2).Render("🎙 Orlem")
	meta := lipgloss.JoinHorizontal(lipgloss.Center,
		m.statusPill(),
		" ",
		m.theme.sessionInfo.Render(fmt.Sprintf("sessão %s", m.sessionID)),
	)
	line := m.theme.divider.Width(m.width - 2).Render(strings.Repeat("─", maxInt(8, m.width-2)))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.viewport.Width(m.viewport.Width).Render(m.viewport.View()),
		" ",
		m.sidebarView(),
	)

	hints := m.theme.hint.Render("Enter envia · Ctrl+T microfone · Ctrl+R resumo · Ctrl+D diarização · Ctrl+E encerrar · Ctrl+O salvar · Ctrl+C sai")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		meta,
		line,
		body,
		hints,
		m.theme.inputLabel.Render("Você"),
		m.theme.input.Width(m.width-2).Render(m.input.View()),
	)
}

func (m *model) statusPill() string {
	if m.recording {
		return m.theme.statusMic.Render(statusRecording)
	}
	if m.connected {
		return m.theme.statusOn.Render(statusConnected)
	}
	return m.theme.statusOff.Render(statusDisconnected)
}

func (m *model) sidebarView() string {
	sidebarWidth := m.sidebarWidth()

	boxes := make([]string, 0, len(m.panels))
	for _, panel := range m.panels {
		boxes = append(boxes, m.panelBoxView(panel, sidebarWidth))
	}

	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

func (m *model) panelBoxView(panel panelView, width int) string {
	title := m.theme.panelTitle.Render(panel.list.Name())
	if panel.count != "" {
		title += " " + m.theme.panelCount.Render("("+panel.count+")")
	}

	var body string
	if len(panel.entries) == 0 {
		body = m.theme.panelEmpty.Render("ainda nada")
	} else {
		start := len(panel.entries) - panelEntryLimit
		if start < 0 {
			start = 0
		}
		var rows []string
		for _, entry := range panel.entries[start:] {
			rows = append(rows, m.theme.panelEntry.Render("• "+entry))
		}
		body = strings.Join(rows, "\n")
	}

	return m.theme.panelBox.Width(width).Render(title + "\n" + body)
}

func (m *model) resizeComponents() {
	sidebar := m.sidebarWidth() + 4
	w := m.width - sidebar - 6
	if w < 40 {
		w = 40
	}
	h := m.height - 10
	if h < 8 {
		h = 8
	}

	m.viewport.Width = w
	m.viewport.Height = h
	m.input.Width = m.width - 6
}

func (m *model) sidebarWidth() int {
	w := m.width / 3
	if w < 24 {
		w = 24
	}
	if w > 44 {
		w = 44
	}
	return w
}

func (m *model) refreshViewport(forceBottom bool) {
	previousOffset := m.viewport.YOffset
	var sections []string
	for _, item := range m.lines {
		switch item.role {
		case client.RoleUser:
			sections = append(sections, lipgloss.JoinVertical(lipgloss.Left,
				m.theme.userTitle.Render("Você"),
				m.theme.userBox.Width(m.viewport.Width).Render(strings.TrimSpace(item.text)),
			))
		case client.RoleOrlem:
			sections = append(sections, lipgloss.JoinVertical(lipgloss.Left,
				m.theme.orlemTitle.Render("Orlem"),
				m.theme.orlemBox.Width(m.viewport.Width).Render(strings.TrimSpace(item.text)),
			))
		case client.RoleSystem:
			sections = append(sections, m.theme.systemLine.Render("· "+strings.TrimSpace(item.text)))
		}
	}

	m.viewport.SetContent(strings.Join(sections, "\n\n"))
	if m.followLog || forceBottom {
		m.viewport.GotoBottom()
		m.followLog = true
		return
	}

	maxOffset := m.viewport.TotalLineCount() - m.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if previousOffset > maxOffset {
		previousOffset = maxOffset
	}
	m.viewport.SetYOffset(previousOffset)
}

func (m *model) handleViewportKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "pgup", "ctrl+b", "alt+up":
		m.viewport.PageUp()
		m.followLog = false
		return true
	case "pgdown", "ctrl+f", "alt+down":
		m.viewport.PageDown()
		if m.viewport.AtBottom() {
			m.followLog = true
		}
		return true
	case "home":
		m.viewport.GotoTop()
		m.followLog = false
		return true
	case "end":
		m.viewport.GotoBottom()
		m.followLog = true
		return true
	default:
		return false
	}
}

func waitEventCmd(events <-chan client.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return feedClosedMsg{}
		}
		return feedEventMsg{event: event}
	}
}

func maxInt(a int, b int) int {
	if a > b {
		return a
	}

	return b
}
