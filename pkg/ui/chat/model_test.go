package chat

import (
	"context"
	"strings"
	"testing"

	"orlem/pkg/client"
	"orlem/pkg/panels"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeController struct {
	sent     []string
	commands []string
	toggles  int
}

func (f *fakeController) SendText(_ context.Context, text string) { f.sent = append(f.sent, text) }
func (f *fakeController) Summarize(context.Context)               { f.commands = append(f.commands, "summarize") }
func (f *fakeController) Diarize(context.Context)                 { f.commands = append(f.commands, "diarize") }
func (f *fakeController) EndMeeting(context.Context)              { f.commands = append(f.commands, "end") }
func (f *fakeController) Save(context.Context)                    { f.commands = append(f.commands, "save") }
func (f *fakeController) ToggleCapture(context.Context)           { f.toggles++ }
func (f *fakeController) SessionID() string                       { return "sess-view" }

func newTestModel() (*model, *fakeController) {
	controller := &fakeController{}
	events := make(chan client.Event)
	m := newModel(context.Background(), controller, events)
	m.width = 120
	m.height = 36
	m.resizeComponents()
	m.isReady = true
	return m, controller
}

func typeText(m *model, text string) {
	m.input.SetValue(text)
}

func TestEnterSendsTrimmedInput(t *testing.T) {
	m, controller := newTestModel()

	typeText(m, "  Orlem, resume aí  ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(controller.sent) != 1 || controller.sent[0] != "Orlem, resume aí" {
		t.Fatalf("sent = %v", controller.sent)
	}
	if m.input.Value() != "" {
		t.Fatalf("input not cleared: %q", m.input.Value())
	}
}

func TestEnterIgnoresEmptyInput(t *testing.T) {
	m, controller := newTestModel()

	typeText(m, "   ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(controller.sent) != 0 {
		t.Fatalf("sent = %v, want none", controller.sent)
	}
}

func TestCommandKeys(t *testing.T) {
	m, controller := newTestModel()

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})

	want := []string{"summarize", "diarize", "end", "save"}
	if len(controller.commands) != len(want) {
		t.Fatalf("commands = %v", controller.commands)
	}
	for i, command := range want {
		if controller.commands[i] != command {
			t.Fatalf("commands[%d] = %q, want %q", i, controller.commands[i], command)
		}
	}
	if controller.toggles != 1 {
		t.Fatalf("toggles = %d, want 1", controller.toggles)
	}
}

func TestApplyEventChatLineAndPanels(t *testing.T) {
	m, _ := newTestModel()

	m.applyEvent(client.Event{Type: client.EventChatLine, Role: client.RoleOrlem, Text: "anotado"})
	m.applyEvent(client.Event{
		Type:       client.EventPanelEntry,
		List:       panels.ListActions,
		Text:       "enviar proposta",
		CountLabel: "1 tarefa",
	})

	if len(m.lines) != 2 || m.lines[1].text != "anotado" {
		t.Fatalf("lines = %+v", m.lines)
	}
	if m.lines[0].role != client.RoleSystem || m.lines[0].text != client.Greeting {
		t.Fatalf("greeting line = %+v", m.lines[0])
	}

	actions := m.panels[panels.ListActions]
	if len(actions.entries) != 1 || actions.entries[0] != "enviar proposta" {
		t.Fatalf("actions panel = %+v", actions)
	}
	if actions.count != "1 tarefa" {
		t.Fatalf("actions count = %q", actions.count)
	}
}

func TestStatusPillFollowsConnectionAndMic(t *testing.T) {
	m, _ := newTestModel()

	if !strings.Contains(m.statusPill(), "Desconectado") {
		t.Fatalf("initial pill = %q", m.statusPill())
	}

	m.applyEvent(client.Event{Type: client.EventConnState, Connected: true})
	if !strings.Contains(m.statusPill(), "Conectado") {
		t.Fatalf("connected pill = %q", m.statusPill())
	}

	m.applyEvent(client.Event{Type: client.EventMicState, Recording: true})
	if !strings.Contains(m.statusPill(), "gravando") {
		t.Fatalf("recording pill = %q", m.statusPill())
	}

	m.applyEvent(client.Event{Type: client.EventMicState, Recording: false})
	if strings.Contains(m.statusPill(), "gravando") {
		t.Fatalf("pill still recording: %q", m.statusPill())
	}
}

func TestSessionIDAdoptionUpdatesView(t *testing.T) {
	m, _ := newTestModel()

	if m.sessionID != "sess-view" {
		t.Fatalf("initial session id = %q", m.sessionID)
	}

	m.applyEvent(client.Event{Type: client.EventSessionID, SessionID: "sess-adopted"})
	if m.sessionID != "sess-adopted" {
		t.Fatalf("session id = %q", m.sessionID)
	}
}

func TestFeedClosedQuits(t *testing.T) {
	m, _ := newTestModel()

	_, cmd := m.Update(feedClosedMsg{})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("expected quit message")
	}
}
