package chat

import (
	"context"
	"fmt"

	"orlem/pkg/client"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Run drives the interactive meeting view until the user quits or the
// event channel closes. Callers subscribe to the controller feed before
// starting the channel so no early event is missed.
func Run(ctx context.Context, controller Controller, events <-chan client.Event) error {
	model := newModel(ctx, controller, events)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(renderGoodbyeBanner())
	return nil
}

func renderGoodbyeBanner() string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("24")).
		Padding(1, 2)

	return style.Render("🎙 Até a próxima reunião")
}
