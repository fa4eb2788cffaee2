package audio

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

// Player pipes audio bytes into an external playback command
// (e.g. ["ffplay", "-autoexit", "-nodisp", "-loglevel", "quiet", "-"]).
// Playback runs to completion independently of UI state; there is no
// cancellation primitive.
type Player struct {
	command []string
	log     *slog.Logger
}

// NewPlayer builds a player around a playback command line.
func NewPlayer(command []string, log *slog.Logger) (*Player, error) {
	if len(command) == 0 {
		return nil, errors.New("player command is required")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Player{
		command: command,
		log:     log.With("component", "audio.player"),
	}, nil
}

// Play blocks until the playback command finishes. Empty input is a no-op.
func (p *Player) Play(audio []byte) error {
	if len(audio) == 0 {
		return nil
	}

	cmd := exec.Command(p.command[0], p.command[1:]...)
	cmd.Stdin = bytes.NewReader(audio)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play audio with %q: %w", p.command[0], err)
	}

	return nil
}
