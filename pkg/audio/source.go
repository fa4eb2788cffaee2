package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"
)

// CommandSource shells out to an external recorder (arecord, ffmpeg, sox)
// that writes an audio container to stdout. Closing the source stops the
// process and releases the capture device.
type CommandSource struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	cancel context.CancelFunc
}

// NewCommandSourceFactory builds a SourceFactory around a recorder command
// line, e.g. ["arecord", "-q", "-f", "cd", "-t", "wav", "-"].
func NewCommandSourceFactory(command []string) (SourceFactory, error) {
	if len(command) == 0 {
		return nil, errors.New("recorder command is required")
	}

	return func(ctx context.Context) (Source, error) {
		cmdCtx, cancel := context.WithCancel(ctx)
		cmd := exec.CommandContext(cmdCtx, command[0], command[1:]...)

		stdout, err := cmd.StdoutPipe()
		if err != nil {
			cancel()
			return nil, fmt.Errorf("open recorder pipe: %w", err)
		}

		if err := cmd.Start(); err != nil {
			cancel()
			return nil, fmt.Errorf("start recorder %q: %w", command[0], err)
		}

		return &CommandSource{cmd: cmd, stdout: stdout, cancel: cancel}, nil
	}, nil
}

func (s *CommandSource) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

// Close interrupts the recorder process so it can flush and exit, then
// reaps it. The device is free once Close returns.
func (s *CommandSource) Close() error {
	defer s.cancel()

	if s.cmd.Process != nil {
		_ = s.cmd.Process.Signal(syscall.SIGINT)
	}

	err := s.cmd.Wait()
	if err != nil {
		// An interrupt-driven exit is the expected stop path.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("stop recorder: %w", err)
	}

	return nil
}
