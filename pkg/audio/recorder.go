package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Capture lifecycle states. The recorder always returns to idle, including
// on permission and upload failures.
type CaptureState int

const (
	CaptureIdle CaptureState = iota
	CaptureRecording
)

func (s CaptureState) String() string {
	switch s {
	case CaptureIdle:
		return "idle"
	case CaptureRecording:
		return "recording"
	default:
		return "unknown"
	}
}

// ErrAlreadyRecording is returned when Start is called mid-capture.
var ErrAlreadyRecording = errors.New("capture already in progress")

// ErrNotRecording is returned when Stop is called while idle.
var ErrNotRecording = errors.New("no capture in progress")

// Source produces raw audio bytes for one capture. Close must release the
// underlying device.
type Source io.ReadCloser

// SourceFactory acquires a capture source. Acquisition can fail with a
// permission or device error; the recorder reports it and stays idle.
type SourceFactory func(ctx context.Context) (Source, error)

// Recorder buffers audio chunks from an acquired source between a start and
// a stop toggle. The source is released explicitly on every exit path; the
// recorder never relies on finalization to let go of the microphone.
type Recorder struct {
	factory SourceFactory
	log     *slog.Logger

	mu     sync.Mutex
	state  CaptureState
	source Source
	buf    bytes.Buffer
	done   chan struct{}
}

// NewRecorder builds a recorder around a source factory.
func NewRecorder(factory SourceFactory, log *slog.Logger) (*Recorder, error) {
	if factory == nil {
		return nil, errors.New("source factory is required")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Recorder{
		factory: factory,
		log:     log.With("component", "audio.recorder"),
	}, nil
}

// State returns the current capture phase.
func (r *Recorder) State() CaptureState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start acquires the source and begins buffering chunks in the background.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state != CaptureIdle {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}
	r.mu.Unlock()

	source, err := r.factory(ctx)
	if err != nil {
		return fmt.Errorf("acquire capture source: %w", err)
	}

	r.mu.Lock()
	r.state = CaptureRecording
	r.source = source
	r.buf.Reset()
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	go func() {
		defer close(done)
		chunk := make([]byte, 4096)
		for {
			n, err := source.Read(chunk)
			if n > 0 {
				r.mu.Lock()
				r.buf.Write(chunk[:n])
				r.mu.Unlock()
			}
			if err != nil {
				if err != io.EOF {
					r.log.Debug("Capture source read ended", "error", err)
				}
				return
			}
		}
	}()

	r.log.Info("Capture started")
	return nil
}

// Stop releases the source, waits for the drain goroutine, and returns the
// buffered audio. A zero-length result means nothing was captured.
func (r *Recorder) Stop() ([]byte, error) {
	r.mu.Lock()
	if r.state != CaptureRecording {
		r.mu.Unlock()
		return nil, ErrNotRecording
	}
	source := r.source
	done := r.done
	r.mu.Unlock()

	closeErr := source.Close()
	<-done

	r.mu.Lock()
	audio := make([]byte, r.buf.Len())
	copy(audio, r.buf.Bytes())
	r.buf.Reset()
	r.source = nil
	r.done = nil
	r.state = CaptureIdle
	r.mu.Unlock()

	if closeErr != nil {
		r.log.Debug("Capture source close reported error", "error", closeErr)
	}
	r.log.Info("Capture stopped", "bytes", len(audio))

	return audio, nil
}
