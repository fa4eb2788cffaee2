package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"orlem/pkg/api"
	"orlem/pkg/audio"
	"orlem/pkg/channel"
	"orlem/pkg/config"
	"orlem/pkg/panels"
	"orlem/pkg/session"
	"orlem/pkg/wire"
)

// Greeting is the opening system line shown when the meeting view starts.
const Greeting = "Orlem conectado. Vai acompanhando a reunião em silêncio; quando quiser que ele entre na conversa, chama pelo nome: \"Orlem, ...\"."

const (
	closingLine = "Reunião encerrada. Resumo final:"

	noticeNotConnected     = "Ainda não estou conectado. Tenta de novo em alguns segundos."
	noticeNoAudio          = "Não veio áudio nenhum. Tenta de novo, mais perto do microfone."
	noticeNotUnderstood    = "Não consegui entender o áudio. Tenta falar de novo, mais perto do microfone."
	noticeTranscribeFailed = "Rolou um erro técnico na transcrição. Tenta novamente em alguns segundos."
	noticeMicDenied        = "Não consegui acessar o microfone. Confere as permissões do sistema."

	uploadFileName = "audio.wav"
	speakTimeout   = 30 * time.Second
)

// Transport is the outbound side of the realtime channel. The concrete
// channel satisfies it; tests substitute fakes.
type Transport interface {
	Send(ctx context.Context, frame []byte) error
	State() channel.State
}

// Client is the meeting assistant controller: it owns the session identity,
// the realtime channel, the panel board and the capture pipeline, and
// publishes everything the UI renders as events on its feed. All state is
// held here explicitly; handlers never reach for globals.
type Client struct {
	cfg *config.Config
	log *slog.Logger

	sessions  *session.Store
	api       *api.Client
	board     *panels.Board
	recorder  *audio.Recorder
	player    *audio.Player
	channel   *channel.Channel
	transport Transport
	feed      *Feed
}

// New wires a client from configuration. The realtime channel does not
// connect until Run is called.
func New(cfg *config.Config, log *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "client")

	sessions, err := session.Open(cfg.Session.StatePath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if _, err := sessions.EnsureID(); err != nil {
		return nil, fmt.Errorf("establish session id: %w", err)
	}

	timeout := time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second
	apiClient, err := api.New(cfg.Server.BaseURL, timeout, log)
	if err != nil {
		return nil, err
	}

	sourceFactory, err := audio.NewCommandSourceFactory(cfg.Audio.RecordCommand)
	if err != nil {
		return nil, err
	}
	recorder, err := audio.NewRecorder(sourceFactory, log)
	if err != nil {
		return nil, err
	}
	player, err := audio.NewPlayer(cfg.Audio.PlayCommand, log)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		api:      apiClient,
		board:    panels.NewBoard(),
		recorder: recorder,
		player:   player,
		feed:     NewFeed(),
	}

	endpoint, err := channel.Endpoint(cfg.Server.BaseURL)
	if err != nil {
		return nil, err
	}
	ch, err := channel.New(channel.Options{
		Endpoint: endpoint,
		Hello:    c.helloFrame,
		OnFrame:  c.handleFrame,
		OnState:  c.publishChannelState,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}
	c.channel = ch
	c.transport = ch

	return c, nil
}

// Run drives the realtime channel until the context ends, then closes the
// event feed.
func (c *Client) Run(ctx context.Context) error {
	defer c.feed.Close()

	return c.channel.Run(ctx)
}

// Events subscribes to the client's UI event feed.
func (c *Client) Events(ctx context.Context, buffer int) (<-chan Event, func()) {
	return c.feed.Subscribe(ctx, buffer)
}

// SessionID returns the established session identifier.
func (c *Client) SessionID() string {
	return c.sessions.ID()
}

// Board exposes the accumulated panel lists for rendering.
func (c *Client) Board() *panels.Board {
	return c.board
}

// Recording reports whether a capture is in progress.
func (c *Client) Recording() bool {
	return c.recorder.State() == audio.CaptureRecording
}

// SendText relays a user utterance. Text asking to close the meeting is
// promoted to the end command, mirroring the backend's expectations.
func (c *Client) SendText(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	c.chatLine(ctx, RoleUser, text)

	lowered := strings.ToLower(text)
	if lowered == "end" || strings.Contains(lowered, "encerrar") {
		c.sendFrame(ctx, wire.Command(wire.ActionEnd, c.sessions.ID()))
		return
	}

	c.sendFrame(ctx, wire.TextMessage(text, c.sessions.ID()))
}

// Summarize asks the backend for a quick summary of the session.
func (c *Client) Summarize(ctx context.Context) {
	c.debugLine(ctx, "↺ Pedindo um resumo rápido para o Orlem...")
	c.sendFrame(ctx, wire.Command(wire.ActionSummarize, c.sessions.ID()))
}

// Diarize asks the backend for per-speaker attribution.
func (c *Client) Diarize(ctx context.Context) {
	c.debugLine(ctx, "👥 Pedindo diarização (por falante) para o Orlem...")
	c.sendFrame(ctx, wire.Command(wire.ActionDiarize, c.sessions.ID()))
}

// EndMeeting closes the meeting; the backend replies with a final summary.
func (c *Client) EndMeeting(ctx context.Context) {
	c.debugLine(ctx, "🛑 Encerrando reunião: o Orlem vai gerar um resumo final.")
	c.sendFrame(ctx, wire.Command(wire.ActionEnd, c.sessions.ID()))
}

// Save asks the backend to persist the meeting log.
func (c *Client) Save(ctx context.Context) {
	c.debugLine(ctx, "💾 Pedindo para salvar a reunião...")
	c.sendFrame(ctx, wire.Command(wire.ActionSave, c.sessions.ID()))
}

// ToggleCapture starts the microphone on the first call and on the second
// stops it, uploads the audio for transcription and relays the transcript
// as a normal outbound message. Every failure path surfaces one system
// line and leaves the recorder idle.
func (c *Client) ToggleCapture(ctx context.Context) {
	if c.recorder.State() == audio.CaptureIdle {
		if err := c.recorder.Start(ctx); err != nil {
			c.log.Warn("Capture start failed", "error", err)
			c.systemLine(ctx, noticeMicDenied)
			return
		}
		c.publishMicState(ctx, true)
		return
	}

	captured, err := c.recorder.Stop()
	c.publishMicState(ctx, false)
	if err != nil {
		c.log.Warn("Capture stop failed", "error", err)
		return
	}
	if len(captured) == 0 {
		c.systemLine(ctx, noticeNoAudio)
		return
	}

	transcript, err := c.api.Transcribe(ctx, captured, uploadFileName)
	if err != nil {
		c.log.Warn("Transcription failed", "error", err)
		c.systemLine(ctx, noticeTranscribeFailed)
		return
	}
	if transcript == "" {
		c.systemLine(ctx, noticeNotUnderstood)
		return
	}

	final := audio.NormalizeWakeWord(transcript)
	c.chatLine(ctx, RoleUser, final)
	c.sendFrame(ctx, wire.TextMessage(final, c.sessions.ID()))
}

// handleFrame classifies one inbound frame and dispatches it to the chat
// timeline, the panels and voice playback. It never fails: unparseable
// payloads degrade to a raw assistant line, unknown types are dropped.
func (c *Client) handleFrame(raw []byte) {
	ctx := context.Background()

	frame, ok := wire.Decode(raw)
	if !ok {
		c.chatLine(ctx, RoleOrlem, strings.TrimSpace(string(raw)))
		return
	}

	if frame.SessionID != "" {
		adopted, err := c.sessions.Adopt(frame.SessionID)
		if err != nil {
			c.log.Warn("Session adoption failed", "error", err)
		}
		if adopted {
			c.feed.Publish(ctx, Event{Type: EventSessionID, SessionID: c.sessions.ID()})
		}
	}

	answer := strings.TrimSpace(frame.Answer)

	switch frame.Type {
	case wire.TypeStatus:
		// Session adoption above is the whole effect.
	case wire.TypeInfo, wire.TypeWarn:
		if answer != "" {
			c.debugLine(ctx, answer)
		}
	case wire.TypeAnswer:
		if answer != "" {
			c.chatLine(ctx, RoleOrlem, answer)
			c.routePanels(ctx, panels.TagAnswer, answer)
			c.speak(answer)
		}
	case wire.TypeSummary:
		if answer != "" {
			c.chatLine(ctx, RoleOrlem, answer)
			c.routePanels(ctx, panels.TagSummary, answer)
		}
	case wire.TypeDiarize:
		if answer != "" {
			c.chatLine(ctx, RoleOrlem, answer)
			c.routePanels(ctx, panels.TagDiarize, answer)
		}
	case wire.TypeEndSummary:
		if answer != "" {
			c.chatLine(ctx, RoleOrlem, closingLine+"\n"+answer)
		}
	default:
		c.log.Debug("Dropping frame with unknown type", "type", frame.Type)
	}
}

// sendFrame encodes and sends one outbound frame. A closed channel yields
// exactly one user-visible notice and the frame is dropped; there is no
// retry.
func (c *Client) sendFrame(ctx context.Context, frame wire.Outbound) {
	encoded, err := frame.Encode()
	if err != nil {
		c.log.Error("Outbound frame rejected", "error", err)
		return
	}

	if err := c.transport.Send(ctx, encoded); err != nil {
		if errors.Is(err, channel.ErrNotOpen) {
			c.systemLine(ctx, noticeNotConnected)
			return
		}
		c.log.Warn("Outbound send failed", "error", err)
	}
}

func (c *Client) routePanels(ctx context.Context, tag string, text string) {
	for _, entry := range c.board.Route(tag, text) {
		c.feed.Publish(ctx, Event{
			Type:       EventPanelEntry,
			List:       entry.List,
			Text:       entry.Text,
			CountLabel: c.board.CountLabel(entry.List),
		})
	}
}

// speak requests voice playback of an answer. Best effort: failures and
// non-2xx responses are ignored, and playback runs to completion
// independently of UI state.
func (c *Client) speak(text string) {
	if !c.cfg.Audio.Speak {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), speakTimeout)
		defer cancel()

		voice, err := c.api.Speak(ctx, text)
		if err != nil || len(voice) == 0 {
			return
		}
		if err := c.player.Play(voice); err != nil {
			c.log.Debug("Voice playback failed", "error", err)
		}
	}()
}

func (c *Client) helloFrame() ([]byte, bool) {
	id := c.sessions.ID()
	if id == "" {
		return nil, false
	}

	encoded, err := wire.Hello(id).Encode()
	if err != nil {
		return nil, false
	}

	return encoded, true
}

func (c *Client) publishChannelState(state channel.State) {
	c.feed.Publish(context.Background(), Event{
		Type:         EventConnState,
		ChannelState: state,
		Connected:    state == channel.StateOpen,
	})
}

func (c *Client) publishMicState(ctx context.Context, recording bool) {
	c.feed.Publish(ctx, Event{Type: EventMicState, Recording: recording})
}

func (c *Client) chatLine(ctx context.Context, role Role, text string) {
	if text == "" {
		return
	}
	c.feed.Publish(ctx, Event{Type: EventChatLine, Role: role, Text: text})
}

// systemLine is always user visible.
func (c *Client) systemLine(ctx context.Context, text string) {
	c.chatLine(ctx, RoleSystem, text)
}

// debugLine is a system notice suppressed unless verbose-system is on.
func (c *Client) debugLine(ctx context.Context, text string) {
	if !c.cfg.UI.VerboseSystem {
		return
	}
	c.chatLine(ctx, RoleSystem, text)
}
