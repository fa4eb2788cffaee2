package channel

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeConn struct {
	inbound chan []byte

	mu     sync.Mutex
	writes [][]byte
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbound: make(chan []byte, 16)}
}

func (c *fakeConn) Read(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case data, ok := <-c.inbound:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	}
}

func (c *fakeConn) Write(_ context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	c.writes = append(c.writes, copied)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.inbound)
	}
	return nil
}

func (c *fakeConn) writtenFrames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.writes))
	copy(out, c.writes)
	return out
}

type fakeDialer struct {
	mu       sync.Mutex
	conns    []*fakeConn
	dialErr  error
	dialedAt []time.Time
	inFlight atomic.Int32
	overlap  atomic.Bool
}

func (d *fakeDialer) Dial(_ context.Context, _ string) (Conn, error) {
	if d.inFlight.Add(1) > 1 {
		d.overlap.Store(true)
	}
	defer d.inFlight.Add(-1)

	d.mu.Lock()
	d.dialedAt = append(d.dialedAt, time.Now())
	err := d.dialErr
	var conn *fakeConn
	if err == nil {
		conn = newFakeConn()
		d.conns = append(d.conns, conn)
	}
	d.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (d *fakeDialer) attempts() []time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]time.Time, len(d.dialedAt))
	copy(out, d.dialedAt)
	return out
}

func (d *fakeDialer) lastConn() *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.conns) == 0 {
		return nil
	}
	return d.conns[len(d.conns)-1]
}

func waitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSendBeforeRunIsRejectedLocally(t *testing.T) {
	ch, err := New(Options{Endpoint: "ws://example/ws", Dialer: &fakeDialer{}, OnFrame: func([]byte) {}})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if err := ch.Send(context.Background(), []byte(`{"text":"oi"}`)); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("Send error = %v, want ErrNotOpen", err)
	}
}

func TestHelloIsFirstFrameAfterOpen(t *testing.T) {
	dialer := &fakeDialer{}
	hello := []byte(`{"session_id":"sess-1"}`)

	ch, err := New(Options{
		Endpoint: "ws://example/ws",
		Dialer:   dialer,
		OnFrame:  func([]byte) {},
		Hello:    func() ([]byte, bool) { return hello, true },
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = ch.Run(ctx) }()

	waitFor(t, time.Second, func() bool { return ch.State() == StateOpen })

	conn := dialer.lastConn()
	waitFor(t, time.Second, func() bool { return len(conn.writtenFrames()) == 1 })
	if got := string(conn.writtenFrames()[0]); got != string(hello) {
		t.Fatalf("first frame = %s, want %s", got, hello)
	}
}

func TestFramesDispatchedInReceiptOrder(t *testing.T) {
	dialer := &fakeDialer{}

	var mu sync.Mutex
	var received []string
	ch, err := New(Options{
		Endpoint: "ws://example/ws",
		Dialer:   dialer,
		OnFrame: func(frame []byte) {
			mu.Lock()
			received = append(received, string(frame))
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = ch.Run(ctx) }()

	waitFor(t, time.Second, func() bool { return ch.State() == StateOpen })

	conn := dialer.lastConn()
	conn.inbound <- []byte("one")
	conn.inbound <- []byte("two")
	conn.inbound <- []byte("three")

	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 3
	})

	mu.Lock()
	defer mu.Unlock()
	if received[0] != "one" || received[1] != "two" || received[2] != "three" {
		t.Fatalf("received = %v", received)
	}
}

func TestSendAfterCloseIsRejectedAndNotQueued(t *testing.T) {
	dialer := &fakeDialer{}
	ch, err := New(Options{
		Endpoint:       "ws://example/ws",
		Dialer:         dialer,
		ReconnectDelay: time.Hour,
		OnFrame:        func([]byte) {},
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = ch.Run(ctx) }()

	waitFor(t, time.Second, func() bool { return ch.State() == StateOpen })
	conn := dialer.lastConn()
	_ = conn.Close()
	waitFor(t, time.Second, func() bool { return ch.State() == StateClosedPendingRetry })

	if err := ch.Send(ctx, []byte("late")); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("Send error = %v, want ErrNotOpen", err)
	}

	frames := conn.writtenFrames()
	if len(frames) != 0 {
		t.Fatalf("frames written after close: %v", frames)
	}
}

func TestSingleReconnectPendingPerClose(t *testing.T) {
	dialer := &fakeDialer{dialErr: errors.New("refused")}
	delay := 30 * time.Millisecond

	ch, err := New(Options{
		Endpoint:       "ws://example/ws",
		Dialer:         dialer,
		ReconnectDelay: delay,
		OnFrame:        func([]byte) {},
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = ch.Run(ctx) }()

	waitFor(t, 2*time.Second, func() bool { return len(dialer.attempts()) >= 4 })
	cancel()

	if dialer.overlap.Load() {
		t.Fatal("observed concurrent dial attempts")
	}

	attempts := dialer.attempts()
	for i := 1; i < 4; i++ {
		gap := attempts[i].Sub(attempts[i-1])
		if gap < delay-5*time.Millisecond {
			t.Fatalf("attempt %d fired after %v, want at least ~%v", i, gap, delay)
		}
	}
}

func TestReconnectAfterRemoteClose(t *testing.T) {
	dialer := &fakeDialer{}
	states := make(chan State, 16)

	ch, err := New(Options{
		Endpoint:       "ws://example/ws",
		Dialer:         dialer,
		ReconnectDelay: 10 * time.Millisecond,
		OnFrame:        func([]byte) {},
		OnState:        func(s State) { states <- s },
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = ch.Run(ctx) }()

	waitFor(t, time.Second, func() bool { return ch.State() == StateOpen })
	_ = dialer.lastConn().Close()
	waitFor(t, time.Second, func() bool { return len(dialer.attempts()) >= 2 && ch.State() == StateOpen })

	var seen []State
	for len(states) > 0 {
		seen = append(seen, <-states)
	}

	want := []State{StateConnecting, StateOpen, StateClosedPendingRetry, StateConnecting, StateOpen}
	if len(seen) < len(want) {
		t.Fatalf("state transitions = %v", seen)
	}
	for i, state := range want {
		if seen[i] != state {
			t.Fatalf("transition %d = %v, want %v (full: %v)", i, seen[i], state, seen)
		}
	}
}

func TestEndpointDerivation(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"http://localhost:8000", "ws://localhost:8000/ws"},
		{"http://localhost:8000/", "ws://localhost:8000/ws"},
		{"https://orlem.example.com", "wss://orlem.example.com/ws"},
		{"ws://localhost:8000", "ws://localhost:8000/ws"},
	}

	for _, tc := range cases {
		got, err := Endpoint(tc.base)
		if err != nil {
			t.Fatalf("Endpoint(%q) error: %v", tc.base, err)
		}
		if got != tc.want {
			t.Fatalf("Endpoint(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}

	if _, err := Endpoint("ftp://example.com"); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}
