package device

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/minke/api/schemas"
)

// fakeDevice records every call as a short string.
type fakeDevice struct {
	mu       sync.Mutex
	calls    []string
	failWith error
	closed   int
	closeErr error
}

func (d *fakeDevice) log(format string, args ...any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
	return d.failWith
}

func (d *fakeDevice) MouseAbs(x, y int) error { return d.log("move %d,%d", x, y) }
func (d *fakeDevice) MouseDown(b schemas.MouseButtons) error {
	return d.log("down %s", b)
}
func (d *fakeDevice) MouseUp() error { return d.log("up") }
func (d *fakeDevice) KeyDown(c schemas.KeyCode, m schemas.KeyModifier) error {
	return d.log("key_down 0x%02x 0x%02x", uint8(c), uint8(m))
}
func (d *fakeDevice) KeyUp() error     { return d.log("key_up") }
func (d *fakeDevice) Heartbeat() error { return d.log("heartbeat") }

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed++
	return d.closeErr
}

func (d *fakeDevice) getCalls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// fakePort is an in-memory serial link.
type fakePort struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	writeErr error
	closeErr error
	short    bool
	closed   bool
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, errors.New("port closed")
	}
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	if p.short {
		b = b[:len(b)-1]
	}
	return p.buf.Write(b)
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return p.closeErr
}

// frames decodes everything written so far.
func (p *fakePort) frames(t *testing.T) []Frame {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	raw := p.buf.Bytes()
	require.Zero(t, len(raw)%FrameLen, "partial frame on the wire")
	var out []Frame
	for i := 0; i < len(raw); i += FrameLen {
		f, err := DecodeFrame(raw[i : i+FrameLen])
		require.NoError(t, err)
		out = append(out, f)
	}
	return out
}

// stepClock is virtual time that advances only when slept on.
type stepClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *stepClock) getSleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}
