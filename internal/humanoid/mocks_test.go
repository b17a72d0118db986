// FILE: ./internal/humanoid/mocks_test.go
package humanoid

import (
	"sync"
	"testing"
	"time"

	"github.com/xkilldash9x/minke/api/schemas"
)

// epoch is the fixed starting instant of every mockClock.
var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// mockClock is a virtual clock: Sleep advances Now instantly and is recorded.
type mockClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newMockClock() *mockClock {
	return &mockClock{now: epoch}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *mockClock) elapsed() time.Duration {
	return c.Now().Sub(epoch)
}

func (c *mockClock) getSleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

// eventKind names a recorded device command.
type eventKind string

const (
	evMove      eventKind = "move"
	evMouseDown eventKind = "mouse_down"
	evMouseUp   eventKind = "mouse_up"
	evKeyDown   eventKind = "key_down"
	evKeyUp     eventKind = "key_up"
	evHeartbeat eventKind = "heartbeat"
)

// event is one command as seen by the mock device, stamped with virtual time.
type event struct {
	Kind    eventKind
	X, Y    int
	Buttons schemas.MouseButtons
	Code    schemas.KeyCode
	Mod     schemas.KeyModifier
	At      time.Duration
}

// mockHandle implements Handle over an in-memory device that records events.
//
// Mock implementations MUST NOT call back into the Humanoid: the Humanoid
// holds h.mu while emitting. Tests communicate with the mock through the
// hooks below or through atomics they own.
type mockHandle struct {
	t      *testing.T
	clock  *mockClock
	mu     sync.Mutex
	events []event
	calls  int

	// MockDo, if set, replaces the default behavior. It may call DefaultDo.
	MockDo func(call int, fn func(schemas.Device) error) error
}

func newMockHandle(t *testing.T, clk *mockClock) *mockHandle {
	return &mockHandle{t: t, clock: clk}
}

// Do checks for an override first.
func (m *mockHandle) Do(fn func(schemas.Device) error) error {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()

	if m.MockDo != nil {
		return m.MockDo(call, fn)
	}
	return m.DefaultDo(fn)
}

// DefaultDo runs fn against the recording device.
func (m *mockHandle) DefaultDo(fn func(schemas.Device) error) error {
	return fn(&recordingDevice{h: m})
}

func (m *mockHandle) record(e event) {
	e.At = m.clock.elapsed()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *mockHandle) getEvents() []event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *mockHandle) eventsOf(kinds ...eventKind) []event {
	var out []event
	for _, e := range m.getEvents() {
		for _, k := range kinds {
			if e.Kind == k {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

type recordingDevice struct {
	h *mockHandle
}

func (d *recordingDevice) MouseAbs(x, y int) error {
	d.h.record(event{Kind: evMove, X: x, Y: y})
	return nil
}

func (d *recordingDevice) MouseDown(b schemas.MouseButtons) error {
	d.h.record(event{Kind: evMouseDown, Buttons: b})
	return nil
}

func (d *recordingDevice) MouseUp() error {
	d.h.record(event{Kind: evMouseUp})
	return nil
}

func (d *recordingDevice) KeyDown(code schemas.KeyCode, mod schemas.KeyModifier) error {
	d.h.record(event{Kind: evKeyDown, Code: code, Mod: mod})
	return nil
}

func (d *recordingDevice) KeyUp() error {
	d.h.record(event{Kind: evKeyUp})
	return nil
}

func (d *recordingDevice) Heartbeat() error {
	d.h.record(event{Kind: evHeartbeat})
	return nil
}

// setupTest wires a seeded Humanoid to a fresh mock clock and handle.
func setupTest(t *testing.T, start Point, seed uint64) (*Humanoid, *mockHandle, *mockClock) {
	t.Helper()
	clk := newMockClock()
	handle := newMockHandle(t, clk)
	h := NewTestHumanoid(handle, clk, start, seed)
	return h, handle, clk
}
