// internal/simulate/recorder.go
package simulate

import (
	"sync"
	"time"

	"github.com/xkilldash9x/minke/api/schemas"
)

// Kind classifies a recorded command.
type Kind string

const (
	KindMove      Kind = "move"
	KindMouseDown Kind = "mouse_down"
	KindMouseUp   Kind = "mouse_up"
	KindKeyDown   Kind = "key_down"
	KindKeyUp     Kind = "key_up"
	KindHeartbeat Kind = "heartbeat"
)

// Event is one command with its virtual timestamp.
type Event struct {
	Kind    Kind
	At      time.Duration
	X, Y    int
	Buttons schemas.MouseButtons
	Code    schemas.KeyCode
	Mod     schemas.KeyModifier
}

// Recorder is a device that keeps every command in memory.
type Recorder struct {
	mu     sync.Mutex
	clock  *VirtualClock
	events []Event
}

var _ schemas.Device = (*Recorder)(nil)

func NewRecorder(clk *VirtualClock) *Recorder {
	return &Recorder{clock: clk}
}

func (r *Recorder) add(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.At = r.clock.Elapsed()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) MouseAbs(x, y int) error {
	return r.add(Event{Kind: KindMove, X: x, Y: y})
}

func (r *Recorder) MouseDown(buttons schemas.MouseButtons) error {
	return r.add(Event{Kind: KindMouseDown, Buttons: buttons})
}

func (r *Recorder) MouseUp() error {
	return r.add(Event{Kind: KindMouseUp})
}

func (r *Recorder) KeyDown(code schemas.KeyCode, mod schemas.KeyModifier) error {
	return r.add(Event{Kind: KindKeyDown, Code: code, Mod: mod})
}

func (r *Recorder) KeyUp() error {
	return r.add(Event{Kind: KindKeyUp})
}

func (r *Recorder) Heartbeat() error {
	return r.add(Event{Kind: KindHeartbeat})
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
