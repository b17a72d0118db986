// internal/device/trace.go
package device

import (
	"io"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/minke/api/schemas"
)

// TraceRecord is one JSON line written by Trace. T is milliseconds since the
// trace started.
type TraceRecord struct {
	T     float64 `json:"t"`
	Event string  `json:"e"`
	X     *int    `json:"x,omitempty"`
	Y     *int    `json:"y,omitempty"`
	Btn   *uint8  `json:"b,omitempty"`
	Key   *uint8  `json:"k,omitempty"`
	Mod   *uint8  `json:"m,omitempty"`
	State *int    `json:"s,omitempty"`
}

// TimeSource is the part of a clock a trace needs.
type TimeSource interface {
	Now() time.Time
}

// Trace forwards every command to an inner device and logs it as JSON lines.
// A nil inner device only records.
type Trace struct {
	mu    sync.Mutex
	inner schemas.Device
	enc   *json.Encoder
	clock TimeSource
	start time.Time
	err   error
}

var _ schemas.Device = (*Trace)(nil)

func NewTrace(inner schemas.Device, w io.Writer, clk TimeSource) *Trace {
	if clk == nil {
		clk = clock.New()
	}
	return &Trace{
		inner: inner,
		enc:   json.NewEncoder(w),
		clock: clk,
		start: clk.Now(),
	}
}

func ptr[T any](v T) *T { return &v }

func (t *Trace) record(rec TraceRecord, forward func(schemas.Device) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec.T = float64(t.clock.Now().Sub(t.start)) / float64(time.Millisecond)
	if err := t.enc.Encode(rec); err != nil && t.err == nil {
		t.err = err
	}
	if t.inner == nil {
		return nil
	}
	return forward(t.inner)
}

func (t *Trace) MouseAbs(x, y int) error {
	return t.record(TraceRecord{Event: "move", X: ptr(x), Y: ptr(y)}, func(d schemas.Device) error {
		return d.MouseAbs(x, y)
	})
}

func (t *Trace) MouseDown(buttons schemas.MouseButtons) error {
	return t.record(TraceRecord{Event: "button", Btn: ptr(uint8(buttons)), State: ptr(1)}, func(d schemas.Device) error {
		return d.MouseDown(buttons)
	})
}

func (t *Trace) MouseUp() error {
	return t.record(TraceRecord{Event: "button", Btn: ptr(uint8(0)), State: ptr(0)}, func(d schemas.Device) error {
		return d.MouseUp()
	})
}

func (t *Trace) KeyDown(code schemas.KeyCode, mod schemas.KeyModifier) error {
	return t.record(TraceRecord{Event: "key", Key: ptr(uint8(code)), Mod: ptr(uint8(mod)), State: ptr(1)}, func(d schemas.Device) error {
		return d.KeyDown(code, mod)
	})
}

func (t *Trace) KeyUp() error {
	return t.record(TraceRecord{Event: "key", State: ptr(0)}, func(d schemas.Device) error {
		return d.KeyUp()
	})
}

func (t *Trace) Heartbeat() error {
	return t.record(TraceRecord{Event: "heartbeat"}, func(d schemas.Device) error {
		return d.Heartbeat()
	})
}

// Err returns the first error hit while writing the trace. Trace write
// failures never fail the command itself.
func (t *Trace) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Close closes the inner device when it can be closed.
func (t *Trace) Close() error {
	if c, ok := t.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
