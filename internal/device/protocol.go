// internal/device/protocol.go
package device

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/xkilldash9x/minke/api/schemas"
)

// Wire layout of a single firmware frame:
//
//	0xAA | type | b2 b3 b4 b5 b6 b7 | delay_ms (u16 LE) | 0x55
const (
	FrameLen  = 11
	FrameHead = 0xAA
	FrameTail = 0x55

	// AbsMax is the upper bound of the absolute pointer coordinate space.
	AbsMax = 32767
)

// EventType is the second byte of a frame.
type EventType uint8

const (
	EventKeyboard EventType = 0x01
	EventMouseRel EventType = 0x02
	EventMouseAbs EventType = 0x03
	EventSystem   EventType = 0x04
)

func (t EventType) String() string {
	switch t {
	case EventKeyboard:
		return "keyboard"
	case EventMouseRel:
		return "mouse_rel"
	case EventMouseAbs:
		return "mouse_abs"
	case EventSystem:
		return "system"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(t))
	}
}

// System sub-commands, carried in b2 of an EventSystem frame.
const (
	SysHeartbeat uint8 = 0xFF
	SysSetID     uint8 = 0x10
)

const (
	keyFlagPress   uint8 = 0x00
	keyFlagRelease uint8 = 0x80
)

var (
	ErrFrameLength = errors.New("device: invalid frame length")
	ErrFrameHead   = errors.New("device: missing frame head")
	ErrFrameTail   = errors.New("device: missing frame tail")
	ErrFrameType   = errors.New("device: unknown frame type")
)

// Frame is one decoded command. Payload holds b2..b7 verbatim; its meaning
// depends on Type.
type Frame struct {
	Type    EventType
	Payload [6]byte
	Delay   uint16
}

// Encode renders the frame in wire form.
func (f Frame) Encode() [FrameLen]byte {
	var b [FrameLen]byte
	b[0] = FrameHead
	b[1] = byte(f.Type)
	copy(b[2:8], f.Payload[:])
	binary.LittleEndian.PutUint16(b[8:10], f.Delay)
	b[10] = FrameTail
	return b
}

// DecodeFrame parses exactly one frame.
func DecodeFrame(b []byte) (Frame, error) {
	if len(b) != FrameLen {
		return Frame{}, fmt.Errorf("%w: got %d bytes, want %d", ErrFrameLength, len(b), FrameLen)
	}
	if b[0] != FrameHead {
		return Frame{}, fmt.Errorf("%w: 0x%02x", ErrFrameHead, b[0])
	}
	if b[FrameLen-1] != FrameTail {
		return Frame{}, fmt.Errorf("%w: 0x%02x", ErrFrameTail, b[FrameLen-1])
	}
	t := EventType(b[1])
	switch t {
	case EventKeyboard, EventMouseRel, EventMouseAbs, EventSystem:
	default:
		return Frame{}, fmt.Errorf("%w: 0x%02x", ErrFrameType, b[1])
	}
	f := Frame{Type: t, Delay: binary.LittleEndian.Uint16(b[8:10])}
	copy(f.Payload[:], b[2:8])
	return f, nil
}

// KeyFrame builds a keyboard press or release.
func KeyFrame(code schemas.KeyCode, mod schemas.KeyModifier, release bool) Frame {
	flags := keyFlagPress
	if release {
		flags = keyFlagRelease
	}
	return Frame{Type: EventKeyboard, Payload: [6]byte{byte(code), flags, byte(mod)}}
}

// MouseAbsFrame positions the pointer in the 0..AbsMax space.
func MouseAbsFrame(buttons schemas.MouseButtons, x, y uint16) Frame {
	return mouseFrame(EventMouseAbs, buttons, 0, x, y)
}

// MouseRelFrame moves the pointer by a delta. A zero delta is how the
// firmware receives bare button changes.
func MouseRelFrame(buttons schemas.MouseButtons, wheel int8, dx, dy int16) Frame {
	return mouseFrame(EventMouseRel, buttons, wheel, uint16(dx), uint16(dy))
}

func mouseFrame(t EventType, buttons schemas.MouseButtons, wheel int8, x, y uint16) Frame {
	f := Frame{Type: t}
	f.Payload[0] = byte(buttons)
	f.Payload[1] = byte(wheel)
	binary.LittleEndian.PutUint16(f.Payload[2:4], x)
	binary.LittleEndian.PutUint16(f.Payload[4:6], y)
	return f
}

// HeartbeatFrame keeps the firmware's link watchdog satisfied.
func HeartbeatFrame() Frame {
	return Frame{Type: EventSystem, Payload: [6]byte{SysHeartbeat}}
}

// SetIDFrame switches the USB identity the firmware presents.
func SetIDFrame(id uint8) Frame {
	return Frame{Type: EventSystem, Payload: [6]byte{SysSetID, id}}
}

// Key reads a keyboard payload.
func (f Frame) Key() (code schemas.KeyCode, mod schemas.KeyModifier, release bool) {
	return schemas.KeyCode(f.Payload[0]), schemas.KeyModifier(f.Payload[2]), f.Payload[1]&keyFlagRelease != 0
}

// Mouse reads a pointer payload. For absolute frames x and y are unsigned in
// practice but share the wire encoding with relative deltas.
func (f Frame) Mouse() (buttons schemas.MouseButtons, wheel int8, x, y int16) {
	return schemas.MouseButtons(f.Payload[0]),
		int8(f.Payload[1]),
		int16(binary.LittleEndian.Uint16(f.Payload[2:4])),
		int16(binary.LittleEndian.Uint16(f.Payload[4:6]))
}

// System reads a system payload.
func (f Frame) System() (cmd, data uint8) {
	return f.Payload[0], f.Payload[1]
}

// Parser reassembles frames from a byte stream and recovers from corruption
// the same way the firmware does: when the byte in tail position is wrong,
// it rescans the buffered bytes for the next head and keeps everything from
// there.
type Parser struct {
	buf [FrameLen]byte
	n   int
}

// Feed consumes one byte and reports a completed frame. Frames with a valid
// envelope but an unknown type are dropped.
func (p *Parser) Feed(c byte) (Frame, bool) {
	if p.n == 0 {
		if c == FrameHead {
			p.buf[0] = c
			p.n = 1
		}
		return Frame{}, false
	}
	if p.n < FrameLen-1 {
		p.buf[p.n] = c
		p.n++
		return Frame{}, false
	}

	if c != FrameTail {
		p.resync(c)
		return Frame{}, false
	}
	p.buf[FrameLen-1] = c
	p.n = 0
	f, err := DecodeFrame(p.buf[:])
	if err != nil {
		return Frame{}, false
	}
	return f, true
}

// Reset discards any partial frame.
func (p *Parser) Reset() {
	p.n = 0
}

func (p *Parser) resync(last byte) {
	var tmp [FrameLen]byte
	copy(tmp[:], p.buf[:FrameLen-1])
	tmp[FrameLen-1] = last
	for i := 1; i < FrameLen; i++ {
		if tmp[i] == FrameHead {
			p.n = copy(p.buf[:], tmp[i:])
			return
		}
	}
	p.n = 0
}
