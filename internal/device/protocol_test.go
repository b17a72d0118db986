package device

import (
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/minke/api/schemas"
)

func TestFrameEncode_WireLayout(t *testing.T) {
	testCases := []struct {
		name     string
		frame    Frame
		expected [FrameLen]byte
	}{
		{
			name:     "KeyPress",
			frame:    KeyFrame(schemas.KeyA, schemas.ModCtrl|schemas.ModShift, false),
			expected: [FrameLen]byte{0xAA, 0x01, 0x04, 0x00, 0x03, 0, 0, 0, 0, 0, 0x55},
		},
		{
			name:     "KeyRelease",
			frame:    KeyFrame(schemas.KeyNone, schemas.ModNone, true),
			expected: [FrameLen]byte{0xAA, 0x01, 0x00, 0x80, 0x00, 0, 0, 0, 0, 0, 0x55},
		},
		{
			name:     "MouseAbs",
			frame:    MouseAbsFrame(schemas.ButtonLeft, 16383, 32767),
			expected: [FrameLen]byte{0xAA, 0x03, 0x01, 0x00, 0xFF, 0x3F, 0xFF, 0x7F, 0, 0, 0x55},
		},
		{
			name:     "MouseRelNegative",
			frame:    MouseRelFrame(schemas.ButtonNone, -1, -127, 5),
			expected: [FrameLen]byte{0xAA, 0x02, 0x00, 0xFF, 0x81, 0xFF, 0x05, 0x00, 0, 0, 0x55},
		},
		{
			name:     "Heartbeat",
			frame:    HeartbeatFrame(),
			expected: [FrameLen]byte{0xAA, 0x04, 0xFF, 0, 0, 0, 0, 0, 0, 0, 0x55},
		},
		{
			name:     "SetIDWithDelay",
			frame:    Frame{Type: EventSystem, Payload: [6]byte{SysSetID, 3}, Delay: 0x0102},
			expected: [FrameLen]byte{0xAA, 0x04, 0x10, 0x03, 0, 0, 0, 0, 0x02, 0x01, 0x55},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.frame.Encode())
		})
	}
	assert.Equal(t, SetIDFrame(3).Payload, [6]byte{SysSetID, 3})
}

func TestFrameAccessors(t *testing.T) {
	code, mod, release := KeyFrame(schemas.KeyEnter, schemas.ModAlt, true).Key()
	assert.Equal(t, schemas.KeyEnter, code)
	assert.Equal(t, schemas.ModAlt, mod)
	assert.True(t, release)

	buttons, wheel, x, y := MouseRelFrame(schemas.ButtonRight, 3, -40, 127).Mouse()
	assert.Equal(t, schemas.ButtonRight, buttons)
	assert.Equal(t, int8(3), wheel)
	assert.Equal(t, int16(-40), x)
	assert.Equal(t, int16(127), y)

	cmd, data := SetIDFrame(9).System()
	assert.Equal(t, SysSetID, cmd)
	assert.Equal(t, uint8(9), data)
}

func TestDecodeFrame(t *testing.T) {
	valid := MouseAbsFrame(schemas.ButtonMiddle, 100, 200)
	wire := valid.Encode()

	t.Run("RoundTrip", func(t *testing.T) {
		f, err := DecodeFrame(wire[:])
		require.NoError(t, err)
		assert.Equal(t, valid, f)
	})

	t.Run("Errors", func(t *testing.T) {
		badHead := wire
		badHead[0] = 0xAB
		badTail := wire
		badTail[FrameLen-1] = 0x00
		badType := wire
		badType[1] = 0x07

		testCases := []struct {
			name string
			in   []byte
			err  error
		}{
			{"Short", wire[:FrameLen-1], ErrFrameLength},
			{"Long", append(wire[:], 0x55), ErrFrameLength},
			{"Empty", nil, ErrFrameLength},
			{"Head", badHead[:], ErrFrameHead},
			{"Tail", badTail[:], ErrFrameTail},
			{"Type", badType[:], ErrFrameType},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := DecodeFrame(tc.in)
				assert.ErrorIs(t, err, tc.err)
			})
		}
	})
}

func feedAll(p *Parser, stream []byte) []Frame {
	var out []Frame
	for _, c := range stream {
		if f, ok := p.Feed(c); ok {
			out = append(out, f)
		}
	}
	return out
}

func TestParser(t *testing.T) {
	a := KeyFrame(schemas.KeyA, schemas.ModNone, false)
	b := MouseAbsFrame(schemas.ButtonNone, 1000, 2000)
	wa, wb := a.Encode(), b.Encode()

	t.Run("BackToBack", func(t *testing.T) {
		var p Parser
		stream := append(append([]byte{}, wa[:]...), wb[:]...)
		assert.Equal(t, []Frame{a, b}, feedAll(&p, stream))
	})

	t.Run("LeadingNoise", func(t *testing.T) {
		var p Parser
		stream := append([]byte{0x00, 0x55, 0x13}, wa[:]...)
		assert.Equal(t, []Frame{a}, feedAll(&p, stream))
	})

	t.Run("TruncatedFrameRecovers", func(t *testing.T) {
		// The first frame loses its last four bytes; the next head sits
		// inside the window and is picked up by the rescan.
		var p Parser
		stream := append(append([]byte{}, wa[:7]...), wb[:]...)
		assert.Equal(t, []Frame{b}, feedAll(&p, stream))
	})

	t.Run("UnknownTypeDropped", func(t *testing.T) {
		var p Parser
		bad := wa
		bad[1] = 0x09
		stream := append(append([]byte{}, bad[:]...), wb[:]...)
		assert.Equal(t, []Frame{b}, feedAll(&p, stream))
	})

	t.Run("Reset", func(t *testing.T) {
		var p Parser
		assert.Empty(t, feedAll(&p, wa[:5]))
		p.Reset()
		assert.Equal(t, []Frame{b}, feedAll(&p, wb[:]))
	})
}

// FuzzParser checks that arbitrary noise around a well-formed frame never
// panics the parser and that a frame preceded by a clean boundary is always
// recovered.
func FuzzParser(f *testing.F) {
	seed := HeartbeatFrame().Encode()
	f.Add(seed[:])
	f.Add([]byte{0xAA, 0xAA, 0x55, 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		c := fuzz.NewConsumer(data)
		noise, err := c.GetBytes()
		if err != nil {
			return
		}
		var frame Frame
		if err := c.GenerateStruct(&frame); err != nil {
			return
		}
		frame.Type = EventType(1 + uint8(frame.Type)%4)

		var p Parser
		feedAll(&p, noise)
		p.Reset()

		wire := frame.Encode()
		got := feedAll(&p, wire[:])
		require.Len(t, got, 1)
		assert.Equal(t, frame, got[0])

		decoded, err := DecodeFrame(wire[:])
		require.NoError(t, err)
		assert.Equal(t, frame, decoded)
	})
}
