package schemas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/minke/api/schemas"
)

func TestButtons(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name        string
		left, right bool
		expected    schemas.MouseButtons
		str         string
	}{
		{"None", false, false, schemas.ButtonNone, "none"},
		{"Left", true, false, schemas.ButtonLeft, "left"},
		{"Right", false, true, schemas.ButtonRight, "right"},
		{"Both", true, true, schemas.ButtonLeft | schemas.ButtonRight, "left+right"},
	}

	for _, tc := range testCases {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := schemas.Buttons(tt.left, tt.right)
			assert.Equal(t, tt.expected, b)
			assert.Equal(t, tt.str, b.String())
		})
	}
}

func TestParseKey(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		input    string
		expected schemas.KeyCode
	}{
		{"a", 0x04},
		{"Z", 0x1D},
		{"1", 0x1E},
		{"9", 0x26},
		{"0", 0x27},
		{"enter", 0x28},
		{"ESC", 0x29},
		{"backspace", 0x2A},
		{"tab", 0x2B},
		{" space ", 0x2C},
		{"f1", 0x3A},
		{"f12", 0x45},
	}

	for _, tc := range testCases {
		tt := tc
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			code, err := schemas.ParseKey(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, code)
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []string{"", "f13", "f0", "hyper", "!"} {
			_, err := schemas.ParseKey(bad)
			assert.Error(t, err, "input %q", bad)
		}
	})
}

func TestParseModifiers(t *testing.T) {
	t.Parallel()

	mod, err := schemas.ParseModifiers([]string{"ctrl", "Shift", ""})
	require.NoError(t, err)
	assert.Equal(t, schemas.ModCtrl|schemas.ModShift, mod)

	mod, err = schemas.ParseModifiers(nil)
	require.NoError(t, err)
	assert.Equal(t, schemas.ModNone, mod)

	_, err = schemas.ParseModifiers([]string{"ctrl", "meta"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "meta")
}

func TestParseButtons(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		input    string
		expected schemas.MouseButtons
		wantErr  bool
	}{
		{"", schemas.ButtonNone, false},
		{"none", schemas.ButtonNone, false},
		{"left", schemas.ButtonLeft, false},
		{"Right", schemas.ButtonRight, false},
		{"left+middle", schemas.ButtonLeft | schemas.ButtonMiddle, false},
		{" left + right ", schemas.ButtonLeft | schemas.ButtonRight, false},
		{"thumb", schemas.ButtonNone, true},
	}
	for _, tc := range testCases {
		b, err := schemas.ParseButtons(tc.input)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.input)
			continue
		}
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.expected, b, "input %q", tc.input)
	}

	// String and ParseButtons agree.
	for m := schemas.MouseButtons(0); m < 8; m++ {
		back, err := schemas.ParseButtons(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, back)
	}
}
