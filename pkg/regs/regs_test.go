package regs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOffset(t *testing.T) {
	testCases := []struct {
		in     string
		expect uint32
		err    bool
	}{
		{in: "led", expect: LED},
		{in: "DIR", expect: Direction},
		{in: "direction", expect: Direction},
		{in: "count", expect: ActiveCount},
		{in: "non", expect: ActiveCount},
		{in: "blink", expect: BlinkEnable},
		{in: "0x0c", expect: BlinkEnable},
		{in: "8", expect: ActiveCount},
		{in: "0x10", err: true},
		{in: "0x02", err: true},
		{in: "speed", err: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			off, err := ParseOffset(tc.in)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expect, off)
		})
	}
}

func TestOffsetsAndNames(t *testing.T) {
	require.Equal(t, []uint32{LED, Direction, ActiveCount, BlinkEnable}, Offsets())
	require.Equal(t, "count", Name(ActiveCount))
	require.Equal(t, "0x20", Name(0x20))
}

func TestSimBank(t *testing.T) {
	b := NewSimBank()
	for _, off := range Offsets() {
		require.Zero(t, b.Read32(off))
	}
	b.Write32(ActiveCount, 3)
	b.Write32(LED, 0xe0)
	require.Equal(t, uint32(3), b.Read32(ActiveCount))
	require.Equal(t, uint32(0xe0), b.Read32(LED))
	require.Zero(t, b.Read32(Direction))
}

func TestSimBankFaults(t *testing.T) {
	b := NewSimBank()
	require.Panics(t, func() { b.Read32(Span) })
	require.Panics(t, func() { b.Write32(0x06, 1) })
}
