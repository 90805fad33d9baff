package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayArgumentsAcrossEnvelopes(t *testing.T) {
	t.Parallel()
	d := NewDisplay(0x3C)

	// contrast opcode and its argument in separate transactions
	require.NoError(t, d.Write(0x3C, []byte{0x00, 0x81}))
	require.NoError(t, d.Write(0x3C, []byte{0x00, 0x10}))
	require.NoError(t, d.Write(0x3C, []byte{0x00, 0xAF}))

	assert.Equal(t, byte(0x10), d.Contrast())
	assert.True(t, d.On())
	cmds, _ := d.Stats()
	assert.Equal(t, 2, cmds)
}

func TestDisplayWindowWraps(t *testing.T) {
	t.Parallel()
	d := NewDisplay(0x3C)

	// two columns by two pages starting at (10, page 3)
	require.NoError(t, d.Write(0x3C, []byte{0x00, 0x21, 10, 11}))
	require.NoError(t, d.Write(0x3C, []byte{0x00, 0x22, 3, 4}))
	require.NoError(t, d.Write(0x3C, []byte{0x40, 0x01, 0x02, 0x03, 0x04, 0x05}))

	frame := d.Frame()
	assert.Equal(t, byte(0x05), frame[3*128+10], "fifth byte wraps to window start")
	assert.Equal(t, byte(0x02), frame[3*128+11])
	assert.Equal(t, byte(0x03), frame[4*128+10])
	assert.Equal(t, byte(0x04), frame[4*128+11])
	assert.Zero(t, frame[3*128+12])
}

func TestDisplayFullFrame(t *testing.T) {
	t.Parallel()
	d := NewDisplay(0x3C)

	chunk := []byte{0x40}
	for i := 0; i < 16; i++ {
		chunk = append(chunk, 0xFF)
	}
	for i := 0; i < 1024/16; i++ {
		require.NoError(t, d.Write(0x3C, chunk))
	}
	assert.Equal(t, 128*64, d.Lit())
	assert.True(t, d.Pixel(127, 63))
	assert.False(t, d.Pixel(128, 0))
}

func TestDisplayRejectsForeignAddress(t *testing.T) {
	t.Parallel()
	d := NewDisplay(0x3C)
	assert.ErrorIs(t, d.Write(0x3D, []byte{0x00, 0xAF}), ErrNoDevice)
	assert.Error(t, d.Write(0x3C, []byte{0x80, 0xAF}))
}

func TestBoardRoutesByChannel(t *testing.T) {
	t.Parallel()
	b := NewBoard(0x70, 0x3C)

	err := b.Write(0x3C, []byte{0x00, 0xAF})
	assert.ErrorIs(t, err, ErrNoDevice, "no channel enabled yet")

	require.NoError(t, b.Write(0x70, []byte{1 << 5}))
	require.NoError(t, b.Write(0x3C, []byte{0x00, 0xAF}))

	for n := 0; n < Channels; n++ {
		assert.Equal(t, n == 5, b.Panel(n).On(), "channel %d", n)
	}
	assert.Equal(t, byte(0x20), b.Mask())
	assert.Equal(t, 1, b.Selects())
	assert.Nil(t, b.Panel(8))
}

func TestBoardBroadcastsToEnabledChannels(t *testing.T) {
	t.Parallel()
	b := NewBoard(0x70, 0x3C)
	require.NoError(t, b.Write(0x70, []byte{0x81}))
	require.NoError(t, b.Write(0x3C, []byte{0x00, 0xAF}))

	assert.True(t, b.Panel(0).On())
	assert.True(t, b.Panel(7).On())
	assert.False(t, b.Panel(3).On())
}

func TestBoardFailures(t *testing.T) {
	t.Parallel()
	b := NewBoard(0x70, 0x3C)

	assert.ErrorIs(t, b.Write(0x42, []byte{0x00}), ErrNoDevice)
	assert.Error(t, b.Write(0x70, []byte{0x01, 0x02}))

	boom := errors.New("panel unplugged")
	b.Panel(2).FailWith(boom)
	require.NoError(t, b.Write(0x70, []byte{1 << 2}))
	assert.ErrorIs(t, b.Write(0x3C, []byte{0x00, 0xAF}), boom)

	b.Panel(2).FailWith(nil)
	assert.NoError(t, b.Write(0x3C, []byte{0x00, 0xAF}))
}
