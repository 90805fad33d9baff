package bus

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()
	cause := errors.New("nack")
	err := Wrap(0x3C, "command", cause)

	var busErr *Error
	require.ErrorAs(t, err, &busErr)
	assert.Equal(t, uint16(0x3C), busErr.Addr)
	assert.Equal(t, "command", busErr.Op)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bus command at 0x3c: nack", err.Error())

	assert.NoError(t, Wrap(0x3C, "command", nil))
}

func TestRecorderCopiesAndFails(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	payload := []byte{0x00, 0xAF}
	require.NoError(t, r.Write(0x3C, payload))
	payload[1] = 0xFF

	txs := r.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, []byte{0x00, 0xAF}, txs[0].Data, "recorder keeps its own copy")

	boom := errors.New("boom")
	r.FailAt(0x70, boom)
	assert.ErrorIs(t, r.Write(0x70, []byte{0x01}), boom)
	assert.NoError(t, r.Write(0x3C, []byte{0x40}))
	assert.Len(t, r.To(0x70), 1)
	assert.Len(t, r.To(0x3C), 2)

	r.FailAt(0x70, nil)
	assert.NoError(t, r.Write(0x70, []byte{0x02}))

	r.Reset()
	assert.Empty(t, r.Transactions())
}

func TestDirectSerialises(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	port := NewDirect(r)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = port.Do(func(b Bus) error {
				// a pair written under one Do must stay adjacent
				if err := b.Write(0x3C, []byte{byte(i)}); err != nil {
					return err
				}
				return b.Write(0x3C, []byte{byte(i)})
			})
		}(i)
	}
	wg.Wait()

	txs := r.Transactions()
	require.Len(t, txs, 16)
	for i := 0; i < len(txs); i += 2 {
		assert.Equal(t, txs[i].Data, txs[i+1].Data)
	}
}
