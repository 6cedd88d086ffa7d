package packetbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetDataAndHdrAlloc(t *testing.T) {
	b := New()
	require.NoError(t, b.SetData([]byte("hello")))
	require.Equal(t, 5, b.TotLen())

	hdr, ok := b.HdrAlloc(3)
	require.True(t, ok)
	require.Len(t, hdr, 3)
	hdr[0], hdr[1], hdr[2] = 0xAA, 0xBB, 0xCC
	require.Equal(t, 8, b.TotLen())
	require.Equal(t, []byte{0xAA, 0xBB, 0xCC, 'h', 'e', 'l', 'l', 'o'}, b.HdrPtr())
}

func TestHdrReduceAndDataLen(t *testing.T) {
	b := New()
	require.NoError(t, b.SetData([]byte("XY")))
	hdr, ok := b.HdrAlloc(3)
	require.True(t, ok)
	copy(hdr, []byte{1, 2, 3})

	b.HdrReduce(3)
	b.SetDataLen(b.TotLen())
	require.Equal(t, []byte("XY"), b.Data())
	require.Equal(t, []byte("XY"), b.HdrPtr())
}

func TestSetDataTooLarge(t *testing.T) {
	b := New()
	err := b.SetData(make([]byte, MaxPayloadSize+1))
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestHdrAllocOverflow(t *testing.T) {
	b := New()
	require.NoError(t, b.SetData(make([]byte, MaxPayloadSize)))
	_, ok := b.HdrAlloc(MaxHeaderSize + 1)
	require.False(t, ok)
}

func TestResetClearsAttributes(t *testing.T) {
	b := New()
	b.Pending = true
	b.Seq = 7
	require.NoError(t, b.SetData([]byte("z")))
	b.Reset()
	require.Equal(t, 0, b.TotLen())
	require.False(t, b.Pending)
	require.Equal(t, byte(0), b.Seq)
}
