package wire

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramingWord(t *testing.T) {
	buf := NewBuffer()
	buf.Begin()
	buf.DataOffset += 10 // pretend body
	require.NoError(t, buf.SizeBuffer())
	buf.End()

	// top byte is the protocol version, next the message type
	assert.Equal(t, uint8(2), buf.Data[0])
	assert.Equal(t, uint8(3), buf.Data[1])

	bodyLen := binary.BigEndian.Uint64(buf.Data[0:8]) & 0xFFFFFFFFFFFF
	assert.Equal(t, uint64(TotalHeaderSize+10-8), bodyLen)

	buf.ResetOffset()
	assert.Equal(t, TotalHeaderSize+10-8, buf.ReadMessageSize())
}

func TestWriteReadRoundTrip(t *testing.T) {
	buf := NewBuffer()
	require.NoError(t, buf.Resize(64))

	buf.WriteUint8(0xab)
	buf.WriteUint16(0xbeef)
	buf.WriteUint32(0xdeadbeef)
	buf.WriteInt64(-42)
	buf.WriteFloat64(3.5)
	buf.WriteString("ns")
	buf.WriteBytes([]byte{1, 2, 3})

	buf.ResetOffset()
	assert.Equal(t, uint8(0xab), buf.ReadUint8())
	assert.Equal(t, uint16(0xbeef), buf.ReadUint16())
	assert.Equal(t, uint32(0xdeadbeef), buf.ReadUint32())
	assert.Equal(t, int64(-42), buf.ReadInt64())
	assert.Equal(t, 3.5, buf.ReadFloat64())
	assert.Equal(t, "ns", buf.ReadString(2))
	assert.Equal(t, []byte{1, 2, 3}, buf.ReadBlob(3))
}

func TestBigEndianLayout(t *testing.T) {
	buf := NewBuffer()
	require.NoError(t, buf.Resize(8))
	buf.WriteUint32(0x01020304)
	assert.Equal(t, []byte{1, 2, 3, 4}, buf.Data[0:4])
}

func TestResizeCap(t *testing.T) {
	buf := NewBuffer()

	require.NoError(t, buf.Resize(MaxBufferSize))
	assert.Len(t, buf.Data, MaxBufferSize)

	err := buf.Resize(MaxBufferSize + 1)
	require.Error(t, err)
	var sizeErr *BufferSizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, MaxBufferSize+1, sizeErr.Size)
}

func TestPatchTimeout(t *testing.T) {
	buf := NewBuffer()
	require.NoError(t, buf.Resize(TotalHeaderSize))

	buf.PatchTimeout(1500 * time.Millisecond)
	assert.Equal(t, uint32(1500), binary.BigEndian.Uint32(buf.Data[22:26]))

	// zero timeout leaves the slot untouched
	buf.Data[22], buf.Data[23], buf.Data[24], buf.Data[25] = 9, 9, 9, 9
	buf.PatchTimeout(0)
	assert.Equal(t, []byte{9, 9, 9, 9}, buf.Data[22:26])
}

func TestPatchUint32(t *testing.T) {
	buf := NewBuffer()
	require.NoError(t, buf.Resize(12))
	buf.DataOffset = 12
	buf.PatchUint32(4, 0x0a0b0c0d)
	assert.Equal(t, []byte{0x0a, 0x0b, 0x0c, 0x0d}, buf.Data[4:8])
	assert.Equal(t, 12, buf.DataOffset)
}
