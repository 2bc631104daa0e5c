package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Buffer holds the data buffer for one command. A Buffer is created per
// request, reused only within that request, and never shared between
// goroutines.
type Buffer struct {
	// Data is the raw backing storage. Exposed so the transport collaborator
	// can hand the finished frame to a socket without copying.
	Data []byte

	// DataOffset is the forward-only cursor. During the estimation phase it
	// accumulates sizes; during the write phase it tracks the write position.
	DataOffset int
}

// NewBuffer creates an empty command buffer with a small initial capacity.
func NewBuffer() *Buffer {
	return &Buffer{Data: make([]byte, 0, 1024)}
}

// Begin resets the cursor past the fixed header so estimation can start
// accumulating field and operation sizes.
func (b *Buffer) Begin() {
	b.DataOffset = TotalHeaderSize
}

// SizeBuffer resizes the backing storage to the estimated size accumulated
// in DataOffset.
func (b *Buffer) SizeBuffer() error {
	return b.Resize(b.DataOffset)
}

// Resize grows or shrinks the backing storage to size bytes.
// Corrupted data streams can advertise a huge length, so the size is sanity
// checked against MaxBufferSize first.
func (b *Buffer) Resize(size int) error {
	if size > MaxBufferSize {
		return NewBufferSizeError(size)
	}
	if size <= cap(b.Data) {
		b.Data = b.Data[:size]
	} else {
		next := make([]byte, size)
		copy(next, b.Data)
		b.Data = next
	}
	return nil
}

// ResetOffset rewinds the cursor to the start of the buffer.
func (b *Buffer) ResetOffset() {
	b.DataOffset = 0
}

// End writes the framing word over the first eight bytes: the body length
// with the protocol version in the top byte and the message type in the
// next. Must be called after the body has been written.
func (b *Buffer) End() {
	size := int64(b.DataOffset-8) | (CLMessageVersion << 56) | (ASMessageType << 48)
	b.ResetOffset()
	b.WriteInt64(size)
}

// PatchTimeout writes the total timeout into the fixed header slot. The
// transport calls this immediately before send, so a retried command can be
// re-sent with a refreshed deadline without re-encoding.
func (b *Buffer) PatchTimeout(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	millis := int32(timeout / time.Millisecond)
	binary.BigEndian.PutUint32(b.Data[timeoutOffset:timeoutOffset+4], uint32(millis))
}

// PatchUint32 overwrites a big-endian u32 at an absolute position without
// moving the cursor. Used to backfill length prefixes whose value is only
// known after the content is written.
func (b *Buffer) PatchUint32(pos int, v uint32) {
	binary.BigEndian.PutUint32(b.Data[pos:pos+4], v)
}

// =============================================================================
// WRITERS
// =============================================================================

// WriteUint8 writes one byte at the cursor.
func (b *Buffer) WriteUint8(v uint8) int {
	b.Data[b.DataOffset] = v
	b.DataOffset++
	return 1
}

// WriteInt8 writes one signed byte at the cursor.
func (b *Buffer) WriteInt8(v int8) int {
	return b.WriteUint8(uint8(v))
}

// WriteUint16 writes a big-endian u16 at the cursor.
func (b *Buffer) WriteUint16(v uint16) int {
	binary.BigEndian.PutUint16(b.Data[b.DataOffset:b.DataOffset+2], v)
	b.DataOffset += 2
	return 2
}

// WriteInt16 writes a big-endian i16 at the cursor.
func (b *Buffer) WriteInt16(v int16) int {
	return b.WriteUint16(uint16(v))
}

// WriteUint32 writes a big-endian u32 at the cursor.
func (b *Buffer) WriteUint32(v uint32) int {
	binary.BigEndian.PutUint32(b.Data[b.DataOffset:b.DataOffset+4], v)
	b.DataOffset += 4
	return 4
}

// WriteInt32 writes a big-endian i32 at the cursor.
func (b *Buffer) WriteInt32(v int32) int {
	return b.WriteUint32(uint32(v))
}

// WriteUint64 writes a big-endian u64 at the cursor.
func (b *Buffer) WriteUint64(v uint64) int {
	binary.BigEndian.PutUint64(b.Data[b.DataOffset:b.DataOffset+8], v)
	b.DataOffset += 8
	return 8
}

// WriteInt64 writes a big-endian i64 at the cursor.
func (b *Buffer) WriteInt64(v int64) int {
	return b.WriteUint64(uint64(v))
}

// WriteFloat32 writes a big-endian IEEE-754 single at the cursor.
func (b *Buffer) WriteFloat32(v float32) int {
	return b.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes a big-endian IEEE-754 double at the cursor.
func (b *Buffer) WriteFloat64(v float64) int {
	return b.WriteUint64(math.Float64bits(v))
}

// WriteBytes copies raw bytes at the cursor.
func (b *Buffer) WriteBytes(v []byte) int {
	copy(b.Data[b.DataOffset:], v)
	b.DataOffset += len(v)
	return len(v)
}

// WriteString copies the raw bytes of a string at the cursor.
func (b *Buffer) WriteString(v string) int {
	n := copy(b.Data[b.DataOffset:], v)
	b.DataOffset += n
	return n
}

// WriteGeoJSON writes the bin-value framing of a GeoJSON particle: three
// reserved bytes, then the JSON text.
func (b *Buffer) WriteGeoJSON(v string) int {
	b.WriteUint8(0)
	b.WriteUint8(0)
	b.WriteUint8(0)
	b.WriteString(v)
	return 3 + len(v)
}

// =============================================================================
// READERS
// =============================================================================

// Peek returns the byte at the cursor without advancing it.
func (b *Buffer) Peek() uint8 {
	return b.Data[b.DataOffset]
}

// Skip advances the cursor by count bytes.
func (b *Buffer) Skip(count int) {
	b.DataOffset += count
}

// ReadUint8 reads one byte at the cursor.
func (b *Buffer) ReadUint8() uint8 {
	v := b.Data[b.DataOffset]
	b.DataOffset++
	return v
}

// ReadUint8At reads one byte at an absolute position without moving the
// cursor.
func (b *Buffer) ReadUint8At(pos int) uint8 {
	return b.Data[pos]
}

// ReadInt8 reads one signed byte at the cursor.
func (b *Buffer) ReadInt8() int8 {
	return int8(b.ReadUint8())
}

// ReadUint16 reads a big-endian u16 at the cursor.
func (b *Buffer) ReadUint16() uint16 {
	v := binary.BigEndian.Uint16(b.Data[b.DataOffset : b.DataOffset+2])
	b.DataOffset += 2
	return v
}

// ReadInt16 reads a big-endian i16 at the cursor.
func (b *Buffer) ReadInt16() int16 {
	return int16(b.ReadUint16())
}

// ReadUint32 reads a big-endian u32 at the cursor.
func (b *Buffer) ReadUint32() uint32 {
	v := binary.BigEndian.Uint32(b.Data[b.DataOffset : b.DataOffset+4])
	b.DataOffset += 4
	return v
}

// ReadInt32 reads a big-endian i32 at the cursor.
func (b *Buffer) ReadInt32() int32 {
	return int32(b.ReadUint32())
}

// ReadUint64 reads a big-endian u64 at the cursor.
func (b *Buffer) ReadUint64() uint64 {
	v := binary.BigEndian.Uint64(b.Data[b.DataOffset : b.DataOffset+8])
	b.DataOffset += 8
	return v
}

// ReadInt64 reads a big-endian i64 at the cursor.
func (b *Buffer) ReadInt64() int64 {
	return int64(b.ReadUint64())
}

// ReadMessageSize reads a framing word at the cursor and returns the body
// length encoded in its low six bytes.
func (b *Buffer) ReadMessageSize() int {
	size := b.ReadInt64()
	return int(size & 0xFFFFFFFFFFFF)
}

// ReadFloat32 reads a big-endian IEEE-754 single at the cursor.
func (b *Buffer) ReadFloat32() float32 {
	return math.Float32frombits(b.ReadUint32())
}

// ReadFloat64 reads a big-endian IEEE-754 double at the cursor.
func (b *Buffer) ReadFloat64() float64 {
	return math.Float64frombits(b.ReadUint64())
}

// ReadString reads length bytes at the cursor as a string.
func (b *Buffer) ReadString(length int) string {
	v := string(b.Data[b.DataOffset : b.DataOffset+length])
	b.DataOffset += length
	return v
}

// ReadBlob reads length bytes at the cursor into a fresh slice.
func (b *Buffer) ReadBlob(length int) []byte {
	v := make([]byte, length)
	copy(v, b.Data[b.DataOffset:b.DataOffset+length])
	b.DataOffset += length
	return v
}

// ReadSlice returns a view of count bytes at the cursor without copying and
// without advancing. The view is only valid until the buffer is resized.
func (b *Buffer) ReadSlice(count int) []byte {
	return b.Data[b.DataOffset : b.DataOffset+count]
}

// BufferSizeError reports an attempt to grow a command buffer past
// MaxBufferSize.
type BufferSizeError struct {
	Size int
}

func (e *BufferSizeError) Error() string {
	return fmt.Sprintf("invalid size for buffer: %d (max %d)", e.Size, MaxBufferSize)
}

// NewBufferSizeError creates a new BufferSizeError.
func NewBufferSizeError(size int) *BufferSizeError {
	return &BufferSizeError{Size: size}
}
