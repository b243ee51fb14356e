// Package bytebuffer implements the dispatch core's external ByteBuffer
// collaborator: a primitive capable of appending and consuming fixed-width
// integers plus a size query. No pack dependency supplies this contract
// (it is intentionally a thin wire-format helper, not a general protocol
// buffer), so it is backed directly by bytes.Buffer and encoding/binary.
package bytebuffer

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// ErrShortBuffer is returned when a read requires more bytes than remain.
var ErrShortBuffer = errors.New("bytebuffer: short buffer")

// order is fixed and documented: all widths are little-endian.
var order = binary.LittleEndian

// ByteBuffer is the dispatch core's wire-format collaborator.
type ByteBuffer struct {
	buf bytes.Buffer
}

// New returns an empty ByteBuffer ready for writing.
func New() *ByteBuffer {
	return &ByteBuffer{}
}

// NewFromBytes wraps existing bytes for reading.
func NewFromBytes(b []byte) *ByteBuffer {
	bb := &ByteBuffer{}
	bb.buf.Write(b)
	return bb
}

// Size returns the number of unread bytes remaining in the buffer.
func (b *ByteBuffer) Size() int {
	return b.buf.Len()
}

// Bytes returns the unread bytes remaining in the buffer.
func (b *ByteBuffer) Bytes() []byte {
	return b.buf.Bytes()
}

func (b *ByteBuffer) need(n int) error {
	if b.buf.Len() < n {
		return ErrShortBuffer
	}
	return nil
}

// WriteUint32 appends a 32-bit unsigned integer. This is the width used for
// EventType/ListenerType idents on the wire (§6).
func (b *ByteBuffer) WriteUint32(v uint32) {
	var tmp [4]byte
	order.PutUint32(tmp[:], v)
	b.buf.Write(tmp[:])
}

// ReadUint32 consumes a 32-bit unsigned integer.
func (b *ByteBuffer) ReadUint32() (uint32, error) {
	if err := b.need(4); err != nil {
		return 0, err
	}
	return order.Uint32(b.buf.Next(4)), nil
}

// WriteUint64 appends a 64-bit unsigned integer (timestamps, subjects).
func (b *ByteBuffer) WriteUint64(v uint64) {
	var tmp [8]byte
	order.PutUint64(tmp[:], v)
	b.buf.Write(tmp[:])
}

// ReadUint64 consumes a 64-bit unsigned integer.
func (b *ByteBuffer) ReadUint64() (uint64, error) {
	if err := b.need(8); err != nil {
		return 0, err
	}
	return order.Uint64(b.buf.Next(8)), nil
}

// WriteInt32 appends a signed 32-bit integer (priority).
func (b *ByteBuffer) WriteInt32(v int32) {
	b.WriteUint32(uint32(v))
}

// ReadInt32 consumes a signed 32-bit integer.
func (b *ByteBuffer) ReadInt32() (int32, error) {
	v, err := b.ReadUint32()
	return int32(v), err
}

// WriteUint16 appends a 16-bit unsigned integer.
func (b *ByteBuffer) WriteUint16(v uint16) {
	var tmp [2]byte
	order.PutUint16(tmp[:], v)
	b.buf.Write(tmp[:])
}

// ReadUint16 consumes a 16-bit unsigned integer.
func (b *ByteBuffer) ReadUint16() (uint16, error) {
	if err := b.need(2); err != nil {
		return 0, err
	}
	return order.Uint16(b.buf.Next(2)), nil
}

// WriteUint8 appends a single byte.
func (b *ByteBuffer) WriteUint8(v uint8) {
	b.buf.WriteByte(v)
}

// ReadUint8 consumes a single byte.
func (b *ByteBuffer) ReadUint8() (uint8, error) {
	if err := b.need(1); err != nil {
		return 0, err
	}
	return b.buf.Next(1)[0], nil
}

// WriteBytes appends a length-prefixed byte slice.
func (b *ByteBuffer) WriteBytes(p []byte) {
	b.WriteUint32(uint32(len(p)))
	b.buf.Write(p)
}

// ReadBytes consumes a length-prefixed byte slice.
func (b *ByteBuffer) ReadBytes() ([]byte, error) {
	n, err := b.ReadUint32()
	if err != nil {
		return nil, err
	}
	if err := b.need(int(n)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b.buf.Next(int(n)))
	return out, nil
}
