package protocol

import (
	"encoding/binary"
	"math"
)

// Demo payloads store numbers little-endian regardless of the recording
// host. These helpers convert between wire bytes and host values; callers
// must pass slices of at least the field width.

// Short decodes a 16-bit wire-order integer.
func Short(b []byte) int16 {
	return int16(binary.LittleEndian.Uint16(b))
}

// PutShort encodes v into b in wire order.
func PutShort(b []byte, v int16) {
	binary.LittleEndian.PutUint16(b, uint16(v))
}

// Long decodes a 32-bit wire-order integer.
func Long(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

// PutLong encodes v into b in wire order.
func PutLong(b []byte, v int32) {
	binary.LittleEndian.PutUint32(b, uint32(v))
}

// Float decodes a 32-bit wire-order IEEE 754 value. The byte order
// conversion is applied to the bit pattern, not to the number.
func Float(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// PutFloat encodes v into b in wire order.
func PutFloat(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}
