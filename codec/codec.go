// Package codec implements the fixed-width little-endian integer primitives
// shared by every on-disk layout in this repository (NameDict, FriendGraph
// and the Snapshot framing that wraps them both).
//
// There are no varints and no endianness negotiation: every multi-byte field
// is exactly 4 or 8 bytes, decoded byte-wise through encoding/binary so the
// result is identical on big- and little-endian hosts alike.
package codec

import "encoding/binary"

// Index identifies a member (a graph vertex / dictionary entry).
type Index = uint32

// IndexMax is the sentinel for "invalid / unknown / unreachable".
const IndexMax Index = ^Index(0)

// U32Size and U64Size are the on-disk widths of the two integer kinds used
// throughout the compact formats.
const (
	U32Size = 4
	U64Size = 8
)

// PutU32 writes v at b[0:4] in little-endian order.
func PutU32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

// U32At reads a little-endian uint32 from b[0:4].
func U32At(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// PutU64 writes v at b[0:8] in little-endian order.
func PutU64(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}

// U64At reads a little-endian uint64 from b[0:8].
func U64At(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}
