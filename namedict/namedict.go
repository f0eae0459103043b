// Package namedict implements the bidirectional name<->index mapping used
// to identify members of the social graph, along with its compact,
// bit-exact binary codec.
//
// Indices are dense and assigned in first-appearance order during ingest,
// so the inverse (index -> name) side of the mapping is a plain slice
// rather than a second hash table.
package namedict

import (
	"errors"

	"github.com/degreesep/degreesep/codec"
)

// NameBytes is the fixed width of a name's on-disk slot, including the
// trailing NUL padding.
const NameBytes = 32

// ErrNameTooLong is returned by Add when a name does not fit in NameBytes-1
// ASCII bytes plus the reserved NUL terminator.
var ErrNameTooLong = errors.New("namedict: name exceeds 31 bytes")

// NameDict maps member names to dense indices and back.
type NameDict struct {
	byName  map[string]codec.Index
	byIndex []string
}

// New returns an empty NameDict.
func New() *NameDict {
	return &NameDict{byName: make(map[string]codec.Index)}
}

// Size returns the number of entries (N).
func (d *NameDict) Size() int {
	return len(d.byIndex)
}

// IndexOf returns the index assigned to name, or (IndexMax, false) if the
// name is not present.
func (d *NameDict) IndexOf(name string) (codec.Index, bool) {
	idx, ok := d.byName[name]
	if !ok {
		return codec.IndexMax, false
	}
	return idx, true
}

// NameOf returns the name assigned to index, or ("", false) if index is out
// of range.
func (d *NameDict) NameOf(index codec.Index) (string, bool) {
	if index >= codec.Index(len(d.byIndex)) {
		return "", false
	}
	return d.byIndex[index], true
}

// Add assigns name the next free index if it has not been seen before, and
// returns its index either way. Names longer than NameBytes-1 bytes are
// rejected.
func (d *NameDict) Add(name string) (codec.Index, error) {
	if idx, ok := d.byName[name]; ok {
		return idx, nil
	}
	if len(name) >= NameBytes {
		return codec.IndexMax, ErrNameTooLong
	}
	idx := codec.Index(len(d.byIndex))
	d.byIndex = append(d.byIndex, name)
	d.byName[name] = idx
	return idx, nil
}

// neededBytes returns the exact size of Compact's output.
func (d *NameDict) neededBytes() int {
	return codec.U32Size + len(d.byIndex)*(NameBytes+codec.U32Size)
}

// Compact serializes the dictionary to its canonical byte form:
//
//	offset  size                      contents
//	0       u32                       N
//	4       N * (NameBytes + u32)     [name, index] pairs in index order
func (d *NameDict) Compact() []byte {
	out := make([]byte, d.neededBytes())
	codec.PutU32(out, uint32(len(d.byIndex)))

	pos := codec.U32Size
	for i, name := range d.byIndex {
		copy(out[pos:pos+NameBytes], name)
		codec.PutU32(out[pos+NameBytes:], uint32(i))
		pos += NameBytes + codec.U32Size
	}
	return out
}

// Load parses raw as a canonical NameDict blob, replacing the receiver's
// contents. It returns the number of entries on success, or 0 (leaving the
// dictionary empty) if raw fails any validation check.
func (d *NameDict) Load(raw []byte) int {
	d.byName = make(map[string]codec.Index)
	d.byIndex = nil
	if len(raw) < codec.U32Size {
		return 0
	}
	n := codec.U32At(raw)
	entrySize := NameBytes + codec.U32Size
	expected := codec.U32Size + int(n)*entrySize
	if len(raw) != expected {
		return 0
	}

	byName := make(map[string]codec.Index, n)
	byIndex := make([]string, n)

	pos := codec.U32Size
	for i := uint32(0); i < n; i++ {
		nameField := raw[pos : pos+NameBytes]
		idx := codec.U32At(raw[pos+NameBytes:])
		if idx != i {
			return 0
		}
		name, ok := decodeASCIIName(nameField)
		if !ok {
			return 0
		}
		byIndex[i] = name
		byName[name] = i
		pos += entrySize
	}

	d.byName = byName
	d.byIndex = byIndex
	return int(n)
}

// decodeASCIIName extracts the NUL-terminated ASCII string from a
// NameBytes-wide field, validating that every byte before the terminator is
// 7-bit ASCII (0x01-0x7F) and that only NUL padding follows it.
func decodeASCIIName(field []byte) (string, bool) {
	nul := -1
	for i, b := range field {
		if b == 0 {
			nul = i
			break
		}
		if b > 127 {
			return "", false
		}
	}
	if nul == -1 {
		return "", false
	}
	for _, b := range field[nul:] {
		if b != 0 {
			return "", false
		}
	}
	return string(field[:nul]), true
}
