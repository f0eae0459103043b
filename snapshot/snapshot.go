// Package snapshot implements the on-disk framing that wraps a NameDict
// blob and a FriendGraph blob into one self-describing file, plus two ways
// to read it back: a plain read-everything-into-memory path (Load) and a
// zero-copy, read-only memory-mapped path (Open).
package snapshot

import (
	"errors"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/degreesep/degreesep/codec"
	"github.com/degreesep/degreesep/friendgraph"
	"github.com/degreesep/degreesep/namedict"
)

// headerSize is the fixed-size prefix: u32 N, u64 L_dict, u64 L_graph.
const headerSize = codec.U32Size + codec.U64Size + codec.U64Size

// ErrCorrupt is returned when a snapshot's headers or embedded blobs fail
// validation.
var ErrCorrupt = errors.New("snapshot: corrupt or mismatched file")

// Store writes dict and graph into a single framed file at path:
//
//	offset  size   contents
//	0       u32    N
//	4       u64    L_dict
//	12      u64    L_graph
//	20      L_dict   NameDict blob
//	20+L_dict L_graph FriendGraph blob
func Store(path string, dict *namedict.NameDict, graph *friendgraph.FriendGraph) error {
	dictBlob := dict.Compact()
	graphBlob := graph.Compact()

	buf := make([]byte, headerSize+len(dictBlob)+len(graphBlob))
	codec.PutU32(buf, uint32(dict.Size()))
	codec.PutU64(buf[codec.U32Size:], uint64(len(dictBlob)))
	codec.PutU64(buf[codec.U32Size+codec.U64Size:], uint64(len(graphBlob)))
	copy(buf[headerSize:], dictBlob)
	copy(buf[headerSize+len(dictBlob):], graphBlob)

	return os.WriteFile(path, buf, 0o644)
}

// Load reads the file at path in full and parses it into a fresh NameDict
// and FriendGraph.
func Load(path string) (*namedict.NameDict, *friendgraph.FriendGraph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return parse(raw)
}

// Handle owns a read-only memory mapping produced by Open. NameDict.Load and
// FriendGraph.Load decode into memory of their own, so the NameDict and
// FriendGraph returned by Open do not refer to the mapping and stay usable
// after Close, which releases the mapping and the file descriptor.
type Handle struct {
	file *os.File
	mm   mmap.MMap
}

// Open memory-maps path read-only and parses the snapshot directly out of
// the mapping, avoiding the intermediate copy that Load performs.
func Open(path string) (*Handle, *namedict.NameDict, *friendgraph.FriendGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, nil, nil, err
	}

	dict, graph, err := parse([]byte(m))
	if err != nil {
		m.Unmap()
		f.Close()
		return nil, nil, nil, err
	}

	return &Handle{file: f, mm: m}, dict, graph, nil
}

// Close releases the memory mapping and the underlying file descriptor.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}
	unmapErr := h.mm.Unmap()
	closeErr := h.file.Close()
	if unmapErr != nil {
		return unmapErr
	}
	return closeErr
}

// parse validates the header and hands each blob to its owner's Load.
func parse(raw []byte) (*namedict.NameDict, *friendgraph.FriendGraph, error) {
	if len(raw) < headerSize {
		return nil, nil, ErrCorrupt
	}

	n := codec.U32At(raw)
	lDict := codec.U64At(raw[codec.U32Size:])
	lGraph := codec.U64At(raw[codec.U32Size+codec.U64Size:])

	if uint64(len(raw)) != uint64(headerSize)+lDict+lGraph {
		return nil, nil, ErrCorrupt
	}

	dictBlob := raw[headerSize : headerSize+int(lDict)]
	graphBlob := raw[headerSize+int(lDict) : headerSize+int(lDict)+int(lGraph)]

	dict := namedict.New()
	dictN := dict.Load(dictBlob)
	if uint32(dictN) != n {
		return nil, nil, ErrCorrupt
	}

	graph := friendgraph.New(nil)
	graphN := graph.Load(graphBlob)
	if uint32(graphN) != n {
		return nil, nil, ErrCorrupt
	}

	return dict, graph, nil
}
