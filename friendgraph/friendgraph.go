// Package friendgraph implements the compact, CSR-style adjacency structure
// that backs the social graph, along with its bit-exact binary codec.
//
// Each vertex's adjacency list is kept sorted by descending global degree
// (ascending index on ties) so that BFS expansion from any vertex visits
// hub neighbors first; bibfs expands neighbors in exactly this order.
package friendgraph

import "github.com/degreesep/degreesep/codec"

// FriendGraph is an immutable-once-built adjacency structure indexed by
// member index.
type FriendGraph struct {
	adj [][]codec.Index
}

// New wraps adj (already built and ordered by the caller, typically
// ingest.From) as a FriendGraph. adj is taken by reference, not copied.
func New(adj [][]codec.Index) *FriendGraph {
	return &FriendGraph{adj: adj}
}

// Size returns the number of vertices (N).
func (g *FriendGraph) Size() int {
	return len(g.adj)
}

// AreFriends reports whether b appears in a's adjacency list. Both indices
// must be in range; out-of-range indices report false rather than panicking.
func (g *FriendGraph) AreFriends(a, b codec.Index) bool {
	if int(a) >= len(g.adj) || int(b) >= len(g.adj) {
		return false
	}
	for _, n := range g.adj[a] {
		if n == b {
			return true
		}
	}
	return false
}

// Neighbors returns a read-only view of v's adjacency list, in the
// precomputed descending-degree order. The caller must not mutate it.
func (g *FriendGraph) Neighbors(v codec.Index) []codec.Index {
	if int(v) >= len(g.adj) {
		return nil
	}
	return g.adj[v]
}

// neededBytes returns the exact size of Compact's output:
//
//	u32 (N) + N*u64 (offset table) + sum over vertices of (u32 degree + degree*u32 neighbors)
func (g *FriendGraph) neededBytes() int {
	total := codec.U32Size + len(g.adj)*codec.U64Size
	for _, n := range g.adj {
		total += codec.U32Size + len(n)*codec.U32Size
	}
	return total
}

// Compact serializes the graph to its canonical byte form:
//
//	offset  size     contents
//	0       u32      N
//	4       N*u64    absolute offsets of each adjacency block within this blob
//	4+8N    ...      adjacency blocks: [u32 degree][degree*u32 neighbors]
func (g *FriendGraph) Compact() []byte {
	n := len(g.adj)
	out := make([]byte, g.neededBytes())
	codec.PutU32(out, uint32(n))

	offsetTable := out[codec.U32Size:]
	base := codec.U32Size + n*codec.U64Size
	pos := base
	for i, neighbors := range g.adj {
		codec.PutU64(offsetTable[i*codec.U64Size:], uint64(pos))

		codec.PutU32(out[pos:], uint32(len(neighbors)))
		block := out[pos+codec.U32Size:]
		for j, nb := range neighbors {
			codec.PutU32(block[j*codec.U32Size:], nb)
		}
		pos += codec.U32Size + len(neighbors)*codec.U32Size
	}
	return out
}

// Load parses raw as a canonical FriendGraph blob, replacing the receiver's
// contents. It returns the number of vertices on success, or 0 (leaving the
// graph empty) if raw fails any validation check.
func (g *FriendGraph) Load(raw []byte) int {
	g.adj = nil
	if len(raw) < codec.U32Size {
		return 0
	}
	n := int(codec.U32At(raw))
	headerSize := codec.U32Size + n*codec.U64Size
	if len(raw) < headerSize {
		return 0
	}

	offsets := make([]uint64, n)
	for i := 0; i < n; i++ {
		offsets[i] = codec.U64At(raw[codec.U32Size+i*codec.U64Size:])
	}
	if n > 0 && offsets[0] != uint64(headerSize) {
		return 0
	}

	adj := make([][]codec.Index, n)
	pos := uint64(headerSize)
	for i := 0; i < n; i++ {
		if offsets[i] != pos {
			return 0
		}
		if pos+uint64(codec.U32Size) > uint64(len(raw)) {
			return 0
		}
		degree := codec.U32At(raw[pos:])
		pos += uint64(codec.U32Size)
		blockEnd := pos + uint64(degree)*uint64(codec.U32Size)
		if blockEnd > uint64(len(raw)) {
			return 0
		}

		neighbors := make([]codec.Index, degree)
		seen := make(map[codec.Index]struct{}, degree)
		for j := uint32(0); j < degree; j++ {
			nb := codec.U32At(raw[pos:])
			pos += uint64(codec.U32Size)
			if int(nb) >= n || nb == codec.Index(i) {
				return 0
			}
			if _, dup := seen[nb]; dup {
				return 0
			}
			seen[nb] = struct{}{}
			neighbors[j] = nb
		}
		adj[i] = neighbors
	}
	if pos != uint64(len(raw)) {
		return 0
	}

	g.adj = adj
	return n
}
