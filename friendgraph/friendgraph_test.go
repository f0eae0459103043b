package friendgraph

import (
	"testing"

	"github.com/degreesep/degreesep/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idx(vs ...int) []codec.Index {
	out := make([]codec.Index, len(vs))
	for i, v := range vs {
		out[i] = codec.Index(v)
	}
	return out
}

func TestAreFriendsAndNeighbors(t *testing.T) {
	t.Parallel()
	g := New([][]codec.Index{
		idx(2, 1),
		idx(0),
		idx(0, 3),
		idx(2),
	})

	assert.True(t, g.AreFriends(0, 1))
	assert.True(t, g.AreFriends(0, 2))
	assert.False(t, g.AreFriends(0, 3))
	assert.False(t, g.AreFriends(99, 0))
	assert.Equal(t, idx(2, 1), g.Neighbors(0))
	assert.Nil(t, g.Neighbors(99))
}

func TestCompactFourVertexHubFirst(t *testing.T) {
	t.Parallel()
	g := New([][]codec.Index{
		idx(2, 1),
		idx(0),
		idx(0, 3),
		idx(2),
	})
	raw := g.Compact()
	assert.Equal(t, 4+4*8+(4+2*4)+(4+1*4)+(4+2*4)+(4+1*4), len(raw))

	loaded := New(nil)
	n := loaded.Load(raw)
	require.Equal(t, 4, n)
	assert.Equal(t, raw, loaded.Compact())
	assert.Equal(t, idx(2, 1), loaded.Neighbors(0))
	assert.Equal(t, idx(0, 3), loaded.Neighbors(2))
}

func TestLoadRejectsSelfLoop(t *testing.T) {
	t.Parallel()
	g := New([][]codec.Index{idx(0)})
	raw := g.Compact()

	loaded := New(nil)
	assert.Equal(t, 0, loaded.Load(raw))
}

func TestLoadRejectsOutOfRangeNeighbor(t *testing.T) {
	t.Parallel()
	g := New([][]codec.Index{idx(5)})
	raw := g.Compact()

	loaded := New(nil)
	assert.Equal(t, 0, loaded.Load(raw))
}

func TestLoadRejectsDuplicateNeighbor(t *testing.T) {
	t.Parallel()
	raw := make([]byte, 4+1*8+(4+2*4))
	codec.PutU32(raw, 1)
	codec.PutU64(raw[4:], uint64(4+1*8))
	block := raw[4+1*8:]
	codec.PutU32(block, 2)
	codec.PutU32(block[4:], 0)
	codec.PutU32(block[8:], 0)

	loaded := New(nil)
	assert.Equal(t, 0, loaded.Load(raw))
}

func TestLoadRejectsOffsetInconsistency(t *testing.T) {
	t.Parallel()
	g := New([][]codec.Index{idx(1), idx(0)})
	raw := g.Compact()
	// corrupt the second offset
	codec.PutU64(raw[4+codec.U64Size:], 9999)

	loaded := New(nil)
	assert.Equal(t, 0, loaded.Load(raw))
}

func TestEmptyGraphCompact(t *testing.T) {
	t.Parallel()
	g := New(nil)
	raw := g.Compact()
	assert.Equal(t, 4, len(raw))

	loaded := New(nil)
	assert.Equal(t, 0, loaded.Load(raw))
}
