package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBuildsDictAndGraph(t *testing.T) {
	t.Parallel()
	input := "John,Ian\nJohn,Alice\nAlice,John\nBob,Ian\n"

	dict, graph, stats, err := From(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 4, dict.Size())
	assert.Equal(t, 4, graph.Size())

	john, ok := dict.IndexOf("John")
	require.True(t, ok)
	ian, ok := dict.IndexOf("Ian")
	require.True(t, ok)
	alice, ok := dict.IndexOf("Alice")
	require.True(t, ok)
	bob, ok := dict.IndexOf("Bob")
	require.True(t, ok)

	assert.True(t, graph.AreFriends(john, ian))
	assert.True(t, graph.AreFriends(ian, john))
	assert.True(t, graph.AreFriends(john, alice))
	assert.True(t, graph.AreFriends(ian, bob))
	assert.False(t, graph.AreFriends(alice, bob))

	assert.Equal(t, 4, stats.Lines)
	assert.Equal(t, 4, stats.Members)
}

func TestFromHubFirstOrdering(t *testing.T) {
	t.Parallel()
	// John collects three friends; Ian and Alice are also friends with each
	// other, so both have degree 2 and Bob degree 1. Each adjacency list
	// puts the highest-degree neighbor first, ties broken by ascending index.
	input := "John,Ian\nJohn,Alice\nJohn,Bob\nIan,Alice\n"
	dict, graph, _, err := From(strings.NewReader(input))
	require.NoError(t, err)

	john, _ := dict.IndexOf("John")
	ian, _ := dict.IndexOf("Ian")
	alice, _ := dict.IndexOf("Alice")
	bob, _ := dict.IndexOf("Bob")

	neighbors := graph.Neighbors(john)
	require.Len(t, neighbors, 3)
	assert.Equal(t, ian, neighbors[0])
	assert.Equal(t, alice, neighbors[1])
	assert.Equal(t, bob, neighbors[2])

	ianNeighbors := graph.Neighbors(ian)
	require.Len(t, ianNeighbors, 2)
	assert.Equal(t, john, ianNeighbors[0])
	assert.Equal(t, alice, ianNeighbors[1])
}

func TestFromRejectsEmptyLine(t *testing.T) {
	t.Parallel()
	_, _, _, err := From(strings.NewReader("John,Ian\n\nAlice,Bob\n"))
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestFromRejectsMissingComma(t *testing.T) {
	t.Parallel()
	_, _, _, err := From(strings.NewReader("JustAName\n"))
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestFromRejectsEmptyMemberName(t *testing.T) {
	t.Parallel()
	_, _, _, err := From(strings.NewReader(",Ian\n"))
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestFromRejectsTrailingEmptyFriend(t *testing.T) {
	t.Parallel()
	_, _, _, err := From(strings.NewReader("John,\n"))
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestFromStripsPunctuation(t *testing.T) {
	t.Parallel()
	dict, _, _, err := From(strings.NewReader("John! ,Ian?.\n"))
	require.NoError(t, err)
	_, ok := dict.IndexOf("John")
	assert.True(t, ok)
	_, ok = dict.IndexOf("Ian")
	assert.True(t, ok)
}

func TestFromDeduplicatesRepeatedEdge(t *testing.T) {
	t.Parallel()
	dict, graph, _, err := From(strings.NewReader("John,Ian\nJohn,Ian\nJohn,Ian\n"))
	require.NoError(t, err)
	john, _ := dict.IndexOf("John")
	assert.Len(t, graph.Neighbors(john), 1)
}

func TestFromIgnoresSelfEdge(t *testing.T) {
	t.Parallel()
	dict, graph, _, err := From(strings.NewReader("John,John\nJohn,Ian\n"))
	require.NoError(t, err)
	john, _ := dict.IndexOf("John")
	neighbors := graph.Neighbors(john)
	assert.Len(t, neighbors, 1)
}

// TestFromComputesDegreeStats checks the degree-distribution side channel
// against the final, deduplicated adjacency rather than a running per-line
// count: John collects three distinct friends, everyone else collects one.
func TestFromComputesDegreeStats(t *testing.T) {
	t.Parallel()
	dict, _, stats, err := From(strings.NewReader("John,Ian\nJohn,Alice\nJohn,Bob\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FriendsMin)
	assert.Equal(t, 3, stats.FriendsMax)
	assert.Equal(t, 6, stats.Relations) // 3 edges, counted from both endpoints

	john, _ := dict.IndexOf("John")
	assert.Equal(t, john, stats.PopularMaxName)
}
