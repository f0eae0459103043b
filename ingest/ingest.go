// Package ingest builds a NameDict and FriendGraph from a plain-text
// relationship file: one line per relationship, "name,friend".
//
// Lines are Unicode-normalized, stripped to the alphanumeric/underscore/
// comma alphabet the rest of the pipeline understands, and rejected
// outright on any malformed input rather than best-effort repaired: a
// corrupt line fails the whole ingest rather than silently dropping an
// edge.
package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	set3 "github.com/TomTonic/Set3"
	"golang.org/x/text/unicode/norm"

	"github.com/degreesep/degreesep/codec"
	"github.com/degreesep/degreesep/friendgraph"
	"github.com/degreesep/degreesep/namedict"
)

// ErrMalformedLine is returned (wrapped with the offending line number) when
// a line cannot be parsed into a non-empty name and a non-empty friend.
var ErrMalformedLine = errors.New("ingest: malformed line")

// Stats summarizes one ingest run, mirroring the bookkeeping the original
// loader kept while compacting the collection.
type Stats struct {
	Lines          int
	Members        int
	Relations      int
	NameMinLen     int
	NameMaxLen     int
	FriendsMin     int
	FriendsMax     int
	PopularMinName codec.Index
	PopularMaxName codec.Index
}

// builder accumulates the working graph before it is sorted and handed off
// as a FriendGraph.
type builder struct {
	dict  *namedict.NameDict
	edges []*set3.Set3[codec.Index]
	order [][]codec.Index
	stats Stats
}

func newBuilder() *builder {
	b := &builder{dict: namedict.New()}
	b.stats.NameMinLen = -1
	return b
}

func (b *builder) vertex(name string) (codec.Index, error) {
	idx, err := b.dict.Add(name)
	if err != nil {
		return codec.IndexMax, err
	}
	if int(idx) == len(b.edges) {
		b.edges = append(b.edges, set3.Empty[codec.Index]())
		b.order = append(b.order, nil)
	}
	return idx, nil
}

func (b *builder) addEdge(a, b2 codec.Index) {
	if a == b2 {
		return
	}
	if !b.edges[a].Contains(b2) {
		b.edges[a].Add(b2)
		b.order[a] = append(b.order[a], b2)
	}
	if !b.edges[b2].Contains(a) {
		b.edges[b2].Add(a)
		b.order[b2] = append(b.order[b2], a)
	}
}

// From reads a relationship file from r and returns the resulting NameDict
// and FriendGraph, plus ingest statistics. Any malformed line fails the
// entire ingest; there is no partial/best-effort result.
func From(r io.Reader) (*namedict.NameDict, *friendgraph.FriendGraph, Stats, error) {
	b := newBuilder()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := b.processLine(scanner.Text()); err != nil {
			return nil, nil, Stats{}, fmt.Errorf("%w at line %d: %w", ErrMalformedLine, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, Stats{}, err
	}

	b.stats.Lines = lineNo
	b.stats.Members = b.dict.Size()
	if b.stats.NameMinLen == -1 {
		b.stats.NameMinLen = 0
	}

	adj := b.compactAdjacency()
	graph := friendgraph.New(adj)

	return b.dict, graph, b.stats, nil
}

// processLine normalizes, cleans and parses a single "name,friend" line,
// updating the dictionary and the working adjacency set. A blank line (after
// cleaning) is rejected, matching the strict, fail-closed behavior of the
// reference loader.
func (b *builder) processLine(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("empty line")
	}

	cleaned := cleanLine(raw)
	if len(cleaned) < 3 {
		return errors.New("line too short after cleaning")
	}

	comma := strings.IndexByte(cleaned, ',')
	if comma < 0 {
		return errors.New("missing comma separator")
	}

	name := cleaned[:comma]
	friendName := cleaned[comma+1:]
	if name == "" {
		return errors.New("empty member name")
	}
	if friendName == "" {
		return errors.New("empty friend name")
	}

	b.trackNameLen(len(name))
	b.trackNameLen(len(friendName))

	self, err := b.vertex(name)
	if err != nil {
		return err
	}
	other, err := b.vertex(friendName)
	if err != nil {
		return err
	}
	b.addEdge(self, other)
	return nil
}

func (b *builder) trackNameLen(n int) {
	if b.stats.NameMinLen == -1 || n < b.stats.NameMinLen {
		b.stats.NameMinLen = n
	}
	if n > b.stats.NameMaxLen {
		b.stats.NameMaxLen = n
	}
}

// cleanLine normalizes raw to NFC and strips every byte outside the
// [A-Za-z0-9_,] alphabet the rest of the pipeline accepts.
func cleanLine(raw string) string {
	normalized := norm.NFC.String(raw)
	var sb strings.Builder
	sb.Grow(len(normalized))
	for _, r := range normalized {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == ',':
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// compactAdjacency finalizes each vertex's neighbor slice, sorted by
// descending degree (then ascending index on ties) so that BFS expansion
// favors well-connected hubs first, and records the degree-distribution
// stats (relations, min/max degree and their members) over the final,
// deduplicated adjacency sets, mirroring the original loader's compact().
func (b *builder) compactAdjacency() [][]codec.Index {
	degree := make([]int, len(b.order))
	for i, neighbors := range b.order {
		degree[i] = len(neighbors)
	}

	if len(degree) > 0 {
		minIdx, maxIdx := 0, 0
		relations := 0
		for i, d := range degree {
			relations += d
			if d < degree[minIdx] {
				minIdx = i
			}
			if d > degree[maxIdx] {
				maxIdx = i
			}
		}
		b.stats.Relations = relations
		b.stats.FriendsMin = degree[minIdx]
		b.stats.FriendsMax = degree[maxIdx]
		b.stats.PopularMinName = codec.Index(minIdx)
		b.stats.PopularMaxName = codec.Index(maxIdx)
	}

	adj := make([][]codec.Index, len(b.order))
	for i, neighbors := range b.order {
		sorted := append([]codec.Index(nil), neighbors...)
		sort.Slice(sorted, func(x, y int) bool {
			dx, dy := degree[sorted[x]], degree[sorted[y]]
			if dx != dy {
				return dx > dy
			}
			return sorted[x] < sorted[y]
		})
		adj[i] = sorted
	}
	return adj
}
