// Package bibfs implements concurrent bidirectional breadth-first search
// over a FriendGraph: two searchers race from each endpoint toward each
// other, and the first meeting point determines the shortest distance.
//
// Each searcher owns its own per-vertex level map and reads the other's;
// a shared mutex guards the handful of writes (the two "done" flags and
// the winning searcher's reported distance) that must not race.
package bibfs

import (
	"sync"
	"sync/atomic"

	"github.com/degreesep/degreesep/codec"
	"github.com/degreesep/degreesep/friendgraph"
)

// unvisited is the sentinel level-map value meaning "not yet reached by
// this searcher."
const unvisited = int64(-1)

// levels records, per vertex, the BFS edge-distance from one searcher's
// start vertex. It is written by exactly one goroutine (the owning
// searcher) and read by both.
type levels []atomic.Int64

func newLevels(n int) levels {
	lv := make(levels, n)
	// atomic.Int64's zero value is 0, a valid level, so every slot must be
	// reset to the unvisited sentinel explicitly.
	for i := range lv {
		lv[i].Store(unvisited)
	}
	return lv
}

func (lv levels) at(v codec.Index) (int64, bool) {
	val := lv[v].Load()
	return val, val != unvisited
}

// claim marks v as visited at level if it has not already been visited by
// this searcher, and reports whether this call won the claim.
func (lv levels) claim(v codec.Index, level int64) bool {
	return lv[v].CompareAndSwap(unvisited, level)
}

// searcher is one of the two concurrent BFS walks of a single query.
type searcher struct {
	graph  *friendgraph.FriendGraph
	start  codec.Index
	target codec.Index

	mine   levels
	others levels

	myDone     *atomic.Bool
	othersDone *atomic.Bool
	commit     *sync.Mutex

	distance codec.Index
	common   codec.Index
}

// run walks the frontier outward from s.start, checking on every step for
// either reaching s.target directly or for a vertex already visited by
// both searchers.
func (s *searcher) run(wg *sync.WaitGroup) {
	defer wg.Done()
	defer s.myDone.Store(true)

	queue := make([]codec.Index, 0, 64)
	s.mine.claim(s.start, 0)
	queue = append(queue, s.start)

	for len(queue) > 0 && !s.myDone.Load() {
		if v, edges, found := s.commonVertex(); found {
			s.finish(v, edges)
			return
		}

		next := queue[0]
		queue = queue[1:]

		if next == s.target {
			level, _ := s.mine.at(next)
			s.finish(s.target, level)
			return
		}

		if s.othersDone.Load() {
			continue
		}

		level, _ := s.mine.at(next)
		for _, neighbor := range s.graph.Neighbors(next) {
			if s.mine.claim(neighbor, level+1) {
				queue = append(queue, neighbor)
			}
		}
	}
}

// commonVertex scans for any vertex, other than the two endpoints, that
// both searchers have visited. It mirrors the reference engine's linear
// scan over the full visited set on every step.
func (s *searcher) commonVertex() (codec.Index, int64, bool) {
	for v := codec.Index(0); v < codec.Index(len(s.mine)); v++ {
		if v == s.start || v == s.target {
			continue
		}
		myLevel, myOK := s.mine.at(v)
		if !myOK {
			continue
		}
		otherLevel, otherOK := s.others.at(v)
		if !otherOK {
			continue
		}
		return v, myLevel + otherLevel, true
	}
	return 0, 0, false
}

// finish records this searcher's result under the shared commit mutex and
// stops both searchers. edges is the number of graph edges on the path
// found; the recorded distance converts that to this system's convention
// of counting intermediaries rather than edges.
func (s *searcher) finish(common codec.Index, edges int64) {
	s.commit.Lock()
	defer s.commit.Unlock()
	if s.distance != codec.IndexMax {
		return
	}
	s.myDone.Store(true)
	s.othersDone.Store(true)
	s.common = common
	if edges <= 0 {
		s.distance = 0
		return
	}
	s.distance = codec.Index(edges - 1)
}

// Search runs bidirectional BFS between s and t and returns the shortest
// distance (in intermediaries, not edges) plus the vertex where the two
// searches met, or ok == false if s and t are not connected.
//
// Callers are expected to have already handled the s == t and direct-friend
// fast paths; Search always performs a full bidirectional walk.
func Search(graph *friendgraph.FriendGraph, s, t codec.Index) (distance codec.Index, common codec.Index, ok bool) {
	n := graph.Size()
	levelsA := newLevels(n)
	levelsB := newLevels(n)

	var doneA, doneB atomic.Bool
	var mu sync.Mutex

	searcherA := &searcher{
		graph: graph, start: s, target: t,
		mine: levelsA, others: levelsB,
		myDone: &doneA, othersDone: &doneB, commit: &mu,
		distance: codec.IndexMax, common: codec.IndexMax,
	}
	searcherB := &searcher{
		graph: graph, start: t, target: s,
		mine: levelsB, others: levelsA,
		myDone: &doneB, othersDone: &doneA, commit: &mu,
		distance: codec.IndexMax, common: codec.IndexMax,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go searcherA.run(&wg)
	go searcherB.run(&wg)
	wg.Wait()

	if searcherA.distance == codec.IndexMax && searcherB.distance == codec.IndexMax {
		return codec.IndexMax, codec.IndexMax, false
	}
	if searcherA.distance <= searcherB.distance {
		return searcherA.distance, searcherA.common, true
	}
	return searcherB.distance, searcherB.common, true
}
